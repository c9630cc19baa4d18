// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pitch-workers/internal/common/errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Client wraps the Zeebe gateway client for the intake API and the worker
// manager: process start, BPMN deployment and health checks, all retried on
// transient gateway failures.
type Client struct {
	client zbc.Client
	config *ClientConfig
}

type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RequestTimeout         time.Duration
	RetryConfig            *RetryConfig
}

type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  500 * time.Millisecond,
	MaxDelay:   5 * time.Second,
}

func (r *RetryConfig) backoff(attempt int) time.Duration {
	if attempt > 16 {
		return r.MaxDelay
	}
	d := r.BaseDelay << attempt
	if d <= 0 || d > r.MaxDelay {
		return r.MaxDelay
	}
	return d
}

// NewClientWithConfig dials the gateway and checks the topology before
// returning.
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config.RetryConfig == nil {
		config.RetryConfig = DefaultRetryConfig
	}
	if config.ConnectionTimeout <= 0 {
		config.ConnectionTimeout = 10 * time.Second
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         config.GatewayAddress,
		UsePlaintextConnection: config.UsePlaintextConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{client: zeebeClient, config: config}
	if err := c.HealthCheck(context.Background()); err != nil {
		zeebeClient.Close()
		return nil, fmt.Errorf("gateway %s: %w", config.GatewayAddress, err)
	}
	return c, nil
}

// GetClient returns the raw Zeebe client for job workers.
func (c *Client) GetClient() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

// withRetry runs fn with exponential backoff while the gateway reports a
// transient failure. The final error is a StandardError.
func withRetry[T any](ctx context.Context, cfg *RetryConfig, operation string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !isTransient(err) || attempt >= cfg.MaxRetries {
			return zero, mapGatewayError(err, operation, attempt+1)
		}

		select {
		case <-time.After(cfg.backoff(attempt)):
		case <-ctx.Done():
			return zero, errors.NewTimeoutError("zeebe",
				fmt.Errorf("%s cancelled after %d attempts: %w", operation, attempt+1, ctx.Err()))
		}
	}
}

// grpcCode extracts the gRPC status code. Errors that did not come from
// the gateway, or lost their status through wrapping, report codes.Unknown.
func grpcCode(err error) codes.Code {
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	return codes.Unknown
}

func isTransient(err error) bool {
	switch grpcCode(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return true
	case codes.Unknown:
		msg := strings.ToLower(err.Error())
		for _, phrase := range []string{"connection refused", "connection reset", "deadline exceeded", "timeout", "unavailable", "broken pipe"} {
			if strings.Contains(msg, phrase) {
				return true
			}
		}
	}
	return false
}

func mapGatewayError(err error, operation string, attempts int) error {
	wrapped := fmt.Errorf("zeebe %s failed after %d attempt(s): %w", operation, attempts, err)

	code := grpcCode(err)
	lower := strings.ToLower(err.Error())
	switch {
	case code == codes.DeadlineExceeded || (code == codes.Unknown && (strings.Contains(lower, "deadline exceeded") || strings.Contains(lower, "timeout"))):
		return errors.NewTimeoutError("zeebe", wrapped)
	case code == codes.NotFound || (code == codes.Unknown && strings.Contains(lower, "not found")):
		return errors.NewBusinessRuleError(wrapped.Error(), "process definition not deployed")
	case code == codes.InvalidArgument:
		return errors.NewBusinessRuleError(wrapped.Error(), "gateway rejected the request")
	case code == codes.PermissionDenied || code == codes.Unauthenticated:
		return errors.NewBusinessRuleError(wrapped.Error(), "gateway rejected the client credentials")
	default:
		return errors.NewExternalServiceError("zeebe", wrapped)
	}
}

func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

// ProcessInstance identifies a started pitch-intake instance.
type ProcessInstance struct {
	ProcessInstanceKey   int64  `json:"processInstanceKey"`
	BpmnProcessID        string `json:"bpmnProcessId"`
	ProcessDefinitionKey int64  `json:"processDefinitionKey"`
	Version              int32  `json:"version"`
}

// StartProcess creates an instance of the latest deployed version of
// processID seeded with variables.
func (c *Client) StartProcess(ctx context.Context, processID string, variables interface{}) (*ProcessInstance, error) {
	cmd, err := c.client.NewCreateInstanceCommand().
		BPMNProcessId(processID).
		LatestVersion().
		VariablesFromObject(variables)
	if err != nil {
		return nil, fmt.Errorf("encode process variables: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	resp, err := withRetry(ctx, c.config.RetryConfig, "create-instance:"+processID,
		func(ctx context.Context) (*pb.CreateProcessInstanceResponse, error) {
			return cmd.Send(ctx)
		})
	if err != nil {
		return nil, err
	}
	return &ProcessInstance{
		ProcessInstanceKey:   resp.GetProcessInstanceKey(),
		BpmnProcessID:        resp.GetBpmnProcessId(),
		ProcessDefinitionKey: resp.GetProcessDefinitionKey(),
		Version:              resp.GetVersion(),
	}, nil
}

// Deployment is one process definition created by DeployResources.
type Deployment struct {
	BpmnProcessID        string `json:"bpmnProcessId"`
	ProcessDefinitionKey int64  `json:"processDefinitionKey"`
	Version              int32  `json:"version"`
	ResourceName         string `json:"resourceName"`
}

// DeployResources deploys BPMN files. Redeploying an unchanged file keeps
// the existing version.
func (c *Client) DeployResources(ctx context.Context, paths ...string) ([]Deployment, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	resp, err := withRetry(ctx, c.config.RetryConfig, "deploy", func(ctx context.Context) (*pb.DeployResourceResponse, error) {
		cmd := c.client.NewDeployResourceCommand()
		for _, p := range paths {
			cmd = cmd.AddResourceFile(p)
		}
		return cmd.Send(ctx)
	})
	if err != nil {
		return nil, err
	}

	var out []Deployment
	for _, d := range resp.GetDeployments() {
		p := d.GetProcess()
		if p == nil {
			continue
		}
		out = append(out, Deployment{
			BpmnProcessID:        p.GetBpmnProcessId(),
			ProcessDefinitionKey: p.GetProcessDefinitionKey(),
			Version:              p.GetVersion(),
			ResourceName:         p.GetResourceName(),
		})
	}
	return out, nil
}
