// pkg/registry/schema.go
package registry

import (
	"sort"
	"time"
)

const (
	StatusPlanned   = "planned"
	StatusCompleted = "completed"
	StatusDisabled  = "disabled"
)

// ActivityRegistry documents every job type the worker manager can
// register, with the process variables each one reads and writes.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID                   string         `json:"id"`
	DisplayName          string         `json:"displayName"`
	Description          string         `json:"description"`
	Category             string         `json:"category"`
	Version              string         `json:"version"`
	TaskType             string         `json:"taskType"`
	ImplementationStatus string         `json:"implementationStatus"`
	InputSchema          VariableSchema `json:"inputSchema"`
	OutputSchema         VariableSchema `json:"outputSchema"`
	ErrorCodes           []string       `json:"errorCodes"`
	Timeout              string         `json:"timeout"`
	Retries              int            `json:"retries"`
	Workflows            []string       `json:"workflows"`
	Tags                 []string       `json:"tags"`
}

// VariableSchema lists process variable names. Property bodies are
// free-form JSON schema fragments.
type VariableSchema struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// Names returns the variable names in sorted order.
func (s VariableSchema) Names() []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TimeoutDuration parses Timeout. An empty timeout yields zero.
func (a Activity) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(a.Timeout)
}

func (a Activity) Enabled() bool {
	return a.ImplementationStatus != StatusDisabled
}

func validStatus(s string) bool {
	switch s {
	case "", StatusPlanned, StatusCompleted, StatusDisabled:
		return true
	}
	return false
}
