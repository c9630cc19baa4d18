package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	buildoffer "pitch-workers/internal/workers/pitch/build-offer"
	createpitchrecord "pitch-workers/internal/workers/pitch/create-pitch-record"
	scorepitch "pitch-workers/internal/workers/pitch/score-pitch"
	sendpitchnotification "pitch-workers/internal/workers/pitch/send-pitch-notification"
	validatepitchdata "pitch-workers/internal/workers/pitch/validate-pitch-data"

	crmleadupsert "pitch-workers/internal/workers/crm/crm-lead-upsert"
	relaypitchlead "pitch-workers/internal/workers/crm/relay-pitch-lead"
	indexpitchsubmission "pitch-workers/internal/workers/data-access/index-pitch-submission"
	trackpitchconversion "pitch-workers/internal/workers/marketing/track-pitch-conversion"

	"pitch-workers/pkg/registry"
)

// workerTaskTypes are the task types worker-manager can register.
var workerTaskTypes = []string{
	validatepitchdata.TaskType,
	scorepitch.TaskType,
	buildoffer.TaskType,
	createpitchrecord.TaskType,
	indexpitchsubmission.TaskType,
	relaypitchlead.TaskType,
	crmleadupsert.TaskType,
	sendpitchnotification.TaskType,
	trackpitchconversion.TaskType,
}

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the activity registry",
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the registry documents exactly the implemented task types",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := loadRegistry(cmd)
		if err != nil {
			return err
		}
		if err := reg.Validate(workerTaskTypes); err != nil {
			return fmt.Errorf("registry validation failed: %w", err)
		}
		zapLog.Debug("registry validated", zap.Int("activities", len(reg.Activities)))
		fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
		return nil
	},
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the documented activities",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := loadRegistry(cmd)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TASK TYPE\tCATEGORY\tTIMEOUT\tRETRIES\tSTATUS\tOUTPUTS")
		for _, a := range reg.Activities {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				a.TaskType, a.Category, a.Timeout, a.Retries, a.ImplementationStatus,
				strings.Join(a.OutputSchema.Names(), ","))
		}
		return w.Flush()
	},
}

func init() {
	registryCmd.PersistentFlags().String("path", registry.DefaultPath, "path to the registry file")
	registryCmd.AddCommand(registryValidateCmd, registryListCmd)
}

func loadRegistry(cmd *cobra.Command) (*registry.ActivityRegistry, error) {
	path, _ := cmd.Flags().GetString("path")
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return reg, nil
}
