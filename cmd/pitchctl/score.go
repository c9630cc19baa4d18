package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pitch-workers/internal/pitch"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a questionnaire and print the offer",
	Long: `Reads a questionnaire from a JSON file and prints the score, the offer
and the wizard prompts as JSON.

The file holds either the form data itself or an object with "formData"
and "selectedAddOnIds", as posted to /api/pitch/preview.

Examples:
  pitchctl score --file pitch.json
  pitchctl score --file pitch.json --addon launch-plan --addon audience-build`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("file", "", "questionnaire JSON file (- for stdin)")
	f.StringSlice("addon", nil, "selected add-on id (repeatable)")
	_ = scoreCmd.MarkFlagRequired("file")
}

type scoreFile struct {
	FormData         map[string]interface{} `json:"formData"`
	SelectedAddOnIDs []string               `json:"selectedAddOnIds"`
}

func runScore(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	addOns, _ := cmd.Flags().GetStringSlice("addon")

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read questionnaire: %w", err)
	}

	in, err := parseScoreFile(data)
	if err != nil {
		return err
	}
	in.SelectedAddOnIDs = append(in.SelectedAddOnIDs, addOns...)

	q, err := pitch.FromMap(in.FormData)
	if err != nil {
		var invalid *pitch.InvalidQuestionnaireError
		if stderrors.As(err, &invalid) {
			zapLog.Warn("questionnaire incomplete", zap.Strings("fields", invalid.Fields()))
		}
		return err
	}

	assessment, err := pitch.NewEngine(links).Assess(q, in.SelectedAddOnIDs)
	if err != nil {
		return err
	}
	zapLog.Debug("scored questionnaire",
		zap.Int("total", assessment.Score.Total),
		zap.String("band", assessment.Offer.Band.String()),
	)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"score":     assessment.Score,
		"breakdown": assessment.Score.Breakdown(),
		"offer":     assessment.Offer,
		"prompts":   assessment.Prompts,
	})
}

// parseScoreFile accepts a wrapped request or bare form data.
func parseScoreFile(data []byte) (*scoreFile, error) {
	var in scoreFile
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse questionnaire: %w", err)
	}
	if in.FormData != nil {
		return &in, nil
	}
	var bare map[string]interface{}
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("parse questionnaire: %w", err)
	}
	delete(bare, "selectedAddOnIds")
	return &scoreFile{FormData: bare, SelectedAddOnIDs: in.SelectedAddOnIDs}, nil
}
