package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/journeyman/internal/config"
)

type listOptions struct {
	jsonOutput bool
}

func newListCmd() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list <suite.yaml>...",
		Short: "List the journeys and steps declared in suite files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSuitePaths(args); err != nil {
				return err
			}
			suite, err := config.ParseSuites(args...)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return renderListJSON(cmd, suite)
			}
			return renderListTable(cmd, suite)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func renderListTable(cmd *cobra.Command, suite *config.Suite) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "JOURNEY\t#\tSTEP\tACTION\n")
	for _, j := range suite.Journeys {
		for i, step := range j.Steps {
			name := ""
			if i == 0 {
				name = j.Name
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", name, i+1, step.Name, step.Action)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d journey(s) in %s\n", len(suite.Journeys), suite.Name)
	return nil
}

type listJSONPayload struct {
	Suite    string            `json:"suite"`
	Count    int               `json:"count"`
	Journeys []listJSONJourney `json:"journeys"`
}

type listJSONJourney struct {
	Name  string         `json:"name"`
	Steps []listJSONStep `json:"steps"`
}

type listJSONStep struct {
	Name   string `json:"name"`
	Action string `json:"action"`
}

func renderListJSON(cmd *cobra.Command, suite *config.Suite) error {
	payload := listJSONPayload{
		Suite:    suite.Name,
		Count:    len(suite.Journeys),
		Journeys: make([]listJSONJourney, len(suite.Journeys)),
	}
	for i, j := range suite.Journeys {
		steps := make([]listJSONStep, len(j.Steps))
		for k, step := range j.Steps {
			steps[k] = listJSONStep{Name: step.Name, Action: step.Action}
		}
		payload.Journeys[i] = listJSONJourney{Name: j.Name, Steps: steps}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
