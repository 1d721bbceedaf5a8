package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/triage-cli/internal/model"
)

var (
	triageMessage    string
	triageUrgency    string
	triageDepartment string
	triageEmployee   string
	triageRequestID  string
)

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Triage a single request and print the ticket",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("triage"); err != nil {
			return err
		}

		env, err := newEngine(cfg.Triage)
		if err != nil {
			return err
		}

		req, err := env.Assembler.NewIntake(triageRequestID, triageEmployee, triageDepartment, parseUrgency(triageUrgency), triageMessage)
		if err != nil {
			return eris.Wrap(err, "triage: intake")
		}

		ticket := env.Assembler.Triage(req)

		out, err := json.MarshalIndent(ticket, "", "  ")
		if err != nil {
			return eris.Wrap(err, "triage: encode ticket")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	triageCmd.Flags().StringVar(&triageMessage, "message", "", "request message text (required)")
	triageCmd.Flags().StringVar(&triageUrgency, "urgency", string(model.UrgencyMedium), "urgency: low, medium or high")
	triageCmd.Flags().StringVar(&triageDepartment, "department", "", "requester department")
	triageCmd.Flags().StringVar(&triageEmployee, "employee", "", "requester name")
	triageCmd.Flags().StringVar(&triageRequestID, "request-id", "", "request id (generated when empty)")
	_ = triageCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(triageCmd)
}

// parseUrgency normalizes user-supplied urgency text. Validation happens in
// model.NewIntakeRequest.
func parseUrgency(s string) model.Urgency {
	return model.Urgency(strings.ToLower(strings.TrimSpace(s)))
}
