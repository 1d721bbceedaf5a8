package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/triage-cli/internal/classifier"
)

var keywordsOutput string

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Print the keyword table as YAML",
	Long:  "Prints the active keyword table (built-in, or loaded from triage.keywords_path) so it can be edited and fed back through config.",
	RunE: func(cmd *cobra.Command, args []string) error {
		table := classifier.DefaultKeywords()
		if cfg.Triage.KeywordsPath != "" {
			t, err := classifier.LoadKeywords(cfg.Triage.KeywordsPath)
			if err != nil {
				return err
			}
			table = t
		}

		data, err := table.Encode()
		if err != nil {
			return err
		}

		if keywordsOutput == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}

		if err := os.WriteFile(keywordsOutput, data, 0o644); err != nil {
			return eris.Wrap(err, "keywords: write file")
		}
		zap.L().Info("keyword table written", zap.String("path", keywordsOutput))
		return nil
	},
}

func init() {
	keywordsCmd.Flags().StringVar(&keywordsOutput, "output", "", "write YAML to this file instead of stdout")
	rootCmd.AddCommand(keywordsCmd)
}
