package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/triage-cli/internal/classifier"
	"github.com/sells-group/triage-cli/internal/config"
	"github.com/sells-group/triage-cli/internal/triage"
	"github.com/sells-group/triage-cli/internal/workflow"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "triage-cli",
	Short: "Triage employee service requests",
	Long:  "Classifies employee service requests by keyword scoring, routes them to a destination queue, and emits auditable tickets.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// engine bundles the configured classifier, router and assembler.
type engine struct {
	Classifier *classifier.Classifier
	Router     *workflow.Router
	Assembler  *triage.Assembler
}

// newEngine builds the triage engine from configuration. A configured
// keywords path replaces the built-in keyword table.
func newEngine(c config.TriageConfig) (*engine, error) {
	table := classifier.DefaultKeywords()
	if c.KeywordsPath != "" {
		t, err := classifier.LoadKeywords(c.KeywordsPath)
		if err != nil {
			return nil, eris.Wrap(err, "engine: load keywords")
		}
		table = t
	}

	cls, err := classifier.New(table)
	if err != nil {
		return nil, eris.Wrap(err, "engine: build classifier")
	}

	opts := workflow.DefaultOptions()
	opts.ConfidenceThreshold = c.ConfidenceThreshold
	router, err := workflow.New(opts)
	if err != nil {
		return nil, eris.Wrap(err, "engine: build router")
	}

	zap.L().Debug("triage engine ready",
		zap.Int("categories", len(table.Categories)),
		zap.Float64("confidence_threshold", opts.ConfidenceThreshold),
		zap.Strings("rules", router.Rules()),
	)

	return &engine{
		Classifier: cls,
		Router:     router,
		Assembler:  triage.New(cls, router),
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
