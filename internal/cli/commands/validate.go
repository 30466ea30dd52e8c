package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a chatlens configuration file without running analysis.

Checks:
  - YAML syntax
  - Grammar regex and layout validity
  - Stop-word and lexicon file readability
  - Limits, media placeholders and webhook settings`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(commandContext(cmd), configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Strict timestamps:  %t\n", cfg.Strict)
	fmt.Fprintf(out, "  Stop words:         %d\n", cfg.StopWordSet().Len())
	fmt.Fprintf(out, "  Media placeholders: %d\n", len(cfg.MediaPlaceholders))
	fmt.Fprintf(out, "  Top participants:   %d\n", cfg.TopParticipants)
	fmt.Fprintf(out, "  Top words:          %d\n", cfg.TopWords)
	if lex := cfg.Lexicon(); lex != nil {
		fmt.Fprintf(out, "  Sentiment lexicon:  %s (%d entries)\n", cfg.Sentiment.LexiconFile, len(lex))
	} else {
		fmt.Fprintf(out, "  Sentiment lexicon:  built-in\n")
	}

	fmt.Fprintf(out, "\nGrammars (in priority order):\n")
	for i, g := range cfg.CompiledGrammars() {
		origin := "built-in"
		if i < len(cfg.Grammars) {
			origin = "configured"
		}
		fmt.Fprintf(out, "  %d. [%s] %s\n", i+1, origin, g.Name)
	}

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(out, "\nWebhooks:\n")
		for _, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			fmt.Fprintf(out, "  - %s (trigger: %s, timeout: %s)\n", name, wh.Trigger, wh.Timeout)
		}
	}

	return nil
}
