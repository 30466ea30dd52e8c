package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/config"
)

// UsersOptions holds command-line options for the users command.
type UsersOptions struct {
	Config string
	Output string
}

// NewUsersCommand creates the users command.
func NewUsersCommand() *cobra.Command {
	opts := &UsersOptions{}

	cmd := &cobra.Command{
		Use:   "users <export>",
		Short: "List the participants of a chat export",
		Long: `List the values accepted by "analyze --user": Overall first, then every
participant in sorted order. System notifications are not a participant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsers(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Analysis config file (YAML)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")

	return cmd
}

func runUsers(cmd *cobra.Command, exportPath string, opts *UsersOptions) error {
	cfg, err := config.LoadOrDefault(commandContext(cmd), opts.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, result, err := loadExport(cfg, exportPath)
	if err != nil {
		return rejectInput(cmd, err)
	}

	participants := analyzer.Participants(result.Records)
	out := cmd.OutOrStdout()

	switch opts.Output {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string][]string{"participants": participants})
	case "text":
		for _, p := range participants {
			fmt.Fprintln(out, p)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}
