// Package cli provides the command-line interface for chatlens.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/internal/cli/commands"
	"github.com/ccollicutt/chatlens/internal/logging"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// loadDotEnv loads .env from the working directory if present.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "chatlens",
		Short: "Analyze exported group chats",
		Long: `chatlens parses a messaging app's plain-text chat export into records and
computes activity statistics over them: message, word, media and link counts,
busiest participants, vocabulary and emoji frequency, monthly and daily
timelines, weekday and month activity, an activity heatmap and per-message
sentiment.

Every table can be restricted to one participant or computed Overall.

RENDERERS:
  Images are drawn by standalone binaries named chatlens-render-<name> that
  read their input on stdin.

  Renderer locations (searched in order):
    1. Same directory as the chatlens binary
    2. ~/.chatlens/renderers/
    3. Anywhere in PATH`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadDotEnv(); err != nil {
				return err
			}
			logger, err := logging.New(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			commands.SetLogger(logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")

	// Add subcommands
	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewUsersCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewWordCloudCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
