package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/config"
	"github.com/ccollicutt/chatlens/pkg/output"
	"github.com/ccollicutt/chatlens/pkg/webhook"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Config  string
	User    string
	Output  string
	Tables  []string
	Records bool
	Strict  bool
	Verbose bool
	Quiet   bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <export>",
		Short: "Analyze a chat export",
		Long: `Parse a chat export and print every aggregate table for one participant
or for the whole chat (Overall).

The export may be a .txt file (UTF-8 or UTF-16) or the .zip the app produces.
Use "-" to read from stdin.

Tables:
  ` + strings.Join(tableNames(), "\n  ") + `

Exit codes:
  0 - Analysis completed
  1 - The export could not be analyzed (empty, unrecognized or undecodable)
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Analysis config file (YAML)")
	cmd.Flags().StringVarP(&opts.User, "user", "u", "", "Restrict tables to one participant (default Overall)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringSliceVar(&opts.Tables, "tables", nil, "Compute only these tables (comma separated)")
	cmd.Flags().BoolVar(&opts.Records, "records", false, "Include the parsed record table")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Fail on the first unparseable timestamp")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show per-message sentiment rows")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no tables")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "always", "When to fire webhook (always|on_null_timestamps|never)")

	return cmd
}

func tableNames() []string {
	tables := analyzer.Tables()
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = string(t)
	}
	return names
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	exportPath := args[0]
	ctx := commandContext(cmd)

	cfg, err := config.LoadOrDefault(ctx, opts.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.Strict {
		cfg.Strict = true
	}

	tables, err := output.ParseTables(opts.Tables)
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	export, result, err := loadExport(cfg, exportPath)
	if err != nil {
		return rejectInput(cmd, err)
	}

	a := analyzer.New(cfg.AnalyzerOptions(logger)...)
	report, err := output.Build(ctx, a, result, output.BuildOptions{
		Source:         export.Source,
		Member:         export.Member,
		Encoding:       string(export.Encoding),
		Filter:         analyzer.Filter(opts.User),
		Tables:         tables,
		IncludeRecords: opts.Records,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Webhook failures are logged but don't fail the analysis
	webhook.NewClient(webhook.WithLogger(logger)).Dispatch(ctx, report, collectWebhooks(cfg, opts))

	return nil
}

// collectWebhooks merges config file webhooks with CLI webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerAlways
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
