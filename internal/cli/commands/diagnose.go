package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/chat"
	"github.com/ccollicutt/chatlens/pkg/config"
	"github.com/ccollicutt/chatlens/pkg/detector"
	"github.com/ccollicutt/chatlens/pkg/ingest"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Config  string
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <export>",
		Short: "Diagnose why an export parses badly",
		Long: `Diagnose common problems with a chat export and configuration.

This command checks:
- Export file existence, archive member and text encoding
- Config file syntax and webhook settings (with --config)
- Which timestamp grammar matches and how many records it yields
- Timestamps that could not be parsed (usually day/month order)
- The split between participants and system notifications

Example:
  chatlens diagnose chat.txt
  chatlens diagnose -v --config chatlens.yaml "WhatsApp Chat.zip"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runDiagnose(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Analysis config file (YAML)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, exportPath string, opts *DiagnoseOptions) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := []DiagnosticResult{}

	// 1. Check export file existence
	result := checkExportExists(exportPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return
	}

	// 2. Decode export
	export, result := checkExportDecodable(exportPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return
	}

	// 3. Load config
	cfg, result := checkConfig(ctx, opts.Config)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return
	}

	// 4. Parse with the configured grammars
	parsed, parseResults := checkGrammar(ctx, cfg, export, opts)
	results = append(results, parseResults...)

	if parsed != nil {
		// 5. Null timestamps
		results = append(results, checkTimestamps(ctx, cfg, export, parsed))

		// 6. Senders
		results = append(results, checkSenders(parsed, opts))
	}

	// 7. Webhooks
	results = append(results, checkWebhooks(cfg, opts)...)

	printDiagnostics(w, results, opts)
}

func checkExportExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Export File",
	}
	if path == "-" {
		result.Status = "ok"
		result.Message = "Reading from stdin"
		return result
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Export not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Exports are usually named \"WhatsApp Chat with <name>.txt\" or .zip",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access export: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Export file is empty"
		result.Suggests = []string{"Re-export the chat from the app"}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkExportDecodable(path string) (*ingest.Export, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Export Encoding",
	}

	export, err := ingest.ReadFile(path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot decode export: %v", err)
		switch {
		case errors.Is(err, ingest.ErrNoChatInArchive):
			result.Suggests = []string{"The archive must contain the chat as a .txt file"}
		default:
			result.Suggests = []string{
				"Supported encodings are UTF-8 and UTF-16 (with or without BOM)",
				"Re-save the file as UTF-8",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Decoded as %s", export.Encoding)
	if export.Member != "" {
		result.Details = append(result.Details, fmt.Sprintf("Archive member: %s", export.Member))
	}
	result.Details = append(result.Details, fmt.Sprintf("Characters: %d", len([]rune(export.Text))))
	return export, result
}

func checkConfig(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config",
	}

	cfg, err := config.LoadOrDefault(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	if path == "" {
		result.Message = "No config file, using defaults"
	} else {
		result.Message = fmt.Sprintf("Loaded %s", path)
	}
	result.Details = []string{
		fmt.Sprintf("Grammars: %d configured, %d total", len(cfg.Grammars), len(cfg.CompiledGrammars())),
		fmt.Sprintf("Strict timestamps: %t", cfg.Strict),
		fmt.Sprintf("Stop words: %d", cfg.StopWordSet().Len()),
	}
	return cfg, result
}

func checkGrammar(ctx context.Context, cfg *config.Config, export *ingest.Export, opts *DiagnoseOptions) (*chat.Result, []DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Timestamp Grammar",
	}

	// Parse leniently so null timestamps are counted rather than fatal.
	parsed, err := chat.New(
		chat.WithGrammars(cfg.CompiledGrammars()...),
		chat.WithLogger(logger),
	).Parse(export.Text)
	if err != nil {
		result.Status = "error"
		result.Message = err.Error()
		var fe *chat.FormatError
		if errors.As(err, &fe) && fe.Reason == chat.ReasonNoTimestamps {
			result.Suggests = []string{
				"The export's timestamp format is not one of the known grammars",
				"Add a grammar to your config (pattern, layouts, trim)",
			}
			if sample := firstLine(export.Text); sample != "" {
				result.Details = []string{"First line:", truncate(sample, 80)}
			}
		}
		return nil, []DiagnosticResult{result}
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%s: %d records", parsed.Grammar.Name, len(parsed.Records))
	result.Details = []string{fmt.Sprintf("Pattern: %s", parsed.Grammar.PatternStr)}
	if opts.Verbose && len(parsed.Records) > 0 {
		result.Details = append(result.Details, "First record:", truncate(parsed.Records[0].Body, 80))
	}

	results := []DiagnosticResult{result}

	// Compare with detection to catch a higher-priority grammar shadowing a better one.
	d := detector.New(detector.WithGrammars(cfg.CompiledGrammars()...))
	if det := d.DetectFromText(ctx, export.Text); det.HasMatch() {
		best := det.BestMatch()
		if best.Grammar.Name != parsed.Grammar.Name {
			results = append(results, DiagnosticResult{
				Check:   "Grammar Detection",
				Status:  "warning",
				Message: fmt.Sprintf("Detection prefers %q (%.0f%% of sampled lines)", best.Grammar.Name, best.Confidence*100),
				Suggests: []string{
					"Reorder or remove configured grammars so the best match is tried first",
				},
			})
		}
	}

	return parsed, results
}

func checkTimestamps(ctx context.Context, cfg *config.Config, export *ingest.Export, parsed *chat.Result) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Timestamps",
	}

	if parsed.NullTimestamps == 0 {
		result.Status = "ok"
		result.Message = "All timestamps parsed"
		return result
	}

	result.Status = "warning"
	result.Message = fmt.Sprintf("%d of %d timestamps could not be parsed", parsed.NullTimestamps, len(parsed.Records))
	if cfg.Strict {
		result.Status = "error"
		result.Message += " (strict mode: analysis will fail)"
	}
	result.Suggests = []string{
		"These rows are kept but left out of timelines and the heatmap",
		"A day/month order mismatch is the usual cause",
	}

	d := detector.New(detector.WithGrammars(parsed.Grammar))
	if det := d.DetectFromText(ctx, export.Text); det.DayFirst != nil {
		order := "month first"
		if *det.DayFirst {
			order = "day first"
		}
		result.Suggests = append(result.Suggests,
			fmt.Sprintf("Sampled dates look %s; run 'chatlens detect' for matching layouts", order))
	}
	return result
}

func checkSenders(parsed *chat.Result, opts *DiagnoseOptions) DiagnosticResult {
	participants := analyzer.Participants(parsed.Records)[1:]
	notifications := 0
	for i := range parsed.Records {
		if parsed.Records[i].IsNotification() {
			notifications++
		}
	}

	result := DiagnosticResult{
		Check:   "Senders",
		Status:  "ok",
		Message: fmt.Sprintf("%d participant(s), %d system notification(s)", len(participants), notifications),
	}
	if len(participants) == 0 {
		result.Status = "warning"
		result.Message = "No participant messages, only system notifications"
		result.Suggests = []string{"Check that message lines look like 'Name: message'"}
	}
	if opts.Verbose {
		result.Details = participants
	}
	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== chatlens Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	// Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before running analysis.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nExport is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nExport looks good!")
	}
}

func checkWebhooks(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}
	if cfg == nil {
		return results
	}

	if len(cfg.Webhooks) == 0 {
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  "ok",
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	for _, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		result := DiagnosticResult{
			Check: fmt.Sprintf("Webhook: %s", name),
		}

		issues := []string{}
		warnings := []string{}

		if u, err := url.Parse(wh.URL); err != nil {
			issues = append(issues, fmt.Sprintf("Invalid URL: %v", err))
		} else if u.Scheme == "http" && u.Hostname() != "localhost" && u.Hostname() != "127.0.0.1" {
			warnings = append(warnings, "Reports are sent over plain http")
		}

		// Check if token looks like an unexpanded env var
		if strings.HasPrefix(wh.Token, "$") {
			warnings = append(warnings, fmt.Sprintf("Token appears to be an unresolved env var: %s", wh.Token))
		}

		if len(issues) > 0 {
			result.Status = "error"
			result.Message = fmt.Sprintf("%d configuration issue(s)", len(issues))
			result.Details = issues
		} else if len(warnings) > 0 {
			result.Status = "warning"
			result.Message = fmt.Sprintf("%d warning(s)", len(warnings))
			result.Details = warnings
		} else {
			result.Status = "ok"
			result.Message = fmt.Sprintf("Trigger: %s", wh.Trigger)
			if opts.Verbose {
				result.Details = []string{
					fmt.Sprintf("URL: %s", wh.URL),
					fmt.Sprintf("Timeout: %s", wh.Timeout),
				}
				if wh.Token != "" {
					result.Details = append(result.Details, "Token: configured")
				}
			}
		}

		results = append(results, result)
	}

	// Optionally test webhook connectivity
	if opts.Verbose {
		for _, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}

			result := checkWebhookConnectivity(wh)
			result.Check = fmt.Sprintf("Webhook Connectivity: %s", name)
			results = append(results, result)
		}
	}

	return results
}

func checkWebhookConnectivity(wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	// Just do a HEAD request to check if the endpoint is reachable
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may require POST method (will work during actual webhook send)",
			"Check authentication if using a token",
		}
	}

	return result
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
