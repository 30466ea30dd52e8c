package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/pkg/chat"
	"github.com/ccollicutt/chatlens/pkg/config"
	"github.com/ccollicutt/chatlens/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Config      string
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <export>",
		Short: "Detect the timestamp grammar of a chat export",
		Long: `Sample lines from a chat export and rank every timestamp grammar by how
many lines it parses. Reports the best grammar with its confidence, whether
the sampled dates settle day/month order, and a ready-to-use YAML snippet.

Optionally generates a starter config file with --write-config.

Built-in grammars:
  - Bracketed 24h with seconds   [01/02/23, 09:00:00] Name: ...
  - Bracketed 12h with seconds   [1/2/23, 9:00:00 PM] Name: ...
  - Dash 24h                     01/02/23, 09:00 - Name: ...
  - Dash 12h AM/PM               1/2/23, 9:00 PM - Name: ...

Example:
  chatlens detect chat.txt
  chatlens detect --all -o json "WhatsApp Chat.zip"
  chatlens detect -w chatlens.yaml chat.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Analysis config file whose grammars are also tried")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 200, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all matching grammars, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	exportPath := args[0]
	ctx := commandContext(cmd)

	if exportPath != "-" {
		if _, err := os.Stat(exportPath); os.IsNotExist(err) {
			return fmt.Errorf("export not found: %s", exportPath)
		}
	}

	cfg, err := config.LoadOrDefault(ctx, opts.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	d := detector.New(
		detector.WithSampleSize(opts.SampleSize),
		detector.WithGrammars(cfg.CompiledGrammars()...),
	)

	result, err := d.DetectFromFile(ctx, exportPath)
	if err != nil {
		return rejectInput(cmd, fmt.Errorf("detection failed: %w", err))
	}

	out := cmd.OutOrStdout()

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(out, result, exportPath, opts.WriteConfig); err != nil {
			return err
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(out, result, exportPath, opts)
	default:
		return outputDetectText(out, result, exportPath, opts)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, exportPath string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Timestamp Grammar Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", exportPath)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Lines with timestamps: %d\n", result.ParsedLines)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No timestamp grammar detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: The export may use an uncommon format.")
		fmt.Fprintln(w, "Check the first few lines manually and add a grammar to your config.")
		return nil
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected Grammar: %s\n", best.Grammar.Name)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d lines matched)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	fmt.Fprintf(w, "Parsed as: %s\n", best.ParsedTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w)

	if result.DayFirst != nil {
		order := "month first (MM/DD)"
		if *result.DayFirst {
			order = "day first (DD/MM)"
		}
		fmt.Fprintf(w, "Date order: %s\n", order)
		fmt.Fprintln(w)
	}
	if result.AmbiguityNote != "" {
		fmt.Fprintf(w, "WARNING: %s\n", result.AmbiguityNote)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "--- Configuration snippet (copy to your config file) ---")
	fmt.Fprintln(w)
	fmt.Fprint(w, grammarSnippet(best.Grammar, result.DayFirst))
	fmt.Fprintln(w)

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Alternative grammars detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Grammar.Name, m.Confidence*100)
			fmt.Fprintf(w, "   pattern: '%s'\n", m.Grammar.PatternStr)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// JSONMatch represents a grammar match in JSON output.
type JSONMatch struct {
	Name       string   `json:"name"`
	Pattern    string   `json:"pattern"`
	Layouts    []string `json:"layouts"`
	Confidence float64  `json:"confidence"`
	MatchCount int      `json:"match_count"`
	SampleLine string   `json:"sample_line"`
	Ambiguous  bool     `json:"ambiguous,omitempty"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File          string      `json:"file"`
	Matches       []JSONMatch `json:"matches"`
	SampledLines  int         `json:"sampled_lines"`
	ParsedLines   int         `json:"parsed_lines"`
	DayFirst      *bool       `json:"day_first,omitempty"`
	AmbiguityNote string      `json:"ambiguity_note,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, exportPath string, opts *DetectOptions) error {
	output := JSONOutput{
		File:          exportPath,
		SampledLines:  result.SampledLines,
		ParsedLines:   result.ParsedLines,
		DayFirst:      result.DayFirst,
		AmbiguityNote: result.AmbiguityNote,
		Matches:       make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1] // Only show best match
	}

	for _, m := range matches {
		output.Matches = append(output.Matches, JSONMatch{
			Name:       m.Grammar.Name,
			Pattern:    m.Grammar.PatternStr,
			Layouts:    m.Grammar.Layouts,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
			Ambiguous:  m.Grammar.Ambiguous,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// orderedLayouts returns the grammar's layouts, with day and month swapped
// when the sampled dates contradict the built-in order.
func orderedLayouts(g *chat.Grammar, dayFirst *bool) []string {
	if dayFirst == nil {
		return g.Layouts
	}
	layouts := make([]string, len(g.Layouts))
	for i, l := range g.Layouts {
		switch {
		case *dayFirst && strings.HasPrefix(l, "1/2/"):
			l = "2/1/" + l[len("1/2/"):]
		case !*dayFirst && strings.HasPrefix(l, "2/1/"):
			l = "1/2/" + l[len("2/1/"):]
		}
		layouts[i] = l
	}
	return layouts
}

// grammarSnippet renders a grammars: YAML block for one grammar.
func grammarSnippet(g *chat.Grammar, dayFirst *bool) string {
	var sb strings.Builder
	sb.WriteString("grammars:\n")
	fmt.Fprintf(&sb, "  - name: %q\n", g.Name)
	fmt.Fprintf(&sb, "    pattern: '%s'\n", g.PatternStr)
	sb.WriteString("    layouts:\n")
	for _, l := range orderedLayouts(g, dayFirst) {
		fmt.Fprintf(&sb, "      - %q\n", l)
	}
	if g.Trim != "" {
		fmt.Fprintf(&sb, "    trim: %q\n", g.Trim)
	}
	return sb.String()
}

// writeStarterConfig generates a starter config file with the detected grammar.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, exportPath, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no timestamp grammar detected")
	}

	content := generateStarterConfig(exportPath, result.BestMatch(), result.DayFirst)

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(exportPath string, match *detector.GrammarMatch, dayFirst *bool) string {
	absPath := exportPath
	if abs, err := filepath.Abs(exportPath); err == nil {
		absPath = abs
	}

	return fmt.Sprintf(`# chatlens configuration
# Generated by: chatlens detect %s
# Detected grammar: %s (%.0f%% confidence)

%s
# Fail on the first unparseable timestamp instead of keeping the row
strict: false

# Bodies that count as media rather than words
# media_placeholders:
#   - "<Media omitted>"
#   - "image omitted"

# Words left out of vocabulary_frequency and the word cloud
# stop_words_file: ./stop_words.txt
# stop_words: [ok, lol]

top_participants: 5
top_words: 20

# sentiment:
#   lexicon_file: ./lexicon.txt

# webhooks:
#   - name: dashboard
#     url: https://dashboard.example.com/reports
#     token: ${DASHBOARD_TOKEN}
#     trigger: always   # always | on_null_timestamps | never
#     timeout: 10s
`, absPath, match.Grammar.Name, match.Confidence*100,
		grammarSnippet(match.Grammar, dayFirst))
}
