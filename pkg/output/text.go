package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "chatlens: %s: %d messages, %d words, %d media, %d links\n",
		report.Metadata.Filter,
		report.Counts.Messages,
		report.Counts.Words,
		report.Counts.Media,
		report.Counts.Links)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	// Header
	fmt.Fprintln(w, "=== Chat Analysis Report ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Source: %s", report.Metadata.Source)
	if report.Metadata.Member != "" {
		fmt.Fprintf(w, " (%s)", report.Metadata.Member)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Grammar: %s\n", report.Metadata.Grammar)
	fmt.Fprintf(w, "Filter: %s\n", report.Metadata.Filter)
	if report.HasNullTimestamps() {
		fmt.Fprintf(w, "WARNING: %d record(s) have unparseable timestamps and are left out of timelines\n",
			report.Metadata.NullTimestamps)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[STATS]")
	fmt.Fprintf(w, "  Messages: %d\n", report.Counts.Messages)
	fmt.Fprintf(w, "  Words:    %d\n", report.Counts.Words)
	fmt.Fprintf(w, "  Media:    %d\n", report.Counts.Media)
	fmt.Fprintf(w, "  Links:    %d\n", report.Counts.Links)
	fmt.Fprintln(w)

	if report.Busiest != nil {
		fmt.Fprintln(w, "[BUSIEST PARTICIPANTS]")
		tw := newTable(w)
		for _, p := range report.Busiest.Shares {
			fmt.Fprintf(tw, "  %s\t%d\t%.2f%%\n", p.Name, p.Messages, p.Percent)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	if report.Monthly != nil {
		fmt.Fprintln(w, "[MONTHLY TIMELINE]")
		if len(report.Monthly) == 0 {
			fmt.Fprintln(w, "  No dated messages")
		}
		for _, p := range report.Monthly {
			fmt.Fprintf(w, "  %-16s %d\n", p.Label, p.Messages)
		}
		fmt.Fprintln(w)
	}

	if report.Daily != nil {
		fmt.Fprintln(w, "[DAILY TIMELINE]")
		if len(report.Daily) == 0 {
			fmt.Fprintln(w, "  No dated messages")
		}
		for _, p := range report.Daily {
			fmt.Fprintf(w, "  %s %d\n", p.Date.Format("2006-01-02"), p.Messages)
		}
		fmt.Fprintln(w)
	}

	if report.Weekdays != nil {
		fmt.Fprintln(w, "[WEEKDAY ACTIVITY]")
		for _, d := range report.Weekdays {
			fmt.Fprintf(w, "  %-10s %d\n", d.Day, d.Messages)
		}
		fmt.Fprintln(w)
	}

	if report.Months != nil {
		fmt.Fprintln(w, "[MONTH ACTIVITY]")
		for _, m := range report.Months {
			fmt.Fprintf(w, "  %-10s %d\n", m.Month, m.Messages)
		}
		fmt.Fprintln(w)
	}

	if report.Heatmap != nil {
		fmt.Fprintln(w, "[ACTIVITY HEATMAP]")
		f.formatHeatmap(report.Heatmap, w)
		fmt.Fprintln(w)
	}

	if report.Vocabulary != nil {
		fmt.Fprintln(w, "[MOST COMMON WORDS]")
		for _, wc := range report.Vocabulary {
			fmt.Fprintf(w, "  %-20s %d\n", wc.Word, wc.Count)
		}
		fmt.Fprintln(w)
	}

	if report.Emoji != nil {
		fmt.Fprintln(w, "[EMOJI]")
		for _, e := range report.Emoji {
			fmt.Fprintf(w, "  %s %d\n", e.Emoji, e.Count)
		}
		fmt.Fprintln(w)
	}

	if report.Sentiment != nil {
		fmt.Fprintln(w, "[SENTIMENT]")
		s := SummarizeSentiment(report.Sentiment)
		fmt.Fprintf(w, "  Scored: %d (positive %d, neutral %d, negative %d), average compound %.4f\n",
			s.Scored, s.Positive, s.Neutral, s.Negative, s.Average)
		if f.opts.Verbose {
			tw := newTable(w)
			for _, r := range report.Sentiment {
				fmt.Fprintf(tw, "  %d\t%s\t%.4f\t%.3f\t%.3f\t%.3f\n",
					r.ID, r.Sender, r.Compound, r.Negative, r.Neutral, r.Positive)
			}
			tw.Flush()
		}
		fmt.Fprintln(w)
	}

	if len(report.Records) > 0 {
		fmt.Fprintln(w, "[RECORDS]")
		tw := newTable(w)
		for _, r := range report.Records {
			ts := "-"
			if r.HasTimestamp() {
				ts = r.Timestamp.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", r.ID, ts, r.Sender, oneLine(r.Body))
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	// Summary
	fmt.Fprintln(w, "---")
	_, err := fmt.Fprintf(w, "Summary: %d of %d records analyzed for %s\n",
		report.Counts.Messages, report.Metadata.Records, report.Metadata.Filter)
	return err
}

func (f *TextFormatter) formatHeatmap(h *analyzer.Heatmap, w io.Writer) {
	if len(h.Weekdays) == 0 {
		fmt.Fprintln(w, "  No dated messages")
		return
	}
	tw := newTable(w)
	fmt.Fprintf(tw, "  \t%s\n", strings.Join(h.Buckets, "\t"))
	for i, day := range h.Weekdays {
		cells := make([]string, len(h.Cells[i]))
		for j, c := range h.Cells[i] {
			cells[j] = fmt.Sprint(c)
		}
		fmt.Fprintf(tw, "  %s\t%s\n", day, strings.Join(cells, "\t"))
	}
	tw.Flush()
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " / ")
}
