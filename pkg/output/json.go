package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

type quietReport struct {
	Metadata  Metadata             `json:"metadata"`
	Counts    analyzer.BasicCounts `json:"basic_counts"`
	Sentiment SentimentSummary     `json:"sentiment"`
}

// Format renders the report as JSON.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		// Quiet mode: just the headline numbers
		return encoder.Encode(quietReport{
			Metadata:  report.Metadata,
			Counts:    report.Counts,
			Sentiment: SummarizeSentiment(report.Sentiment),
		})
	}

	return encoder.Encode(report)
}
