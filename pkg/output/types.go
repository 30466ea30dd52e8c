// Package output assembles analysis reports and renders them.
package output

import (
	"time"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/chat"
)

// Report is the complete analysis output for one filter.
type Report struct {
	// Metadata provides context about the analysis.
	Metadata Metadata `json:"metadata"`

	// Counts holds the basic_counts table.
	Counts analyzer.BasicCounts `json:"basic_counts"`

	// Busiest is only computed for the Overall filter.
	Busiest *analyzer.Busiest `json:"busiest_participants,omitempty"`

	Vocabulary []analyzer.WordCount    `json:"vocabulary_frequency"`
	Emoji      []analyzer.EmojiCount   `json:"emoji_frequency"`
	Monthly    []analyzer.MonthlyPoint `json:"monthly_timeline"`
	Daily      []analyzer.DailyPoint   `json:"daily_timeline"`
	Weekdays   []analyzer.WeekdayCount `json:"weekday_activity"`
	Months     []analyzer.MonthCount   `json:"month_activity"`
	Heatmap    *analyzer.Heatmap       `json:"activity_heatmap,omitempty"`
	Sentiment  []analyzer.SentimentRow `json:"sentiment_scores"`

	// Records is the filtered record table, when requested.
	Records []chat.Record `json:"records,omitempty"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// AnalysisID uniquely identifies this report.
	AnalysisID string `json:"analysis_id"`

	// Source is the export path, or "-" for stdin and uploads.
	Source string `json:"source"`

	// Member is the archive member the chat was read from, if any.
	Member string `json:"member,omitempty"`

	// Encoding is the detected text encoding.
	Encoding string `json:"encoding,omitempty"`

	// Grammar is the timestamp grammar that matched.
	Grammar string `json:"grammar"`

	// Filter is the participant filter applied.
	Filter string `json:"filter"`

	// Records is the number of parsed records before filtering.
	Records int `json:"records"`

	// NullTimestamps is the number of records whose timestamp failed to parse.
	NullTimestamps int `json:"null_timestamps"`

	// Participants lists the filter choices, Overall first.
	Participants []string `json:"participants"`

	// GeneratedAt is when the report was assembled.
	GeneratedAt time.Time `json:"generated_at"`

	// Duration is how long assembly took.
	Duration time.Duration `json:"duration_ns"`
}

// HasNullTimestamps returns true if any record lost its timestamp.
func (r *Report) HasNullTimestamps() bool {
	return r.Metadata.NullTimestamps > 0
}

// SentimentSummary buckets compound scores into the usual VADER classes.
type SentimentSummary struct {
	Scored   int     `json:"scored"`
	Positive int     `json:"positive"`
	Neutral  int     `json:"neutral"`
	Negative int     `json:"negative"`
	Average  float64 `json:"average_compound"`
}

// Compound thresholds separating positive, neutral and negative messages.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// SummarizeSentiment aggregates per-message sentiment rows.
func SummarizeSentiment(rows []analyzer.SentimentRow) SentimentSummary {
	s := SentimentSummary{Scored: len(rows)}
	if len(rows) == 0 {
		return s
	}
	var total float64
	for _, r := range rows {
		total += r.Compound
		switch {
		case r.Compound >= PositiveThreshold:
			s.Positive++
		case r.Compound <= NegativeThreshold:
			s.Negative++
		default:
			s.Neutral++
		}
	}
	s.Average = total / float64(len(rows))
	return s
}
