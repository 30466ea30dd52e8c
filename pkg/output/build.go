package output

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/chat"
)

// BuildOptions controls report assembly.
type BuildOptions struct {
	// Source, Member and Encoding describe where the text came from.
	Source   string
	Member   string
	Encoding string

	// Filter restricts every table; empty means Overall.
	Filter analyzer.Filter

	// Tables limits the computed tables; nil computes all of them.
	Tables []analyzer.Table

	// IncludeRecords adds the filtered record table.
	IncludeRecords bool

	Logger *zap.Logger
}

// UnknownParticipantError is returned when the filter names nobody in the chat.
type UnknownParticipantError struct {
	Name string
}

func (e *UnknownParticipantError) Error() string {
	return fmt.Sprintf("unknown participant %q", e.Name)
}

// Build computes the requested tables for a parse result. Tables are
// independent and computed concurrently over the shared, read-only records.
func Build(ctx context.Context, a *analyzer.Analyzer, result *chat.Result, opts BuildOptions) (*Report, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	filter := opts.Filter
	if filter.IsOverall() {
		filter = analyzer.Overall
	} else if !analyzer.HasSender(result.Records, string(filter)) {
		return nil, &UnknownParticipantError{Name: string(filter)}
	}

	report := &Report{
		Metadata: Metadata{
			AnalysisID:     uuid.NewString(),
			Source:         opts.Source,
			Member:         opts.Member,
			Encoding:       opts.Encoding,
			Filter:         string(filter),
			Records:        len(result.Records),
			NullTimestamps: result.NullTimestamps,
			Participants:   analyzer.Participants(result.Records),
		},
	}
	if result.Grammar != nil {
		report.Metadata.Grammar = result.Grammar.Name
	}

	want := make(map[analyzer.Table]bool)
	tables := opts.Tables
	if len(tables) == 0 {
		tables = analyzer.Tables()
	}
	for _, t := range tables {
		want[t] = true
	}

	records := result.Records
	g, gctx := errgroup.WithContext(ctx)
	run := func(t analyzer.Table, fn func()) {
		if !want[t] {
			return
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	run(analyzer.TableBasicCounts, func() { report.Counts = a.BasicCounts(records, filter) })
	if filter == analyzer.Overall {
		run(analyzer.TableBusiestParticipants, func() {
			b := a.BusiestParticipants(records)
			report.Busiest = &b
		})
	}
	run(analyzer.TableVocabulary, func() { report.Vocabulary = a.VocabularyFrequency(records, filter) })
	run(analyzer.TableEmoji, func() { report.Emoji = a.EmojiFrequency(records, filter) })
	run(analyzer.TableMonthlyTimeline, func() { report.Monthly = a.MonthlyTimeline(records, filter) })
	run(analyzer.TableDailyTimeline, func() { report.Daily = a.DailyTimeline(records, filter) })
	run(analyzer.TableWeekdayActivity, func() { report.Weekdays = a.WeekdayActivity(records, filter) })
	run(analyzer.TableMonthActivity, func() { report.Months = a.MonthActivity(records, filter) })
	run(analyzer.TableHeatmap, func() {
		h := a.ActivityHeatmap(records, filter)
		report.Heatmap = &h
	})
	run(analyzer.TableSentiment, func() { report.Sentiment = a.SentimentScores(records, filter) })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.IncludeRecords {
		report.Records = analyzer.Select(records, filter)
	}

	report.Metadata.GeneratedAt = time.Now()
	report.Metadata.Duration = time.Since(start)

	logger.Debug("report assembled",
		zap.String("analysis_id", report.Metadata.AnalysisID),
		zap.String("filter", report.Metadata.Filter),
		zap.Int("tables", len(tables)),
		zap.Duration("duration", report.Metadata.Duration),
	)

	return report, nil
}

// ParseTables converts table names to analyzer tables, rejecting unknown names.
func ParseTables(names []string) ([]analyzer.Table, error) {
	known := make(map[analyzer.Table]bool)
	for _, t := range analyzer.Tables() {
		known[t] = true
	}

	tables := make([]analyzer.Table, 0, len(names))
	for _, n := range names {
		t := analyzer.Table(n)
		if !known[t] {
			return nil, fmt.Errorf("unknown table %q", n)
		}
		tables = append(tables, t)
	}
	return tables, nil
}
