package analyzer

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ccollicutt/chatlens/pkg/chat"
)

// SentimentScores scores every non-blank message with the configured scorer.
// With no qualifying rows the result is empty, not nil.
func (a *Analyzer) SentimentScores(records []chat.Record, f Filter) []SentimentRow {
	rows := make([]SentimentRow, 0)
	skipped := 0
	for i := range records {
		r := &records[i]
		if !f.Matches(r) {
			continue
		}
		if strings.TrimSpace(r.Body) == "" {
			skipped++
			continue
		}
		rows = append(rows, SentimentRow{
			ID:     r.ID,
			Sender: r.Sender,
			Scores: a.scorer.PolarityScores(r.Body),
		})
	}

	a.logger.Debug("scored message sentiment",
		zap.String("filter", string(f)),
		zap.Int("scored", len(rows)),
		zap.Int("skipped", skipped),
	)
	return rows
}
