package analyzer

import (
	"sort"
	"strings"

	"github.com/ccollicutt/chatlens/pkg/chat"
)

// corpus returns the lowercased tokens used for vocabulary analysis:
// notification and media rows are skipped and stop words removed.
func (a *Analyzer) corpus(records []chat.Record, f Filter) []string {
	var tokens []string
	for i := range records {
		r := &records[i]
		if !f.Matches(r) || r.IsNotification() || a.IsMedia(r.Body) {
			continue
		}
		for _, tok := range strings.Fields(strings.ToLower(r.Body)) {
			if !a.stopWords.Contains(tok) {
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}

// VocabularyFrequency returns the most used words, ties in first-seen order.
func (a *Analyzer) VocabularyFrequency(records []chat.Record, f Filter) []WordCount {
	counts := make(map[string]int)
	var order []string
	for _, tok := range a.corpus(records, f) {
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	rows := make([]WordCount, 0, len(order))
	for _, w := range order {
		rows = append(rows, WordCount{Word: w, Count: counts[w]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	return rows[:min(a.topWords, len(rows))]
}

// WordCloudCorpus returns the vocabulary tokens joined by single spaces,
// the input a word-cloud renderer expects.
func (a *Analyzer) WordCloudCorpus(records []chat.Record, f Filter) string {
	return strings.Join(a.corpus(records, f), " ")
}
