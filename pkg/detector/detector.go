// Package detector identifies which chat export grammar a file uses.
package detector

import (
	"bufio"
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ccollicutt/chatlens/pkg/chat"
	"github.com/ccollicutt/chatlens/pkg/ingest"
)

// DetectionResult holds the result of analyzing an export.
type DetectionResult struct {
	Matches       []GrammarMatch // Grammars that matched, sorted by confidence descending
	SampledLines  int            // Number of non-empty lines sampled
	ParsedLines   int            // Number of lines the best grammar parsed
	DayFirst      *bool          // Day/month order evidence from the best grammar, nil if undecided
	AmbiguityNote string         // Warning about date ordering if applicable
}

// GrammarMatch represents a grammar that matched with its confidence score.
type GrammarMatch struct {
	Grammar    *chat.Grammar
	Confidence float64   // 0.0 to 1.0 (fraction of sampled lines matched)
	MatchCount int       // Number of lines that matched and parsed
	SampleLine string    // Example line that matched
	ParsedTime time.Time // Parsed timestamp from sample
}

// Detector samples export lines and scores every grammar against them.
type Detector struct {
	grammars   []*chat.Grammar
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 200).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithGrammars replaces the built-in grammars.
func WithGrammars(grammars ...*chat.Grammar) Option {
	return func(d *Detector) {
		if len(grammars) > 0 {
			d.grammars = grammars
		}
	}
}

// New creates a new Detector with the default grammars.
func New(opts ...Option) *Detector {
	d := &Detector{
		grammars:   chat.DefaultGrammars(),
		sampleSize: 200,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile reads and decodes an export and returns detected grammars.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	export, err := ingest.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromText(ctx, export.Text), nil
}

// DetectFromText samples the leading lines of decoded export text.
func (d *Detector) DetectFromText(ctx context.Context, text string) *DetectionResult {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() && len(lines) < d.sampleSize {
		if ctx.Err() != nil {
			break
		}
		if strings.TrimSpace(scanner.Text()) != "" {
			lines = append(lines, scanner.Text())
		}
	}
	return d.DetectFromLines(lines)
}

// DetectFromLines scores each grammar against lines. A line counts for a
// grammar when its delimiter starts the line and the stamp parses.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}

	type grammarStats struct {
		matchCount int
		sampleLine string
		parsedTime time.Time
		dayFirst   bool
		monthFirst bool
	}
	stats := make([]grammarStats, len(d.grammars))

	for _, raw := range lines {
		line := strings.TrimLeft(raw, " \t\u200e\ufeff")
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.SampledLines++

		for i, g := range d.grammars {
			loc := g.Pattern.FindStringIndex(line)
			if loc == nil || loc[0] != 0 {
				continue
			}
			stamp := g.ExtractStamp(line[loc[0]:loc[1]])
			ts, err := g.ParseStamp(stamp)
			if err != nil {
				continue
			}

			s := &stats[i]
			if s.matchCount == 0 {
				s.sampleLine = line
				s.parsedTime = ts
			}
			s.matchCount++

			first, second := leadingFields(stamp)
			if first > 12 {
				s.dayFirst = true
			}
			if second > 12 {
				s.monthFirst = true
			}
		}
	}

	if result.SampledLines == 0 {
		return result
	}

	for i, g := range d.grammars {
		s := &stats[i]
		if s.matchCount == 0 {
			continue
		}
		result.Matches = append(result.Matches, GrammarMatch{
			Grammar:    g,
			Confidence: float64(s.matchCount) / float64(result.SampledLines),
			MatchCount: s.matchCount,
			SampleLine: s.sampleLine,
			ParsedTime: s.parsedTime,
		})
	}

	// Sort by confidence descending, then by pattern length (more specific first)
	sort.SliceStable(result.Matches, func(i, j int) bool {
		if result.Matches[i].Confidence != result.Matches[j].Confidence {
			return result.Matches[i].Confidence > result.Matches[j].Confidence
		}
		return len(result.Matches[i].Grammar.PatternStr) > len(result.Matches[j].Grammar.PatternStr)
	})

	if len(result.Matches) == 0 {
		return result
	}

	top := result.Matches[0]
	result.ParsedLines = top.MatchCount
	for i, g := range d.grammars {
		if g != top.Grammar {
			continue
		}
		s := stats[i]
		switch {
		case s.dayFirst && !s.monthFirst:
			v := true
			result.DayFirst = &v
		case s.monthFirst && !s.dayFirst:
			v := false
			result.DayFirst = &v
		}
	}

	if top.Grammar.Ambiguous && result.DayFirst == nil {
		result.AmbiguityNote = "This grammar has date ordering ambiguity (MM/DD vs DD/MM) and no " +
			"sampled date settles it. Verify the layouts match your export; " +
			"for day-first exports use layouts like \"2/1/06, 3:04 PM\""
	}

	return result
}

// leadingFields returns the first two numeric date fields of a stamp.
func leadingFields(stamp string) (int, int) {
	var fields [2]int
	idx, n, inNum := 0, 0, false
	for _, r := range stamp {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			inNum = true
			continue
		}
		if inNum {
			fields[idx] = n
			idx++
			if idx == len(fields) {
				break
			}
			n, inNum = 0, false
		}
	}
	return fields[0], fields[1]
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *GrammarMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one grammar matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
