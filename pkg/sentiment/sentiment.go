// Package sentiment scores message text with the VADER lexicon and rule set.
//
// An Analyzer is built once and is safe for concurrent use; callers hold it
// and pass it to whatever needs scores.
package sentiment

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"
)

// Scores is the sentiment distribution of one text. Negative, Neutral and
// Positive are proportions summing to about 1; Compound is normalized to [-1, 1].
type Scores struct {
	Compound float64 `json:"compound"`
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
}

// Scorer produces sentiment scores for a piece of text.
type Scorer interface {
	PolarityScores(text string) Scores
}

// Analyzer is the VADER backed Scorer.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// Option configures the Analyzer.
type Option func(*Analyzer)

// WithLexicon replaces the built-in VADER lexicon.
func WithLexicon(lex Lexicon) Option {
	return func(a *Analyzer) {
		if len(lex) > 0 {
			a.vader.Lexicon = map[string]float64(lex)
		}
	}
}

// NewAnalyzer creates an Analyzer using the full VADER lexicon.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LexiconSize returns the number of scored tokens.
func (a *Analyzer) LexiconSize() int {
	return len(a.vader.Lexicon)
}

// PolarityScores scores text. Blank text scores all zeros.
func (a *Analyzer) PolarityScores(text string) Scores {
	// VADER tokenizes on single spaces.
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return Scores{}
	}

	s := a.vader.PolarityScores(text)
	return Scores{
		Compound: round(s.Compound, 4),
		Negative: round(s.Negative, 3),
		Neutral:  round(s.Neutral, 3),
		Positive: round(s.Positive, 3),
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
