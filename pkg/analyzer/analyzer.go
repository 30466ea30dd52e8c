package analyzer

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ccollicutt/chatlens/pkg/sentiment"
	"github.com/ccollicutt/chatlens/pkg/stopwords"
)

const (
	// DefaultTopParticipants is the busiest_participants limit.
	DefaultTopParticipants = 5

	// DefaultTopWords is the vocabulary_frequency limit.
	DefaultTopWords = 20
)

// DefaultMediaPlaceholders are the bodies exports write for omitted attachments.
func DefaultMediaPlaceholders() []string {
	return []string{
		"<Media omitted>",
		"image omitted",
		"video omitted",
		"audio omitted",
		"sticker omitted",
		"GIF omitted",
		"document omitted",
	}
}

// Analyzer computes aggregate tables over a record set.
// It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	stopWords       stopwords.Set
	scorer          sentiment.Scorer
	media           map[string]bool
	topParticipants int
	topWords        int
	logger          *zap.Logger
}

// Option configures the Analyzer.
type Option func(*Analyzer)

// WithStopWords sets the tokens excluded from vocabulary analysis.
func WithStopWords(s stopwords.Set) Option {
	return func(a *Analyzer) {
		a.stopWords = s
	}
}

// WithScorer sets the sentiment scorer.
func WithScorer(s sentiment.Scorer) Option {
	return func(a *Analyzer) {
		if s != nil {
			a.scorer = s
		}
	}
}

// WithMediaPlaceholders replaces the media placeholder bodies.
func WithMediaPlaceholders(placeholders ...string) Option {
	return func(a *Analyzer) {
		if len(placeholders) == 0 {
			return
		}
		a.media = make(map[string]bool, len(placeholders))
		for _, p := range placeholders {
			a.media[strings.TrimSpace(p)] = true
		}
	}
}

// WithTopParticipants limits the busiest_participants top list.
func WithTopParticipants(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.topParticipants = n
		}
	}
}

// WithTopWords limits vocabulary_frequency.
func WithTopWords(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.topWords = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an Analyzer. Without WithScorer it builds a lexicon scorer
// with the built-in lexicon.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		topParticipants: DefaultTopParticipants,
		topWords:        DefaultTopWords,
		logger:          zap.NewNop(),
	}
	WithMediaPlaceholders(DefaultMediaPlaceholders()...)(a)

	for _, opt := range opts {
		opt(a)
	}
	if a.scorer == nil {
		a.scorer = sentiment.NewAnalyzer()
	}
	return a
}

// IsMedia reports whether body is exactly a media placeholder.
func (a *Analyzer) IsMedia(body string) bool {
	return a.media[strings.TrimSpace(body)]
}
