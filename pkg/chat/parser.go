package chat

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// senderPattern splits "<name>: <message>" at the first ": " of the first line.
var senderPattern = regexp.MustCompile(`^([^\n]+?): `)

// Parser turns raw export text into records.
type Parser struct {
	grammars []*Grammar
	strict   bool
	logger   *zap.Logger
}

// Option configures the Parser.
type Option func(*Parser)

// WithGrammars replaces the built-in grammar list. Grammars are tried in
// order and the first one matching at least one timestamp is used.
func WithGrammars(grammars ...*Grammar) Option {
	return func(p *Parser) {
		if len(grammars) > 0 {
			p.grammars = grammars
		}
	}
}

// WithStrict makes a single unparseable timestamp fail the whole parse.
func WithStrict(strict bool) Option {
	return func(p *Parser) {
		p.strict = strict
	}
}

// WithLogger sets the logger used to report coerced timestamps.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Parser using the default grammars.
func New(opts ...Option) *Parser {
	p := &Parser{
		grammars: DefaultGrammars(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is shorthand for New(opts...).Parse(text).
func Parse(text string, opts ...Option) (*Result, error) {
	return New(opts...).Parse(text)
}

// Grammars returns the grammars the parser tries, in priority order.
func (p *Parser) Grammars() []*Grammar {
	return p.grammars
}

// Parse splits text at every timestamp delimiter and returns one record per
// delimiter. Text before the first delimiter is discarded.
func (p *Parser) Parse(text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &FormatError{Reason: ReasonEmptyInput, Grammars: GrammarNames(p.grammars)}
	}

	grammar, bounds := p.selectGrammar(text)
	if grammar == nil {
		return nil, &FormatError{Reason: ReasonNoTimestamps, Grammars: GrammarNames(p.grammars)}
	}

	result := &Result{
		Records: make([]Record, 0, len(bounds)),
		Grammar: grammar,
	}

	for i, b := range bounds {
		bodyEnd := len(text)
		if i+1 < len(bounds) {
			bodyEnd = bounds[i+1][0]
		}

		stamp := grammar.ExtractStamp(text[b[0]:b[1]])
		ts, err := grammar.ParseStamp(stamp)
		if err != nil {
			if p.strict {
				return nil, &TimestampError{Index: i, Raw: stamp, Grammar: grammar.Name, Err: err}
			}
			p.logger.Warn("coercing unparseable timestamp to null",
				zap.Int("id", i),
				zap.String("stamp", stamp),
				zap.String("grammar", grammar.Name),
				zap.Error(err),
			)
			result.NullTimestamps++
			ts = time.Time{}
		}

		sender, body := splitSender(text[b[1]:bodyEnd])
		result.Records = append(result.Records, newRecord(i, ts, sender, body))
	}

	p.logger.Debug("parsed chat export",
		zap.String("grammar", grammar.Name),
		zap.Int("records", len(result.Records)),
		zap.Int("null_timestamps", result.NullTimestamps),
	)

	return result, nil
}

// selectGrammar returns the first grammar with at least one match, along
// with the byte offsets of every delimiter it found.
func (p *Parser) selectGrammar(text string) (*Grammar, [][]int) {
	for _, g := range p.grammars {
		if bounds := g.Pattern.FindAllStringIndex(text, -1); len(bounds) > 0 {
			return g, bounds
		}
	}
	return nil, nil
}

// splitSender separates the "<name>: " prefix from a raw body span.
// Spans without a prefix belong to NotificationSender.
func splitSender(span string) (string, string) {
	span = cleanBody(span)

	if m := senderPattern.FindStringSubmatchIndex(span); m != nil {
		name := strings.TrimSpace(span[m[2]:m[3]])
		if name != "" {
			return name, cleanBody(span[m[1]:])
		}
	}
	return NotificationSender, span
}

// cleanBody strips leading blanks and direction marks and trailing line breaks.
func cleanBody(s string) string {
	s = strings.TrimLeft(s, " \t\u200e\u200f")
	return strings.TrimRight(s, "\r\n")
}

func newRecord(id int, ts time.Time, sender, body string) Record {
	r := Record{
		ID:        id,
		Timestamp: ts,
		Sender:    sender,
		Body:      body,
	}
	if ts.IsZero() {
		return r
	}

	r.Date = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	r.Year = ts.Year()
	r.MonthNum = int(ts.Month())
	r.Month = ts.Month().String()
	r.Day = ts.Day()
	r.Weekday = ts.Weekday()
	r.DayName = ts.Weekday().String()
	r.Hour = ts.Hour()
	r.Minute = ts.Minute()
	r.HourBucket = HourBucket(ts.Hour())
	return r
}
