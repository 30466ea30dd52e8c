package chat

import (
	"errors"
	"fmt"
	"regexp"
)

// Grammar describes how one export flavour writes message timestamps.
type Grammar struct {
	Name       string         // Human-readable name
	Pattern    *regexp.Regexp // Compiled delimiter regex
	PatternStr string         // Pattern string for config output
	Layouts    []string       // Go time layouts, tried in order
	Trim       string         // Cutset stripped from the captured stamp
	Examples   []string       // Example delimiters
	Ambiguous  bool           // True if month/day order cannot be told from the stamp
}

// NewGrammar compiles a grammar from its textual parts. If the pattern has
// a capture group, group 1 is used as the stamp; otherwise the whole match.
func NewGrammar(name, pattern string, layouts []string, trim string) (*Grammar, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	if pattern == "" {
		return nil, errors.New("pattern is required")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	if len(layouts) == 0 {
		return nil, errors.New("at least one layout is required")
	}
	return &Grammar{
		Name:       name,
		Pattern:    re,
		PatternStr: pattern,
		Layouts:    layouts,
		Trim:       trim,
	}, nil
}

// DefaultGrammars returns the built-in export grammars in priority order.
func DefaultGrammars() []*Grammar {
	grammars := []*Grammar{
		// iOS export, 24h clock with seconds: [01/02/23, 09:00:00]
		{
			Name:       "Bracketed 24h with seconds",
			PatternStr: `\[\d{1,2}/\d{1,2}/\d{2,4},\s\d{1,2}:\d{2}:\d{2}\]`,
			Layouts:    []string{"2/1/06, 15:04:05", "2/1/2006, 15:04:05"},
			Trim:       "[]",
			Examples:   []string{"[01/02/23, 09:00:00]", "[1/2/2023, 9:00:00]"},
		},
		// iOS export, 12h clock with seconds: [1/2/23, 9:00:00 PM]
		{
			Name:       "Bracketed 12h with seconds",
			PatternStr: `\[\d{1,2}/\d{1,2}/\d{2,4},\s\d{1,2}:\d{2}:\d{2}[\s\x{202F}]?[AaPp]\.?[Mm]\.?\]`,
			Layouts: []string{
				"1/2/06, 3:04:05 PM", "1/2/2006, 3:04:05 PM",
				"1/2/06, 3:04:05PM", "1/2/2006, 3:04:05PM",
			},
			Trim:      "[]",
			Examples:  []string{"[1/2/23, 9:00:00 PM]"},
			Ambiguous: true,
		},
		// Android export, 24h clock: 01/02/23, 09:00 -
		{
			Name:       "Dash 24h",
			PatternStr: `\d{1,2}/\d{1,2}/\d{2,4},\s\d{1,2}:\d{2}\s-\s`,
			Layouts:    []string{"2/1/06, 15:04", "2/1/2006, 15:04"},
			Trim:       " -",
			Examples:   []string{"01/02/23, 09:00 - "},
		},
		// Android export, 12h clock: 1/2/23, 9:00 PM -
		{
			Name:       "Dash 12h AM/PM",
			PatternStr: `\d{1,2}/\d{1,2}/\d{2,4},\s\d{1,2}:\d{2}[\s\x{202F}]?[AaPp]\.?[Mm]\.?\s-\s`,
			Layouts: []string{
				"1/2/06, 3:04 PM", "1/2/2006, 3:04 PM",
				"1/2/06, 3:04PM", "1/2/2006, 3:04PM",
			},
			Trim:      " -",
			Examples:  []string{"1/2/23, 9:00 PM - ", "12/31/2023, 11:59 am - "},
			Ambiguous: true,
		},
	}

	for _, g := range grammars {
		g.Pattern = regexp.MustCompile(g.PatternStr)
	}

	return grammars
}

// GrammarNames returns the names of the given grammars, in order.
func GrammarNames(grammars []*Grammar) []string {
	names := make([]string, 0, len(grammars))
	for _, g := range grammars {
		names = append(names, g.Name)
	}
	return names
}
