package sentiment

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Lexicon maps lowercased tokens to their mean valence, roughly in [-4, 4],
// in the layout of vader_lexicon.txt.
type Lexicon map[string]float64

// ParseLexicon reads a tab-separated lexicon: token, mean valence and any
// number of ignored trailing columns. Blank lines and '#' comments are skipped.
func ParseLexicon(r io.Reader) (Lexicon, error) {
	lex := make(Lexicon)
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected token and valence", lineNum)
		}
		valence, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid valence %q: %w", lineNum, fields[1], err)
		}
		lex[strings.ToLower(strings.TrimSpace(fields[0]))] = valence
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}
	if len(lex) == 0 {
		return nil, fmt.Errorf("lexicon is empty")
	}
	return lex, nil
}

// LoadLexicon reads a lexicon file from disk.
func LoadLexicon(path string) (Lexicon, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening lexicon %s: %w", path, err)
	}
	defer f.Close()
	return ParseLexicon(f)
}
