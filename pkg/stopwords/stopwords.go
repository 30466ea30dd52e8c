// Package stopwords parses stop-word lists into token sets.
package stopwords

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Set is a set of lowercased stop words. The zero value is an empty set.
type Set map[string]struct{}

// New returns a set holding the given words.
func New(words ...string) Set {
	s := make(Set, len(words))
	s.Add(words...)
	return s
}

// Parse reads a whitespace-delimited word list. Tokens are lowercased and
// deduplicated; a token starting with '#' comments out the rest of its line.
func Parse(r io.Reader) (Set, error) {
	s := make(Set)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		for _, field := range strings.Fields(scanner.Text()) {
			if strings.HasPrefix(field, "#") {
				break
			}
			s.Add(field)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stop words: %w", err)
	}
	return s, nil
}

// Load reads a stop-word file from disk.
func Load(path string) (Set, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening stop-word file %s: %w", path, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Add inserts words into the set.
func (s Set) Add(words ...string) {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s[w] = struct{}{}
		}
	}
}

// Contains reports whether token is a stop word. Matching is on whole
// tokens, case-insensitively.
func (s Set) Contains(token string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[strings.ToLower(token)]
	return ok
}

// Len returns the number of distinct stop words.
func (s Set) Len() int {
	return len(s)
}

// Merge returns a new set holding the words of both sets.
func (s Set) Merge(other Set) Set {
	out := make(Set, len(s)+len(other))
	for w := range s {
		out[w] = struct{}{}
	}
	for w := range other {
		out[w] = struct{}{}
	}
	return out
}

// Words returns the stop words in sorted order.
func (s Set) Words() []string {
	words := make([]string, 0, len(s))
	for w := range s {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
