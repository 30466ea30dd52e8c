package sentiment

import (
	"math"
	"strings"
	"sync"
	"testing"
)

func TestAnalyzer_Polarity(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		name string
		text string
		sign int
	}{
		{"positive", "I love this", 1},
		{"negative", "This is terrible", -1},
		{"negated positive", "I do not love this", -1},
		{"negated contraction", "I don't like it", -1},
		{"neutral", "the meeting is at noon", 0},
		{"emoticon", "see you tomorrow :)", 1},
		{"but shifts weight", "The food was good but the service was terrible", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.PolarityScores(tt.text).Compound
			switch {
			case tt.sign > 0 && got <= 0:
				t.Errorf("Compound(%q) = %v, want > 0", tt.text, got)
			case tt.sign < 0 && got >= 0:
				t.Errorf("Compound(%q) = %v, want < 0", tt.text, got)
			case tt.sign == 0 && got != 0:
				t.Errorf("Compound(%q) = %v, want 0", tt.text, got)
			}
		})
	}
}

func TestAnalyzer_ReferenceScores(t *testing.T) {
	a := NewAnalyzer()

	// Compound scores published with the VADER reference implementation.
	tests := []struct {
		text string
		want float64
	}{
		{"VADER is smart, handsome, and funny.", 0.8316},
		{"The book was good.", 0.4404},
		{"Today SUX!", -0.5461},
		{"Not bad at all", 0.431},
		{"At least it isn't a horrible book.", 0.431},
		{"Most automated sentiment analysis tools are shit.", -0.5574},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := a.PolarityScores(tt.text).Compound; math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Compound(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestAnalyzer_ReferenceProportions(t *testing.T) {
	got := NewAnalyzer().PolarityScores("The book was good.")

	if math.Abs(got.Positive-0.492) > 0.001 || math.Abs(got.Neutral-0.508) > 0.001 || got.Negative != 0 {
		t.Errorf("proportions = %+v, want pos 0.492 neu 0.508 neg 0", got)
	}
}

func TestAnalyzer_FullLexicon(t *testing.T) {
	a := NewAnalyzer()

	if a.LexiconSize() < 7000 {
		t.Errorf("LexiconSize() = %d, want the full VADER lexicon", a.LexiconSize())
	}

	tests := []struct {
		text string
		sign int
	}{
		{"delicious day", 1},
		{"grateful day", 1},
		{"sucks day", -1},
		{"lol", 1},
	}
	for _, tt := range tests {
		got := a.PolarityScores(tt.text).Compound
		if tt.sign > 0 && got <= 0 || tt.sign < 0 && got >= 0 {
			t.Errorf("Compound(%q) = %v, want sign %d", tt.text, got, tt.sign)
		}
	}
}

func TestAnalyzer_MultilineText(t *testing.T) {
	a := NewAnalyzer()

	if got, want := a.PolarityScores("The book\nwas   good."), a.PolarityScores("The book was good."); got != want {
		t.Errorf("PolarityScores with line breaks = %+v, want %+v", got, want)
	}
}

func TestAnalyzer_Intensifiers(t *testing.T) {
	a := NewAnalyzer()
	base := a.PolarityScores("good day").Compound

	tests := []struct {
		name string
		text string
	}{
		{"booster", "very good day"},
		{"exclamation", "good day!!!"},
		{"caps", "GOOD day"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.PolarityScores(tt.text).Compound; got <= base {
				t.Errorf("Compound(%q) = %v, want > %v", tt.text, got, base)
			}
		})
	}
}

func TestAnalyzer_ProportionsSumToOne(t *testing.T) {
	a := NewAnalyzer()
	for _, text := range []string{
		"What a wonderful day, thanks everyone",
		"I hate waiting but the result was great!!",
		"ok see you at 5",
	} {
		s := a.PolarityScores(text)
		if sum := s.Negative + s.Neutral + s.Positive; math.Abs(sum-1) > 0.002 {
			t.Errorf("%q: proportions sum to %v", text, sum)
		}
		if s.Compound < -1 || s.Compound > 1 {
			t.Errorf("%q: compound %v out of range", text, s.Compound)
		}
	}
}

func TestAnalyzer_Empty(t *testing.T) {
	a := NewAnalyzer()
	for _, text := range []string{"", "   ", "\n\t"} {
		if got := a.PolarityScores(text); got != (Scores{}) {
			t.Errorf("PolarityScores(%q) = %+v, want zero", text, got)
		}
	}
}

func TestAnalyzer_WithLexicon(t *testing.T) {
	a := NewAnalyzer(WithLexicon(Lexicon{"meh": -1.5}))

	if a.LexiconSize() != 1 {
		t.Errorf("LexiconSize() = %d, want 1", a.LexiconSize())
	}
	if got := a.PolarityScores("meh").Compound; got >= 0 {
		t.Errorf("Compound = %v, want < 0", got)
	}
	if got := a.PolarityScores("love").Compound; got != 0 {
		t.Errorf("Compound = %v, want 0 with custom lexicon", got)
	}
}

func TestAnalyzer_ConcurrentUse(t *testing.T) {
	a := NewAnalyzer()
	want := a.PolarityScores("great work team")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := a.PolarityScores("great work team"); got != want {
				t.Errorf("concurrent score = %+v, want %+v", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestParseLexicon(t *testing.T) {
	lex, err := ParseLexicon(strings.NewReader("# comment\nGood\t1.9\t0.9\t[2, 2]\n\nbad\t-2.5\n"))
	if err != nil {
		t.Fatalf("ParseLexicon() error = %v", err)
	}
	if lex["good"] != 1.9 || lex["bad"] != -2.5 {
		t.Errorf("lexicon = %v", lex)
	}
}

func TestParseLexicon_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing valence", "good\n"},
		{"invalid valence", "good\thigh\n"},
		{"empty", "# nothing\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseLexicon(strings.NewReader(tt.input)); err == nil {
				t.Error("ParseLexicon() expected error")
			}
		})
	}
}
