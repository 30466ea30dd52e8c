package detector

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDetector_DetectFromLines_Bracketed24h(t *testing.T) {
	lines := []string{
		"[01/02/23, 09:00:00] Alice: Hello there",
		"[01/02/23, 09:05:30] Bob: Hi Alice",
		"[01/02/23, 09:10:00] Alice added Carol",
	}

	d := New()
	result := d.DetectFromLines(lines)

	if !result.HasMatch() {
		t.Fatal("Expected to detect a grammar")
	}

	best := result.BestMatch()
	if best.Grammar.Name != "Bracketed 24h with seconds" {
		t.Errorf("Expected Bracketed 24h with seconds, got %s", best.Grammar.Name)
	}
	if best.Confidence != 1.0 {
		t.Errorf("Expected 100%% confidence, got %.1f%%", best.Confidence*100)
	}
	if result.ParsedLines != 3 {
		t.Errorf("Expected 3 parsed lines, got %d", result.ParsedLines)
	}
}

func TestDetector_DetectFromLines_Dash12h(t *testing.T) {
	lines := []string{
		"1/2/23, 9:00 PM - Messages to this group are now secured with end-to-end encryption.",
		"1/2/23, 9:01 PM - Alice: hi",
		"1/15/23, 9:02 PM - Bob: hello",
	}

	d := New()
	result := d.DetectFromLines(lines)

	best := result.BestMatch()
	if best == nil {
		t.Fatal("Expected to detect a grammar")
	}
	if best.Grammar.Name != "Dash 12h AM/PM" {
		t.Errorf("Expected Dash 12h AM/PM, got %s", best.Grammar.Name)
	}
	if best.MatchCount != 3 {
		t.Errorf("Expected 3 matches, got %d", best.MatchCount)
	}
	if result.DayFirst == nil || *result.DayFirst {
		t.Error("Expected month-first evidence from 1/15/23")
	}
	if result.AmbiguityNote != "" {
		t.Errorf("Expected no ambiguity note once order is settled, got %q", result.AmbiguityNote)
	}
}

func TestDetector_DetectFromLines_AmbiguousGrammar(t *testing.T) {
	lines := []string{
		"1/2/23, 9:00 PM - Alice: hi",
		"1/3/23, 9:01 PM - Bob: hello",
	}

	result := New().DetectFromLines(lines)

	best := result.BestMatch()
	if best == nil {
		t.Fatal("Expected to detect a grammar")
	}
	if !best.Grammar.Ambiguous {
		t.Error("Expected grammar to be marked as ambiguous")
	}
	if result.AmbiguityNote == "" {
		t.Error("Expected ambiguity note to be set")
	}
}

func TestDetector_DetectFromLines_ContinuationLines(t *testing.T) {
	// Multi-line messages lower confidence but keep the grammar on top
	lines := []string{
		"01/02/23, 09:00 - Alice: first line",
		"second line of the same message",
		"01/02/23, 09:01 - Bob: ok",
		"01/02/23, 09:02 - Bob: fine",
	}

	result := New().DetectFromLines(lines)

	best := result.BestMatch()
	if best == nil {
		t.Fatal("Expected to detect a grammar")
	}
	if best.Grammar.Name != "Dash 24h" {
		t.Errorf("Expected Dash 24h, got %s", best.Grammar.Name)
	}
	if best.Confidence != 0.75 {
		t.Errorf("Expected 75%% confidence, got %.1f%%", best.Confidence*100)
	}
}

func TestDetector_DetectFromLines_NoMatch(t *testing.T) {
	lines := []string{
		"No timestamp here",
		"Just some text",
	}

	result := New().DetectFromLines(lines)

	if result.HasMatch() {
		t.Errorf("Expected no match, got %s", result.BestMatch().Grammar.Name)
	}
	if result.SampledLines != 2 {
		t.Errorf("Expected 2 sampled lines, got %d", result.SampledLines)
	}
}

func TestDetector_DetectFromLines_EmptyInput(t *testing.T) {
	result := New().DetectFromLines([]string{})

	if result.HasMatch() {
		t.Error("Expected no match for empty input")
	}
	if result.SampledLines != 0 {
		t.Errorf("Expected 0 sampled lines, got %d", result.SampledLines)
	}
}

func TestDetector_WithSampleSize(t *testing.T) {
	d := New(WithSampleSize(50))
	if d.sampleSize != 50 {
		t.Errorf("Expected sample size 50, got %d", d.sampleSize)
	}
}

func TestDetector_WithSampleSize_Invalid(t *testing.T) {
	d := New(WithSampleSize(-1))
	if d.sampleSize != 200 {
		t.Errorf("Expected default sample size 200, got %d", d.sampleSize)
	}
}

func TestDetector_DetectFromText_SampleLimit(t *testing.T) {
	text := "[01/02/23, 09:00:00] A: x\n\n[01/02/23, 09:00:01] B: y\n[01/02/23, 09:00:02] C: z\n"

	result := New(WithSampleSize(2)).DetectFromText(context.Background(), text)

	if result.SampledLines != 2 {
		t.Errorf("Expected 2 sampled lines, got %d", result.SampledLines)
	}
}

func TestDetector_DetectFromFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "chat.txt")
	content := "\ufeff[01/02/23, 09:00:00] Alice: Hello there\n[01/02/23, 09:05:30] Bob: Hi Alice\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	result, err := New().DetectFromFile(context.Background(), tmpFile)
	if err != nil {
		t.Fatalf("DetectFromFile failed: %v", err)
	}

	best := result.BestMatch()
	if best == nil || best.Grammar.Name != "Bracketed 24h with seconds" {
		t.Fatalf("Expected Bracketed 24h with seconds, got %+v", best)
	}
	if best.MatchCount != 2 {
		t.Errorf("Expected BOM-prefixed first line to match, got %d matches", best.MatchCount)
	}
}

func TestDetector_DetectFromFile_NotFound(t *testing.T) {
	_, err := New().DetectFromFile(context.Background(), "/nonexistent/chat.txt")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}
