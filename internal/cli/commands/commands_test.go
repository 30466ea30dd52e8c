package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/pkg/chat"
	"github.com/ccollicutt/chatlens/pkg/ingest"
	"github.com/ccollicutt/chatlens/pkg/output"
)

const testExport = "[01/02/23, 09:00:00] Alice: Hello there\n" +
	"[01/02/23, 09:05:30] Bob: Hi Alice\n" +
	"[01/02/23, 09:10:00] Alice added Carol\n"

const nullTimestampExport = testExport +
	"[31/02/23, 21:00:00] Carol: typo date\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestNewAnalyzeCommand(t *testing.T) {
	cmd := NewAnalyzeCommand()

	if cmd.Use != "analyze <export>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	flags := []string{"config", "user", "output", "tables", "records", "strict", "verbose", "quiet",
		"webhook-url", "webhook-token", "webhook-trigger"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
	if !strings.Contains(cmd.Long, "activity_heatmap") {
		t.Error("Long description should list the tables")
	}
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("Missing description in Long")
	}
}

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	for _, flag := range []string{"settings", "addr", "config", "max-body-bytes", "read-timeout"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestRunServe_MissingSettingsFile(t *testing.T) {
	_, _, err := execute(t, NewServeCommand(), "--settings", "/nonexistent/chatlens-server.yaml")
	if err == nil || !strings.Contains(err.Error(), "loading settings") {
		t.Errorf("expected settings error, got %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, NewVersionCommand())
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if stdout != "chatlens dev\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRunAnalyze_Text(t *testing.T) {
	exportPath := writeFile(t, "chat.txt", testExport)

	stdout, _, err := execute(t, NewAnalyzeCommand(), exportPath)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", ExitCode)
	}

	for _, want := range []string{"=== Chat Analysis Report ===", "Messages: 3", "Words:    7", "[BUSIEST PARTICIPANTS]", "Alice"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Output missing %q", want)
		}
	}
}

func TestRunAnalyze_JSONForUser(t *testing.T) {
	exportPath := writeFile(t, "chat.txt", testExport)

	stdout, _, err := execute(t, NewAnalyzeCommand(), "-o", "json", "--user", "Bob", "--records", exportPath)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var report output.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if report.Metadata.Filter != "Bob" || report.Counts.Messages != 1 {
		t.Errorf("unexpected report: %+v %+v", report.Metadata, report.Counts)
	}
	if report.Busiest != nil {
		t.Error("busiest participants should be omitted for a single participant")
	}
	if len(report.Records) != 1 {
		t.Errorf("Records = %d, want 1", len(report.Records))
	}
}

func TestRunAnalyze_Quiet(t *testing.T) {
	exportPath := writeFile(t, "chat.txt", testExport)

	stdout, _, err := execute(t, NewAnalyzeCommand(), "-q", exportPath)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if stdout != "chatlens: Overall: 3 messages, 7 words, 0 media, 0 links\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRunAnalyze_UnrecognizedFormat(t *testing.T) {
	exportPath := writeFile(t, "notes.txt", "shopping list\nmilk\n")

	_, stderr, err := execute(t, NewAnalyzeCommand(), exportPath)
	if err != nil {
		t.Fatalf("expected nil error for an unusable export, got %v", err)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode)
	}
	if !strings.Contains(stderr, "no timestamps found") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunAnalyze_Strict(t *testing.T) {
	exportPath := writeFile(t, "chat.txt", nullTimestampExport)

	_, stderr, err := execute(t, NewAnalyzeCommand(), "--strict", exportPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode)
	}
	if !strings.Contains(stderr, "31/02/23") {
		t.Errorf("stderr should name the bad stamp: %q", stderr)
	}
}

func TestRunAnalyze_Errors(t *testing.T) {
	exportPath := writeFile(t, "chat.txt", testExport)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"/nonexistent/chat.txt"}, "reading export"},
		{"unknown user", []string{"--user", "Dave", exportPath}, "unknown participant"},
		{"unknown table", []string{"--tables", "nope", exportPath}, "unknown table"},
		{"bad output", []string{"-o", "xml", exportPath}, "invalid output format"},
		{"missing config", []string{"-c", "/nonexistent/config.yaml", exportPath}, "loading config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, NewAnalyzeCommand(), tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestIsInputError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"format", &chat.FormatError{Reason: chat.ReasonNoTimestamps}, true},
		{"wrapped format", fmt.Errorf("chat.txt: %w", &chat.FormatError{Reason: chat.ReasonEmptyInput}), true},
		{"strict timestamp", &chat.TimestampError{Raw: "31/02/23"}, true},
		{"undecodable", ingest.ErrUndecodable, true},
		{"no chat in archive", ingest.ErrNoChatInArchive, true},
		{"missing file", os.ErrNotExist, false},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isInputError(tt.err); got != tt.want {
				t.Errorf("isInputError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunUsers(t *testing.T) {
	exportPath := writeFile(t, "chat.txt", testExport)

	stdout, _, err := execute(t, NewUsersCommand(), exportPath)
	if err != nil {
		t.Fatalf("users failed: %v", err)
	}
	if stdout != "Overall\nAlice\nBob\n" {
		t.Errorf("stdout = %q", stdout)
	}

	stdout, _, err = execute(t, NewUsersCommand(), "-o", "json", exportPath)
	if err != nil {
		t.Fatalf("users failed: %v", err)
	}
	var body map[string][]string
	if err := json.Unmarshal([]byte(stdout), &body); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(body["participants"]) != 3 {
		t.Errorf("participants = %v", body["participants"])
	}
}

func TestRunValidate_Success(t *testing.T) {
	stopWords := writeFile(t, "stop.txt", "the a an\n# comment\nok\n")
	configPath := writeFile(t, "config.yaml", `grammars:
  - name: ISO pipe
    pattern: '\d{4}-\d{2}-\d{2} \d{2}:\d{2} \| '
    layouts: ["2006-01-02 15:04"]
    trim: " |"
stop_words_file: `+stopWords+`
stop_words: [lol]
top_words: 10
`)

	stdout, _, err := execute(t, NewValidateCommand(), configPath)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	for _, want := range []string{"Configuration valid!", "Stop words:         5", "Top words:          10", "1. [configured] ISO pipe", "2. [built-in]"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Output missing %q", want)
		}
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	configPath := writeFile(t, "invalid.yaml", "invalid: yaml: content")

	if _, _, err := execute(t, NewValidateCommand(), configPath); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	if _, _, err := execute(t, NewValidateCommand(), "/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
