package chat

import (
	"errors"
	"testing"
	"time"
)

const scenarioExport = "[01/02/23, 09:00:00] Alice: Hello there\n" +
	"[01/02/23, 09:05:30] Bob: Hi Alice\n" +
	"[01/02/23, 09:10:00] Alice added Carol\n"

func TestParse_Scenario(t *testing.T) {
	result, err := Parse(scenarioExport)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(result.Records) != 3 {
		t.Fatalf("Got %d records, want 3", len(result.Records))
	}
	if result.Grammar.Name != "Bracketed 24h with seconds" {
		t.Errorf("Grammar = %q, want bracketed 24h", result.Grammar.Name)
	}

	r0 := result.Records[0]
	if r0.Sender != "Alice" || r0.Body != "Hello there" {
		t.Errorf("record 0 = %q / %q, want Alice / Hello there", r0.Sender, r0.Body)
	}
	want := time.Date(2023, 2, 1, 9, 0, 0, 0, time.UTC)
	if !r0.Timestamp.Equal(want) {
		t.Errorf("record 0 timestamp = %v, want %v", r0.Timestamp, want)
	}

	r1 := result.Records[1]
	if r1.Sender != "Bob" || r1.Body != "Hi Alice" {
		t.Errorf("record 1 = %q / %q, want Bob / Hi Alice", r1.Sender, r1.Body)
	}

	r2 := result.Records[2]
	if r2.Sender != NotificationSender {
		t.Errorf("record 2 sender = %q, want %q", r2.Sender, NotificationSender)
	}
	if r2.Body != "Alice added Carol" {
		t.Errorf("record 2 body = %q, want %q", r2.Body, "Alice added Carol")
	}
	if !r2.IsNotification() {
		t.Error("record 2 IsNotification() = false")
	}
}

func TestParse_IDsDenseAndOrdered(t *testing.T) {
	result, err := Parse(scenarioExport)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	for i, r := range result.Records {
		if r.ID != i {
			t.Errorf("Records[%d].ID = %d", i, r.ID)
		}
	}
}

func TestParse_DerivedFields(t *testing.T) {
	result, err := Parse("[01/02/23, 23:45:10] Alice: night\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	r := result.Records[0]

	if r.Year != 2023 || r.MonthNum != 2 || r.Month != "February" || r.Day != 1 {
		t.Errorf("calendar fields = %d/%d/%s/%d", r.Year, r.MonthNum, r.Month, r.Day)
	}
	if r.DayName != "Wednesday" || r.Weekday != time.Wednesday {
		t.Errorf("DayName = %q, want Wednesday", r.DayName)
	}
	if r.Hour != 23 || r.Minute != 45 {
		t.Errorf("Hour:Minute = %d:%d, want 23:45", r.Hour, r.Minute)
	}
	if r.HourBucket != "23-00" {
		t.Errorf("HourBucket = %q, want 23-00", r.HourBucket)
	}
	if !r.Date.Equal(time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v, want 2023-02-01", r.Date)
	}
}

func TestParse_HeaderNoiseDiscarded(t *testing.T) {
	text := "Exported chat with the team\nsecond header line\n" + scenarioExport
	result, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(result.Records) != 3 {
		t.Errorf("Got %d records, want 3", len(result.Records))
	}
}

func TestParse_MultilineBody(t *testing.T) {
	text := "[01/02/23, 09:00:00] Alice: first line\nsecond line\nnote: third\n" +
		"[01/02/23, 09:01:00] Bob: ok\n"
	result, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := result.Records[0].Body; got != "first line\nsecond line\nnote: third" {
		t.Errorf("Body = %q", got)
	}
}

func TestParse_SenderNeedsColonSpace(t *testing.T) {
	text := "[01/02/23, 09:00:00] Alice:\nhello\n" +
		"[01/02/23, 09:01:00] Bob:\tok\n" +
		"[01/02/23, 09:02:00] Carol: re: lunch\n"
	result, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		sender string
		body   string
	}{
		{NotificationSender, "Alice:\nhello"},
		{NotificationSender, "Bob:\tok"},
		{"Carol", "re: lunch"},
	}
	for i, tt := range tests {
		r := result.Records[i]
		if r.Sender != tt.sender || r.Body != tt.body {
			t.Errorf("record %d = %q / %q, want %q / %q", i, r.Sender, r.Body, tt.sender, tt.body)
		}
	}
}

func TestParse_EmptyBodyKept(t *testing.T) {
	text := "[01/02/23, 09:00:00] [01/02/23, 09:01:00] Bob: ok"
	result, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("Got %d records, want 2", len(result.Records))
	}
	r := result.Records[0]
	if r.Sender != NotificationSender || r.Body != "" {
		t.Errorf("record 0 = %q / %q, want notification with empty body", r.Sender, r.Body)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   \n\t"} {
		_, err := Parse(text)
		if !errors.Is(err, ErrEmptyOrUnrecognizedFormat) {
			t.Fatalf("Parse(%q) error = %v, want ErrEmptyOrUnrecognizedFormat", text, err)
		}
		var fe *FormatError
		if !errors.As(err, &fe) || fe.Reason != ReasonEmptyInput {
			t.Errorf("Parse(%q) reason = %v, want %v", text, fe, ReasonEmptyInput)
		}
	}
}

func TestParse_UnrecognizedFormat(t *testing.T) {
	_, err := Parse("just some text\nwithout any timestamps\n")
	if !errors.Is(err, ErrEmptyOrUnrecognizedFormat) {
		t.Fatalf("Parse() error = %v, want ErrEmptyOrUnrecognizedFormat", err)
	}
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Reason != ReasonNoTimestamps {
		t.Errorf("reason = %v, want %v", fe, ReasonNoTimestamps)
	}
	if len(fe.Grammars) != len(DefaultGrammars()) {
		t.Errorf("tried %d grammars, want %d", len(fe.Grammars), len(DefaultGrammars()))
	}
}

func TestParse_NullTimestampLenient(t *testing.T) {
	text := "[31/02/23, 09:00:00] Alice: impossible date\n[01/03/23, 10:00:00] Bob: fine\n"
	result, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("Got %d records, want 2 (row must be retained)", len(result.Records))
	}
	if result.NullTimestamps != 1 {
		t.Errorf("NullTimestamps = %d, want 1", result.NullTimestamps)
	}
	r := result.Records[0]
	if r.HasTimestamp() {
		t.Error("record 0 HasTimestamp() = true, want false")
	}
	if r.HourBucket != "" || r.DayName != "" {
		t.Errorf("null-timestamp record has derived fields: %q %q", r.HourBucket, r.DayName)
	}
	if r.Sender != "Alice" {
		t.Errorf("Sender = %q, want Alice", r.Sender)
	}
	if !result.Records[1].HasTimestamp() {
		t.Error("record 1 should have a timestamp")
	}
}

func TestParse_NullTimestampStrict(t *testing.T) {
	text := "[01/02/23, 09:00:00] Alice: ok\n[31/02/23, 09:00:00] Alice: impossible date\n"
	_, err := Parse(text, WithStrict(true))
	if err == nil {
		t.Fatal("Parse() expected error in strict mode")
	}
	var te *TimestampError
	if !errors.As(err, &te) {
		t.Fatalf("error = %T, want *TimestampError", err)
	}
	if te.Index != 1 {
		t.Errorf("Index = %d, want 1", te.Index)
	}
	if te.Raw != "31/02/23, 09:00:00" {
		t.Errorf("Raw = %q, want brackets stripped", te.Raw)
	}
}

func TestParse_Grammars(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		grammar string
		want    time.Time
		sender  string
		body    string
	}{
		{
			name:    "bracketed 24h four digit year",
			text:    "[1/2/2023, 9:00:00] Alice: hi\n",
			grammar: "Bracketed 24h with seconds",
			want:    time.Date(2023, 2, 1, 9, 0, 0, 0, time.UTC),
			sender:  "Alice",
			body:    "hi",
		},
		{
			name:    "bracketed 12h narrow space",
			text:    "[1/2/23, 9:00:00\u202fPM] Alice: hi\n",
			grammar: "Bracketed 12h with seconds",
			want:    time.Date(2023, 1, 2, 21, 0, 0, 0, time.UTC),
			sender:  "Alice",
			body:    "hi",
		},
		{
			name:    "dash 24h",
			text:    "01/02/23, 23:15 - Alice: late\n",
			grammar: "Dash 24h",
			want:    time.Date(2023, 2, 1, 23, 15, 0, 0, time.UTC),
			sender:  "Alice",
			body:    "late",
		},
		{
			name:    "dash 12h lowercase",
			text:    "12/31/2023, 11:59 pm - Bob: happy new year\n",
			grammar: "Dash 12h AM/PM",
			want:    time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC),
			sender:  "Bob",
			body:    "happy new year",
		},
		{
			name:    "dash 12h notification",
			text:    "1/2/23, 9:05 AM - Messages to this group are now secured with end-to-end encryption.\n",
			grammar: "Dash 12h AM/PM",
			want:    time.Date(2023, 1, 2, 9, 5, 0, 0, time.UTC),
			sender:  NotificationSender,
			body:    "Messages to this group are now secured with end-to-end encryption.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if result.Grammar.Name != tt.grammar {
				t.Errorf("Grammar = %q, want %q", result.Grammar.Name, tt.grammar)
			}
			r := result.Records[0]
			if !r.Timestamp.Equal(tt.want) {
				t.Errorf("Timestamp = %v, want %v", r.Timestamp, tt.want)
			}
			if r.Sender != tt.sender || r.Body != tt.body {
				t.Errorf("record = %q / %q, want %q / %q", r.Sender, r.Body, tt.sender, tt.body)
			}
		})
	}
}

func TestParse_WithGrammars(t *testing.T) {
	g, err := NewGrammar("ISO", `(\d{4}-\d{2}-\d{2} \d{2}:\d{2})\s\|\s`, []string{"2006-01-02 15:04"}, "")
	if err != nil {
		t.Fatalf("NewGrammar() error = %v", err)
	}
	text := "2024-01-15 10:30 | Alice: one\n2024-01-15 10:31 | Bob: two\n"

	result, err := Parse(text, WithGrammars(g))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("Got %d records, want 2", len(result.Records))
	}
	want := time.Date(2024, 1, 15, 10, 31, 0, 0, time.UTC)
	if !result.Records[1].Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", result.Records[1].Timestamp, want)
	}
}

func TestParse_SenderClassificationProperty(t *testing.T) {
	text := scenarioExport + "[01/02/23, 09:11:00] : no name\n[01/02/23, 09:12:00] Carol: \n"
	result, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	for _, r := range result.Records {
		if r.Sender == "" {
			t.Errorf("record %d has empty sender", r.ID)
		}
	}
	if got := result.Records[3].Sender; got != NotificationSender {
		t.Errorf("empty-name row sender = %q, want notification", got)
	}
}
