// Package chat parses exported chat logs into an ordered, typed record set.
package chat

import "time"

// NotificationSender is the sender assigned to system generated rows
// (joins, leaves, group setting changes) that have no human author.
const NotificationSender = "group_notification"

// Record is a single message or notification from a chat export.
// Records are built once by the Parser and must be treated as immutable.
type Record struct {
	// ID is the 0-based position in parse order.
	ID int `json:"id"`

	// Timestamp is the parsed message time. It is the zero time when the
	// stamp could not be parsed and the parser ran in lenient mode.
	Timestamp time.Time `json:"timestamp,omitzero"`

	// Sender is the participant display name or NotificationSender.
	Sender string `json:"sender"`

	// Body is the message text, including media placeholders verbatim.
	Body string `json:"body"`

	// Derived calendar fields. All are zero values when Timestamp is zero.
	Date       time.Time    `json:"date,omitzero"`
	Year       int          `json:"year,omitempty"`
	MonthNum   int          `json:"month_num,omitempty"`
	Month      string       `json:"month,omitempty"`
	Day        int          `json:"day,omitempty"`
	Weekday    time.Weekday `json:"-"`
	DayName    string       `json:"day_name,omitempty"`
	Hour       int          `json:"hour"`
	Minute     int          `json:"minute"`
	HourBucket string       `json:"hour_bucket,omitempty"`
}

// HasTimestamp reports whether the record carries a parsed timestamp.
func (r *Record) HasTimestamp() bool {
	return !r.Timestamp.IsZero()
}

// IsNotification reports whether the row is a system notification.
func (r *Record) IsNotification() bool {
	return r.Sender == NotificationSender
}

// Result is the output of a successful parse.
type Result struct {
	// Records holds one entry per timestamp delimiter, in source order.
	Records []Record

	// Grammar is the grammar that matched the input.
	Grammar *Grammar

	// NullTimestamps counts records whose stamp was coerced to zero.
	NullTimestamps int
}
