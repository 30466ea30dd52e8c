package analyzer

import (
	"sort"

	"github.com/ccollicutt/chatlens/pkg/chat"
)

// Filter restricts an aggregate to one sender, or to everyone with Overall.
type Filter string

// Overall selects all records, notifications included.
const Overall Filter = "Overall"

// IsOverall reports whether f selects every record. The empty filter is
// treated as Overall.
func (f Filter) IsOverall() bool {
	return f == Overall || f == ""
}

// Matches reports whether a record passes the filter.
func (f Filter) Matches(r *chat.Record) bool {
	return f.IsOverall() || r.Sender == string(f)
}

// Select returns a copy of the records passing the filter, in parse order.
func Select(records []chat.Record, f Filter) []chat.Record {
	out := make([]chat.Record, 0, len(records))
	for i := range records {
		if f.Matches(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// Participants returns the filter choices for a record set: Overall first,
// then every distinct sender in sorted order, without the notification sentinel.
func Participants(records []chat.Record) []string {
	seen := make(map[string]bool)
	var names []string
	for i := range records {
		s := records[i].Sender
		if s == chat.NotificationSender || seen[s] {
			continue
		}
		seen[s] = true
		names = append(names, s)
	}
	sort.Strings(names)
	return append([]string{string(Overall)}, names...)
}

// HasSender reports whether any record was sent by name.
func HasSender(records []chat.Record, name string) bool {
	for i := range records {
		if records[i].Sender == name {
			return true
		}
	}
	return false
}
