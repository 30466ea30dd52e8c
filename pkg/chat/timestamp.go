package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var stampReplacer = strings.NewReplacer(
	"\u202f", " ", // narrow no-break space used by newer exports
	"\u00a0", " ",
	"\u200e", "",
	".", "", // a.m. / p.m.
)

// ExtractStamp returns the stamp text for one delimiter match, with the
// grammar's enclosing delimiters stripped.
func (g *Grammar) ExtractStamp(match string) string {
	stamp := match
	if g.Pattern.NumSubexp() >= 1 {
		if sub := g.Pattern.FindStringSubmatch(match); len(sub) > 1 && sub[1] != "" {
			stamp = sub[1]
		}
	}
	return strings.TrimSpace(strings.Trim(stamp, g.Trim))
}

// ParseStamp parses a stripped stamp with the grammar's layouts.
// Times are interpreted as UTC; exports carry no zone information.
func (g *Grammar) ParseStamp(stamp string) (time.Time, error) {
	if stamp == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	normalized := strings.ToUpper(stampReplacer.Replace(stamp))

	var firstErr error
	for _, layout := range g.Layouts {
		ts, err := time.Parse(layout, normalized)
		if err == nil {
			return ts, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("no layout matched: %w", firstErr)
}

// HourBucket returns the one-hour window label for an hour of day.
// Hour 23 wraps to "23-00"; every other hour h yields "h-(h+1)".
func HourBucket(hour int) string {
	if hour == 23 {
		return "23-00"
	}
	return fmt.Sprintf("%d-%d", hour, hour+1)
}
