// Package analyzer computes the descriptive statistics of a parsed chat.
//
// Every operation is a pure function of a record set and a Filter. The
// record set is never modified; filtering copies the matching rows.
package analyzer

import (
	"time"

	"github.com/ccollicutt/chatlens/pkg/sentiment"
)

// Table names one aggregate result.
type Table string

const (
	TableBasicCounts         Table = "basic_counts"
	TableBusiestParticipants Table = "busiest_participants"
	TableVocabulary          Table = "vocabulary_frequency"
	TableEmoji               Table = "emoji_frequency"
	TableMonthlyTimeline     Table = "monthly_timeline"
	TableDailyTimeline       Table = "daily_timeline"
	TableWeekdayActivity     Table = "weekday_activity"
	TableMonthActivity       Table = "month_activity"
	TableHeatmap             Table = "activity_heatmap"
	TableSentiment           Table = "sentiment_scores"
)

// Tables returns every table name in report order.
func Tables() []Table {
	return []Table{
		TableBasicCounts,
		TableBusiestParticipants,
		TableVocabulary,
		TableEmoji,
		TableMonthlyTimeline,
		TableDailyTimeline,
		TableWeekdayActivity,
		TableMonthActivity,
		TableHeatmap,
		TableSentiment,
	}
}

// BasicCounts holds the headline totals for a filter.
type BasicCounts struct {
	// Messages is the number of records, notifications included.
	Messages int `json:"messages"`

	// Words is the number of whitespace-separated tokens. Media placeholder
	// rows contribute no words.
	Words int `json:"words"`

	// Media is the number of rows whose body is a media placeholder.
	Media int `json:"media"`

	// Links is the number of URL-shaped substrings.
	Links int `json:"links"`
}

// ParticipantShare is one sender's share of all messages.
type ParticipantShare struct {
	Name     string  `json:"name"`
	Messages int     `json:"messages"`
	Percent  float64 `json:"percent"`
}

// Busiest is the busiest_participants table.
type Busiest struct {
	// Top holds the most active senders, at most the configured limit.
	Top []ParticipantShare `json:"top"`

	// Shares holds every sender with its percentage, rounded to 2 places.
	Shares []ParticipantShare `json:"shares"`
}

// WordCount is a vocabulary_frequency row.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// EmojiCount is an emoji_frequency row.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// MonthlyPoint is a monthly_timeline row.
type MonthlyPoint struct {
	Label    string     `json:"label"`
	Year     int        `json:"year"`
	Month    time.Month `json:"month"`
	Messages int        `json:"messages"`
}

// DailyPoint is a daily_timeline row.
type DailyPoint struct {
	Date     time.Time `json:"date"`
	Messages int       `json:"messages"`
}

// WeekdayCount is a weekday_activity row.
type WeekdayCount struct {
	Day      string `json:"day"`
	Messages int    `json:"messages"`
}

// MonthCount is a month_activity row.
type MonthCount struct {
	Month    string `json:"month"`
	Messages int    `json:"messages"`
}

// Heatmap is a weekday by hour-bucket matrix of message counts.
// Cells[i][j] counts messages on Weekdays[i] within Buckets[j].
type Heatmap struct {
	Weekdays []string `json:"weekdays"`
	Buckets  []string `json:"buckets"`
	Cells    [][]int  `json:"cells"`
}

// Total returns the sum of all cells.
func (h *Heatmap) Total() int {
	total := 0
	for _, row := range h.Cells {
		for _, c := range row {
			total += c
		}
	}
	return total
}

// Cell returns the count for a weekday and bucket, 0 if either is absent.
func (h *Heatmap) Cell(weekday, bucket string) int {
	for i, d := range h.Weekdays {
		if d != weekday {
			continue
		}
		for j, b := range h.Buckets {
			if b == bucket {
				return h.Cells[i][j]
			}
		}
	}
	return 0
}

// SentimentRow is one scored message, joined back to its record id and sender.
type SentimentRow struct {
	ID     int    `json:"id"`
	Sender string `json:"sender"`
	sentiment.Scores
}
