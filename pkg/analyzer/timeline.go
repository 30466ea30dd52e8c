package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/ccollicutt/chatlens/pkg/chat"
)

// Records with a null timestamp are skipped by every temporal table.

// MonthlyTimeline counts messages per (year, month), oldest first.
func (a *Analyzer) MonthlyTimeline(records []chat.Record, f Filter) []MonthlyPoint {
	type key struct {
		year  int
		month time.Month
	}
	counts := make(map[key]int)
	for i := range records {
		r := &records[i]
		if !f.Matches(r) || !r.HasTimestamp() {
			continue
		}
		counts[key{r.Year, time.Month(r.MonthNum)}]++
	}

	rows := make([]MonthlyPoint, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, MonthlyPoint{
			Label:    fmt.Sprintf("%s-%d", k.month, k.year),
			Year:     k.year,
			Month:    k.month,
			Messages: n,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Month < rows[j].Month
	})
	return rows
}

// DailyTimeline counts messages per calendar date. Dates without messages
// are not filled in.
func (a *Analyzer) DailyTimeline(records []chat.Record, f Filter) []DailyPoint {
	counts := make(map[time.Time]int)
	for i := range records {
		r := &records[i]
		if !f.Matches(r) || !r.HasTimestamp() {
			continue
		}
		counts[r.Date]++
	}

	rows := make([]DailyPoint, 0, len(counts))
	for d, n := range counts {
		rows = append(rows, DailyPoint{Date: d, Messages: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows
}

// weekdayOrder runs Monday to Sunday.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

func weekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// WeekdayActivity counts messages per weekday, busiest first. Only weekdays
// with messages appear; ties run Monday to Sunday.
func (a *Analyzer) WeekdayActivity(records []chat.Record, f Filter) []WeekdayCount {
	var counts [7]int
	for i := range records {
		r := &records[i]
		if !f.Matches(r) || !r.HasTimestamp() {
			continue
		}
		counts[weekdayIndex(r.Weekday)]++
	}

	rows := make([]WeekdayCount, 0, 7)
	for i, d := range weekdayOrder {
		if counts[i] > 0 {
			rows = append(rows, WeekdayCount{Day: d.String(), Messages: counts[i]})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Messages > rows[j].Messages
	})
	return rows
}

// MonthActivity counts messages per month name across years, busiest first.
// Ties run January to December.
func (a *Analyzer) MonthActivity(records []chat.Record, f Filter) []MonthCount {
	var counts [12]int
	for i := range records {
		r := &records[i]
		if !f.Matches(r) || !r.HasTimestamp() {
			continue
		}
		counts[r.MonthNum-1]++
	}

	rows := make([]MonthCount, 0, 12)
	for i, n := range counts {
		if n > 0 {
			rows = append(rows, MonthCount{Month: time.Month(i + 1).String(), Messages: n})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Messages > rows[j].Messages
	})
	return rows
}

// ActivityHeatmap builds the weekday by hour-bucket matrix. Rows are the
// weekdays present, Monday first; columns are the buckets present in hour
// order. Combinations without messages are 0.
func (a *Analyzer) ActivityHeatmap(records []chat.Record, f Filter) Heatmap {
	var grid [7][24]int
	var days [7]bool
	var hours [24]bool
	for i := range records {
		r := &records[i]
		if !f.Matches(r) || !r.HasTimestamp() {
			continue
		}
		d := weekdayIndex(r.Weekday)
		grid[d][r.Hour]++
		days[d] = true
		hours[r.Hour] = true
	}

	h := Heatmap{
		Weekdays: []string{},
		Buckets:  []string{},
		Cells:    [][]int{},
	}
	var hourCols []int
	for hour, present := range hours {
		if present {
			hourCols = append(hourCols, hour)
			h.Buckets = append(h.Buckets, chat.HourBucket(hour))
		}
	}
	for d, present := range days {
		if !present {
			continue
		}
		h.Weekdays = append(h.Weekdays, weekdayOrder[d].String())
		row := make([]int, len(hourCols))
		for j, hour := range hourCols {
			row[j] = grid[d][hour]
		}
		h.Cells = append(h.Cells, row)
	}
	return h
}
