package analyzer

import (
	"math"
	"sort"
	"strings"

	"mvdan.cc/xurls/v2"

	"github.com/ccollicutt/chatlens/pkg/chat"
)

var linkPattern = xurls.Relaxed()

// BasicCounts returns message, word, media and link totals.
func (a *Analyzer) BasicCounts(records []chat.Record, f Filter) BasicCounts {
	var c BasicCounts
	for i := range records {
		r := &records[i]
		if !f.Matches(r) {
			continue
		}
		c.Messages++
		if a.IsMedia(r.Body) {
			c.Media++
		} else {
			c.Words += len(strings.Fields(r.Body))
		}
		c.Links += len(linkPattern.FindAllString(r.Body, -1))
	}
	return c
}

// BusiestParticipants ranks senders across all records. The notification
// sentinel is counted like any other sender. Ties keep first-appearance order.
func (a *Analyzer) BusiestParticipants(records []chat.Record) Busiest {
	var (
		order  []string
		counts = make(map[string]int)
	)
	for i := range records {
		s := records[i].Sender
		if _, ok := counts[s]; !ok {
			order = append(order, s)
		}
		counts[s]++
	}

	shares := make([]ParticipantShare, 0, len(order))
	for _, name := range order {
		shares = append(shares, ParticipantShare{
			Name:     name,
			Messages: counts[name],
			Percent:  roundTo(float64(counts[name])/float64(len(records))*100, 2),
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Messages > shares[j].Messages
	})

	top := shares[:min(a.topParticipants, len(shares))]
	return Busiest{
		Top:    append(make([]ParticipantShare, 0, len(top)), top...),
		Shares: shares,
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
