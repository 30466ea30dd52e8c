package analyzer

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/kyokomi/emoji/v2"

	"github.com/ccollicutt/chatlens/pkg/chat"
)

var variationSelectors = strings.NewReplacer("\ufe0f", "", "\ufe0e", "")

// emojiRunes is the set of single code point emoji in the Unicode emoji
// list. Joiners, variation selectors and keycap bases are not in it.
var emojiRunes = sync.OnceValue(func() map[rune]struct{} {
	set := make(map[rune]struct{})
	for _, e := range emoji.CodeMap() {
		e = variationSelectors.Replace(e)
		if r, size := utf8.DecodeRuneInString(e); r != utf8.RuneError && size == len(e) {
			set[r] = struct{}{}
		}
	}
	return set
})

// IsEmoji reports whether r is an emoji code point.
func IsEmoji(r rune) bool {
	_, ok := emojiRunes()[r]
	return ok
}

// EmojiFrequency counts every emoji occurrence, most used first. Ties keep
// first-seen order.
func (a *Analyzer) EmojiFrequency(records []chat.Record, f Filter) []EmojiCount {
	counts := make(map[rune]int)
	var order []rune
	for i := range records {
		r := &records[i]
		if !f.Matches(r) {
			continue
		}
		for _, c := range r.Body {
			if !IsEmoji(c) {
				continue
			}
			if counts[c] == 0 {
				order = append(order, c)
			}
			counts[c]++
		}
	}

	rows := make([]EmojiCount, 0, len(order))
	for _, c := range order {
		rows = append(rows, EmojiCount{Emoji: string(c), Count: counts[c]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	return rows
}
