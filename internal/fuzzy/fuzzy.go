package fuzzy

import (
	"unicode/utf8"

	"github.com/desertthunder/termkit/internal/models"
	"github.com/sahilm/fuzzy"
)

// Result is one entry of a filtered view.
type Result struct {
	Index     int // position in the unfiltered list
	Candidate models.Candidate
	Positions []int // rune offsets of matched characters in the display text
}

// source adapts the valid candidates of a list to [fuzzy.Source].
type source struct {
	items   []models.Candidate
	indexes []int
}

func (s source) String(i int) string { return s.items[s.indexes[i]].Display() }
func (s source) Len() int            { return len(s.indexes) }

func newSource(items []models.Candidate) source {
	s := source{items: items, indexes: make([]int, 0, len(items))}
	for i, item := range items {
		if utf8.ValidString(item.Display()) {
			s.indexes = append(s.indexes, i)
		}
	}
	return s
}

// Filter returns the candidates matching query in their original order.
func Filter(items []models.Candidate, query string) []Result {
	if query == "" {
		results := make([]Result, len(items))
		for i, item := range items {
			results[i] = Result{Index: i, Candidate: item}
		}
		return results
	}
	if !utf8.ValidString(query) {
		return []Result{}
	}

	src := newSource(items)
	matches := fuzzy.FindFromNoSort(query, src)
	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		idx := src.indexes[m.Index]
		results = append(results, Result{
			Index:     idx,
			Candidate: items[idx],
			Positions: runePositions(m.Str, m.MatchedIndexes),
		})
	}
	return results
}

// Match reports whether query matches candidate and which runes it matched.
func Match(candidate, query string) ([]int, bool) {
	if query == "" {
		return nil, true
	}
	if !utf8.ValidString(candidate) || !utf8.ValidString(query) {
		return nil, false
	}
	matches := fuzzy.FindNoSort(query, []string{candidate})
	if len(matches) == 0 {
		return nil, false
	}
	return runePositions(candidate, matches[0].MatchedIndexes), true
}

// runePositions converts byte offsets into s to rune offsets.
func runePositions(s string, byteIndexes []int) []int {
	if len(byteIndexes) == 0 {
		return nil
	}
	positions := make([]int, 0, len(byteIndexes))
	next := 0
	r := 0
	for b := range s {
		if next == len(byteIndexes) {
			break
		}
		if b == byteIndexes[next] {
			positions = append(positions, r)
			next++
		}
		r++
	}
	return positions
}
