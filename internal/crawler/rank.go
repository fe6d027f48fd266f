package crawler

import (
	"bytes"
	"cmp"
	"encoding/json"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// WordCount is a word and its number of occurrences.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// RankedWords is a list of words, most popular first.
// It marshals to a JSON object whose keys keep the ranking order.
type RankedWords []WordCount

// Rank returns the n most popular words of counts.
//
// Words are ordered by descending count, then by descending length in
// runes, then lexicographically, so equal inputs always rank identically.
// An empty tally or a non-positive n yields an empty, non-nil ranking.
func Rank(counts map[string]int, n int) RankedWords {
	if n <= 0 || len(counts) == 0 {
		return RankedWords{}
	}

	words := make(RankedWords, 0, len(counts))
	for word, count := range counts {
		words = append(words, WordCount{Word: word, Count: count})
	}
	slices.SortFunc(words, compareWordCounts)

	if len(words) > n {
		words = words[:n]
	}
	return slices.Clip(words)
}

func compareWordCounts(a, b WordCount) int {
	if c := cmp.Compare(b.Count, a.Count); c != 0 {
		return c
	}
	if c := cmp.Compare(utf8.RuneCountInString(b.Word), utf8.RuneCountInString(a.Word)); c != 0 {
		return c
	}
	return strings.Compare(a.Word, b.Word)
}

// Map returns the ranking as an unordered map.
func (r RankedWords) Map() map[string]int {
	out := make(map[string]int, len(r))
	for _, wc := range r {
		out[wc.Word] = wc.Count
	}
	return out
}

// MarshalJSON encodes the ranking as {"word": count, ...} in ranking order.
func (r RankedWords) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, wc := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(wc.Word)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(wc.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
