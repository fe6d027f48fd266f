package crawler

import "regexp"

// patternSet matches strings against regular expressions anchored at both ends.
type patternSet []*regexp.Regexp

// newPatternSet anchors every pattern so it must match a whole string.
func newPatternSet(patterns []*regexp.Regexp) patternSet {
	set := make(patternSet, 0, len(patterns))
	for _, p := range patterns {
		if p == nil {
			continue
		}
		set = append(set, regexp.MustCompile(`^(?:`+p.String()+`)$`))
	}
	return set
}

// matchAny reports whether any pattern matches all of s.
func (ps patternSet) matchAny(s string) bool {
	for _, p := range ps {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
