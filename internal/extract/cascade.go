package extract

import (
	"regexp"
	"sort"
	"strings"
)

// candidate is one regex hit under consideration by a cascade.
type candidate struct {
	value string
	start int
	end   int
	// groups holds all submatch groups of the hit, including group 0.
	groups []string
}

// rejectFunc filters a candidate before acceptance. Returning true
// discards the candidate and lets the cascade keep scanning.
type rejectFunc func(c candidate, text string) bool

// fieldPattern is one (pattern, postprocessor, rejection-predicate)
// entry of a cascade.
type fieldPattern struct {
	re *regexp.Regexp
	// pick turns the submatch groups into the field value. When nil the
	// first non-empty capture group is used.
	pick func(groups []string) string
	// reject, when non-nil, filters candidates before acceptance.
	reject rejectFunc
}

// cascade is an ordered list of fieldPatterns tried in fixed priority
// order. The first pattern that yields an accepted candidate wins;
// later patterns are fallbacks only, never merged or voted.
type cascade []fieldPattern

// first returns the winning value for the cascade, or ok=false when no
// pattern produced an accepted candidate.
func (c cascade) first(text string) (string, bool) {
	for _, p := range c {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			cand := makeCandidate(text, loc, p)
			if cand.value == "" {
				continue
			}
			if p.reject != nil && p.reject(cand, text) {
				continue
			}
			return cand.value, true
		}
	}
	return "", false
}

func makeCandidate(text string, loc []int, p fieldPattern) candidate {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	cand := candidate{start: loc[0], end: loc[1], groups: groups}
	if p.pick != nil {
		cand.value = p.pick(groups)
	} else {
		for _, g := range groups[1:] {
			if g != "" {
				cand.value = g
				break
			}
		}
	}
	cand.value = strings.TrimSpace(cand.value)
	return cand
}

// orderedMatch is a positional hit used by first/second-occurrence
// fields (dates, times, airports).
type orderedMatch struct {
	start  int
	groups []string
}

func (m orderedMatch) value() string {
	for _, g := range m.groups[1:] {
		if g != "" {
			return strings.TrimSpace(g)
		}
	}
	return ""
}

// collectOrdered merges the hits of all patterns and returns them in
// document order. Assignment is positional: the caller treats the first
// occurrence as departure/check-in and the second as arrival/check-out.
// This is an approximation of chronology, not date parsing.
func collectOrdered(text string, patterns ...*regexp.Regexp) []orderedMatch {
	var matches []orderedMatch
	seen := make(map[int]bool)
	for _, re := range patterns {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			if seen[loc[0]] {
				continue
			}
			seen[loc[0]] = true
			groups := make([]string, len(loc)/2)
			for i := range groups {
				if loc[2*i] >= 0 {
					groups[i] = text[loc[2*i]:loc[2*i+1]]
				}
			}
			matches = append(matches, orderedMatch{start: loc[0], groups: groups})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })
	return matches
}

// setPositional writes the first and second occurrence values into the
// field map under firstKey and secondKey. Absent occurrences leave the
// keys unset.
func setPositional(fields map[string]string, matches []orderedMatch, firstKey, secondKey string) {
	if len(matches) > 0 {
		if v := matches[0].value(); v != "" {
			fields[firstKey] = v
		}
	}
	if len(matches) > 1 {
		if v := matches[1].value(); v != "" {
			fields[secondKey] = v
		}
	}
}

// countKeywordHits counts how many distinct keywords from vocab appear
// in the lower-cased text.
func countKeywordHits(text string, vocab []string) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range vocab {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits
}

// followedBy reports whether the text immediately after the candidate
// (ignoring separators) starts with one of the given suffixes,
// case-insensitively.
func followedBy(c candidate, text string, suffixes ...string) bool {
	rest := strings.ToLower(strings.TrimLeft(text[c.end:], " \t:.-"))
	for _, s := range suffixes {
		if strings.HasPrefix(rest, s) {
			return true
		}
	}
	return false
}
