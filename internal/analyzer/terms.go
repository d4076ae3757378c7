package analyzer

import (
	"sort"
	"strings"
)

// TermCount pairs a content word with how often it appears across a
// batch of questions.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// stopwords holds the words dropped during term extraction. The
// interrogatives and auxiliaries used for classification are folded in
// alongside the usual function words.
var stopwords = buildStopwords()

func buildStopwords() map[string]struct{} {
	set := map[string]struct{}{
		"a": {}, "an": {}, "the": {},
		"and": {}, "or": {}, "but": {}, "not": {}, "no": {}, "nor": {},
		"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {},
		"from": {}, "with": {}, "without": {}, "by": {}, "about": {},
		"as": {}, "into": {}, "over": {}, "under": {}, "between": {},
		"it": {}, "its": {}, "they": {}, "them": {}, "their": {},
		"you": {}, "your": {}, "we": {}, "us": {}, "our": {},
		"i": {}, "my": {}, "me": {}, "he": {}, "him": {}, "his": {},
		"she": {}, "her": {}, "hers": {},
		"this": {}, "that": {}, "these": {}, "those": {}, "there": {},
		"be": {}, "been": {}, "being": {},
		"if": {}, "then": {}, "than": {}, "so": {}, "too": {}, "very": {},
		"any": {}, "some": {}, "all": {}, "more": {}, "most": {},
	}
	for w := range interrogatives {
		set[w] = struct{}{}
	}
	for w := range auxiliaries {
		set[w] = struct{}{}
	}
	return set
}

// Terms extracts the content words of a question in order of appearance,
// lowercased and stripped of surrounding punctuation. Interrogatives,
// auxiliaries and other function words are dropped.
func Terms(question string) []string {
	words := strings.Fields(strings.ToLower(question))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = trimPunct(w)
		if w == "" {
			continue
		}
		if _, skip := stopwords[w]; skip {
			continue
		}
		out = append(out, w)
	}
	return out
}

// TopTerms tallies content words across a batch of questions and returns
// the n most frequent, most common first. Ties rank alphabetically so the
// output is stable. n <= 0 returns the full tally.
func TopTerms(questions []string, n int) []TermCount {
	counts := make(map[string]int)
	for _, q := range questions {
		for _, term := range Terms(q) {
			counts[term]++
		}
	}

	out := make([]TermCount, 0, len(counts))
	for term, count := range counts {
		out = append(out, TermCount{Term: term, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
