// Package textstats provides lightweight text analytics for economic
// headlines: tokenization, frequency counts, bigrams, and lexicon-based
// sentiment scoring.
package textstats

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultMinWordLength is the default minimum token length kept after
// filtering.
const DefaultMinWordLength = 4

var wordPattern = regexp.MustCompile(`[a-z]+`)

// Stopwords carry no analytical meaning and are dropped before counting.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "as": {}, "at": {}, "by": {}, "in": {},
	"of": {}, "on": {}, "to": {}, "up": {}, "and": {}, "but": {}, "for": {},
	"its": {}, "is": {}, "are": {}, "be": {}, "amid": {}, "after": {},
	"despite": {}, "while": {}, "with": {}, "from": {}, "that": {},
	"has": {}, "have": {}, "also": {}, "remain": {}, "remains": {},
	"cut": {}, "cuts": {}, "face": {}, "faces": {}, "or": {},
}

// TermCount is one term (or phrase) and its frequency.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Tokenize lowercases the text and extracts alphabetic word runs.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// FilterTokens drops stopwords and tokens shorter than minLen.
func FilterTokens(tokens []string, minLen int) []string {
	if minLen <= 0 {
		minLen = DefaultMinWordLength
	}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len(t) < minLen {
			continue
		}
		if _, ok := stopwords[t]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

// TopTerms returns the n most frequent tokens. Ties break alphabetically so
// output is deterministic.
func TopTerms(tokens []string, n int) []TermCount {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return topN(counts, n)
}

// TopBigrams returns the n most frequent pairs of adjacent tokens, each pair
// joined with a space.
func TopBigrams(tokens []string, n int) []TermCount {
	counts := make(map[string]int)
	for i := 0; i+1 < len(tokens); i++ {
		counts[tokens[i]+" "+tokens[i+1]]++
	}
	return topN(counts, n)
}

func topN(counts map[string]int, n int) []TermCount {
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

// Analysis is the full output of the text pipeline over a set of lines.
type Analysis struct {
	TokenCount    int              `json:"token_count"`
	FilteredCount int              `json:"filtered_count"`
	TopTerms      []TermCount      `json:"top_terms"`
	TopBigrams    []TermCount      `json:"top_bigrams"`
	Sentiments    []SentimentScore `json:"sentiments"`
}

// Analyze runs tokenization, filtering, frequency counting, and per-line
// sentiment scoring over the given lines.
func Analyze(lines []string, minWordLen, topN int) Analysis {
	tokens := Tokenize(strings.Join(lines, " "))
	filtered := FilterTokens(tokens, minWordLen)

	a := Analysis{
		TokenCount:    len(tokens),
		FilteredCount: len(filtered),
		TopTerms:      TopTerms(filtered, topN),
		TopBigrams:    TopBigrams(filtered, topN),
	}
	for _, line := range lines {
		a.Sentiments = append(a.Sentiments, ScoreSentiment(line))
	}
	return a
}
