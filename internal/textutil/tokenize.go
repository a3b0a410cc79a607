// Package textutil provides the small set of lexical helpers the HSG
// engine needs alongside vector search: tokenization for keyword boost
// and BM25, and Jaccard overlap for reflection dedup.
package textutil

import "strings"

// Tokenize lowercases and splits on anything that isn't an ASCII letter or
// digit, dropping empty tokens.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return fields
}

// TokenSet returns the distinct token set of s.
func TokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range Tokenize(s) {
		out[tok] = struct{}{}
	}
	return out
}

// JaccardSimilarity returns |A ∩ B| / |A ∪ B| over the two texts' token
// sets, used by reflection dedup to decide whether two candidate
// summaries are redundant.
func JaccardSimilarity(a, b string) float64 {
	setA := TokenSet(a)
	setB := TokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// KeywordOverlap counts how many distinct tokens of query also appear in
// doc, used as the keyword-boost term in hybrid scoring.
func KeywordOverlap(query, doc string, minLength int) int {
	docSet := TokenSet(doc)
	count := 0
	for tok := range TokenSet(query) {
		if len(tok) < minLength {
			continue
		}
		if _, ok := docSet[tok]; ok {
			count++
		}
	}
	return count
}
