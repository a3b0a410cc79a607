package textutil

import "testing"

func TestTokenizeLowercasesAndSplits(t *testing.T) {
	got := Tokenize("The Quick-Brown Fox, 2 dogs!")
	want := []string{"the", "quick", "brown", "fox", "2", "dogs"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestJaccardSimilarityIdenticalIsOne(t *testing.T) {
	if s := JaccardSimilarity("alice likes go", "alice likes go"); s != 1 {
		t.Fatalf("expected 1, got %f", s)
	}
}

func TestJaccardSimilarityDisjointIsZero(t *testing.T) {
	if s := JaccardSimilarity("alice likes go", "bob hates rust"); s != 0 {
		t.Fatalf("expected 0, got %f", s)
	}
}

func TestKeywordOverlapCountsSharedTokensAboveMinLength(t *testing.T) {
	n := KeywordOverlap("favorite database is postgres", "I use postgres for everything", 4)
	if n != 1 {
		t.Fatalf("expected 1 (postgres), got %d", n)
	}
}

func TestBM25ScoreHigherForBetterMatch(t *testing.T) {
	corpus := NewBM25Corpus()
	corpus.Add("the user prefers dark mode in the editor")
	corpus.Add("met alice at the conference last year")
	corpus.Add("deploy the service using the standard pipeline")

	good := corpus.Score("dark mode editor", "the user prefers dark mode in the editor")
	bad := corpus.Score("dark mode editor", "met alice at the conference last year")

	if good <= bad {
		t.Fatalf("expected better match to score higher: good=%f bad=%f", good, bad)
	}
}

func TestBM25ScoreIsBoundedToOne(t *testing.T) {
	corpus := NewBM25Corpus()
	corpus.Add("alpha beta gamma")
	s := corpus.Score("alpha beta gamma", "alpha beta gamma")
	if s > 1 {
		t.Fatalf("expected score <= 1, got %f", s)
	}
}
