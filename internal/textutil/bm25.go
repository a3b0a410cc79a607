package textutil

import "math"

// BM25Corpus accumulates the engine-wide statistics (average document
// length, document frequency per term) BM25 needs; the HSG engine keeps
// one instance per namespace and feeds it every stored memory's content.
type BM25Corpus struct {
	docCount     int
	totalLength  int
	docFrequency map[string]int
}

func NewBM25Corpus() *BM25Corpus {
	return &BM25Corpus{docFrequency: make(map[string]int)}
}

// Add folds one document's tokens into the corpus statistics. Call once
// per stored memory content.
func (c *BM25Corpus) Add(doc string) {
	tokens := Tokenize(doc)
	c.docCount++
	c.totalLength += len(tokens)
	seen := make(map[string]struct{})
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		c.docFrequency[tok]++
	}
}

func (c *BM25Corpus) avgDocLength() float64 {
	if c.docCount == 0 {
		return 0
	}
	return float64(c.totalLength) / float64(c.docCount)
}

func (c *BM25Corpus) idf(term string) float64 {
	n := float64(c.docCount)
	df := float64(c.docFrequency[term])
	return math.Log(1 + (n-df+0.5)/(df+0.5))
}

const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// Score computes the BM25 relevance of doc against query, normalized into
// [0, 1] by dividing by the score the query would get against itself at
// average document length, so it can be combined with cosine/keyword/
// salience terms in the hybrid formula.
func (c *BM25Corpus) Score(query, doc string) float64 {
	queryTokens := Tokenize(query)
	docTokens := Tokenize(doc)
	docLen := float64(len(docTokens))
	avgLen := c.avgDocLength()
	if avgLen == 0 {
		avgLen = docLen
	}

	termFreq := make(map[string]int)
	for _, tok := range docTokens {
		termFreq[tok]++
	}

	var raw float64
	for _, term := range queryTokens {
		tf := float64(termFreq[term])
		if tf == 0 {
			continue
		}
		idf := c.idf(term)
		denom := tf + bm25K1*(1-bm25B+bm25B*docLen/avgLen)
		raw += idf * (tf * (bm25K1 + 1) / denom)
	}

	// an idealized perfect match: every query token present once in a
	// doc of average length, used purely to rescale raw into [0, 1].
	var ceiling float64
	for _, term := range queryTokens {
		idf := c.idf(term)
		denom := 1 + bm25K1*(1-bm25B+bm25B)
		ceiling += idf * (bm25K1 + 1) / denom
	}
	if ceiling <= 0 {
		return 0
	}
	score := raw / ceiling
	if score > 1 {
		score = 1
	}
	return score
}
