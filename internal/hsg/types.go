// Package hsg implements the hierarchical semantic-graph engine: the
// write and query orchestration, salience decay, waypoint reflection,
// and temporal fact tracking that sit on top of the metadata and vector
// stores (spec §4.5-§4.9).
package hsg

import (
	"encoding/json"

	"github.com/hsgmemory/engine/internal/sector"
)

// StoreRequest is the input to Engine.Store (spec §4.5).
type StoreRequest struct {
	Content    string
	Namespaces []string
	Tags       []string
	Metadata   json.RawMessage
}

// StoreResult mirrors spec §4.5 step 7's return shape.
type StoreResult struct {
	ID            string          `json:"id"`
	PrimarySector sector.Sector   `json:"primary_sector"`
	Sectors       []sector.Sector `json:"sectors"`
	Namespaces    []string        `json:"namespaces"`
}

// QueryFilters scopes a query call (spec §4.6).
type QueryFilters struct {
	Namespaces  []string
	Sectors     []sector.Sector
	MinSalience *float64
	Tags        []string
}

// QueryRequest is the input to Engine.Query.
type QueryRequest struct {
	Text    string
	K       int
	Filters QueryFilters
}

// QueryHit is one ranked result (spec §4.6 step 10).
type QueryHit struct {
	ID            string          `json:"id"`
	Score         float64         `json:"score"`
	PrimarySector sector.Sector   `json:"primary_sector"`
	Sectors       []sector.Sector `json:"sectors"`
	Salience      float64         `json:"salience"`
	LastSeenAt    int64           `json:"last_seen_at"`
	Content       string          `json:"content,omitempty"`
	Summary       string          `json:"summary,omitempty"`
	Path          []string        `json:"path,omitempty"`
}

// HybridWeights are the tunable coefficients for the hybrid score in spec
// §4.6 step 5. They must sum to 1; Engine.weightsForTier picks the set
// for the configured tier.
type HybridWeights struct {
	Vector   float64
	Keyword  float64
	BM25     float64
	Salience float64
	Recency  float64
}

// DefaultHybridWeights biases the score toward vector similarity and
// salience, per spec §4.6's "Weights sum to 1 with defaults biased
// toward w_vec and w_sal."
var DefaultHybridWeights = HybridWeights{
	Vector:   0.40,
	Keyword:  0.15,
	BM25:     0.15,
	Salience: 0.20,
	Recency:  0.10,
}

// HybridWeightsKeywordOnly implements the "hybrid" (keyword-only) tier
// from spec §4.6 step 5: w_vec := 0, w_kw := 1.
var HybridWeightsKeywordOnly = HybridWeights{Keyword: 1.0}
