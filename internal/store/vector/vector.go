// Package vector declares the Vector Store contract and its two
// implementations: an in-process brute-force index for single-binary
// deployments, and an external-backend adapter for Upstash Vector and
// Pinecone.
package vector

import (
	"context"

	"github.com/hsgmemory/engine/internal/sector"
)

// Point is a single vector write, scoped to one namespace and sector.
type Point struct {
	MemoryID  string
	Namespace string
	Sector    sector.Sector
	Vector    []float32
	Metadata  map[string]any
}

// Match is a single search hit.
type Match struct {
	MemoryID string
	Score    float64
	Vector   []float32
}

// NamespaceStats reports point counts for one namespace, broken down by
// sector.
type NamespaceStats struct {
	Namespace string
	BySector  map[sector.Sector]int
}

// Store is the Vector Store contract from spec §4.4, verbatim down to the
// method list: upsert, batch_upsert, search, delete, batch_delete, stats.
type Store interface {
	Upsert(ctx context.Context, p Point) error
	BatchUpsert(ctx context.Context, points []Point) error
	Search(ctx context.Context, namespace string, sec sector.Sector, query []float32, topN int) ([]Match, error)
	Delete(ctx context.Context, namespace, memoryID string, sec *sector.Sector) error
	BatchDelete(ctx context.Context, namespace string, memoryIDs []string, sec *sector.Sector) error
	Stats(ctx context.Context, namespace string) (NamespaceStats, error)
}

// Sanitize maps a tenant namespace to the character set valid for a
// physical collection/index name: [A-Za-z0-9_-], any other byte becomes
// '_'. Used by the collection-per-namespace backends so that isolation is
// structural rather than filter-based.
func Sanitize(namespace string) string {
	out := make([]byte, len(namespace))
	for i := 0; i < len(namespace); i++ {
		c := namespace[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_', c == '-':
			out[i] = c
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
