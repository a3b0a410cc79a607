// Package metadata defines the durable row store for memories, per-sector
// vector metadata, waypoints, namespaces, stats, user summaries, and
// temporal facts (spec §3, §4.3).
package metadata

import (
	"encoding/json"
	"time"

	"github.com/hsgmemory/engine/internal/sector"
)

type Memory struct {
	ID            string            `db:"id"`
	Content       string            `db:"content"`
	Summary       string            `db:"summary"`
	// Namespaces and Tags are backed by join tables (memory_namespaces,
	// memory_tags) for indexed lookup; NamespacesRaw/TagsRaw are the
	// comma-joined forms. TagsRaw is also written to the memories row's
	// tags column; NamespacesRaw is not persisted. Reads rebuild both
	// from the join tables.
	Namespaces    []string          `db:"-"`
	NamespacesRaw string            `db:"-"`
	Tags          []string          `db:"-"`
	TagsRaw       string            `db:"tags"`
	Metadata      json.RawMessage   `db:"metadata"`
	PrimarySector sector.Sector     `db:"primary_sector"`
	Sectors       []sector.Sector   `db:"-"`
	SectorsRaw    string            `db:"sectors"`
	Salience      float64           `db:"salience"`
	DecayLambda   float64           `db:"decay_lambda"`
	CreatedAt     int64             `db:"created_at"`
	UpdatedAt     int64             `db:"updated_at"`
	LastSeenAt    int64             `db:"last_seen_at"`
	Fingerprinted bool              `db:"fingerprinted"`
	EmbedFallback bool              `db:"embed_fallback"`
	ArchiveRef    string            `db:"archive_ref"`
}

type VectorRow struct {
	MemoryID  string        `db:"memory_id"`
	Sector    sector.Sector `db:"sector"`
	Namespace string        `db:"namespace"`
	Dim       int           `db:"dim"`
	CreatedAt int64         `db:"created_at"`
}

type Waypoint struct {
	SrcID     string  `db:"src_id"`
	DstID     string  `db:"dst_id"`
	Namespace string  `db:"namespace"`
	Weight    float64 `db:"weight"`
	CreatedAt int64   `db:"created_at"`
	UpdatedAt int64   `db:"updated_at"`
}

type Namespace struct {
	Namespace       string    `db:"namespace"`
	Description     string    `db:"description"`
	OntologyProfile *string   `db:"ontology_profile"`
	MetadataJSON    *string   `db:"metadata_json"`
	CreatedAt       int64     `db:"created_at"`
	UpdatedAt       int64     `db:"updated_at"`
	Active          bool      `db:"active"`
}

type TemporalFact struct {
	ID         string  `db:"id"`
	Subject    string  `db:"subject"`
	Predicate  string  `db:"predicate"`
	Object     string  `db:"object"`
	Namespace  string  `db:"namespace"`
	ValidFrom  int64   `db:"valid_from"`
	ValidTo    *int64  `db:"valid_to"`
	Confidence float64 `db:"confidence"`
}

type StatsRow struct {
	Type string `db:"type"`
	// Count accumulates via append/read; each row is one event.
	Count int64 `db:"count"`
	TS    int64 `db:"ts"`
}

type UserSummary struct {
	Namespace       string `db:"namespace"`
	Summary         string `db:"summary"`
	ReflectionCount int    `db:"reflection_count"`
	UpdatedAt       int64  `db:"updated_at"`
}

// MemoryFilter scopes a ListMemories call.
type MemoryFilter struct {
	Namespaces   []string
	Sectors      []sector.Sector
	MinSalience  *float64
	Tags         []string
}

func now() int64 { return time.Now().Unix() }
