package metadata

import "context"

// Store is the Metadata Store contract from spec §4.3: transactional row
// operations with prepared statements, backed by either a SQLite-class
// embedded engine or a Postgres-class client-server engine.
type Store interface {
	EnsureSchema(ctx context.Context) error

	// InsertMemory performs the atomic multi-row commit for a single
	// memory write: the memory row plus one vector-metadata row per active
	// sector per namespace, per spec §4.5 step 5.
	InsertMemory(ctx context.Context, mem Memory, vectorRows []VectorRow) error
	GetMemory(ctx context.Context, id string) (*Memory, error)
	GetMemories(ctx context.Context, ids []string) ([]Memory, error)
	UpdateMemory(ctx context.Context, mem Memory) error
	DeleteMemory(ctx context.Context, id string) error
	ListMemories(ctx context.Context, filter MemoryFilter, offset, limit int) ([]Memory, error)

	InsertVectorRow(ctx context.Context, row VectorRow) error
	DeleteVectorRows(ctx context.Context, memoryID string, sec *string) error

	UpsertNamespace(ctx context.Context, ns Namespace) (created bool, err error)
	GetNamespace(ctx context.Context, namespace string) (*Namespace, error)
	ListNamespaces(ctx context.Context) ([]Namespace, error)
	DeleteNamespace(ctx context.Context, namespace string) error

	UpsertWaypoint(ctx context.Context, wp Waypoint) error
	GetWaypoint(ctx context.Context, srcID, namespace string) (*Waypoint, error)
	DeleteWaypoint(ctx context.Context, srcID, namespace string) error

	AppendStat(ctx context.Context, statType string, count int64) error
	ReadStats(ctx context.Context, statType string) ([]StatsRow, error)

	UpsertUserSummary(ctx context.Context, s UserSummary) error
	GetUserSummary(ctx context.Context, namespace string) (*UserSummary, error)

	InsertTemporalFact(ctx context.Context, f TemporalFact) error
	CloseTemporalFact(ctx context.Context, id string, validTo int64) error
	CurrentTemporalFact(ctx context.Context, subject, predicate, namespace string) (*TemporalFact, error)
	QueryTemporalFactsAt(ctx context.Context, subject, predicate, namespace *string, at int64) ([]TemporalFact, error)
	QueryTemporalFacts(ctx context.Context, subject, predicate, namespace *string) ([]TemporalFact, error)

	Close() error
}
