package metadata

import (
	"context"
	"fmt"
	"time"

	"github.com/hsgmemory/engine/internal/sector"
	"github.com/jmoiron/sqlx"
)

// sqlStore implements Store over sqlx for either SQLite or Postgres. Every
// query here is written with '?' placeholders and rebound per-dialect with
// db.Rebind, the way sqlx is designed to be used across drivers - this
// keeps the two backends from duplicating ~20 hand-written queries each,
// while still giving each backend its own schema DDL (see ddlFor) and its
// own connection setup (sqlite.go, postgres.go), matching the teacher's
// split of connection management (database/connection-postgresql.go) from
// row operations (ai/memory/database.go).
type sqlStore struct {
	db      *sqlx.DB
	dialect string // "sqlite" | "postgres"
}

func (s *sqlStore) Close() error { return s.db.Close() }

func (s *sqlStore) rebind(q string) string { return s.db.Rebind(q) }

func (s *sqlStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range ddlFor(s.dialect) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("metadata: migration failed: %w", err)
		}
	}
	var version int
	_ = s.db.GetContext(ctx, &version, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if version < 1 {
		if _, err := s.db.ExecContext(ctx, s.rebind(
			"INSERT INTO schema_version (version, applied_at) VALUES (?, ?)"),
			1, time.Now().Unix()); err != nil {
			return fmt.Errorf("metadata: record schema version: %w", err)
		}
	}
	return nil
}

func ddlFor(dialect string) []string {
	autoincrement := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if dialect == "postgres" {
		autoincrement = "SERIAL PRIMARY KEY"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS memories (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '',
			metadata TEXT NOT NULL DEFAULT '{}',
			primary_sector TEXT NOT NULL,
			sectors TEXT NOT NULL,
			salience DOUBLE PRECISION NOT NULL,
			decay_lambda DOUBLE PRECISION NOT NULL,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL,
			last_seen_at BIGINT NOT NULL,
			fingerprinted SMALLINT NOT NULL DEFAULT 0,
			embed_fallback SMALLINT NOT NULL DEFAULT 0,
			archive_ref TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS ix_memories_primary_sector ON memories(primary_sector)`,
		`CREATE TABLE IF NOT EXISTS memory_namespaces (
			memory_id TEXT NOT NULL,
			namespace TEXT NOT NULL,
			primary_sector TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (memory_id, namespace)
		)`,
		`CREATE INDEX IF NOT EXISTS ix_memory_namespaces_namespace ON memory_namespaces(namespace)`,
		`CREATE INDEX IF NOT EXISTS ix_memory_namespaces_sector ON memory_namespaces(primary_sector, namespace)`,
		`CREATE TABLE IF NOT EXISTS memory_tags (
			memory_id TEXT NOT NULL,
			tag TEXT NOT NULL,
			PRIMARY KEY (memory_id, tag)
		)`,
		`CREATE INDEX IF NOT EXISTS ix_memory_tags_tag ON memory_tags(tag)`,
		`CREATE TABLE IF NOT EXISTS vector_metadata (
			memory_id TEXT NOT NULL,
			sector TEXT NOT NULL,
			namespace TEXT NOT NULL,
			dim INTEGER NOT NULL,
			created_at BIGINT NOT NULL,
			PRIMARY KEY (memory_id, sector, namespace)
		)`,
		`CREATE TABLE IF NOT EXISTS waypoints (
			src_id TEXT NOT NULL,
			namespace TEXT NOT NULL,
			dst_id TEXT NOT NULL,
			weight DOUBLE PRECISION NOT NULL,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL,
			PRIMARY KEY (src_id, namespace)
		)`,
		`CREATE TABLE IF NOT EXISTS namespaces (
			namespace TEXT PRIMARY KEY,
			description TEXT NOT NULL DEFAULT '',
			ontology_profile TEXT,
			metadata_json TEXT,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL,
			active SMALLINT NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS stats (
			id ` + autoincrement + `,
			type TEXT NOT NULL,
			count BIGINT NOT NULL,
			ts BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ix_stats_type ON stats(type)`,
		`CREATE TABLE IF NOT EXISTS user_summary (
			namespace TEXT PRIMARY KEY,
			summary TEXT NOT NULL DEFAULT '',
			reflection_count INTEGER NOT NULL DEFAULT 0,
			updated_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS temporal_facts (
			id TEXT PRIMARY KEY,
			subject TEXT NOT NULL,
			predicate TEXT NOT NULL,
			object TEXT NOT NULL,
			namespace TEXT NOT NULL,
			valid_from BIGINT NOT NULL,
			valid_to BIGINT,
			confidence DOUBLE PRECISION NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ix_temporal_facts_lookup ON temporal_facts(subject, predicate, namespace, valid_from)`,
	}
}

func (s *sqlStore) InsertMemory(ctx context.Context, mem Memory, vectorRows []VectorRow) error {
	dehydrate(&mem)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("metadata: begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO memories
			(id, content, summary, tags, metadata, primary_sector, sectors,
			 salience, decay_lambda, created_at, updated_at, last_seen_at,
			 fingerprinted, embed_fallback, archive_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		mem.ID, mem.Content, mem.Summary, mem.TagsRaw, string(mem.Metadata),
		mem.PrimarySector, mem.SectorsRaw, mem.Salience, mem.DecayLambda,
		mem.CreatedAt, mem.UpdatedAt, mem.LastSeenAt,
		boolToInt(mem.Fingerprinted), boolToInt(mem.EmbedFallback), mem.ArchiveRef)
	if err != nil {
		return fmt.Errorf("metadata: insert memory: %w", err)
	}

	for _, ns := range mem.Namespaces {
		if _, err := tx.ExecContext(ctx, s.rebind(
			`INSERT INTO memory_namespaces (memory_id, namespace, primary_sector) VALUES (?, ?, ?)`),
			mem.ID, ns, string(mem.PrimarySector)); err != nil {
			return fmt.Errorf("metadata: insert memory_namespaces: %w", err)
		}
	}

	for _, tag := range mem.Tags {
		if _, err := tx.ExecContext(ctx, s.rebind(
			`INSERT INTO memory_tags (memory_id, tag) VALUES (?, ?)`),
			mem.ID, tag); err != nil {
			return fmt.Errorf("metadata: insert memory_tags: %w", err)
		}
	}

	for _, row := range vectorRows {
		if _, err := tx.ExecContext(ctx, s.rebind(`
			INSERT INTO vector_metadata (memory_id, sector, namespace, dim, created_at)
			VALUES (?, ?, ?, ?, ?)`),
			row.MemoryID, string(row.Sector), row.Namespace, row.Dim, row.CreatedAt); err != nil {
			return fmt.Errorf("metadata: insert vector_metadata: %w", err)
		}
	}

	return tx.Commit()
}

func (s *sqlStore) GetMemory(ctx context.Context, id string) (*Memory, error) {
	var raw memoryRaw
	err := s.db.GetContext(ctx, &raw, s.rebind(`SELECT * FROM memories WHERE id = ?`), id)
	if err != nil {
		return nil, err
	}
	mem := raw.toMemory()
	if err := s.attachNamespacesAndTags(ctx, mem); err != nil {
		return nil, err
	}
	hydrate(mem)
	return mem, nil
}

func (s *sqlStore) GetMemories(ctx context.Context, ids []string) ([]Memory, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM memories WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var raws []memoryRaw
	if err := s.db.SelectContext(ctx, &raws, s.rebind(query), args...); err != nil {
		return nil, err
	}
	out := make([]Memory, 0, len(raws))
	for _, r := range raws {
		mem := r.toMemory()
		if err := s.attachNamespacesAndTags(ctx, mem); err != nil {
			return nil, err
		}
		hydrate(mem)
		out = append(out, *mem)
	}
	return out, nil
}

func (s *sqlStore) attachNamespacesAndTags(ctx context.Context, mem *Memory) error {
	var namespaces []string
	if err := s.db.SelectContext(ctx, &namespaces, s.rebind(
		`SELECT namespace FROM memory_namespaces WHERE memory_id = ?`), mem.ID); err != nil {
		return err
	}
	mem.NamespacesRaw = joinStrings(namespaces)

	var tags []string
	if err := s.db.SelectContext(ctx, &tags, s.rebind(
		`SELECT tag FROM memory_tags WHERE memory_id = ?`), mem.ID); err != nil {
		return err
	}
	mem.TagsRaw = joinStrings(tags)
	return nil
}

func (s *sqlStore) UpdateMemory(ctx context.Context, mem Memory) error {
	dehydrate(&mem)
	_, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE memories SET content=?, summary=?, salience=?, decay_lambda=?,
			updated_at=?, last_seen_at=?, fingerprinted=?, embed_fallback=?, archive_ref=?
		WHERE id=?`),
		mem.Content, mem.Summary, mem.Salience, mem.DecayLambda,
		mem.UpdatedAt, mem.LastSeenAt, boolToInt(mem.Fingerprinted),
		boolToInt(mem.EmbedFallback), mem.ArchiveRef, mem.ID)
	return err
}

func (s *sqlStore) DeleteMemory(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`DELETE FROM memory_namespaces WHERE memory_id = ?`,
		`DELETE FROM memory_tags WHERE memory_id = ?`,
		`DELETE FROM vector_metadata WHERE memory_id = ?`,
		`DELETE FROM waypoints WHERE src_id = ? OR dst_id = ?`,
		`DELETE FROM memories WHERE id = ?`,
	}
	for i, stmt := range stmts {
		var err error
		if i == 3 {
			_, err = tx.ExecContext(ctx, s.rebind(stmt), id, id)
		} else {
			_, err = tx.ExecContext(ctx, s.rebind(stmt), id)
		}
		if err != nil {
			return fmt.Errorf("metadata: delete memory: %w", err)
		}
	}
	return tx.Commit()
}

func (s *sqlStore) ListMemories(ctx context.Context, filter MemoryFilter, offset, limit int) ([]Memory, error) {
	query := `SELECT DISTINCT m.* FROM memories m`
	var conds []string
	var args []any

	if len(filter.Namespaces) > 0 {
		query += ` JOIN memory_namespaces mn ON mn.memory_id = m.id`
		ph := sqlx.In
		inQuery, inArgs, err := ph(`mn.namespace IN (?)`, filter.Namespaces)
		if err != nil {
			return nil, err
		}
		conds = append(conds, inQuery)
		args = append(args, inArgs...)
	}
	if len(filter.Sectors) > 0 {
		strs := make([]string, len(filter.Sectors))
		for i, sec := range filter.Sectors {
			strs[i] = string(sec)
		}
		inQuery, inArgs, err := sqlx.In(`m.primary_sector IN (?)`, strs)
		if err != nil {
			return nil, err
		}
		conds = append(conds, inQuery)
		args = append(args, inArgs...)
	}
	if filter.MinSalience != nil {
		conds = append(conds, `m.salience >= ?`)
		args = append(args, *filter.MinSalience)
	}

	if len(conds) > 0 {
		query += " WHERE " + joinWithAnd(conds)
	}
	query += ` ORDER BY m.updated_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var raws []memoryRaw
	if err := s.db.SelectContext(ctx, &raws, s.rebind(query), args...); err != nil {
		return nil, err
	}
	out := make([]Memory, 0, len(raws))
	for _, r := range raws {
		mem := r.toMemory()
		if err := s.attachNamespacesAndTags(ctx, mem); err != nil {
			return nil, err
		}
		hydrate(mem)
		out = append(out, *mem)
	}
	return out, nil
}

func joinWithAnd(conds []string) string {
	out := conds[0]
	for _, c := range conds[1:] {
		out += " AND " + c
	}
	return out
}

func (s *sqlStore) InsertVectorRow(ctx context.Context, row VectorRow) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO vector_metadata (memory_id, sector, namespace, dim, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		row.MemoryID, string(row.Sector), row.Namespace, row.Dim, row.CreatedAt)
	return err
}

func (s *sqlStore) DeleteVectorRows(ctx context.Context, memoryID string, sec *string) error {
	if sec != nil {
		_, err := s.db.ExecContext(ctx, s.rebind(
			`DELETE FROM vector_metadata WHERE memory_id = ? AND sector = ?`), memoryID, *sec)
		return err
	}
	_, err := s.db.ExecContext(ctx, s.rebind(
		`DELETE FROM vector_metadata WHERE memory_id = ?`), memoryID)
	return err
}

func (s *sqlStore) UpsertNamespace(ctx context.Context, ns Namespace) (bool, error) {
	existing, err := s.GetNamespace(ctx, ns.Namespace)
	if err != nil && err.Error() != "sql: no rows in result set" {
		return false, err
	}
	if existing != nil {
		_, err := s.db.ExecContext(ctx, s.rebind(`
			UPDATE namespaces SET description=?, ontology_profile=?, metadata_json=?, updated_at=?, active=?
			WHERE namespace=?`),
			ns.Description, ns.OntologyProfile, ns.MetadataJSON, ns.UpdatedAt, boolToInt(ns.Active), ns.Namespace)
		return false, err
	}
	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO namespaces (namespace, description, ontology_profile, metadata_json, created_at, updated_at, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		ns.Namespace, ns.Description, ns.OntologyProfile, ns.MetadataJSON, ns.CreatedAt, ns.UpdatedAt, boolToInt(ns.Active))
	if err != nil {
		// lost the create race against a concurrent writer; treat as a
		// successful idempotent no-op (spec invariant 9).
		if existing2, gerr := s.GetNamespace(ctx, ns.Namespace); gerr == nil && existing2 != nil {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *sqlStore) GetNamespace(ctx context.Context, namespace string) (*Namespace, error) {
	var raw namespaceRaw
	err := s.db.GetContext(ctx, &raw, s.rebind(`SELECT * FROM namespaces WHERE namespace = ?`), namespace)
	if err != nil {
		return nil, err
	}
	return raw.toNamespace(), nil
}

func (s *sqlStore) ListNamespaces(ctx context.Context) ([]Namespace, error) {
	var raws []namespaceRaw
	if err := s.db.SelectContext(ctx, &raws, `SELECT * FROM namespaces ORDER BY namespace`); err != nil {
		return nil, err
	}
	out := make([]Namespace, len(raws))
	for i, r := range raws {
		out[i] = *r.toNamespace()
	}
	return out, nil
}

func (s *sqlStore) DeleteNamespace(ctx context.Context, namespace string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM namespaces WHERE namespace = ?`), namespace)
	return err
}

func (s *sqlStore) UpsertWaypoint(ctx context.Context, wp Waypoint) error {
	existing, _ := s.GetWaypoint(ctx, wp.SrcID, wp.Namespace)
	if existing != nil {
		_, err := s.db.ExecContext(ctx, s.rebind(
			`UPDATE waypoints SET dst_id=?, weight=?, updated_at=? WHERE src_id=? AND namespace=?`),
			wp.DstID, wp.Weight, wp.UpdatedAt, wp.SrcID, wp.Namespace)
		return err
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO waypoints (src_id, namespace, dst_id, weight, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		wp.SrcID, wp.Namespace, wp.DstID, wp.Weight, wp.CreatedAt, wp.UpdatedAt)
	return err
}

func (s *sqlStore) GetWaypoint(ctx context.Context, srcID, namespace string) (*Waypoint, error) {
	var wp Waypoint
	err := s.db.GetContext(ctx, &wp, s.rebind(
		`SELECT * FROM waypoints WHERE src_id = ? AND namespace = ?`), srcID, namespace)
	if err != nil {
		return nil, err
	}
	return &wp, nil
}

func (s *sqlStore) DeleteWaypoint(ctx context.Context, srcID, namespace string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`DELETE FROM waypoints WHERE src_id = ? AND namespace = ?`), srcID, namespace)
	return err
}

func (s *sqlStore) AppendStat(ctx context.Context, statType string, count int64) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO stats (type, count, ts) VALUES (?, ?, ?)`), statType, count, time.Now().Unix())
	return err
}

func (s *sqlStore) ReadStats(ctx context.Context, statType string) ([]StatsRow, error) {
	var rows []StatsRow
	err := s.db.SelectContext(ctx, &rows, s.rebind(
		`SELECT type, count, ts FROM stats WHERE type = ? ORDER BY ts`), statType)
	return rows, err
}

func (s *sqlStore) UpsertUserSummary(ctx context.Context, us UserSummary) error {
	existing, _ := s.GetUserSummary(ctx, us.Namespace)
	if existing != nil {
		_, err := s.db.ExecContext(ctx, s.rebind(
			`UPDATE user_summary SET summary=?, reflection_count=?, updated_at=? WHERE namespace=?`),
			us.Summary, us.ReflectionCount, us.UpdatedAt, us.Namespace)
		return err
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO user_summary (namespace, summary, reflection_count, updated_at)
		VALUES (?, ?, ?, ?)`), us.Namespace, us.Summary, us.ReflectionCount, us.UpdatedAt)
	return err
}

func (s *sqlStore) GetUserSummary(ctx context.Context, namespace string) (*UserSummary, error) {
	var us UserSummary
	err := s.db.GetContext(ctx, &us, s.rebind(
		`SELECT * FROM user_summary WHERE namespace = ?`), namespace)
	if err != nil {
		return nil, err
	}
	return &us, nil
}

func (s *sqlStore) InsertTemporalFact(ctx context.Context, f TemporalFact) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO temporal_facts (id, subject, predicate, object, namespace, valid_from, valid_to, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		f.ID, f.Subject, f.Predicate, f.Object, f.Namespace, f.ValidFrom, f.ValidTo, f.Confidence)
	return err
}

func (s *sqlStore) CloseTemporalFact(ctx context.Context, id string, validTo int64) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE temporal_facts SET valid_to = ? WHERE id = ?`), validTo, id)
	return err
}

func (s *sqlStore) CurrentTemporalFact(ctx context.Context, subject, predicate, namespace string) (*TemporalFact, error) {
	var f TemporalFact
	err := s.db.GetContext(ctx, &f, s.rebind(`
		SELECT * FROM temporal_facts
		WHERE subject = ? AND predicate = ? AND namespace = ? AND valid_to IS NULL
		ORDER BY valid_from DESC LIMIT 1`), subject, predicate, namespace)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *sqlStore) QueryTemporalFactsAt(ctx context.Context, subject, predicate, namespace *string, at int64) ([]TemporalFact, error) {
	query := `SELECT * FROM temporal_facts WHERE valid_from <= ? AND (valid_to IS NULL OR valid_to > ?)`
	args := []any{at, at}
	query, args = appendOptionalEq(query, args, "subject", subject)
	query, args = appendOptionalEq(query, args, "predicate", predicate)
	query, args = appendOptionalEq(query, args, "namespace", namespace)
	query += ` ORDER BY confidence DESC, valid_from ASC`

	var out []TemporalFact
	err := s.db.SelectContext(ctx, &out, s.rebind(query), args...)
	return out, err
}

func (s *sqlStore) QueryTemporalFacts(ctx context.Context, subject, predicate, namespace *string) ([]TemporalFact, error) {
	query := `SELECT * FROM temporal_facts WHERE 1=1`
	var args []any
	query, args = appendOptionalEq(query, args, "subject", subject)
	query, args = appendOptionalEq(query, args, "predicate", predicate)
	query, args = appendOptionalEq(query, args, "namespace", namespace)
	query += ` ORDER BY valid_from ASC`

	var out []TemporalFact
	err := s.db.SelectContext(ctx, &out, s.rebind(query), args...)
	return out, err
}

func appendOptionalEq(query string, args []any, col string, val *string) (string, []any) {
	if val == nil {
		return query, args
	}
	query += fmt.Sprintf(" AND %s = ?", col)
	args = append(args, *val)
	return query, args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// memoryRaw mirrors the memories table's physical columns for sqlx
// scanning; Memory itself carries derived []string/[]Sector fields that
// aren't physical columns.
type memoryRaw struct {
	ID            string  `db:"id"`
	Content       string  `db:"content"`
	Summary       string  `db:"summary"`
	Tags          string  `db:"tags"`
	Metadata      string  `db:"metadata"`
	PrimarySector string  `db:"primary_sector"`
	Sectors       string  `db:"sectors"`
	Salience      float64 `db:"salience"`
	DecayLambda   float64 `db:"decay_lambda"`
	CreatedAt     int64   `db:"created_at"`
	UpdatedAt     int64   `db:"updated_at"`
	LastSeenAt    int64   `db:"last_seen_at"`
	Fingerprinted int     `db:"fingerprinted"`
	EmbedFallback int     `db:"embed_fallback"`
	ArchiveRef    string  `db:"archive_ref"`
}

func (r memoryRaw) toMemory() *Memory {
	return &Memory{
		ID:            r.ID,
		Content:       r.Content,
		Summary:       r.Summary,
		TagsRaw:       r.Tags,
		Metadata:      []byte(r.Metadata),
		PrimarySector: sector.Sector(r.PrimarySector),
		SectorsRaw:    r.Sectors,
		Salience:      r.Salience,
		DecayLambda:   r.DecayLambda,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		LastSeenAt:    r.LastSeenAt,
		Fingerprinted: r.Fingerprinted != 0,
		EmbedFallback: r.EmbedFallback != 0,
		ArchiveRef:    r.ArchiveRef,
	}
}

type namespaceRaw struct {
	Namespace       string  `db:"namespace"`
	Description     string  `db:"description"`
	OntologyProfile *string `db:"ontology_profile"`
	MetadataJSON    *string `db:"metadata_json"`
	CreatedAt       int64   `db:"created_at"`
	UpdatedAt       int64   `db:"updated_at"`
	Active          int     `db:"active"`
}

func (r namespaceRaw) toNamespace() *Namespace {
	return &Namespace{
		Namespace:       r.Namespace,
		Description:     r.Description,
		OntologyProfile: r.OntologyProfile,
		MetadataJSON:    r.MetadataJSON,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Active:          r.Active != 0,
	}
}
