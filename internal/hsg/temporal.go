package hsg

import (
	"context"
	"time"

	"github.com/hsgmemory/engine/internal/hsgerr"
	"github.com/hsgmemory/engine/internal/store/metadata"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// TemporalFactRequest is the input to Engine.InsertTemporalFact (spec §4.9).
type TemporalFactRequest struct {
	Subject    string
	Predicate  string
	Object     string
	Namespace  string
	ValidFrom  *int64
	ValidTo    *int64
	Confidence float64
}

// InsertTemporalFact implements spec §4.9's insert: before inserting, it
// looks up the currently-valid (subject, predicate, namespace) row and, if
// one exists with an unbounded valid_to, closes it at the new fact's
// valid_from.
func (e *Engine) InsertTemporalFact(ctx context.Context, req TemporalFactRequest) (*metadata.TemporalFact, error) {
	if req.Subject == "" || req.Predicate == "" {
		return nil, hsgerr.NewValidationError("subject/predicate", "must not be empty")
	}
	if req.Namespace == "" {
		req.Namespace = "global"
	}

	validFrom := time.Now().Unix()
	if req.ValidFrom != nil {
		validFrom = *req.ValidFrom
	}

	e.locks.Lock("temporal:" + req.Namespace + ":" + req.Subject + ":" + req.Predicate)
	defer e.locks.Unlock("temporal:" + req.Namespace + ":" + req.Subject + ":" + req.Predicate)

	current, err := e.metadata.CurrentTemporalFact(ctx, req.Subject, req.Predicate, req.Namespace)
	if err == nil && current != nil && current.ValidTo == nil {
		if err := e.metadata.CloseTemporalFact(ctx, current.ID, validFrom); err != nil {
			return nil, hsgerr.NewMetadataStoreError("close_temporal_fact", err)
		}
	}

	id, genErr := gonanoid.Generate(idAlphabet, 16)
	if genErr != nil {
		id = newID()
	}
	fact := metadata.TemporalFact{
		ID: id, Subject: req.Subject, Predicate: req.Predicate, Object: req.Object,
		Namespace: req.Namespace, ValidFrom: validFrom, ValidTo: req.ValidTo, Confidence: req.Confidence,
	}
	if err := e.metadata.InsertTemporalFact(ctx, fact); err != nil {
		return nil, hsgerr.NewMetadataStoreError("insert_temporal_fact", err)
	}
	return &fact, nil
}

// QueryTemporalFactsAt implements spec §4.9's query_at: rows where
// valid_from <= at < coalesce(valid_to, +inf), ordered by confidence then
// valid_from.
func (e *Engine) QueryTemporalFactsAt(ctx context.Context, subject, predicate, namespace *string, at int64) ([]metadata.TemporalFact, error) {
	facts, err := e.metadata.QueryTemporalFactsAt(ctx, subject, predicate, namespace, at)
	if err != nil {
		return nil, hsgerr.NewMetadataStoreError("query_temporal_facts_at", err)
	}
	return facts, nil
}

// Timeline returns every recorded version of a (subject, predicate,
// namespace) fact in chronological order, a read-only projection over the
// same temporal_facts table (spec §4.9).
func (e *Engine) Timeline(ctx context.Context, subject, predicate, namespace *string) ([]metadata.TemporalFact, error) {
	facts, err := e.metadata.QueryTemporalFacts(ctx, subject, predicate, namespace)
	if err != nil {
		return nil, hsgerr.NewMetadataStoreError("query_temporal_facts", err)
	}
	return facts, nil
}
