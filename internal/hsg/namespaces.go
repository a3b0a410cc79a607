package hsg

import (
	"context"
	"time"

	"github.com/hsgmemory/engine/internal/hsgerr"
	"github.com/hsgmemory/engine/internal/store/metadata"
)

// NamespaceRequest is the body for the namespace CRUD endpoints
// (spec.md §6: `/api/namespaces[/:namespace]`).
type NamespaceRequest struct {
	Description     string
	OntologyProfile *string
	MetadataJSON    *string
}

// UpsertNamespace creates or updates a namespace record explicitly, as
// opposed to ensureNamespace's implicit lazy-create on first write.
func (e *Engine) UpsertNamespace(ctx context.Context, name string, req NamespaceRequest) (*metadata.Namespace, error) {
	if name == "" {
		return nil, hsgerr.NewValidationError("namespace", "must not be empty")
	}
	now := time.Now().Unix()
	ns := metadata.Namespace{
		Namespace:       name,
		Description:     req.Description,
		OntologyProfile: req.OntologyProfile,
		MetadataJSON:    req.MetadataJSON,
		CreatedAt:       now,
		UpdatedAt:       now,
		Active:          true,
	}
	if _, err := e.metadata.UpsertNamespace(ctx, ns); err != nil {
		return nil, hsgerr.NewMetadataStoreError("upsert_namespace", err)
	}
	e.nsMu.Lock()
	e.nsSet[name] = struct{}{}
	e.nsMu.Unlock()
	return &ns, nil
}

func (e *Engine) GetNamespace(ctx context.Context, name string) (*metadata.Namespace, error) {
	ns, err := e.metadata.GetNamespace(ctx, name)
	if err != nil {
		return nil, hsgerr.NewNotFoundError("namespace", name)
	}
	return ns, nil
}

func (e *Engine) ListNamespaces(ctx context.Context) ([]metadata.Namespace, error) {
	nss, err := e.metadata.ListNamespaces(ctx)
	if err != nil {
		return nil, hsgerr.NewMetadataStoreError("list_namespaces", err)
	}
	return nss, nil
}

func (e *Engine) DeleteNamespace(ctx context.Context, name string) error {
	if err := e.metadata.DeleteNamespace(ctx, name); err != nil {
		return hsgerr.NewMetadataStoreError("delete_namespace", err)
	}
	e.nsMu.Lock()
	delete(e.nsSet, name)
	e.nsMu.Unlock()
	return nil
}
