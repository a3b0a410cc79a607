package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/hsgmemory/engine/internal/hsgerr"
)

// statusFor is the single errors.As-based switch spec.md §7 calls for:
// hsgerr's typed kinds translate to HTTP status here and nowhere else in
// this package. NamespaceAccessError renders identically to NotFoundError
// so existence is never leaked across tenants.
func statusFor(err error) (int, string) {
	var validation *hsgerr.ValidationError
	var notFound *hsgerr.NotFoundError
	var nsAccess *hsgerr.NamespaceAccessError
	var embedErr *hsgerr.EmbedError
	var vectorErr *hsgerr.VectorStoreError
	var metaErr *hsgerr.MetadataStoreError
	var timeoutErr *hsgerr.TimeoutError

	switch {
	case errors.As(err, &validation):
		return fiber.StatusBadRequest, err.Error()
	case errors.As(err, &notFound):
		return fiber.StatusNotFound, err.Error()
	case errors.As(err, &nsAccess):
		return fiber.StatusNotFound, "memory not found"
	case errors.As(err, &timeoutErr):
		return fiber.StatusServiceUnavailable, err.Error()
	case errors.As(err, &embedErr):
		return fiber.StatusServiceUnavailable, err.Error()
	case errors.As(err, &vectorErr), errors.As(err, &metaErr):
		return fiber.StatusBadGateway, err.Error()
	default:
		return fiber.StatusInternalServerError, "internal error"
	}
}
