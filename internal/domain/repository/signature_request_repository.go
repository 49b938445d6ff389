package repository

import (
	"context"
	"errors"

	"clicksign-esign/internal/domain/entity"
)

// ErrNotTracked is returned when no signature request exists for a
// document key.
var ErrNotTracked = errors.New("signature request not tracked")

type SignatureRequestRepository interface {
	// Save creates or replaces the record for req.DocumentKey.
	Save(ctx context.Context, req *entity.SignatureRequest) error
	// Get returns ErrNotTracked when the document key is unknown.
	Get(ctx context.Context, documentKey string) (*entity.SignatureRequest, error)
	// Update applies fn to the stored record and writes the result back
	// atomically with respect to other updates. fn may run more than once
	// when updates conflict, each time on freshly loaded state. Returns
	// ErrNotTracked when the document key is unknown.
	Update(ctx context.Context, documentKey string, fn func(*entity.SignatureRequest) error) (*entity.SignatureRequest, error)
}
