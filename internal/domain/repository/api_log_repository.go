package repository

import (
	"context"

	"clicksign-esign/internal/domain/entity"
)

type APILogRepository interface {
	Save(ctx context.Context, log *entity.APILog) error
	// FindRecent returns the newest logs first.
	FindRecent(ctx context.Context, limit int) ([]entity.APILog, error)
	// Search matches term against endpoint and bodies, newest first.
	Search(ctx context.Context, term string, limit int) ([]entity.APILog, error)
}
