package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"clicksign-esign/internal/config"
	"clicksign-esign/internal/domain/entity"
	"clicksign-esign/internal/domain/repository"
	"clicksign-esign/internal/infrastructure/redis"
)

const signatureRequestKeyPrefix = "clicksign:signature_request:"

type signatureRequestRepository struct {
	redisClient *redis.RedisClient
	config      *config.Config
}

func NewSignatureRequestRepository(cfg *config.Config, redisClient *redis.RedisClient) repository.SignatureRequestRepository {
	return &signatureRequestRepository{
		redisClient: redisClient,
		config:      cfg,
	}
}

func signatureRequestKey(documentKey string) string {
	return signatureRequestKeyPrefix + documentKey
}

// Save starts the tracking TTL when the record is new. Updates keep the
// expiry set when the request was first tracked.
func (r *signatureRequestRepository) Save(ctx context.Context, req *entity.SignatureRequest) error {
	if req.DocumentKey == "" {
		return errors.New("signature request has no document key")
	}

	key := signatureRequestKey(req.DocumentKey)
	if err := r.redisClient.SaveJSON(ctx, key, req, r.config.Redis.TrackingTTL()); err != nil {
		return fmt.Errorf("failed to save signature request %s: %w", req.DocumentKey, err)
	}
	return nil
}

func (r *signatureRequestRepository) Get(ctx context.Context, documentKey string) (*entity.SignatureRequest, error) {
	var req entity.SignatureRequest
	err := r.redisClient.GetJSON(ctx, signatureRequestKey(documentKey), &req)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, repository.ErrNotTracked
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get signature request %s: %w", documentKey, err)
	}
	return &req, nil
}

func (r *signatureRequestRepository) Update(ctx context.Context, documentKey string, fn func(*entity.SignatureRequest) error) (*entity.SignatureRequest, error) {
	var updated *entity.SignatureRequest

	err := r.redisClient.UpdateJSON(ctx, signatureRequestKey(documentKey), func(data []byte) (interface{}, error) {
		// Decode into a fresh value on every attempt so a retried fn never
		// sees changes from a dropped transaction.
		var req entity.SignatureRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("failed to unmarshal signature request %s: %w", documentKey, err)
		}
		if err := fn(&req); err != nil {
			return nil, err
		}
		updated = &req
		return &req, nil
	})
	if errors.Is(err, redis.ErrNotFound) {
		return nil, repository.ErrNotTracked
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update signature request %s: %w", documentKey, err)
	}
	return updated, nil
}
