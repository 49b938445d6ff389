package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"clicksign-esign/internal/domain/entity"
	"clicksign-esign/internal/domain/repository"
)

type WebhookUsecase interface {
	// ProcessWebhook applies a Clicksign callback to the tracked signature
	// request of its document. Unknown documents yield repository.ErrNotTracked.
	ProcessWebhook(ctx context.Context, payload *entity.WebhookPayload) (*entity.SignatureRequest, error)
}

type webhookUsecase struct {
	repo   repository.SignatureRequestRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewWebhookUsecase(repo repository.SignatureRequestRepository, logger *zap.Logger) WebhookUsecase {
	return &webhookUsecase{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (u *webhookUsecase) ProcessWebhook(ctx context.Context, payload *entity.WebhookPayload) (*entity.SignatureRequest, error) {
	documentKey := payload.Document.Key
	if documentKey == "" {
		return nil, fmt.Errorf("%w: webhook has no document key", ErrInvalidInput)
	}

	u.logger.Info("Processing webhook callback",
		zap.String("document_key", documentKey),
		zap.String("event", payload.Event.Name),
		zap.String("document_status", payload.Document.Status),
	)

	now := u.now()
	record, err := u.repo.Update(ctx, documentKey, func(record *entity.SignatureRequest) error {
		u.applyEvent(record, payload, now)
		return nil
	})
	if errors.Is(err, repository.ErrNotTracked) {
		u.logger.Warn("Webhook for unknown document",
			zap.String("document_key", documentKey),
			zap.Error(err),
		)
		return nil, err
	}
	if err != nil {
		u.logger.Error("Failed to update signature request",
			zap.String("document_key", documentKey),
			zap.Error(err),
		)
		return nil, err
	}

	return record, nil
}

// applyEvent runs inside a repository update and may be repeated on fresh
// state, so it only derives changes from its arguments.
func (u *webhookUsecase) applyEvent(record *entity.SignatureRequest, payload *entity.WebhookPayload, now time.Time) {
	record.Events = append(record.Events, entity.TrackedEvent{
		Name:       payload.Event.Name,
		OccurredAt: payload.Event.OccurredAt,
		ReceivedAt: now,
	})

	switch payload.Event.Name {
	case entity.WebhookEventSign:
		u.markSigned(record, payload.Event, now)
	case entity.WebhookEventClose, entity.WebhookEventAutoClose:
		record.Status = entity.SignatureStatusClosed
	case entity.WebhookEventCancel:
		record.Status = entity.SignatureStatusCanceled
	}

	// The document status reported by Clicksign wins over the event guess.
	if payload.Document.Status != "" {
		record.Status = payload.Document.Status
	}
	record.UpdatedAt = now
}

func (u *webhookUsecase) markSigned(record *entity.SignatureRequest, event entity.WebhookEvent, now time.Time) {
	var data entity.SignEventData
	if len(event.Data) > 0 {
		if err := json.Unmarshal(event.Data, &data); err != nil {
			u.logger.Warn("Failed to parse sign event data",
				zap.String("document_key", record.DocumentKey),
				zap.Error(err),
			)
			return
		}
	}

	signer := record.FindSigner(data.Signer.Key, data.Signer.Email)
	if signer == nil {
		u.logger.Warn("Sign event for unknown signer",
			zap.String("document_key", record.DocumentKey),
			zap.String("signer_key", data.Signer.Key),
		)
		return
	}

	signedAt := now
	if t, err := time.Parse(time.RFC3339, event.OccurredAt); err == nil {
		signedAt = t
	}
	signer.SignedAt = &signedAt

	u.logger.Info("Signer signed",
		zap.String("document_key", record.DocumentKey),
		zap.String("signer_key", signer.SignerKey),
		zap.Bool("all_signed", record.AllSigned()),
	)
}
