package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"clicksign-esign/internal/domain/entity"
	"clicksign-esign/internal/domain/repository"
	"clicksign-esign/pkg/clicksign"
)

// ErrInvalidInput marks failures caused by the caller's request.
var ErrInvalidInput = errors.New("invalid input")

// ClicksignAPI is the subset of *clicksign.Client the use cases depend on.
type ClicksignAPI interface {
	CreateDocumentByModel(ctx context.Context, templateID string, templateBody string) (interface{}, error)
	CreateSigner(ctx context.Context, requestBody map[string]clicksign.Signer) (map[string]clicksign.Signer, error)
	AddSignerToDocument(ctx context.Context, requestBody map[string]clicksign.SignerToDocument) (map[string]clicksign.SignerToDocument, error)
	RequestSigningByEmail(ctx context.Context, requestBody map[string]string) error
}

type SignatureUsecase interface {
	CreateDocument(ctx context.Context, templateID string, templateBody []byte) (interface{}, error)
	CreateSigner(ctx context.Context, body map[string]clicksign.Signer) (map[string]clicksign.Signer, error)
	AddSignerToDocument(ctx context.Context, body map[string]clicksign.SignerToDocument) (map[string]clicksign.SignerToDocument, error)
	SendNotification(ctx context.Context, body map[string]string) error
	// RequestSignature creates a document from a template, registers and
	// attaches every signer and asks Clicksign to notify them. The first
	// failing step aborts the flow; nothing already created is undone.
	RequestSignature(ctx context.Context, in *entity.SignatureRequestInput) (*entity.SignatureRequest, error)
	GetSignatureRequest(ctx context.Context, documentKey string) (*entity.SignatureRequest, error)
}

type signatureUsecase struct {
	api    ClicksignAPI
	repo   repository.SignatureRequestRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewSignatureUsecase(api ClicksignAPI, repo repository.SignatureRequestRepository, logger *zap.Logger) SignatureUsecase {
	return &signatureUsecase{
		api:    api,
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (u *signatureUsecase) CreateDocument(ctx context.Context, templateID string, templateBody []byte) (interface{}, error) {
	if templateID == "" {
		return nil, fmt.Errorf("%w: template id is required", ErrInvalidInput)
	}

	u.logger.Info("Creating document from template", zap.String("template_id", templateID))

	result, err := u.api.CreateDocumentByModel(ctx, templateID, string(templateBody))
	if err != nil {
		u.logger.Error("Failed to create document",
			zap.String("template_id", templateID),
			zap.Error(err),
		)
		return nil, err
	}

	if key, ok := clicksign.DocumentKeyOf(result); ok {
		u.logger.Info("Document created", zap.String("document_key", key))
	}
	return result, nil
}

func (u *signatureUsecase) CreateSigner(ctx context.Context, body map[string]clicksign.Signer) (map[string]clicksign.Signer, error) {
	result, err := u.api.CreateSigner(ctx, body)
	if err != nil {
		u.logger.Error("Failed to create signer", zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (u *signatureUsecase) AddSignerToDocument(ctx context.Context, body map[string]clicksign.SignerToDocument) (map[string]clicksign.SignerToDocument, error) {
	result, err := u.api.AddSignerToDocument(ctx, body)
	if err != nil {
		u.logger.Error("Failed to add signer to document", zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (u *signatureUsecase) SendNotification(ctx context.Context, body map[string]string) error {
	if err := u.api.RequestSigningByEmail(ctx, body); err != nil {
		u.logger.Error("Failed to request signing by email", zap.Error(err))
		return err
	}
	return nil
}

func validateSignatureRequest(in *entity.SignatureRequestInput) error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.TemplateID, validation.Required),
		validation.Field(&in.Document),
		validation.Field(&in.Signers, validation.Required),
	)
	if err != nil {
		return err
	}

	for i, s := range in.Signers {
		err := validation.ValidateStruct(&s,
			validation.Field(&s.Signer),
			validation.Field(&s.SignAs, validation.Required, validation.In(clicksign.SignAsRoles...)),
			validation.Field(&s.Group, validation.NilOrNotEmpty, validation.Min(1)),
		)
		if err != nil {
			return fmt.Errorf("signer %d: %w", i+1, err)
		}
	}
	return nil
}

func (u *signatureUsecase) RequestSignature(ctx context.Context, in *entity.SignatureRequestInput) (*entity.SignatureRequest, error) {
	u.logger.Info("Requesting signature",
		zap.String("template_id", in.TemplateID),
		zap.String("path", in.Document.Path),
		zap.Int("signers_count", len(in.Signers)),
	)

	if err := validateSignatureRequest(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	templateBody, err := json.Marshal(map[string]clicksign.Document{"document": in.Document})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	result, err := u.api.CreateDocumentByModel(ctx, in.TemplateID, string(templateBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	documentKey, ok := clicksign.DocumentKeyOf(result)
	if !ok {
		return nil, fmt.Errorf("%w: document response has no key", clicksign.ErrMalformedResponse)
	}

	now := u.now()
	record := &entity.SignatureRequest{
		DocumentKey: documentKey,
		TemplateID:  in.TemplateID,
		Path:        in.Document.Path,
		Status:      entity.SignatureStatusPending,
		Signers:     make([]entity.TrackedSigner, 0, len(in.Signers)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for i, s := range in.Signers {
		message := s.Message
		if message == "" {
			message = in.Message
		}

		tracked, err := u.attachSigner(ctx, documentKey, s, message, in.ShouldNotify())
		if err != nil {
			// Keep what was created so webhooks for this document still land.
			u.saveRecord(ctx, record)
			return nil, fmt.Errorf("signer %d: %w", i+1, err)
		}
		record.Signers = append(record.Signers, *tracked)
	}

	record.Status = entity.SignatureStatusRunning
	record.UpdatedAt = u.now()
	u.saveRecord(ctx, record)

	u.logger.Info("Signature requested",
		zap.String("document_key", documentKey),
		zap.Int("signers_count", len(record.Signers)),
	)

	return record, nil
}

// attachSigner runs create signer, add to document and notify for one signer.
func (u *signatureUsecase) attachSigner(ctx context.Context, documentKey string, in entity.SignerInput, message string, notify bool) (*entity.TrackedSigner, error) {
	signers, err := u.api.CreateSigner(ctx, map[string]clicksign.Signer{
		clicksign.SignerRequestKey: in.Signer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}
	signer, ok := signers[clicksign.SignerRequestKey]
	if !ok || signer.Key == nil || *signer.Key == "" {
		return nil, fmt.Errorf("%w: signer response has no key", clicksign.ErrMalformedResponse)
	}

	lists, err := u.api.AddSignerToDocument(ctx, map[string]clicksign.SignerToDocument{
		clicksign.ListRequestKey: {
			DocumentKey: documentKey,
			SignerKey:   *signer.Key,
			SignAs:      in.SignAs,
			Group:       in.Group,
			Message:     message,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add signer to document: %w", err)
	}
	list := lists[clicksign.ListRequestKey]

	tracked := &entity.TrackedSigner{
		SignerKey: *signer.Key,
		Name:      in.Signer.Name,
		Email:     in.Signer.Email,
		SignAs:    in.SignAs,
		Group:     in.Group,
	}
	if list.Key != nil {
		tracked.ListKey = *list.Key
	}
	if list.RequestSignatureKey != nil {
		tracked.RequestSignatureKey = *list.RequestSignatureKey
	}
	if list.URL != nil {
		tracked.URL = *list.URL
	}

	if !notify {
		return tracked, nil
	}
	if tracked.RequestSignatureKey == "" {
		return nil, fmt.Errorf("%w: list response has no request_signature_key", clicksign.ErrMalformedResponse)
	}

	err = u.api.RequestSigningByEmail(ctx, map[string]string{
		clicksign.NotificationRequestSignatureKey: tracked.RequestSignatureKey,
		clicksign.NotificationMessage:             message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to notify signer: %w", err)
	}
	tracked.Notified = true

	return tracked, nil
}

func (u *signatureUsecase) saveRecord(ctx context.Context, record *entity.SignatureRequest) {
	if err := u.repo.Save(ctx, record); err != nil {
		u.logger.Warn("Failed to save signature request",
			zap.String("document_key", record.DocumentKey),
			zap.Error(err),
		)
		// Don't fail the request, just log warning
	}
}

func (u *signatureUsecase) GetSignatureRequest(ctx context.Context, documentKey string) (*entity.SignatureRequest, error) {
	return u.repo.Get(ctx, documentKey)
}
