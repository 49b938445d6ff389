package usecase

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"clicksign-esign/internal/domain/entity"
	"clicksign-esign/internal/domain/repository"
	"clicksign-esign/pkg/clicksign"
)

// MockClicksignAPI mocks the ClicksignAPI interface.
type MockClicksignAPI struct {
	mock.Mock
}

func (m *MockClicksignAPI) CreateDocumentByModel(ctx context.Context, templateID string, templateBody string) (interface{}, error) {
	args := m.Called(ctx, templateID, templateBody)
	return args.Get(0), args.Error(1)
}

func (m *MockClicksignAPI) CreateSigner(ctx context.Context, body map[string]clicksign.Signer) (map[string]clicksign.Signer, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]clicksign.Signer), args.Error(1)
}

func (m *MockClicksignAPI) AddSignerToDocument(ctx context.Context, body map[string]clicksign.SignerToDocument) (map[string]clicksign.SignerToDocument, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]clicksign.SignerToDocument), args.Error(1)
}

func (m *MockClicksignAPI) RequestSigningByEmail(ctx context.Context, body map[string]string) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}

// memoryRepository is an in-memory SignatureRequestRepository.
type memoryRepository struct {
	mu      sync.Mutex
	records map[string]entity.SignatureRequest
	saveErr error
	saves   int
	// conflicts makes Update discard that many attempts before writing, as
	// a lost optimistic-lock race would.
	conflicts int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{records: make(map[string]entity.SignatureRequest)}
}

func cloneRecord(req *entity.SignatureRequest) entity.SignatureRequest {
	cp := *req
	cp.Signers = append([]entity.TrackedSigner(nil), req.Signers...)
	cp.Events = append([]entity.TrackedEvent(nil), req.Events...)
	return cp
}

func (r *memoryRepository) Save(_ context.Context, req *entity.SignatureRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.records[req.DocumentKey] = cloneRecord(req)
	return nil
}

func (r *memoryRepository) Get(_ context.Context, documentKey string) (*entity.SignatureRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[documentKey]
	if !ok {
		return nil, repository.ErrNotTracked
	}
	cp := cloneRecord(&rec)
	return &cp, nil
}

func (r *memoryRepository) Update(_ context.Context, documentKey string, fn func(*entity.SignatureRequest) error) (*entity.SignatureRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[documentKey]
	if !ok {
		return nil, repository.ErrNotTracked
	}

	updated := cloneRecord(&rec)
	if err := fn(&updated); err != nil {
		return nil, err
	}
	for ; r.conflicts > 0; r.conflicts-- {
		updated = cloneRecord(&rec)
		if err := fn(&updated); err != nil {
			return nil, err
		}
	}
	r.saves++
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	r.records[documentKey] = cloneRecord(&updated)
	return &updated, nil
}

func strPtr(s string) *string { return &s }
