package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clicksign-esign/internal/domain/entity"
	"clicksign-esign/internal/domain/repository"
	"clicksign-esign/internal/infrastructure/httpclient"
	"clicksign-esign/internal/usecase"
	"clicksign-esign/pkg/clicksign"
)

// MockSignatureUsecase mocks the SignatureUsecase interface.
type MockSignatureUsecase struct {
	mock.Mock
}

func (m *MockSignatureUsecase) CreateDocument(ctx context.Context, templateID string, templateBody []byte) (interface{}, error) {
	args := m.Called(ctx, templateID, string(templateBody))
	return args.Get(0), args.Error(1)
}

func (m *MockSignatureUsecase) CreateSigner(ctx context.Context, body map[string]clicksign.Signer) (map[string]clicksign.Signer, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]clicksign.Signer), args.Error(1)
}

func (m *MockSignatureUsecase) AddSignerToDocument(ctx context.Context, body map[string]clicksign.SignerToDocument) (map[string]clicksign.SignerToDocument, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]clicksign.SignerToDocument), args.Error(1)
}

func (m *MockSignatureUsecase) SendNotification(ctx context.Context, body map[string]string) error {
	return m.Called(ctx, body).Error(0)
}

func (m *MockSignatureUsecase) RequestSignature(ctx context.Context, in *entity.SignatureRequestInput) (*entity.SignatureRequest, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SignatureRequest), args.Error(1)
}

func (m *MockSignatureUsecase) GetSignatureRequest(ctx context.Context, documentKey string) (*entity.SignatureRequest, error) {
	args := m.Called(ctx, documentKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SignatureRequest), args.Error(1)
}

// MockWebhookUsecase mocks the WebhookUsecase interface.
type MockWebhookUsecase struct {
	mock.Mock
}

func (m *MockWebhookUsecase) ProcessWebhook(ctx context.Context, payload *entity.WebhookPayload) (*entity.SignatureRequest, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SignatureRequest), args.Error(1)
}

func setupSignatureApp() (*fiber.App, *MockSignatureUsecase) {
	uc := new(MockSignatureUsecase)
	h := NewSignatureHandler(uc, zap.NewNop())

	app := fiber.New()
	app.Post("/templates/:template_id/documents", h.CreateDocument)
	app.Post("/signers", h.CreateSigner)
	app.Post("/lists", h.AddSignerToDocument)
	app.Post("/notifications", h.SendNotification)
	app.Post("/signature-requests", h.RequestSignature)
	app.Get("/signature-requests/:document_key", h.GetSignatureRequest)
	return app, uc
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, headers ...string) (int, entity.APIResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out entity.APIResponse
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestCreateDocument_ForwardsRawBody(t *testing.T) {
	app, uc := setupSignatureApp()

	body := `{"document":{"path":"/a.docx","template":{"data":{"x":"y"}}}}`
	uc.On("CreateDocument", mock.Anything, "tpl-1", body).
		Return(map[string]interface{}{"document": map[string]interface{}{"key": "doc-1"}}, nil).Once()

	status, resp := doJSON(t, app, http.MethodPost, "/templates/tpl-1/documents", body)
	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, resp.Success)
	uc.AssertExpectations(t)
}

func TestCreateSigner_MalformedBody(t *testing.T) {
	app, uc := setupSignatureApp()

	status, resp := doJSON(t, app, http.MethodPost, "/signers", `{"signer": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "malformed_input", resp.Error.Upstream)
	uc.AssertNotCalled(t, "CreateSigner", mock.Anything, mock.Anything)
}

func TestCreateSigner_UpstreamFailures(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{&clicksign.Error{Kind: clicksign.KindBadRequest, StatusCode: 400, Body: "bad"}, http.StatusBadRequest},
		{clicksign.ErrUnauthorized, http.StatusBadGateway},
		{clicksign.ErrServerError, http.StatusBadGateway},
		{clicksign.ErrTransport, http.StatusBadGateway},
		{clicksign.ErrServiceUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(clicksign.KindOf(tt.err).String(), func(t *testing.T) {
			app, uc := setupSignatureApp()
			uc.On("CreateSigner", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			status, resp := doJSON(t, app, http.MethodPost, "/signers",
				`{"signer":{"email":"a@b.com","name":"A","auths":["email"]}}`)
			assert.Equal(t, tt.status, status)
			assert.False(t, resp.Success)
			assert.Equal(t, clicksign.KindOf(tt.err).String(), resp.Error.Upstream)
		})
	}
}

func TestAddSignerToDocument(t *testing.T) {
	app, uc := setupSignatureApp()

	key := "list-1"
	uc.On("AddSignerToDocument", mock.Anything, mock.MatchedBy(func(body map[string]clicksign.SignerToDocument) bool {
		return body[clicksign.ListRequestKey].DocumentKey == "doc-1"
	})).Return(map[string]clicksign.SignerToDocument{clicksign.ListRequestKey: {Key: &key}}, nil).Once()

	status, resp := doJSON(t, app, http.MethodPost, "/lists",
		`{"list":{"document_key":"doc-1","signer_key":"s1","sign_as":"sign","message":"hi"}}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, resp.Success)
}

func TestSendNotification(t *testing.T) {
	app, uc := setupSignatureApp()

	uc.On("SendNotification", mock.Anything, map[string]string{"request_signature_key": "r1", "message": "hi"}).
		Return(nil).Once()

	status, resp := doJSON(t, app, http.MethodPost, "/notifications", `{"request_signature_key":"r1","message":"hi"}`)
	assert.Equal(t, http.StatusAccepted, status)
	assert.True(t, resp.Success)

	status, _ = doJSON(t, app, http.MethodPost, "/notifications", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRequestSignature(t *testing.T) {
	app, uc := setupSignatureApp()

	uc.On("RequestSignature", mock.Anything, mock.MatchedBy(func(in *entity.SignatureRequestInput) bool {
		return in.TemplateID == "tpl-1" && len(in.Signers) == 1
	})).Return(&entity.SignatureRequest{DocumentKey: "doc-1", Status: entity.SignatureStatusRunning}, nil).Once()

	status, resp := doJSON(t, app, http.MethodPost, "/signature-requests", `{
		"template_id": "tpl-1",
		"document": {"path": "/a.docx", "template": {"data": {}}},
		"signers": [{"signer": {"email": "a@b.com", "name": "A", "auths": ["email"]}, "sign_as": "sign"}]
	}`)
	assert.Equal(t, http.StatusCreated, status)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "doc-1", data["document_key"])

	uc.On("RequestSignature", mock.Anything, mock.Anything).Return(nil, usecase.ErrInvalidInput).Once()
	status, _ = doJSON(t, app, http.MethodPost, "/signature-requests", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetSignatureRequest_NotTracked(t *testing.T) {
	app, uc := setupSignatureApp()

	uc.On("GetSignatureRequest", mock.Anything, "missing").Return(nil, repository.ErrNotTracked).Once()

	status, resp := doJSON(t, app, http.MethodGet, "/signature-requests/missing", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Empty(t, resp.Error.Upstream)
}

func setupWebhookApp(signature *httpclient.HMACSignature) (*fiber.App, *MockWebhookUsecase) {
	uc := new(MockWebhookUsecase)
	h := NewWebhookHandler(uc, signature, zap.NewNop())

	app := fiber.New()
	app.Post("/webhook/clicksign", h.ClicksignCallback)
	return app, uc
}

const closeEvent = `{"event":{"name":"close","occurred_at":"2024-05-10T09:30:00-03:00"},"document":{"key":"doc-1","status":"closed"}}`

func TestWebhook_Unsigned(t *testing.T) {
	app, uc := setupWebhookApp(nil)

	uc.On("ProcessWebhook", mock.Anything, mock.MatchedBy(func(p *entity.WebhookPayload) bool {
		return p.Document.Key == "doc-1" && p.Event.Name == entity.WebhookEventClose
	})).Return(&entity.SignatureRequest{DocumentKey: "doc-1", Status: "closed"}, nil).Once()

	status, resp := doJSON(t, app, http.MethodPost, "/webhook/clicksign", closeEvent)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)
}

func TestWebhook_SignatureChecked(t *testing.T) {
	signature := httpclient.NewHMACSignature("secret")
	app, uc := setupWebhookApp(signature)

	status, _ := doJSON(t, app, http.MethodPost, "/webhook/clicksign", closeEvent)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, app, http.MethodPost, "/webhook/clicksign", closeEvent,
		httpclient.WebhookSignatureHeader, "sha256=deadbeef")
	assert.Equal(t, http.StatusUnauthorized, status)
	uc.AssertNotCalled(t, "ProcessWebhook", mock.Anything, mock.Anything)

	uc.On("ProcessWebhook", mock.Anything, mock.Anything).
		Return(&entity.SignatureRequest{DocumentKey: "doc-1", Status: "closed"}, nil).Once()
	status, _ = doJSON(t, app, http.MethodPost, "/webhook/clicksign", closeEvent,
		httpclient.WebhookSignatureHeader, signature.GenerateSignature([]byte(closeEvent)))
	assert.Equal(t, http.StatusOK, status)
}

func TestWebhook_Errors(t *testing.T) {
	app, uc := setupWebhookApp(nil)

	status, _ := doJSON(t, app, http.MethodPost, "/webhook/clicksign", `{"event":`)
	assert.Equal(t, http.StatusBadRequest, status)

	uc.On("ProcessWebhook", mock.Anything, mock.Anything).Return(nil, repository.ErrNotTracked).Once()
	status, _ = doJSON(t, app, http.MethodPost, "/webhook/clicksign", closeEvent)
	assert.Equal(t, http.StatusNotFound, status)
}

type stubLogs struct {
	logs     []entity.APILog
	gotTerm  string
	gotLimit int
}

func (s *stubLogs) Save(context.Context, *entity.APILog) error { return nil }

func (s *stubLogs) FindRecent(_ context.Context, limit int) ([]entity.APILog, error) {
	s.gotLimit = limit
	return s.logs, nil
}

func (s *stubLogs) Search(_ context.Context, term string, limit int) ([]entity.APILog, error) {
	s.gotTerm = term
	s.gotLimit = limit
	return s.logs, nil
}

func TestLogHandler(t *testing.T) {
	logs := &stubLogs{logs: []entity.APILog{{ID: 1, Endpoint: "signers", StatusCode: 201}}}
	h := NewLogHandler(logs, zap.NewNop())

	app := fiber.New()
	app.Get("/logs", h.GetLogs)
	app.Get("/logs/search", h.SearchLogs)

	status, resp := doJSON(t, app, http.MethodGet, "/logs?limit=5", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 5, logs.gotLimit)
	assert.Len(t, resp.Data, 1)

	status, _ = doJSON(t, app, http.MethodGet, "/logs/search", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodGet, "/logs/search?q=doc-1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "doc-1", logs.gotTerm)
	assert.Equal(t, 50, logs.gotLimit)
}
