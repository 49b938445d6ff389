package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"clicksign-esign/internal/domain/entity"
	"clicksign-esign/internal/usecase"
	"clicksign-esign/pkg/clicksign"
)

type SignatureHandler struct {
	usecase usecase.SignatureUsecase
	logger  *zap.Logger
}

func NewSignatureHandler(usecase usecase.SignatureUsecase, logger *zap.Logger) *SignatureHandler {
	return &SignatureHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// CreateDocument godoc
// @Summary Create document from template
// @Description Forwards the raw body to Clicksign templates/{template_id}/documents
// @Tags signature
// @Accept json
// @Produce json
// @Param template_id path string true "Template key"
// @Success 201 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 502 {object} entity.APIResponse
// @Router /api/v1/templates/{template_id}/documents [post]
func (h *SignatureHandler) CreateDocument(c *fiber.Ctx) error {
	ctx := c.UserContext()

	result, err := h.usecase.CreateDocument(ctx, c.Params("template_id"), c.Body())
	if err != nil {
		return respondError(c, h.logger, "Failed to create document", err)
	}

	return c.Status(fiber.StatusCreated).JSON(entity.NewSuccessResponse(result, "Document created successfully"))
}

// CreateSigner godoc
// @Summary Create signer
// @Tags signature
// @Accept json
// @Produce json
// @Param request body map[string]clicksign.Signer true "Body keyed by \"signer\""
// @Success 201 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 502 {object} entity.APIResponse
// @Router /api/v1/signers [post]
func (h *SignatureHandler) CreateSigner(c *fiber.Ctx) error {
	ctx := c.UserContext()

	body, err := clicksign.ParseSignerRequest(c.Body())
	if err != nil {
		return respondError(c, h.logger, "Invalid signer request", err)
	}

	result, err := h.usecase.CreateSigner(ctx, body)
	if err != nil {
		return respondError(c, h.logger, "Failed to create signer", err)
	}

	return c.Status(fiber.StatusCreated).JSON(entity.NewSuccessResponse(result, "Signer created successfully"))
}

// AddSignerToDocument godoc
// @Summary Add signer to document
// @Tags signature
// @Accept json
// @Produce json
// @Param request body map[string]clicksign.SignerToDocument true "Body keyed by \"list\""
// @Success 201 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 502 {object} entity.APIResponse
// @Router /api/v1/lists [post]
func (h *SignatureHandler) AddSignerToDocument(c *fiber.Ctx) error {
	ctx := c.UserContext()

	body, err := clicksign.ParseListRequest(c.Body())
	if err != nil {
		return respondError(c, h.logger, "Invalid list request", err)
	}

	result, err := h.usecase.AddSignerToDocument(ctx, body)
	if err != nil {
		return respondError(c, h.logger, "Failed to add signer to document", err)
	}

	return c.Status(fiber.StatusCreated).JSON(entity.NewSuccessResponse(result, "Signer added to document successfully"))
}

// SendNotification godoc
// @Summary Request signing by email
// @Tags signature
// @Accept json
// @Produce json
// @Param request body map[string]string true "request_signature_key, message and url"
// @Success 202 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 502 {object} entity.APIResponse
// @Router /api/v1/notifications [post]
func (h *SignatureHandler) SendNotification(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var body map[string]string
	if err := c.BodyParser(&body); err != nil {
		h.logger.Error("Failed to parse notification request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "Invalid request body"),
		)
	}

	if err := h.usecase.SendNotification(ctx, body); err != nil {
		return respondError(c, h.logger, "Failed to request signing by email", err)
	}

	return c.Status(fiber.StatusAccepted).JSON(entity.NewSuccessResponse(nil, "Notification requested successfully"))
}

// RequestSignature godoc
// @Summary Request signature
// @Description Creates a document from a template, attaches every signer and notifies them
// @Tags signature
// @Accept json
// @Produce json
// @Param request body entity.SignatureRequestInput true "Signature request"
// @Success 201 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 502 {object} entity.APIResponse
// @Router /api/v1/signature-requests [post]
func (h *SignatureHandler) RequestSignature(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req entity.SignatureRequestInput
	if err := c.BodyParser(&req); err != nil {
		h.logger.Error("Failed to parse signature request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "Invalid request body"),
		)
	}

	record, err := h.usecase.RequestSignature(ctx, &req)
	if err != nil {
		return respondError(c, h.logger, "Failed to request signature", err)
	}

	return c.Status(fiber.StatusCreated).JSON(entity.NewSuccessResponse(record, "Signature requested successfully"))
}

// GetSignatureRequest godoc
// @Summary Get tracked signature request
// @Tags signature
// @Produce json
// @Param document_key path string true "Document key"
// @Success 200 {object} entity.APIResponse
// @Failure 404 {object} entity.APIResponse
// @Router /api/v1/signature-requests/{document_key} [get]
func (h *SignatureHandler) GetSignatureRequest(c *fiber.Ctx) error {
	ctx := c.UserContext()

	record, err := h.usecase.GetSignatureRequest(ctx, c.Params("document_key"))
	if err != nil {
		return respondError(c, h.logger, "Failed to get signature request", err)
	}

	return c.JSON(entity.NewSuccessResponse(record, "Signature request retrieved successfully"))
}
