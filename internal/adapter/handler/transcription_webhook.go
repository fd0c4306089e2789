package handler

import (
	"io"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/callguardhq/callguard/errors"
	"github.com/callguardhq/callguard/internal/usecase/pipeline"
)

// TranscriptionWebhookHandler handles incoming webhooks from AssemblyAI
type TranscriptionWebhookHandler struct {
	svc    pipeline.Service
	logger *zap.Logger
}

// NewTranscriptionWebhookHandler creates a new handler
func NewTranscriptionWebhookHandler(svc pipeline.Service, logger *zap.Logger) *TranscriptionWebhookHandler {
	return &TranscriptionWebhookHandler{svc: svc, logger: logger}
}

// HandleAssemblyAIWebhook receives transcript status webhooks from AssemblyAI
func (h *TranscriptionWebhookHandler) HandleAssemblyAIWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	// AssemblyAI signs requests in a header; try common header names
	signature := c.Request().Header.Get("x-assemblyai-signature")
	if signature == "" {
		signature = c.Request().Header.Get("Authorization")
	}

	if err := h.svc.HandleAssemblyAIWebhook(c.Request().Context(), body, signature); err != nil {
		if h.logger != nil {
			h.logger.Error("transcription webhook handler error", zap.Error(err))
		}
		return HandleError(h.logger, c, errors.ErrTranscriptionFailed(err))
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{"status": "ok"})
}
