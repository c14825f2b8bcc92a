package content

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/remodelgrid/leadgen-api/internal/observability/metrics"
	"github.com/remodelgrid/leadgen-api/pkg/logging"
)

// WebhookTrigger forwards a payload to an automation webhook. Satisfied by MakeClient.
type WebhookTrigger interface {
	Trigger(ctx context.Context, webhookURL string, payload any) (json.RawMessage, error)
}

// Handler handles HTTP requests for content generation
type Handler struct {
	generator      *Generator
	webhook        WebhookTrigger
	makeWebhookURL string
	metrics        *metrics.LeadMetrics
	logger         *logging.Logger
}

// NewHandler creates a new content handler. makeWebhookURL is the configured
// fallback used when the request asks for Make without naming a webhook.
func NewHandler(generator *Generator, webhook WebhookTrigger, makeWebhookURL string, m *metrics.LeadMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		generator:      generator,
		webhook:        webhook,
		makeWebhookURL: makeWebhookURL,
		metrics:        m,
		logger:         logger,
	}
}

// GenerateResponse is the envelope for POST /api/generate-content.
type GenerateResponse struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message,omitempty"`
	Content      *GeneratedContent `json:"content,omitempty"`
	MakeResponse json.RawMessage   `json:"makeResponse,omitempty"`
}

// GenerateContent handles POST /api/generate-content requests
func (h *Handler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode generation request", "error", err)
		writeJSON(w, http.StatusBadRequest, GenerateResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	if strings.TrimSpace(req.PageType) == "" {
		writeJSON(w, http.StatusBadRequest, GenerateResponse{
			Success: false,
			Message: "pageType is required",
		})
		return
	}

	webhookURL := req.MakeWebhookURL
	if webhookURL == "" {
		webhookURL = h.makeWebhookURL
	}
	if req.UseMake && webhookURL != "" && h.webhook != nil {
		makeResp, err := h.webhook.Trigger(r.Context(), webhookURL, req)
		if err != nil {
			h.logger.Error("make webhook failed", "error", err)
			h.metrics.ObserveGeneration("make", "error")
			writeJSON(w, http.StatusInternalServerError, GenerateResponse{
				Success: false,
				Message: "Content generation failed",
			})
			return
		}
		h.metrics.ObserveGeneration("make", "ok")
		writeJSON(w, http.StatusOK, GenerateResponse{
			Success:      true,
			Message:      "Content generation triggered via Make.com",
			MakeResponse: makeResp,
		})
		return
	}

	generated, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		h.logger.Error("content generation failed", "error", err, "page_type", req.PageType)
		h.metrics.ObserveGeneration("claude", "error")
		writeJSON(w, http.StatusInternalServerError, GenerateResponse{
			Success: false,
			Message: "Content generation failed",
		})
		return
	}

	h.metrics.ObserveGeneration("claude", "ok")
	writeJSON(w, http.StatusOK, GenerateResponse{
		Success: true,
		Content: generated,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
