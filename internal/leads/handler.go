package leads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/remodelgrid/leadgen-api/pkg/logging"
)

// Handler handles HTTP requests for lead submissions
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// SubmitResponse is the uniform envelope for POST /api/submit-lead.
type SubmitResponse struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	Errors       []FieldError `json:"errors,omitempty"`
	SubmissionID string       `json:"submissionId,omitempty"`
}

// SubmitLead handles POST /api/submit-lead requests
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	var req SubmitLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode submission", "error", err)
		writeJSON(w, http.StatusBadRequest, SubmitResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	result, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SubmitResponse{
		Success:      true,
		Message:      "Thank you! We will contact you shortly.",
		SubmissionID: result.SubmissionID,
	})
}

// writeFailure maps pipeline errors to response envelopes. This is the only
// place the error taxonomy meets HTTP; upstream detail is never leaked.
func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, SubmitResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  validationErr.Fields,
		})
	case errors.Is(err, ErrRiskRejected):
		writeJSON(w, http.StatusBadRequest, SubmitResponse{
			Success: false,
			Message: "reCAPTCHA verification failed",
		})
	case errors.Is(err, ErrDuplicateSubmission):
		writeJSON(w, http.StatusConflict, SubmitResponse{
			Success: false,
			Message: "We already have your recent submission. We will contact you shortly!",
		})
	default:
		h.logger.Error("submission failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, SubmitResponse{
			Success: false,
			Message: "An error occurred processing your submission",
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
