package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gocongress/prizes-sub001/services"
)

const signatureHeader = "X-Registration-Signature"

// WebhookHandler принимает доставки внешней регистрационной системы.
// Аутентификация — HMAC-подпись тела, JWT здесь не используется.
type WebhookHandler struct {
	registrationService services.RegistrationService
}

func NewWebhookHandler(registrationService services.RegistrationService) *WebhookHandler {
	return &WebhookHandler{registrationService: registrationService}
}

func (h *WebhookHandler) HandleRegistration(w http.ResponseWriter, r *http.Request) {
	signature := r.Header.Get(signatureHeader)
	if signature == "" {
		unauthorizedResponse(w, r, "missing webhook signature")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1_048_576))
	if err != nil {
		badRequestResponse(w, r, errors.New("failed to read request body"))
		return
	}

	if err := h.registrationService.VerifySignature(body, signature); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	report, err := h.registrationService.Ingest(r.Context(), body)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, report, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
