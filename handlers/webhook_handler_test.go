package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gocongress/prizes-sub001/services"
)

type fakeRegistrationService struct {
	verifyErr error
	report    *services.IngestReport
	ingestErr error
}

func (f *fakeRegistrationService) VerifySignature(body []byte, signature string) error {
	return f.verifyErr
}

func (f *fakeRegistrationService) Ingest(ctx context.Context, body []byte) (*services.IngestReport, error) {
	return f.report, f.ingestErr
}

func TestWebhookHandlerMissingSignature(t *testing.T) {
	h := NewWebhookHandler(&fakeRegistrationService{})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/registration", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.HandleRegistration(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestWebhookHandlerBadSignature(t *testing.T) {
	h := NewWebhookHandler(&fakeRegistrationService{verifyErr: services.ErrWebhookBadSignature})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/registration", strings.NewReader(`{}`))
	req.Header.Set(signatureHeader, "deadbeef")
	rec := httptest.NewRecorder()
	h.HandleRegistration(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestWebhookHandlerSuccess(t *testing.T) {
	h := NewWebhookHandler(&fakeRegistrationService{
		report: &services.IngestReport{DeliveryID: "d-1", Processed: 2, Skipped: 1},
	})

	body := `{"registrations":[{"aga_id":"12345","name":"Jane Doe","rank":5}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/registration", strings.NewReader(body))
	req.Header.Set(signatureHeader, "valid")
	rec := httptest.NewRecorder()
	h.HandleRegistration(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"processed": 2`) {
		t.Errorf("body should report processed count, got %q", rec.Body.String())
	}
}

func TestWebhookHandlerMalformedBody(t *testing.T) {
	h := NewWebhookHandler(&fakeRegistrationService{ingestErr: services.ErrValidationFailed})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/registration", strings.NewReader(`not json`))
	req.Header.Set(signatureHeader, "valid")
	rec := httptest.NewRecorder()
	h.HandleRegistration(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
