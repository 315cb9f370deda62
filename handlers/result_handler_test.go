package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gocongress/prizes-sub001/allocation"
	"github.com/gocongress/prizes-sub001/middleware"
	"github.com/gocongress/prizes-sub001/models"
	"github.com/gocongress/prizes-sub001/services"
	"github.com/gocongress/prizes-sub001/storage"
	"github.com/golang-jwt/jwt/v4"
)

// asAdmin добавляет к запросу claims администратора, как это сделал бы
// middleware аутентификации.
func asAdmin(req *http.Request) *http.Request {
	claims := jwt.MapClaims{
		"user_id": float64(7),
		"role":    string(models.RoleAdmin),
	}
	return req.WithContext(middleware.ContextWithClaims(req.Context(), claims))
}

type fakeResultService struct {
	result *models.Result
	detail *services.ResultDetail
	err    error
}

func (f *fakeResultService) Create(ctx context.Context, eventID int, winners []models.Winner) (*models.Result, error) {
	return f.result, f.err
}

func (f *fakeResultService) GetByID(ctx context.Context, id int) (*models.Result, error) {
	return f.result, f.err
}

func (f *fakeResultService) GetByEventID(ctx context.Context, eventID int) (*models.Result, error) {
	return f.result, f.err
}

func (f *fakeResultService) GetDetail(ctx context.Context, id int) (*services.ResultDetail, error) {
	return f.detail, f.err
}

func (f *fakeResultService) UpdateWinners(ctx context.Context, id int, winners []models.Winner) (*models.Result, error) {
	return f.result, f.err
}

type fakeAllocationService struct {
	outcomes []allocation.Outcome
	result   *models.Result
	err      error
}

func (f *fakeAllocationService) Recompute(ctx context.Context, resultID int) ([]allocation.Outcome, error) {
	return f.outcomes, f.err
}

func (f *fakeAllocationService) Override(ctx context.Context, actorID, resultID, awardID int, playerID *int) error {
	return f.err
}

func (f *fakeAllocationService) Lock(ctx context.Context, actorID, resultID int, confirmEmpty bool) (*models.Result, error) {
	return f.result, f.err
}

func (f *fakeAllocationService) Unlock(ctx context.Context, actorID, resultID int) (*models.Result, error) {
	return f.result, f.err
}

func (f *fakeAllocationService) Finalize(ctx context.Context, actorID, resultID int) (*models.Result, error) {
	return f.result, f.err
}

type fakeExportService struct {
	uploaded *storage.UploadResult
	err      error
}

func (f *fakeExportService) ExportAllocationCSV(ctx context.Context, resultID int) (*storage.UploadResult, error) {
	return f.uploaded, f.err
}

func newResultRouter(rs services.ResultService, as services.AllocationService, es services.ExportService) *chi.Mux {
	h := NewResultHandler(rs, as, es)
	router := chi.NewRouter()
	router.Get("/results/{resultID}", h.GetDetail)
	router.Post("/results/{resultID}/recompute", h.Recompute)
	router.Post("/results/{resultID}/lock", h.Lock)
	router.Post("/results/{resultID}/unlock", h.Unlock)
	router.Post("/results/{resultID}/finalize", h.Finalize)
	router.Post("/results/{resultID}/export", h.Export)
	return router
}

func TestResultHandlerRecomputeLocked(t *testing.T) {
	router := newResultRouter(
		&fakeResultService{},
		&fakeAllocationService{err: services.ErrResultLocked},
		&fakeExportService{},
	)

	req := httptest.NewRequest(http.MethodPost, "/results/1/recompute", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusLocked {
		t.Errorf("status = %d, want 423", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "locked") {
		t.Errorf("body should explain the lock, got %q", rec.Body.String())
	}
}

func TestResultHandlerFinalizeWithoutLock(t *testing.T) {
	router := newResultRouter(
		&fakeResultService{},
		&fakeAllocationService{err: services.ErrResultNotLocked},
		&fakeExportService{},
	)

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/results/1/finalize", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestResultHandlerUnlockFinalized(t *testing.T) {
	router := newResultRouter(
		&fakeResultService{},
		&fakeAllocationService{err: services.ErrResultFinalized},
		&fakeExportService{},
	)

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/results/1/unlock", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestResultHandlerLockEmptyAllocation(t *testing.T) {
	router := newResultRouter(
		&fakeResultService{},
		&fakeAllocationService{err: services.ErrAllocationEmpty},
		&fakeExportService{},
	)

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/results/1/lock", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestResultHandlerGetDetailNotFound(t *testing.T) {
	router := newResultRouter(
		&fakeResultService{err: services.ErrResultNotFound},
		&fakeAllocationService{},
		&fakeExportService{},
	)

	req := httptest.NewRequest(http.MethodGet, "/results/999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestResultHandlerGetDetailBadID(t *testing.T) {
	router := newResultRouter(&fakeResultService{}, &fakeAllocationService{}, &fakeExportService{})

	req := httptest.NewRequest(http.MethodGet, "/results/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestResultHandlerExportNotFinalized(t *testing.T) {
	router := newResultRouter(
		&fakeResultService{},
		&fakeAllocationService{},
		&fakeExportService{err: services.ErrResultNotFinalized},
	)

	req := httptest.NewRequest(http.MethodPost, "/results/1/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestResultHandlerExportSuccess(t *testing.T) {
	router := newResultRouter(
		&fakeResultService{},
		&fakeAllocationService{},
		&fakeExportService{uploaded: &storage.UploadResult{
			Key:      "exports/result_1_abc.csv",
			Location: "https://cdn.example.com/exports/result_1_abc.csv",
		}},
	)

	req := httptest.NewRequest(http.MethodPost, "/results/1/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cdn.example.com") {
		t.Errorf("body should carry the public URL, got %q", rec.Body.String())
	}
}
