package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gocongress/prizes-sub001/middleware"
	"github.com/gocongress/prizes-sub001/models"
	"github.com/gocongress/prizes-sub001/services"
	"github.com/golang-jwt/jwt/v4"
)

type fakePreferenceService struct {
	pref  *models.AwardPreference
	prefs []*models.AwardPreference
	err   error
}

func (f *fakePreferenceService) SetPreferenceOrder(ctx context.Context, playerID, awardID, order int) (*models.AwardPreference, error) {
	return f.pref, f.err
}

func (f *fakePreferenceService) RemovePreference(ctx context.Context, playerID, awardID int) error {
	return f.err
}

func (f *fakePreferenceService) GetOrderedPreferences(ctx context.Context, playerID int) ([]*models.AwardPreference, error) {
	return f.prefs, f.err
}

type fakePlayerService struct {
	player *models.Player
	err    error
}

func (f *fakePlayerService) List(ctx context.Context) ([]*models.Player, error) {
	return []*models.Player{f.player}, f.err
}

func (f *fakePlayerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	return f.player, f.err
}

func (f *fakePlayerService) GetByUserID(ctx context.Context, userID int) (*models.Player, error) {
	return f.player, f.err
}

func (f *fakePlayerService) CorrectRank(ctx context.Context, id, rank int) (*models.Player, error) {
	return f.player, f.err
}

type fakeAwardService struct {
	award  *models.Award
	awards []*models.Award
	err    error
}

func (f *fakeAwardService) Create(ctx context.Context, input services.CreateAwardInput) (*models.Award, error) {
	return f.award, f.err
}

func (f *fakeAwardService) GetByID(ctx context.Context, id int) (*models.Award, error) {
	return f.award, f.err
}

func (f *fakeAwardService) ListByEvent(ctx context.Context, eventID int) ([]*models.Award, error) {
	return f.awards, f.err
}

func (f *fakeAwardService) ListByPlayer(ctx context.Context, playerID int) ([]*models.Award, error) {
	return f.awards, f.err
}

func (f *fakeAwardService) Delete(ctx context.Context, id int) error {
	return f.err
}

func asPlayer(req *http.Request) *http.Request {
	claims := jwt.MapClaims{
		"user_id": float64(3),
		"role":    string(models.RolePlayer),
	}
	return req.WithContext(middleware.ContextWithClaims(req.Context(), claims))
}

func newPreferenceRouter(ps services.PreferenceService, pls services.PlayerService, as services.AwardService) *chi.Mux {
	h := NewPreferenceHandler(ps, pls, as)
	router := chi.NewRouter()
	router.Get("/me/preferences", h.ListMine)
	router.Put("/me/preferences/{awardID}", h.SetOrder)
	router.Delete("/me/preferences/{awardID}", h.Remove)
	router.Get("/me/awards", h.ListMyAwards)
	return router
}

func TestPreferenceHandlerSetOrder(t *testing.T) {
	pref := &models.AwardPreference{ID: 1, PlayerID: 5, AwardID: 2, PreferenceOrder: 1}
	router := newPreferenceRouter(
		&fakePreferenceService{pref: pref},
		&fakePlayerService{player: &models.Player{ID: 5, AgaID: "12345"}},
		&fakeAwardService{},
	)

	req := asPlayer(httptest.NewRequest(http.MethodPut, "/me/preferences/2", strings.NewReader(`{"order": 1}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
}

func TestPreferenceHandlerSetOrderWhileLocked(t *testing.T) {
	router := newPreferenceRouter(
		&fakePreferenceService{err: services.ErrResultLocked},
		&fakePlayerService{player: &models.Player{ID: 5}},
		&fakeAwardService{},
	)

	req := asPlayer(httptest.NewRequest(http.MethodPut, "/me/preferences/2", strings.NewReader(`{"order": 1}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusLocked {
		t.Errorf("status = %d, want 423", rec.Code)
	}
}

func TestPreferenceHandlerRemoveWhileFinalized(t *testing.T) {
	router := newPreferenceRouter(
		&fakePreferenceService{err: services.ErrResultFinalized},
		&fakePlayerService{player: &models.Player{ID: 5}},
		&fakeAwardService{},
	)

	req := asPlayer(httptest.NewRequest(http.MethodDelete, "/me/preferences/2", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestPreferenceHandlerNoLinkedPlayer(t *testing.T) {
	router := newPreferenceRouter(
		&fakePreferenceService{},
		&fakePlayerService{err: services.ErrNoLinkedPlayer},
		&fakeAwardService{},
	)

	req := asPlayer(httptest.NewRequest(http.MethodGet, "/me/preferences", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestPreferenceHandlerUnauthenticated(t *testing.T) {
	router := newPreferenceRouter(&fakePreferenceService{}, &fakePlayerService{}, &fakeAwardService{})

	req := httptest.NewRequest(http.MethodGet, "/me/preferences", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestPreferenceHandlerUnknownAward(t *testing.T) {
	router := newPreferenceRouter(
		&fakePreferenceService{err: services.ErrAwardNotFound},
		&fakePlayerService{player: &models.Player{ID: 5}},
		&fakeAwardService{},
	)

	req := asPlayer(httptest.NewRequest(http.MethodPut, "/me/preferences/99", strings.NewReader(`{"order": 1}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
