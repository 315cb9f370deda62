package handlers

import (
	"net/http"

	"github.com/gocongress/prizes-sub001/models"
	"github.com/gocongress/prizes-sub001/services"
)

// PreferenceHandler обслуживает портал игрока: свои награды и список
// предпочтений. Игрок определяется по привязке аккаунта, id в URL нет.
type PreferenceHandler struct {
	preferenceService services.PreferenceService
	playerService     services.PlayerService
	awardService      services.AwardService
}

func NewPreferenceHandler(
	preferenceService services.PreferenceService,
	playerService services.PlayerService,
	awardService services.AwardService,
) *PreferenceHandler {
	return &PreferenceHandler{
		preferenceService: preferenceService,
		playerService:     playerService,
		awardService:      awardService,
	}
}

func (h *PreferenceHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	player, ok := h.currentPlayer(w, r)
	if !ok {
		return
	}

	prefs, err := h.preferenceService.GetOrderedPreferences(r.Context(), player.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"preferences": prefs}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PreferenceHandler) SetOrder(w http.ResponseWriter, r *http.Request) {
	player, ok := h.currentPlayer(w, r)
	if !ok {
		return
	}

	awardID, err := idParam(r, "awardID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Order int `json:"order"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	pref, err := h.preferenceService.SetPreferenceOrder(r.Context(), player.ID, awardID, input.Order)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"preference": pref}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PreferenceHandler) Remove(w http.ResponseWriter, r *http.Request) {
	player, ok := h.currentPlayer(w, r)
	if !ok {
		return
	}

	awardID, err := idParam(r, "awardID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.preferenceService.RemovePreference(r.Context(), player.ID, awardID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMyAwards — награды, закреплённые за игроком текущего пользователя.
func (h *PreferenceHandler) ListMyAwards(w http.ResponseWriter, r *http.Request) {
	player, ok := h.currentPlayer(w, r)
	if !ok {
		return
	}

	awards, err := h.awardService.ListByPlayer(r.Context(), player.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"awards": awards}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListForPlayer — админский просмотр предпочтений произвольного игрока.
func (h *PreferenceHandler) ListForPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := idParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	prefs, err := h.preferenceService.GetOrderedPreferences(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"preferences": prefs}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PreferenceHandler) currentPlayer(w http.ResponseWriter, r *http.Request) (*models.Player, bool) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return nil, false
	}

	player, err := h.playerService.GetByUserID(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return nil, false
	}
	return player, true
}
