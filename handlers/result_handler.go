package handlers

import (
	"net/http"

	"github.com/gocongress/prizes-sub001/models"
	"github.com/gocongress/prizes-sub001/services"
)

type ResultHandler struct {
	resultService     services.ResultService
	allocationService services.AllocationService
	exportService     services.ExportService
}

func NewResultHandler(
	resultService services.ResultService,
	allocationService services.AllocationService,
	exportService services.ExportService,
) *ResultHandler {
	return &ResultHandler{
		resultService:     resultService,
		allocationService: allocationService,
		exportService:     exportService,
	}
}

func (h *ResultHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		EventID int             `json:"event_id"`
		Winners []models.Winner `json:"winners"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.resultService.Create(r.Context(), input.EventID, input.Winners)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetDetail — публичная страница результата: победители, событие, аллокации.
func (h *ResultHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	detail, err := h.resultService.GetDetail(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, detail, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultHandler) UpdateWinners(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Winners []models.Winner `json:"winners"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.resultService.UpdateWinners(r.Context(), id, input.Winners)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcomes, err := h.allocationService.Recompute(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"outcomes": outcomes}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Override вручную переназначает владельца награды. player_id: null
// снимает назначение.
func (h *ResultHandler) Override(w http.ResponseWriter, r *http.Request) {
	actorID, err := userIDFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	resultID, err := idParam(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	awardID, err := idParam(r, "awardID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		PlayerID *int `json:"player_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.allocationService.Override(r.Context(), actorID, resultID, awardID, input.PlayerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ResultHandler) Lock(w http.ResponseWriter, r *http.Request) {
	actorID, err := userIDFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	id, err := idParam(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	confirmEmpty := r.URL.Query().Get("confirm_empty") == "true"
	result, err := h.allocationService.Lock(r.Context(), actorID, id, confirmEmpty)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	actorID, err := userIDFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	id, err := idParam(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.allocationService.Unlock(r.Context(), actorID, id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	actorID, err := userIDFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	id, err := idParam(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.allocationService.Finalize(r.Context(), actorID, id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Export выгружает CSV финализированной аллокации в объектное хранилище.
func (h *ResultHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	uploaded, err := h.exportService.ExportAllocationCSV(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"export": uploaded}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
