package handlers

import (
	"net/http"

	"github.com/gocongress/prizes-sub001/models"
	"github.com/gocongress/prizes-sub001/services"
)

type PrizeHandler struct {
	prizeService services.PrizeService
}

func NewPrizeHandler(prizeService services.PrizeService) *PrizeHandler {
	return &PrizeHandler{prizeService: prizeService}
}

func (h *PrizeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var prize models.Prize
	if err := readJSON(w, r, &prize); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.prizeService.Create(r.Context(), &prize); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"prize": prize}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PrizeHandler) List(w http.ResponseWriter, r *http.Request) {
	prizes, err := h.prizeService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"prizes": prizes}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PrizeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "prizeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	prize, err := h.prizeService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"prize": prize}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PrizeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "prizeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var prize models.Prize
	if err := readJSON(w, r, &prize); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	prize.ID = id

	if err := h.prizeService.Update(r.Context(), &prize); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"prize": prize}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PrizeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "prizeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.prizeService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
