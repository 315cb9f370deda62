package handlers

import (
	"net/http"

	"github.com/gocongress/prizes-sub001/services"
)

type AwardHandler struct {
	awardService services.AwardService
}

func NewAwardHandler(awardService services.AwardService) *AwardHandler {
	return &AwardHandler{awardService: awardService}
}

func (h *AwardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateAwardInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	award, err := h.awardService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"award": award}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AwardHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "awardID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	award, err := h.awardService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"award": award}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AwardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "awardID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.awardService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
