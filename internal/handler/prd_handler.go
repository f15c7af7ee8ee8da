package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"prd-generator/internal/middleware"
	"prd-generator/internal/model"
	"prd-generator/internal/service"
	"prd-generator/pkg/apierror"
)

type PRDHandler struct {
	service *service.PRDService
}

func NewPRDHandler(service *service.PRDService) *PRDHandler {
	return &PRDHandler{service: service}
}

func (h *PRDHandler) Generate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.GeneratePRDRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	prd, err := h.service.Generate(r.Context(), account, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, prd, nil)
}

func (h *PRDHandler) List(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	prds, meta, err := h.service.List(r.Context(), account.ID, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, prds, meta)
}

func (h *PRDHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	prd, err := h.service.Get(r.Context(), account, chi.URLParam(r, "prd_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, prd, nil)
}

func (h *PRDHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.UpdatePRDRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	prd, err := h.service.Update(r.Context(), account, chi.URLParam(r, "prd_id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, prd, nil)
}

func (h *PRDHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), account, chi.URLParam(r, "prd_id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
