package handler

import (
	"encoding/json"
	"net/http"

	"github.com/benefits-portal-api/internal/application/benefit"
	"github.com/benefits-portal-api/internal/application/partner"
	"github.com/benefits-portal-api/internal/domain"
	"github.com/benefits-portal-api/internal/pkg/validate"
	"github.com/benefits-portal-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// BenefitHandler handles benefit fields inside partner documents: upsert,
// delete (hard or soft) and the archived-benefit listing.
type BenefitHandler struct {
	svc        benefit.Service
	partnerSvc partner.Service
}

func NewBenefitHandler(svc benefit.Service, partnerSvc partner.Service) *BenefitHandler {
	return &BenefitHandler{svc: svc, partnerSvc: partnerSvc}
}

func (h *BenefitHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := h.scopedPartnerID(w, r)
	if !ok {
		return
	}
	var req domain.UpsertBenefitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	p, err := h.svc.Upsert(r.Context(), partnerID, chi.URLParam(r, "benefitID"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete removes a benefit. Mode comes from the `mode` query parameter and
// defaults to soft. Deleting an absent benefit is a 204 no-op.
func (h *BenefitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := h.scopedPartnerID(w, r)
	if !ok {
		return
	}
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = domain.DeleteModeSoft
	}
	archived, err := h.svc.Delete(r.Context(), partnerID, chi.URLParam(r, "benefitID"), mode)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if archived == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, archived)
}

func (h *BenefitHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	partnerID, ok := h.scopedPartnerID(w, r)
	if !ok {
		return
	}
	archived, err := h.svc.ListDeleted(r.Context(), partnerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, archived)
}

// scopedPartnerID resolves the {id} partner and enforces tenant scoping,
// mirroring the partner handler: cross-tenant reads as not-found.
func (h *BenefitHandler) scopedPartnerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	p, err := h.partnerSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return "", false
	}
	if p.TenantID != claims.TenantID {
		writeError(w, http.StatusNotFound, "partner not found")
		return "", false
	}
	return p.PartnerID, true
}
