package handler

import (
	"encoding/json"
	"net/http"

	"github.com/benefits-portal-api/internal/application/valcode"
	"github.com/benefits-portal-api/internal/domain"
	"github.com/benefits-portal-api/internal/pkg/validate"
	"github.com/benefits-portal-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// ValidationCodeHandler handles the validation code lifecycle: generation,
// eligibility check, redemption and redemption history. Tenant and member
// identity always come from the JWT claims.
type ValidationCodeHandler struct {
	svc valcode.Service
}

func NewValidationCodeHandler(svc valcode.Service) *ValidationCodeHandler {
	return &ValidationCodeHandler{svc: svc}
}

func (h *ValidationCodeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.GenerateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	vc, err := h.svc.Generate(r.Context(), claims.TenantID, claims.MemberID, claims.UserType, req.PartnerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vc)
}

func (h *ValidationCodeHandler) Validate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	vc, err := h.svc.Validate(r.Context(), claims.TenantID, claims.MemberID, chi.URLParam(r, "code"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vc)
}

func (h *ValidationCodeHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.RedeemCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	record, err := h.svc.Redeem(r.Context(), claims.TenantID, claims.MemberID, req.Code)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *ValidationCodeHandler) History(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	entries, err := h.svc.History(r.Context(), claims.TenantID, claims.MemberID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
