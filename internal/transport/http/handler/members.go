package handler

import (
	"encoding/json"
	"net/http"

	"github.com/benefits-portal-api/internal/application/member"
	"github.com/benefits-portal-api/internal/domain"
	"github.com/benefits-portal-api/internal/pkg/validate"
	"github.com/benefits-portal-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// MemberHandler handles member CRUD endpoints.
type MemberHandler struct {
	svc member.Service
}

func NewMemberHandler(svc member.Service) *MemberHandler { return &MemberHandler{svc: svc} }

func (h *MemberHandler) Register(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.TenantID = claims.TenantID
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	m, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// Get serves a member profile. Members can read themselves; admins can read
// anyone in their tenant.
func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	targetID := chi.URLParam(r, "id")
	if targetID == "me" {
		targetID = claims.MemberID
	}
	if targetID != claims.MemberID && claims.Role != domain.RoleAdmin {
		writeError(w, http.StatusForbidden, "cannot read another member")
		return
	}
	m, ok := h.scopedMember(w, r, targetID, claims.TenantID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	members, err := h.svc.ListByTenant(r.Context(), claims.TenantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	targetID := chi.URLParam(r, "id")
	if targetID != claims.MemberID && claims.Role != domain.RoleAdmin {
		writeError(w, http.StatusForbidden, "cannot update another member")
		return
	}
	var req domain.UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	// Only admins may change roles or re-activate accounts.
	if (req.Role != nil || req.Active != nil) && claims.Role != domain.RoleAdmin {
		writeError(w, http.StatusForbidden, "cannot change role or active flag")
		return
	}
	if _, ok := h.scopedMember(w, r, targetID, claims.TenantID); !ok {
		return
	}
	m, err := h.svc.Update(r.Context(), targetID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	targetID := chi.URLParam(r, "id")
	if _, ok := h.scopedMember(w, r, targetID, claims.TenantID); !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), targetID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "member deleted"})
}

// scopedMember loads the target member and checks it belongs to the caller's
// tenant. Members of other tenants read as not-found, never as forbidden.
// Writes the error response itself when the second return value is false.
func (h *MemberHandler) scopedMember(w http.ResponseWriter, r *http.Request, memberID, tenantID string) (*domain.Member, bool) {
	m, err := h.svc.Get(r.Context(), memberID)
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	if m.TenantID != tenantID {
		writeError(w, http.StatusNotFound, "member not found")
		return nil, false
	}
	return m, true
}
