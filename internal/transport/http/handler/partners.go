package handler

import (
	"encoding/json"
	"net/http"

	"github.com/benefits-portal-api/internal/application/partner"
	"github.com/benefits-portal-api/internal/domain"
	"github.com/benefits-portal-api/internal/pkg/validate"
	"github.com/benefits-portal-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// maxLogoSize caps logo uploads at 5 MiB.
const maxLogoSize = 5 << 20

// PartnerHandler handles partner CRUD and logo endpoints.
type PartnerHandler struct {
	svc partner.Service
}

func NewPartnerHandler(svc partner.Service) *PartnerHandler { return &PartnerHandler{svc: svc} }

func (h *PartnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreatePartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// The tenant always comes from the token, never from the body.
	req.TenantID = claims.TenantID
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	p, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PartnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadScoped(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	partners, err := h.svc.ListByTenant(r.Context(), claims.TenantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, partners)
}

func (h *PartnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadScoped(w, r)
	if !ok {
		return
	}
	var req domain.UpdatePartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	updated, err := h.svc.Update(r.Context(), p.PartnerID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *PartnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadScoped(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), p.PartnerID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "partner deleted"})
}

func (h *PartnerHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadScoped(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	updated, err := h.svc.UploadLogo(r.Context(), p.PartnerID, header.Filename, file)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, updated)
}

func (h *PartnerHandler) LogoURL(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadScoped(w, r)
	if !ok {
		return
	}
	url, err := h.svc.LogoURL(r.Context(), p.PartnerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LogoURLEnvelope{URL: url})
}

// loadScoped resolves the {id} partner and enforces tenant scoping. A partner
// from another tenant reads as not-found, never as forbidden.
func (h *PartnerHandler) loadScoped(w http.ResponseWriter, r *http.Request) (*domain.Partner, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	if p.TenantID != claims.TenantID {
		writeError(w, http.StatusNotFound, "partner not found")
		return nil, false
	}
	return p, true
}
