package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benefits-portal-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPartnerGet_MissingClaims(t *testing.T) {
	h := NewPartnerHandler(&mockPartnerSvc{})
	r := withChiParams(httptest.NewRequest(http.MethodGet, "/v1/partners/p1", nil), "id", "p1")
	rr := httptest.NewRecorder()
	h.Get(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPartnerGet_CrossTenantReadsAsNotFound(t *testing.T) {
	p := newTestJWTProvider(t)
	other := tenantPartner()
	other.TenantID = "t2"
	svc := &mockPartnerSvc{}
	svc.On("Get", mock.Anything, "p1").Return(other, nil)
	h := NewPartnerHandler(svc)

	r := bearerReq(t, p, http.MethodGet, "/v1/partners/p1", "m1", domain.RoleMember, nil)
	r = withChiParams(r, "id", "p1")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Get), rr, r)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPartnerGet_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPartnerSvc{}
	svc.On("Get", mock.Anything, "p1").Return(tenantPartner(), nil)
	h := NewPartnerHandler(svc)

	r := bearerReq(t, p, http.MethodGet, "/v1/partners/p1", "m1", domain.RoleMember, nil)
	r = withChiParams(r, "id", "p1")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Get), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp domain.Partner
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Gym Co", resp.Name)
}

func TestPartnerCreate_TenantComesFromToken(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPartnerSvc{}
	svc.On("Create", mock.Anything, mock.MatchedBy(func(req domain.CreatePartnerRequest) bool {
		return req.TenantID == "t1"
	})).Return(tenantPartner(), nil)
	h := NewPartnerHandler(svc)

	// Body claims a different tenant; the token wins.
	body, _ := json.Marshal(domain.CreatePartnerRequest{
		TenantID: "t9", Name: "Gym Co", Category: "fitness",
	})
	r := bearerReq(t, p, http.MethodPost, "/v1/partners", "admin1", domain.RoleAdmin, body)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Create), rr, r)

	assert.Equal(t, http.StatusCreated, rr.Code)
	svc.AssertExpectations(t)
}

func TestPartnerList_ScopedToClaimsTenant(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPartnerSvc{}
	svc.On("ListByTenant", mock.Anything, "t1").Return([]domain.Partner{*tenantPartner()}, nil)
	h := NewPartnerHandler(svc)

	r := bearerReq(t, p, http.MethodGet, "/v1/partners", "m1", domain.RoleMember, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.List), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}
