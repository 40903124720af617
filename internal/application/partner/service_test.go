package partner

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/benefits-portal-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockPartnerStore struct{ mock.Mock }

func (m *mockPartnerStore) Put(ctx context.Context, p *domain.Partner) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockPartnerStore) Get(ctx context.Context, partnerID string) (*domain.Partner, error) {
	args := m.Called(ctx, partnerID)
	if p, _ := args.Get(0).(*domain.Partner); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPartnerStore) ListByTenant(ctx context.Context, tenantID string) ([]domain.Partner, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]domain.Partner), args.Error(1)
}
func (m *mockPartnerStore) Update(ctx context.Context, partnerID string, updates map[string]interface{}) error {
	return m.Called(ctx, partnerID, updates).Error(0)
}
func (m *mockPartnerStore) SoftDelete(ctx context.Context, partnerID string) error {
	return m.Called(ctx, partnerID).Error(0)
}

type mockAssetStore struct{ mock.Mock }

func (m *mockAssetStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockAssetStore) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

func ptr[T any](v T) *T { return &v }

// --- Create tests ---

func TestCreate_InitializesEmptyBenefitsMap(t *testing.T) {
	ps := &mockPartnerStore{}
	ps.On("Put", mock.Anything, mock.AnythingOfType("*domain.Partner")).Return(nil)

	svc := NewService(ps, nil)
	p, err := svc.Create(context.Background(), domain.CreatePartnerRequest{
		TenantID: "t1",
		Name:     "Gym Co",
		Category: "fitness",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, p.PartnerID)
	assert.True(t, p.Active)
	require.NotNil(t, p.Benefits)
	assert.Empty(t, p.Benefits)
	ps.AssertExpectations(t)
}

// --- Update tests ---

func TestUpdate_NoFields(t *testing.T) {
	svc := NewService(&mockPartnerStore{}, nil)
	_, err := svc.Update(context.Background(), "p1", domain.UpdatePartnerRequest{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpdate_HappyPath(t *testing.T) {
	ps := &mockPartnerStore{}
	ps.On("Update", mock.Anything, "p1", map[string]interface{}{
		"name":   "New Gym",
		"active": false,
	}).Return(nil)
	ps.On("Get", mock.Anything, "p1").Return(&domain.Partner{PartnerID: "p1", Name: "New Gym"}, nil)

	svc := NewService(ps, nil)
	p, err := svc.Update(context.Background(), "p1", domain.UpdatePartnerRequest{
		Name:   ptr("New Gym"),
		Active: ptr(false),
	})

	require.NoError(t, err)
	assert.Equal(t, "New Gym", p.Name)
	ps.AssertExpectations(t)
}

func TestUpdate_NotFoundPropagates(t *testing.T) {
	ps := &mockPartnerStore{}
	ps.On("Update", mock.Anything, "missing", mock.Anything).Return(domain.ErrNotFound)

	svc := NewService(ps, nil)
	_, err := svc.Update(context.Background(), "missing", domain.UpdatePartnerRequest{Name: ptr("x")})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// --- Logo tests ---

func TestUploadLogo_StoresKeyOnPartner(t *testing.T) {
	ps := &mockPartnerStore{}
	ps.On("Get", mock.Anything, "p1").Return(&domain.Partner{PartnerID: "p1"}, nil)
	ps.On("Update", mock.Anything, "p1", map[string]interface{}{
		"logo_key": "partners/p1/logo/logo.png",
	}).Return(nil)

	as := &mockAssetStore{}
	as.On("Upload", mock.Anything, "partners/p1/logo/logo.png", mock.Anything, "image/png").
		Return("s3://bucket/partners/p1/logo/logo.png", nil)

	svc := NewService(ps, as)
	_, err := svc.UploadLogo(context.Background(), "p1", "logo.png", strings.NewReader("png-bytes"))

	require.NoError(t, err)
	ps.AssertExpectations(t)
	as.AssertExpectations(t)
}

func TestUploadLogo_PartnerNotFound_NothingUploaded(t *testing.T) {
	ps := &mockPartnerStore{}
	ps.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)
	as := &mockAssetStore{}

	svc := NewService(ps, as)
	_, err := svc.UploadLogo(context.Background(), "missing", "logo.png", strings.NewReader(""))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	as.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogoURL_NoLogo(t *testing.T) {
	ps := &mockPartnerStore{}
	ps.On("Get", mock.Anything, "p1").Return(&domain.Partner{PartnerID: "p1"}, nil)

	svc := NewService(ps, &mockAssetStore{})
	_, err := svc.LogoURL(context.Background(), "p1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLogoURL_HappyPath(t *testing.T) {
	key := "partners/p1/logo/logo.png"
	ps := &mockPartnerStore{}
	ps.On("Get", mock.Anything, "p1").Return(&domain.Partner{PartnerID: "p1", LogoKey: &key}, nil)
	as := &mockAssetStore{}
	as.On("PresignedURL", mock.Anything, key, mock.Anything).Return("https://signed.example/logo.png", nil)

	svc := NewService(ps, as)
	url, err := svc.LogoURL(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/logo.png", url)
}
