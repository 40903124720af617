package benefit

import (
	"context"
	"errors"
	"testing"

	"github.com/benefits-portal-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockPartnerStore struct{ mock.Mock }

func (m *mockPartnerStore) Get(ctx context.Context, partnerID string) (*domain.Partner, error) {
	args := m.Called(ctx, partnerID)
	if p, _ := args.Get(0).(*domain.Partner); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPartnerStore) PutBenefit(ctx context.Context, partnerID, benefitID string, value domain.BenefitValue) error {
	return m.Called(ctx, partnerID, benefitID, value).Error(0)
}
func (m *mockPartnerStore) DeleteBenefitHard(ctx context.Context, partnerID, benefitID string) (*domain.ArchivedBenefit, error) {
	args := m.Called(ctx, partnerID, benefitID)
	if a, _ := args.Get(0).(*domain.ArchivedBenefit); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPartnerStore) DeleteBenefitSoft(ctx context.Context, partnerID, benefitID string) (*domain.ArchivedBenefit, error) {
	args := m.Called(ctx, partnerID, benefitID)
	if a, _ := args.Get(0).(*domain.ArchivedBenefit); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPartnerStore) ListDeletedBenefits(ctx context.Context, partnerID string) ([]domain.ArchivedBenefit, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).([]domain.ArchivedBenefit), args.Error(1)
}

// --- Delete tests ---

func TestDelete_InvalidMode(t *testing.T) {
	svc := NewService(&mockPartnerStore{})
	_, err := svc.Delete(context.Background(), "p1", "gym", "purge")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestDelete_PartnerNotFound_BothModes(t *testing.T) {
	for _, mode := range []string{domain.DeleteModeHard, domain.DeleteModeSoft} {
		ps := &mockPartnerStore{}
		ps.On("DeleteBenefitHard", mock.Anything, "missing", "gym").Return(nil, domain.ErrNotFound)
		ps.On("DeleteBenefitSoft", mock.Anything, "missing", "gym").Return(nil, domain.ErrNotFound)

		svc := NewService(ps)
		_, err := svc.Delete(context.Background(), "missing", "gym", mode)

		require.Error(t, err, mode)
		assert.True(t, errors.Is(err, domain.ErrNotFound), mode)
	}
}

func TestDelete_AbsentBenefitIsNoOp(t *testing.T) {
	for _, mode := range []string{domain.DeleteModeHard, domain.DeleteModeSoft} {
		ps := &mockPartnerStore{}
		ps.On("DeleteBenefitHard", mock.Anything, "p1", "ghost").Return(nil, nil)
		ps.On("DeleteBenefitSoft", mock.Anything, "p1", "ghost").Return(nil, nil)

		svc := NewService(ps)
		archived, err := svc.Delete(context.Background(), "p1", "ghost", mode)

		require.NoError(t, err, mode)
		assert.Nil(t, archived, mode)
	}
}

func TestDelete_Hard_ReturnsRemovedValueWithoutTombstone(t *testing.T) {
	ps := &mockPartnerStore{}
	ps.On("DeleteBenefitHard", mock.Anything, "p1", "gym").Return(&domain.ArchivedBenefit{
		PartnerID: "p1",
		BenefitID: "gym",
		Data:      map[string]interface{}{"type": "discount", "value": "20%"},
	}, nil)

	svc := NewService(ps)
	removed, err := svc.Delete(context.Background(), "p1", "gym", domain.DeleteModeHard)

	require.NoError(t, err)
	assert.Empty(t, removed.DeletedAt)
	assert.Equal(t, "20%", removed.Data["value"])
	ps.AssertNotCalled(t, "DeleteBenefitSoft", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_Soft_ReturnsArchivedRecord(t *testing.T) {
	ps := &mockPartnerStore{}
	ps.On("DeleteBenefitSoft", mock.Anything, "p1", "gym").Return(&domain.ArchivedBenefit{
		PartnerID: "p1",
		BenefitID: "gym",
		Data:      map[string]interface{}{"type": "discount", "value": "20%"},
		DeletedAt: "2026-09-01T10:00:00Z",
	}, nil)

	svc := NewService(ps)
	archived, err := svc.Delete(context.Background(), "p1", "gym", domain.DeleteModeSoft)

	require.NoError(t, err)
	assert.NotEmpty(t, archived.DeletedAt)
	assert.Equal(t, "20%", archived.Data["value"])
	ps.AssertNotCalled(t, "DeleteBenefitHard", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_Soft_TransientPropagates(t *testing.T) {
	ps := &mockPartnerStore{}
	ps.On("DeleteBenefitSoft", mock.Anything, "p1", "gym").Return(nil, domain.ErrTransient)

	svc := NewService(ps)
	_, err := svc.Delete(context.Background(), "p1", "gym", domain.DeleteModeSoft)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransient))
}

// --- Upsert tests ---

func TestUpsert_WritesRecordValueAndReturnsPartner(t *testing.T) {
	ps := &mockPartnerStore{}
	ps.On("PutBenefit", mock.Anything, "p1", "gym", mock.Anything).Return(nil)
	ps.On("Get", mock.Anything, "p1").Return(&domain.Partner{PartnerID: "p1"}, nil)

	svc := NewService(ps)
	p, err := svc.Upsert(context.Background(), "p1", "gym", domain.UpsertBenefitRequest{
		Type:      "discount",
		Status:    "active",
		Audience:  "employee",
		ValueType: "percent",
		Value:     "20",
	})

	require.NoError(t, err)
	assert.Equal(t, "p1", p.PartnerID)

	value := ps.Calls[0].Arguments.Get(3).(domain.BenefitValue)
	require.NotNil(t, value.Record)
	assert.Equal(t, "discount", value.Record.Type)
}

func TestUpsert_PartnerNotFound(t *testing.T) {
	ps := &mockPartnerStore{}
	ps.On("PutBenefit", mock.Anything, "missing", "gym", mock.Anything).Return(domain.ErrNotFound)

	svc := NewService(ps)
	_, err := svc.Upsert(context.Background(), "missing", "gym", domain.UpsertBenefitRequest{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// --- ListDeleted tests ---

func TestListDeleted_PartnerNotFound(t *testing.T) {
	ps := &mockPartnerStore{}
	ps.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc := NewService(ps)
	_, err := svc.ListDeleted(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	ps.AssertNotCalled(t, "ListDeletedBenefits", mock.Anything, mock.Anything)
}

func TestListDeleted_HappyPath(t *testing.T) {
	ps := &mockPartnerStore{}
	ps.On("Get", mock.Anything, "p1").Return(&domain.Partner{PartnerID: "p1"}, nil)
	ps.On("ListDeletedBenefits", mock.Anything, "p1").Return([]domain.ArchivedBenefit{
		{PartnerID: "p1", BenefitID: "gym", DeletedAt: "2026-09-01T10:00:00Z"},
	}, nil)

	svc := NewService(ps)
	archived, err := svc.ListDeleted(context.Background(), "p1")

	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "gym", archived[0].BenefitID)
}
