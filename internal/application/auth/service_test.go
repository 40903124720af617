package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/benefits-portal-api/internal/domain"
	"github.com/benefits-portal-api/internal/infrastructure/google"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockMemberStore struct{ mock.Mock }

func (m *mockMemberStore) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.Member); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(memberID, tenantID, userType, role string) (string, error) {
	args := m.Called(memberID, tenantID, userType, role)
	return args.String(0), args.Error(1)
}

type mockGoogleVerifier struct{ mock.Mock }

func (m *mockGoogleVerifier) Verify(ctx context.Context, token string) (*google.Payload, error) {
	args := m.Called(ctx, token)
	if p, _ := args.Get(0).(*google.Payload); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func activeMember(t *testing.T, password string) *domain.Member {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.Member{
		MemberID:     "m1",
		TenantID:     "t1",
		UserType:     domain.UserTypeEmployee,
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleMember,
		Active:       true,
	}
}

// --- Login tests ---

func TestLogin_UnknownEmail(t *testing.T) {
	ms := &mockMemberStore{}
	ms.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, domain.ErrNotFound)

	svc := NewService(ms, nil, nil)
	_, _, err := svc.Login(context.Background(), domain.LoginRequest{
		Email: "nobody@example.com", Password: "whatever",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_WrongPassword(t *testing.T) {
	ms := &mockMemberStore{}
	ms.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeMember(t, "correct-horse"), nil)

	svc := NewService(ms, nil, nil)
	_, _, err := svc.Login(context.Background(), domain.LoginRequest{
		Email: "alice@example.com", Password: "battery-staple",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_DeactivatedMember(t *testing.T) {
	m := activeMember(t, "correct-horse")
	m.Active = false
	ms := &mockMemberStore{}
	ms.On("GetByEmail", mock.Anything, "alice@example.com").Return(m, nil)

	svc := NewService(ms, nil, nil)
	_, _, err := svc.Login(context.Background(), domain.LoginRequest{
		Email: "alice@example.com", Password: "correct-horse",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_HappyPath(t *testing.T) {
	ms := &mockMemberStore{}
	ms.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeMember(t, "correct-horse"), nil)

	signer := &mockSigner{}
	signer.On("Sign", "m1", "t1", domain.UserTypeEmployee, domain.RoleMember).Return("token123", nil)

	svc := NewService(ms, signer, nil)
	token, m, err := svc.Login(context.Background(), domain.LoginRequest{
		Email: "alice@example.com", Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.Equal(t, "token123", token)
	assert.Equal(t, "m1", m.MemberID)
	signer.AssertExpectations(t)
}

func TestLogin_NoSignerConfigured(t *testing.T) {
	ms := &mockMemberStore{}
	ms.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeMember(t, "correct-horse"), nil)

	// Valid credentials but no signing keys loaded; the login must fail with
	// a service-unavailable error instead of panicking.
	svc := NewService(ms, nil, nil)
	_, _, err := svc.Login(context.Background(), domain.LoginRequest{
		Email: "alice@example.com", Password: "correct-horse",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransient))
}

// --- Google login tests ---

func TestLoginWithGoogle_NotConfigured(t *testing.T) {
	svc := NewService(&mockMemberStore{}, &mockSigner{}, nil)
	_, _, err := svc.LoginWithGoogle(context.Background(), "id-token")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestLoginWithGoogle_InvalidToken(t *testing.T) {
	gv := &mockGoogleVerifier{}
	gv.On("Verify", mock.Anything, "bad-token").Return(nil, domain.ErrUnauthorized)

	svc := NewService(&mockMemberStore{}, &mockSigner{}, gv)
	_, _, err := svc.LoginWithGoogle(context.Background(), "bad-token")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLoginWithGoogle_UnverifiedEmail(t *testing.T) {
	gv := &mockGoogleVerifier{}
	gv.On("Verify", mock.Anything, "id-token").Return(&google.Payload{
		Email: "alice@example.com", EmailVerified: false,
	}, nil)

	svc := NewService(&mockMemberStore{}, &mockSigner{}, gv)
	_, _, err := svc.LoginWithGoogle(context.Background(), "id-token")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLoginWithGoogle_NoMatchingMember(t *testing.T) {
	gv := &mockGoogleVerifier{}
	gv.On("Verify", mock.Anything, "id-token").Return(&google.Payload{
		Email: "stranger@example.com", EmailVerified: true,
	}, nil)
	ms := &mockMemberStore{}
	ms.On("GetByEmail", mock.Anything, "stranger@example.com").Return(nil, domain.ErrNotFound)

	svc := NewService(ms, &mockSigner{}, gv)
	_, _, err := svc.LoginWithGoogle(context.Background(), "id-token")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLoginWithGoogle_HappyPath(t *testing.T) {
	gv := &mockGoogleVerifier{}
	gv.On("Verify", mock.Anything, "id-token").Return(&google.Payload{
		Email: "alice@example.com", EmailVerified: true,
	}, nil)
	ms := &mockMemberStore{}
	ms.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeMember(t, "unused"), nil)
	signer := &mockSigner{}
	signer.On("Sign", "m1", "t1", domain.UserTypeEmployee, domain.RoleMember).Return("token123", nil)

	svc := NewService(ms, signer, gv)
	token, m, err := svc.LoginWithGoogle(context.Background(), "id-token")

	require.NoError(t, err)
	assert.Equal(t, "token123", token)
	assert.Equal(t, "m1", m.MemberID)
}
