package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/benefits-portal-api/internal/domain"
	"github.com/benefits-portal-api/internal/infrastructure/google"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	// Login verifies email+password credentials and returns a signed token
	// with the member it authenticated.
	Login(ctx context.Context, req domain.LoginRequest) (string, *domain.Member, error)
	// LoginWithGoogle exchanges a verified Google ID token for a session
	// token. The Google account email must belong to a registered member.
	LoginWithGoogle(ctx context.Context, idToken string) (string, *domain.Member, error)
}

type memberStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
}

// TokenSigner issues session tokens for authenticated members. Nil means no
// signing keys are configured and logins are unavailable.
type TokenSigner interface {
	Sign(memberID, tenantID, userType, role string) (string, error)
}

// GoogleVerifier validates Google ID tokens. Nil means Google sign-in is
// disabled.
type GoogleVerifier interface {
	Verify(ctx context.Context, token string) (*google.Payload, error)
}

type service struct {
	memberRepo memberStore
	signer     TokenSigner
	google     GoogleVerifier
}

func NewService(memberRepo memberStore, signer TokenSigner, google GoogleVerifier) Service {
	return &service{memberRepo: memberRepo, signer: signer, google: google}
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, *domain.Member, error) {
	m, err := s.memberRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Not-found collapses into the same rejection as a bad password so
		// the endpoint does not reveal which emails are registered.
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	return s.issue(m)
}

func (s *service) LoginWithGoogle(ctx context.Context, idToken string) (string, *domain.Member, error) {
	if s.google == nil {
		return "", nil, fmt.Errorf("google sign-in is not configured: %w", domain.ErrBadRequest)
	}
	payload, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return "", nil, err
	}
	if !payload.EmailVerified {
		return "", nil, fmt.Errorf("google account email not verified: %w", domain.ErrUnauthorized)
	}
	m, err := s.memberRepo.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("no member for google account: %w", domain.ErrUnauthorized)
		}
		return "", nil, err
	}
	return s.issue(m)
}

func (s *service) issue(m *domain.Member) (string, *domain.Member, error) {
	if !m.Active {
		return "", nil, fmt.Errorf("member is deactivated: %w", domain.ErrUnauthorized)
	}
	if s.signer == nil {
		return "", nil, fmt.Errorf("token signing is not configured: %w", domain.ErrTransient)
	}
	token, err := s.signer.Sign(m.MemberID, m.TenantID, m.UserType, m.Role)
	if err != nil {
		return "", nil, err
	}
	return token, m, nil
}
