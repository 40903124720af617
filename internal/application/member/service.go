package member

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benefits-portal-api/internal/domain"
	"github.com/benefits-portal-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, req domain.CreateMemberRequest) (*domain.Member, error)
	Get(ctx context.Context, memberID string) (*domain.Member, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Member, error)
	Update(ctx context.Context, memberID string, req domain.UpdateMemberRequest) (*domain.Member, error)
	Delete(ctx context.Context, memberID string) error
}

type memberStore interface {
	Put(ctx context.Context, m *domain.Member) error
	Get(ctx context.Context, memberID string) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Member, error)
	Update(ctx context.Context, memberID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, memberID string) error
}

type service struct {
	memberRepo memberStore
}

func NewService(memberRepo memberStore) Service {
	return &service{memberRepo: memberRepo}
}

func (s *service) Register(ctx context.Context, req domain.CreateMemberRequest) (*domain.Member, error) {
	_, err := s.memberRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, fmt.Errorf("email %s already registered: %w", req.Email, domain.ErrConflict)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	m := &domain.Member{
		MemberID:     id.New(),
		TenantID:     req.TenantID,
		UserType:     req.UserType,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         domain.RoleMember,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.memberRepo.Put(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) Get(ctx context.Context, memberID string) (*domain.Member, error) {
	return s.memberRepo.Get(ctx, memberID)
}

func (s *service) ListByTenant(ctx context.Context, tenantID string) ([]domain.Member, error) {
	return s.memberRepo.ListByTenant(ctx, tenantID)
}

func (s *service) Update(ctx context.Context, memberID string, req domain.UpdateMemberRequest) (*domain.Member, error) {
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.memberRepo.Update(ctx, memberID, updates); err != nil {
		return nil, err
	}
	return s.memberRepo.Get(ctx, memberID)
}

func (s *service) Delete(ctx context.Context, memberID string) error {
	return s.memberRepo.SoftDelete(ctx, memberID)
}
