package category

import (
	"context"
	"fmt"

	"github.com/benefits-portal-api/internal/domain"
	"github.com/benefits-portal-api/internal/pkg/id"
)

type Service interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, categoryID string) (*domain.Category, error)
	Create(ctx context.Context, input domain.CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, categoryID string, input domain.CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, categoryID string) error
}

type categoryStore interface {
	Scan(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, categoryID string) (*domain.Category, error)
	Put(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, categoryID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, categoryID string) error
}

type service struct {
	categoryRepo categoryStore
}

func NewService(categoryRepo categoryStore) Service {
	return &service{categoryRepo: categoryRepo}
}

func (s *service) List(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.Scan(ctx)
}

func (s *service) Get(ctx context.Context, categoryID string) (*domain.Category, error) {
	return s.categoryRepo.Get(ctx, categoryID)
}

func (s *service) Create(ctx context.Context, input domain.CategoryInput) (*domain.Category, error) {
	c := &domain.Category{
		CategoryID:  id.New(),
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.categoryRepo.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, categoryID string, input domain.CategoryInput) (*domain.Category, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("category name is required: %w", domain.ErrBadRequest)
	}
	if _, err := s.categoryRepo.Get(ctx, categoryID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"name":        input.Name,
		"description": input.Description,
	}
	if err := s.categoryRepo.Update(ctx, categoryID, updates); err != nil {
		return nil, err
	}
	return s.categoryRepo.Get(ctx, categoryID)
}

func (s *service) Delete(ctx context.Context, categoryID string) error {
	if _, err := s.categoryRepo.Get(ctx, categoryID); err != nil {
		return err
	}
	return s.categoryRepo.HardDelete(ctx, categoryID)
}
