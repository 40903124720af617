package partner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/benefits-portal-api/internal/domain"
	"github.com/benefits-portal-api/internal/pkg/id"
	s3infra "github.com/benefits-portal-api/internal/infrastructure/s3"
)

const logoURLTTL = 15 * time.Minute

type Service interface {
	Create(ctx context.Context, req domain.CreatePartnerRequest) (*domain.Partner, error)
	Get(ctx context.Context, partnerID string) (*domain.Partner, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Partner, error)
	Update(ctx context.Context, partnerID string, req domain.UpdatePartnerRequest) (*domain.Partner, error)
	// Delete deactivates the partner. Archived benefits and history records
	// referencing it stay readable.
	Delete(ctx context.Context, partnerID string) error
	UploadLogo(ctx context.Context, partnerID, filename string, r io.Reader) (*domain.Partner, error)
	LogoURL(ctx context.Context, partnerID string) (string, error)
}

type partnerStore interface {
	Put(ctx context.Context, p *domain.Partner) error
	Get(ctx context.Context, partnerID string) (*domain.Partner, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Partner, error)
	Update(ctx context.Context, partnerID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, partnerID string) error
}

type assetStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type service struct {
	partnerRepo partnerStore
	assets      assetStore
}

func NewService(partnerRepo partnerStore, assets assetStore) Service {
	return &service{partnerRepo: partnerRepo, assets: assets}
}

func (s *service) Create(ctx context.Context, req domain.CreatePartnerRequest) (*domain.Partner, error) {
	now := time.Now().UTC()
	p := &domain.Partner{
		PartnerID:    id.New(),
		TenantID:     req.TenantID,
		Name:         req.Name,
		Category:     req.Category,
		Active:       true,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		WebsiteURL:   req.WebsiteURL,
		// Initialized up front so benefit writes can address map fields
		// without an existence probe on the attribute.
		Benefits:  map[string]domain.BenefitValue{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.partnerRepo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, partnerID string) (*domain.Partner, error) {
	return s.partnerRepo.Get(ctx, partnerID)
}

func (s *service) ListByTenant(ctx context.Context, tenantID string) ([]domain.Partner, error) {
	return s.partnerRepo.ListByTenant(ctx, tenantID)
}

func (s *service) Update(ctx context.Context, partnerID string, req domain.UpdatePartnerRequest) (*domain.Partner, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.ContactEmail != nil {
		updates["contact_email"] = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		updates["contact_phone"] = *req.ContactPhone
	}
	if req.WebsiteURL != nil {
		updates["website_url"] = *req.WebsiteURL
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.partnerRepo.Update(ctx, partnerID, updates); err != nil {
		return nil, err
	}
	return s.partnerRepo.Get(ctx, partnerID)
}

func (s *service) Delete(ctx context.Context, partnerID string) error {
	return s.partnerRepo.SoftDelete(ctx, partnerID)
}

func (s *service) UploadLogo(ctx context.Context, partnerID, filename string, r io.Reader) (*domain.Partner, error) {
	if _, err := s.partnerRepo.Get(ctx, partnerID); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("partners/%s/logo/%s", partnerID, filename)
	if _, err := s.assets.Upload(ctx, key, r, s3infra.DetectContentType(filename)); err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Update(ctx, partnerID, map[string]interface{}{"logo_key": key}); err != nil {
		return nil, err
	}
	return s.partnerRepo.Get(ctx, partnerID)
}

func (s *service) LogoURL(ctx context.Context, partnerID string) (string, error) {
	p, err := s.partnerRepo.Get(ctx, partnerID)
	if err != nil {
		return "", err
	}
	if p.LogoKey == nil || *p.LogoKey == "" {
		return "", fmt.Errorf("partner %s has no logo: %w", partnerID, domain.ErrNotFound)
	}
	return s.assets.PresignedURL(ctx, *p.LogoKey, logoURLTTL)
}
