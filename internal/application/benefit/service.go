package benefit

import (
	"context"
	"fmt"

	"github.com/benefits-portal-api/internal/domain"
)

type Service interface {
	Upsert(ctx context.Context, partnerID, benefitID string, req domain.UpsertBenefitRequest) (*domain.Partner, error)
	// Delete removes a benefit field from its partner document. A missing
	// partner is an error; a missing benefit is a no-op signalled by a nil
	// result, so callers can tell "nothing to do" from "something broke".
	Delete(ctx context.Context, partnerID, benefitID, mode string) (*domain.ArchivedBenefit, error)
	ListDeleted(ctx context.Context, partnerID string) ([]domain.ArchivedBenefit, error)
}

type partnerStore interface {
	Get(ctx context.Context, partnerID string) (*domain.Partner, error)
	PutBenefit(ctx context.Context, partnerID, benefitID string, value domain.BenefitValue) error
	DeleteBenefitHard(ctx context.Context, partnerID, benefitID string) (*domain.ArchivedBenefit, error)
	DeleteBenefitSoft(ctx context.Context, partnerID, benefitID string) (*domain.ArchivedBenefit, error)
	ListDeletedBenefits(ctx context.Context, partnerID string) ([]domain.ArchivedBenefit, error)
}

type service struct {
	partnerRepo partnerStore
}

func NewService(partnerRepo partnerStore) Service {
	return &service{partnerRepo: partnerRepo}
}

func (s *service) Upsert(ctx context.Context, partnerID, benefitID string, req domain.UpsertBenefitRequest) (*domain.Partner, error) {
	value := domain.RecordValue(domain.Benefit{
		Type:      req.Type,
		Status:    req.Status,
		Audience:  req.Audience,
		ValueType: req.ValueType,
		Value:     req.Value,
	})
	if err := s.partnerRepo.PutBenefit(ctx, partnerID, benefitID, value); err != nil {
		return nil, err
	}
	return s.partnerRepo.Get(ctx, partnerID)
}

func (s *service) Delete(ctx context.Context, partnerID, benefitID, mode string) (*domain.ArchivedBenefit, error) {
	switch mode {
	case domain.DeleteModeHard:
		return s.partnerRepo.DeleteBenefitHard(ctx, partnerID, benefitID)
	case domain.DeleteModeSoft:
		return s.partnerRepo.DeleteBenefitSoft(ctx, partnerID, benefitID)
	default:
		return nil, fmt.Errorf("delete mode must be %q or %q: %w", domain.DeleteModeHard, domain.DeleteModeSoft, domain.ErrBadRequest)
	}
}

func (s *service) ListDeleted(ctx context.Context, partnerID string) ([]domain.ArchivedBenefit, error) {
	// Surface partner-not-found the same way the delete path does.
	if _, err := s.partnerRepo.Get(ctx, partnerID); err != nil {
		return nil, err
	}
	return s.partnerRepo.ListDeletedBenefits(ctx, partnerID)
}
