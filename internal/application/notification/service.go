package notification

import (
	"context"
	"fmt"

	"github.com/benefits-portal-api/internal/domain"
)

type Service interface {
	ListUnread(ctx context.Context, memberID string) ([]domain.Notification, error)
	// MarkAsRead flips the readed flag. The notification must belong to the
	// calling member.
	MarkAsRead(ctx context.Context, memberID, notificationID string) error
}

type notificationStore interface {
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListUnread(ctx context.Context, memberID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) error
}

type service struct {
	notificationRepo notificationStore
}

func NewService(notificationRepo notificationStore) Service {
	return &service{notificationRepo: notificationRepo}
}

func (s *service) ListUnread(ctx context.Context, memberID string) ([]domain.Notification, error) {
	return s.notificationRepo.ListUnread(ctx, memberID)
}

func (s *service) MarkAsRead(ctx context.Context, memberID, notificationID string) error {
	n, err := s.notificationRepo.Get(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.MemberID != memberID {
		return fmt.Errorf("notification %s belongs to another member: %w", notificationID, domain.ErrForbidden)
	}
	return s.notificationRepo.MarkAsRead(ctx, notificationID)
}
