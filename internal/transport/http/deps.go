package http

import (
	"context"
	"io"
	"time"

	"github.com/benefits-portal-api/internal/domain"
)

// PartnerRepository is the minimal interface the router requires from a partner store.
type PartnerRepository interface {
	Put(ctx context.Context, p *domain.Partner) error
	Get(ctx context.Context, partnerID string) (*domain.Partner, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Partner, error)
	Update(ctx context.Context, partnerID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, partnerID string) error
	PutBenefit(ctx context.Context, partnerID, benefitID string, value domain.BenefitValue) error
	DeleteBenefitHard(ctx context.Context, partnerID, benefitID string) (*domain.ArchivedBenefit, error)
	DeleteBenefitSoft(ctx context.Context, partnerID, benefitID string) (*domain.ArchivedBenefit, error)
	ListDeletedBenefits(ctx context.Context, partnerID string) ([]domain.ArchivedBenefit, error)
}

// MemberRepository is the minimal interface the router requires from a member store.
type MemberRepository interface {
	Put(ctx context.Context, m *domain.Member) error
	Get(ctx context.Context, memberID string) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Member, error)
	Update(ctx context.Context, memberID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, memberID string) error
}

// ValidationCodeRepository is the minimal interface the router requires from a
// validation code store.
type ValidationCodeRepository interface {
	PutNew(ctx context.Context, vc *domain.ValidationCode) error
	Get(ctx context.Context, codeID string) (*domain.ValidationCode, error)
	Redeem(ctx context.Context, codeID string, usedAt time.Time, record *domain.RedemptionRecord) error
}

// HistoryRepository is the minimal interface the router requires from a
// redemption history store.
type HistoryRepository interface {
	ListByUser(ctx context.Context, tenantID, userID string) ([]domain.RedemptionRecord, error)
}

// CategoryRepository is the minimal interface the router requires from a category store.
type CategoryRepository interface {
	Scan(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, categoryID string) (*domain.Category, error)
	Put(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, categoryID string, updates map[string]interface{}) error
	HardDelete(ctx context.Context, categoryID string) error
}

// NotificationRepository is the minimal interface the router requires from a notification store.
type NotificationRepository interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListUnread(ctx context.Context, memberID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) error
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
