package valcode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benefits-portal-api/internal/domain"
	"github.com/benefits-portal-api/internal/pkg/id"
	"github.com/benefits-portal-api/internal/pkg/otp"
)

// maxGenerateAttempts bounds redraws when the composite code id collides with
// an existing document.
const maxGenerateAttempts = 3

type Service interface {
	Generate(ctx context.Context, tenantID, userID, userType, partnerID string) (*domain.ValidationCode, error)
	// Validate is the read-only eligibility check: the stored document must
	// exist, be unused and unexpired. It does not mutate anything.
	Validate(ctx context.Context, tenantID, userID, code string) (*domain.ValidationCode, error)
	Redeem(ctx context.Context, tenantID, userID, code string) (*domain.RedemptionRecord, error)
	History(ctx context.Context, tenantID, userID string) ([]domain.HistoryEntry, error)
}

type codeStore interface {
	PutNew(ctx context.Context, vc *domain.ValidationCode) error
	Get(ctx context.Context, codeID string) (*domain.ValidationCode, error)
	Redeem(ctx context.Context, codeID string, usedAt time.Time, record *domain.RedemptionRecord) error
}

type historyStore interface {
	ListByUser(ctx context.Context, tenantID, userID string) ([]domain.RedemptionRecord, error)
}

type partnerStore interface {
	Get(ctx context.Context, partnerID string) (*domain.Partner, error)
}

type memberStore interface {
	Get(ctx context.Context, memberID string) (*domain.Member, error)
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	codeRepo         codeStore
	historyRepo      historyStore
	partnerRepo      partnerStore
	memberRepo       memberStore
	notificationRepo notificationStore
	mailer           mailer
	smsSender        smsSender
	codeTTL          time.Duration
}

type ServiceDeps struct {
	CodeRepo         codeStore
	HistoryRepo      historyStore
	PartnerRepo      partnerStore
	MemberRepo       memberStore
	NotificationRepo notificationStore
	Mailer           mailer
	SMSSender        smsSender
	CodeTTL          time.Duration
}

func NewService(deps ServiceDeps) Service {
	if deps.CodeTTL <= 0 {
		deps.CodeTTL = 3 * time.Minute
	}
	return &service{
		codeRepo:         deps.CodeRepo,
		historyRepo:      deps.HistoryRepo,
		partnerRepo:      deps.PartnerRepo,
		memberRepo:       deps.MemberRepo,
		notificationRepo: deps.NotificationRepo,
		mailer:           deps.Mailer,
		smsSender:        deps.SMSSender,
		codeTTL:          deps.CodeTTL,
	}
}

func (s *service) Generate(ctx context.Context, tenantID, userID, userType, partnerID string) (*domain.ValidationCode, error) {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code, err := otp.New()
		if err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		vc := &domain.ValidationCode{
			CodeID:    domain.CodeID(tenantID, userID, code),
			Code:      code,
			UserID:    userID,
			UserType:  userType,
			PartnerID: partnerID,
			TenantID:  tenantID,
			Used:      false,
			ExpiresAt: now.Add(s.codeTTL).Unix(),
			CreatedAt: now,
		}
		err = s.codeRepo.PutNew(ctx, vc)
		if err == nil {
			s.deliver(ctx, vc)
			return vc, nil
		}
		// Same user drew the same digits while an earlier code is still live;
		// redraw.
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("could not allocate a unique code in %d attempts: %w", maxGenerateAttempts, domain.ErrConflict)
}

func (s *service) Validate(ctx context.Context, tenantID, userID, code string) (*domain.ValidationCode, error) {
	vc, err := s.codeRepo.Get(ctx, domain.CodeID(tenantID, userID, code))
	if err != nil {
		return nil, err
	}
	if vc.Used {
		return nil, fmt.Errorf("code already used: %w", domain.ErrConflict)
	}
	if time.Now().Unix() >= vc.ExpiresAt {
		return nil, fmt.Errorf("code expired: %w", domain.ErrExpired)
	}
	return vc, nil
}

func (s *service) Redeem(ctx context.Context, tenantID, userID, code string) (*domain.RedemptionRecord, error) {
	vc, err := s.Validate(ctx, tenantID, userID, code)
	if err != nil {
		return nil, err
	}
	usedAt := time.Now().UTC()
	record := &domain.RedemptionRecord{
		RecordID:  vc.CodeID,
		UserID:    vc.UserID,
		UserType:  vc.UserType,
		PartnerID: vc.PartnerID,
		Code:      domain.MaskedCode,
		UsedAt:    usedAt,
		TenantID:  vc.TenantID,
	}
	if err := s.codeRepo.Redeem(ctx, vc.CodeID, usedAt, record); err != nil {
		// The store guard lost a race between Validate and the commit;
		// re-read to report the precise terminal state.
		if errors.Is(err, domain.ErrConflict) {
			return nil, s.reclassify(ctx, vc.CodeID, err)
		}
		return nil, err
	}
	s.notify(ctx, vc)
	return record, nil
}

func (s *service) History(ctx context.Context, tenantID, userID string) ([]domain.HistoryEntry, error) {
	records, err := s.historyRepo.ListByUser(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.HistoryEntry, 0, len(records))
	for _, record := range records {
		entry := domain.HistoryEntry{RedemptionRecord: record}
		// Missing partner data yields an empty enrichment, never a failure.
		if p, err := s.partnerRepo.Get(ctx, record.PartnerID); err == nil {
			entry.PartnerName = p.Name
			entry.PartnerCategory = p.Category
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *service) reclassify(ctx context.Context, codeID string, cause error) error {
	vc, err := s.codeRepo.Get(ctx, codeID)
	if err != nil {
		return cause
	}
	if vc.Used {
		return fmt.Errorf("code already used: %w", domain.ErrConflict)
	}
	if time.Now().Unix() >= vc.ExpiresAt {
		return fmt.Errorf("code expired: %w", domain.ErrExpired)
	}
	return cause
}

// deliver sends the cleartext code to the member over email or SMS.
// Best-effort: the code is also returned to the caller, so delivery failures
// only get logged.
func (s *service) deliver(ctx context.Context, vc *domain.ValidationCode) {
	m, err := s.memberRepo.Get(ctx, vc.UserID)
	if err != nil {
		slog.Warn("could not load member for code delivery", "user_id", vc.UserID, "err", err)
		return
	}
	body := fmt.Sprintf("Your benefit validation code is %s. It expires in %d minutes.",
		vc.Code, int(s.codeTTL.Minutes()))
	if m.Email != "" && s.mailer != nil {
		if err := s.mailer.SendEmail(m.Email, "Your validation code", body); err != nil {
			slog.Warn("could not email validation code", "user_id", vc.UserID, "err", err)
		}
		return
	}
	if m.Phone != nil && s.smsSender != nil {
		if err := s.smsSender.SendSMS(ctx, *m.Phone, body); err != nil {
			slog.Warn("could not send validation code SMS", "user_id", vc.UserID, "err", err)
		}
	}
}

// notify writes an in-app notification about the redemption. Best-effort.
func (s *service) notify(ctx context.Context, vc *domain.ValidationCode) {
	if s.notificationRepo == nil {
		return
	}
	partnerName := vc.PartnerID
	if p, err := s.partnerRepo.Get(ctx, vc.PartnerID); err == nil {
		partnerName = p.Name
	}
	n := &domain.Notification{
		NotificationID: id.New(),
		MemberID:       vc.UserID,
		TenantID:       vc.TenantID,
		Title:          "Benefit code redeemed",
		Body:           fmt.Sprintf("Your validation code was redeemed at %s.", partnerName),
		Readed:         false,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.notificationRepo.Put(ctx, n); err != nil {
		slog.Warn("could not record redemption notification", "user_id", vc.UserID, "err", err)
	}
}
