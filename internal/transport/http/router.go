package http

import (
	"net/http"

	"github.com/benefits-portal-api/internal/application/auth"
	"github.com/benefits-portal-api/internal/application/benefit"
	"github.com/benefits-portal-api/internal/application/category"
	"github.com/benefits-portal-api/internal/application/member"
	"github.com/benefits-portal-api/internal/application/notification"
	"github.com/benefits-portal-api/internal/application/partner"
	"github.com/benefits-portal-api/internal/application/valcode"
	"github.com/benefits-portal-api/internal/config"
	"github.com/benefits-portal-api/internal/domain"
	"github.com/benefits-portal-api/internal/infrastructure/dynamo"
	"github.com/benefits-portal-api/internal/infrastructure/google"
	jwtinfra "github.com/benefits-portal-api/internal/infrastructure/jwt"
	s3infra "github.com/benefits-portal-api/internal/infrastructure/s3"
	"github.com/benefits-portal-api/internal/infrastructure/smtp"
	"github.com/benefits-portal-api/internal/infrastructure/sns"
	"github.com/benefits-portal-api/internal/transport/http/handler"
	appmiddleware "github.com/benefits-portal-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	PartnerRepo      *dynamo.PartnerRepo
	MemberRepo       *dynamo.MemberRepo
	CodeRepo         *dynamo.ValidationCodeRepo
	HistoryRepo      *dynamo.HistoryRepo
	CategoryRepo     *dynamo.CategoryRepo
	NotificationRepo *dynamo.NotificationRepo
	S3Store          *s3infra.Store
	Mailer           smtp.Mailer
	SMSSender        sns.SMSSender
	GoogleVerifier   *google.Verifier
	JWTProvider      *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10, applied to sensitive endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	partnerSvc := partner.NewService(deps.PartnerRepo, deps.S3Store)
	benefitSvc := benefit.NewService(deps.PartnerRepo)
	memberSvc := member.NewService(deps.MemberRepo)
	categorySvc := category.NewService(deps.CategoryRepo)
	notifSvc := notification.NewService(deps.NotificationRepo)
	var googleVerifier auth.GoogleVerifier
	if deps.GoogleVerifier != nil {
		googleVerifier = deps.GoogleVerifier
	}
	var signer auth.TokenSigner
	if deps.JWTProvider != nil {
		signer = deps.JWTProvider
	}
	authSvc := auth.NewService(deps.MemberRepo, signer, googleVerifier)
	valcodeSvc := valcode.NewService(valcode.ServiceDeps{
		CodeRepo:         deps.CodeRepo,
		HistoryRepo:      deps.HistoryRepo,
		PartnerRepo:      deps.PartnerRepo,
		MemberRepo:       deps.MemberRepo,
		NotificationRepo: deps.NotificationRepo,
		Mailer:           deps.Mailer,
		SMSSender:        deps.SMSSender,
		CodeTTL:          cfg.ValidationCodeTTL,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	partnerH := handler.NewPartnerHandler(partnerSvc)
	benefitH := handler.NewBenefitHandler(benefitSvc, partnerSvc)
	memberH := handler.NewMemberHandler(memberSvc)
	categoryH := handler.NewCategoryHandler(categorySvc)
	notifH := handler.NewNotificationHandler(notifSvc)
	valcodeH := handler.NewValidationCodeHandler(valcodeSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Get("/test", healthH.Test)
		r.Post("/test", healthH.Test)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.With(sensitiveRL.Limit).Post("/auth/google", authH.GoogleLogin)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/partners", partnerH.List)
			r.Get("/partners/{id}", partnerH.Get)
			r.Get("/partners/{id}/logo", partnerH.LogoURL)

			r.With(sensitiveRL.Limit).Post("/validation-codes", valcodeH.Generate)
			r.Get("/validation-codes/history", valcodeH.History)
			r.Get("/validation-codes/{code}", valcodeH.Validate)
			r.Post("/validation-codes/redeem", valcodeH.Redeem)

			r.Get("/notifications", notifH.ListUnread)
			r.Put("/notifications/{id}", notifH.MarkAsRead)

			r.Get("/members/{id}", memberH.Get)
			r.Put("/members/{id}", memberH.Update)

			r.Get("/categories", categoryH.List)
			r.Get("/categories/{id}", categoryH.Get)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/partners", partnerH.Create)
				r.Put("/partners/{id}", partnerH.Update)
				r.Delete("/partners/{id}", partnerH.Delete)
				r.Post("/partners/{id}/logo", partnerH.UploadLogo)

				r.Put("/partners/{id}/benefits/{benefitID}", benefitH.Upsert)
				r.Delete("/partners/{id}/benefits/{benefitID}", benefitH.Delete)
				r.Get("/partners/{id}/benefits/deleted", benefitH.ListDeleted)

				r.Post("/members", memberH.Register)
				r.Get("/members", memberH.List)
				r.Delete("/members/{id}", memberH.Delete)

				r.Post("/categories", categoryH.Create)
				r.Put("/categories/{id}", categoryH.Update)
				r.Delete("/categories/{id}", categoryH.Delete)
			})
		})
	})

	return r
}
