package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benefits-portal-api/internal/config"
	"github.com/benefits-portal-api/internal/infrastructure/dynamo"
	"github.com/benefits-portal-api/internal/infrastructure/google"
	jwtinfra "github.com/benefits-portal-api/internal/infrastructure/jwt"
	s3infra "github.com/benefits-portal-api/internal/infrastructure/s3"
	"github.com/benefits-portal-api/internal/infrastructure/smtp"
	"github.com/benefits-portal-api/internal/infrastructure/sns"
	transporthttp "github.com/benefits-portal-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider is optional so local runs without keys still boot.
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for partner logo assets.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer for code delivery.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender is optional.
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	// Google sign-in stays disabled without a client id.
	var googleVerifier *google.Verifier
	if cfg.GoogleClientID != "" {
		googleVerifier = google.NewVerifier(cfg.GoogleClientID)
	} else {
		log.Println("WARN: Google sign-in disabled, GOOGLE_CLIENT_ID not set")
	}

	deps := &transporthttp.Deps{
		PartnerRepo:      dynamo.NewPartnerRepo(dynamoClient, cfg.DynamoTables.Partners, cfg.DynamoTables.DeletedBenefits),
		MemberRepo:       dynamo.NewMemberRepo(dynamoClient, cfg.DynamoTables.Members),
		CodeRepo:         dynamo.NewValidationCodeRepo(dynamoClient, cfg.DynamoTables.ValidationCodes, cfg.DynamoTables.RedemptionHistory),
		HistoryRepo:      dynamo.NewHistoryRepo(dynamoClient, cfg.DynamoTables.RedemptionHistory),
		CategoryRepo:     dynamo.NewCategoryRepo(dynamoClient, cfg.DynamoTables.Categories),
		NotificationRepo: dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
		S3Store:          s3Store,
		Mailer:           mailer,
		SMSSender:        smsSender,
		GoogleVerifier:   googleVerifier,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
