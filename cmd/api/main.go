package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/go-otp-auth/internal/application/auth"
	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-otp-auth/internal/infrastructure/jwt"
	"github.com/go-otp-auth/internal/infrastructure/metrics"
	"github.com/go-otp-auth/internal/infrastructure/postgres"
	redisinfra "github.com/go-otp-auth/internal/infrastructure/redis"
	"github.com/go-otp-auth/internal/infrastructure/smtp"
	"github.com/go-otp-auth/internal/pkg/otp"
	transporthttp "github.com/go-otp-auth/internal/transport/http"
	"github.com/go-otp-auth/internal/transport/http/handler"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.Load()); err != nil {
		log.Printf("fatal: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	checks := map[string]handler.Pinger{}
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}()

	var dynamoClient *dynamodb.Client
	needDynamo := cfg.CredentialBackend == config.BackendDynamo || cfg.EphemeralBackend == config.BackendDynamo
	if needDynamo {
		c, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return err
		}
		dynamoClient = c
		dynamo.Bootstrap(ctx, c, cfg.DynamoTables,
			cfg.CredentialBackend == config.BackendDynamo,
			cfg.EphemeralBackend == config.BackendDynamo)
	}

	var users auth.CredentialStore
	switch cfg.CredentialBackend {
	case config.BackendDynamo:
		users = dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
		checks["dynamodb"] = dynamo.NewTableCheck(dynamoClient, cfg.DynamoTables.Users)
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		closers = append(closers, db.Close)
		users = postgres.NewUserRepo(db)
		checks["postgres"] = handler.PingFunc(db.PingContext)
	default:
		return fmt.Errorf("unknown CREDENTIAL_BACKEND %q", cfg.CredentialBackend)
	}

	var ephemeral auth.EphemeralStore
	switch cfg.EphemeralBackend {
	case config.BackendRedis:
		rc, err := redisinfra.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		closers = append(closers, rc.Close)
		ephemeral = redisinfra.NewStore(rc.Client)
		checks["redis"] = rc
	case config.BackendDynamo:
		ephemeral = dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.Verifications)
		checks["dynamodb_verifications"] = dynamo.NewTableCheck(dynamoClient, cfg.DynamoTables.Verifications)
	default:
		return fmt.Errorf("unknown EPHEMERAL_BACKEND %q", cfg.EphemeralBackend)
	}

	codes, err := otp.NewGenerator(cfg.OTPLength, nil)
	if err != nil {
		return err
	}
	tokens, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		return err
	}
	m := metrics.New()

	svc := auth.NewService(auth.ServiceDeps{
		UserRepo:        users,
		EphemeralStore:  ephemeral,
		Notifier:        smtp.NewMailer(cfg),
		TokenIssuer:     tokens,
		CodeGenerator:   codes,
		Metrics:         m,
		OTPTTL:          cfg.OTPTTL,
		ResendCooldown:  cfg.ResendCooldown,
		SessionTokenTTL: cfg.SessionTokenTTL,
	})

	router, stopRouter := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		AuthService:   svc,
		TokenVerifier: tokens,
		Metrics:       m,
		HealthChecks:  checks,
	})
	defer stopRouter()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on :%s (env=%s, credentials=%s, ephemeral=%s)",
			cfg.AppPort, cfg.AppEnv, cfg.CredentialBackend, cfg.EphemeralBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Println("Server stopped")
	return nil
}
