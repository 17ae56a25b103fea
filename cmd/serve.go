package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/health"

	grpcRouter "github.com/dtroode/blog-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/blog-server/internal/api/grpc/server"
	restcontext "github.com/dtroode/blog-server/internal/api/rest/context"
	"github.com/dtroode/blog-server/internal/api/rest/handler"
	"github.com/dtroode/blog-server/internal/api/rest/router"
	httpServer "github.com/dtroode/blog-server/internal/api/rest/server"
	"github.com/dtroode/blog-server/internal/blog"
	"github.com/dtroode/blog-server/internal/config"
	"github.com/dtroode/blog-server/internal/ledger"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/mail"
	"github.com/dtroode/blog-server/internal/model"
	"github.com/dtroode/blog-server/internal/password"
	"github.com/dtroode/blog-server/internal/repository/postgres"
	"github.com/dtroode/blog-server/internal/server"
	"github.com/dtroode/blog-server/internal/service"
	storage "github.com/dtroode/blog-server/internal/storage/minio"
	"github.com/dtroode/blog-server/internal/token"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the gRPC health server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	lg := logger.New(cfg.LogLevel, cfg.LogFormat)
	lg.Info("starting blog server",
		"version", buildVersion,
		"build_date", buildDate,
		"commit", buildCommit)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		return fmt.Errorf("failed to initialize storage client: %w", err)
	}

	checks := map[string]model.Pinger{
		"postgres": db,
		"storage":  storageClient,
	}

	resetLedger, closeLedger, err := newResetLedger(ctx, cfg, checks)
	if err != nil {
		return err
	}
	defer closeLedger()

	mailer, closeMailer, err := newMailSender(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeMailer()

	catalog, err := blog.Load()
	if err != nil {
		return err
	}

	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.Reset.Secret, cfg.JWT.SessionTTL, cfg.Reset.TTL)
	hasher := password.NewBcrypt(cfg.HashCost)

	authService := service.NewAuth(userRepo, hasher, tokenManager, resetLedger, mailer, service.AuthPolicy{
		ClientURL:          cfg.ClientURL,
		RevealUnknownEmail: cfg.Auth.RevealUnknownEmail,
	}, lg)
	profileService := service.NewProfile(userRepo, profileRepo, storageClient, lg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	httpHandler := router.New(
		authService,
		profileService,
		catalog,
		tokenManager,
		restcontext.NewManager(),
		checks,
		registry,
		router.Options{
			Cookie: handler.CookieOptions{
				Secure:   cfg.Cookie.Secure,
				SameSite: cfg.SameSite(),
				MaxAge:   tokenManager.SessionTTL(),
			},
			MaxUploadBytes:    cfg.HTTP.MaxUploadBytes,
			RequestTimeout:    cfg.HTTP.RequestTimeout,
			AllowedOrigins:    cfg.CORS.AllowedOrigins,
			TrustProxyHeaders: cfg.HTTP.TrustProxyHeaders,
		},
		lg,
	).Register()

	healthServer := health.NewServer()
	grpcSrv := grpcServer.NewGRPCServer(
		grpcRouter.New(healthServer, lg).Register(),
		healthServer,
		fmt.Sprintf(":%s", cfg.GRPC.Port),
	)
	httpSrv := httpServer.NewHTTPServer(httpHandler, fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	servers := []model.Server{httpSrv, grpcSrv}
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			lg.Info("starting server", "address", s.Address())
			if err := s.Start(sl); err != nil {
				lg.Error("server stopped with error", "address", s.Address(), "error", err)
				stop()
			}
		}(s)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		grpcSrv.Watch(ctx, checks, cfg.GRPC.ProbeInterval, lg)
	}()

	<-ctx.Done()
	lg.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			lg.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	lg.Info("shutdown complete")
	return nil
}

// newResetLedger uses Redis when REDIS_ADDR is set and process memory otherwise.
func newResetLedger(ctx context.Context, cfg *config.Config, checks map[string]model.Pinger) (model.ResetLedger, func(), error) {
	if cfg.Redis.Addr == "" {
		return ledger.NewMemory(), func() {}, nil
	}

	client, err := ledger.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize reset ledger: %w", err)
	}
	redisLedger := ledger.NewRedis(client)
	checks["redis"] = redisLedger

	return redisLedger, func() { _ = client.Close() }, nil
}

// newMailSender sends directly over SMTP or hands mails to the RabbitMQ queue
// drained by the mailer command.
func newMailSender(ctx context.Context, cfg *config.Config) (model.MailSender, func(), error) {
	if cfg.Mail.Transport == config.MailTransportSMTP {
		sender := mail.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
		return sender, func() {}, nil
	}

	conn, ch, err := mail.Dial(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, nil, err
	}
	publisher, err := mail.NewQueuePublisher(ch, cfg.RabbitMQ.Queue)
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to create mail publisher: %w", err)
	}

	return publisher, closeQuietly(conn), nil
}

func closeQuietly(c io.Closer) func() {
	return func() { _ = c.Close() }
}
