package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/01moynul/glowbeauty-golang/internal/ai"
	"github.com/01moynul/glowbeauty-golang/internal/auth"
	"github.com/01moynul/glowbeauty-golang/internal/config"
	"github.com/01moynul/glowbeauty-golang/internal/database"
	"github.com/01moynul/glowbeauty-golang/internal/email"
	"github.com/01moynul/glowbeauty-golang/internal/events"
	"github.com/01moynul/glowbeauty-golang/internal/handlers"
	"github.com/01moynul/glowbeauty-golang/internal/invoice"
	"github.com/01moynul/glowbeauty-golang/internal/logger"
	"github.com/01moynul/glowbeauty-golang/internal/otp"
	"github.com/01moynul/glowbeauty-golang/internal/payments"
	"github.com/01moynul/glowbeauty-golang/internal/realtime"
	"github.com/01moynul/glowbeauty-golang/internal/routes"
	"github.com/01moynul/glowbeauty-golang/internal/store"
	"github.com/01moynul/glowbeauty-golang/internal/telemetry"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
}

// openStore loads the config, connects and optionally migrates.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger, migrate bool) (*store.Store, error) {
	pool := database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	}
	db, dialect, err := database.OpenDB(ctx, cfg.DatabaseURL, pool)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if migrate {
		if err := database.NewMigrator(cfg.DatabaseURL, dialect, db, log).Up(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	log.Info("database connected", "dialect", dialect)
	return store.New(db, dialect), nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 0. --- Configuration & Logging ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// 1. --- Database ---
	st, err := openStore(ctx, cfg, log, cfg.AutoMigrate)
	if err != nil {
		return err
	}
	defer st.DB.Close()

	// 2. --- Tracing ---
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.OTLPEndpoint, version, gin.Mode())
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			log.Warn("tracer shutdown failed", "error", err)
		}
	}()

	// 3. --- Email & OTP ---
	var transport email.Transport = email.LogTransport{Logger: log}
	if cfg.SMTPEnabled() {
		transport = email.NewSMTPTransport(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	} else {
		log.Warn("SMTP not configured, emails are logged only")
	}
	mailer := email.NewMailer(transport, int(cfg.OTPTTL/time.Minute))

	codes := otp.New(otp.Options{TTL: cfg.OTPTTL, Static: cfg.StaticOTP}, mailer, otp.LogSMS{Logger: log}, log)
	go codes.Run(ctx, time.Minute)

	// 4. --- Live Feed & Events ---
	var allowOrigin func(string) bool
	if len(cfg.CORSOrigins) > 0 && !slices.Contains(cfg.CORSOrigins, "*") {
		allowOrigin = func(origin string) bool { return slices.Contains(cfg.CORSOrigins, origin) }
	}
	hub := realtime.NewHub(allowOrigin, log)
	notifier := &events.Notifier{Orders: st, Mailer: mailer, Feed: hub, Logger: log}

	publisher, err := newPublisher(ctx, cfg, notifier, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	// 5. --- Handlers & Optional Integrations ---
	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}
	app := &handlers.Handlers{
		Store:   st,
		Tokens:  tokens,
		OTP:     codes,
		Events:  publisher,
		Feed:    hub,
		Invoice: invoice.DefaultStore,
		Config:  cfg,
		Logger:  log,
	}
	if cfg.PayPalEnabled() {
		gateway, err := payments.NewPayPalGateway(cfg.PayPalClientID, cfg.PayPalSecret, cfg.PayPalMode)
		if err != nil {
			return fmt.Errorf("paypal: %w", err)
		}
		app.Payments = gateway
	} else {
		log.Warn("PayPal not configured, online payments disabled")
	}

	assistant, err := ai.NewService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, st)
	switch {
	case errors.Is(err, ai.ErrDisabled):
		log.Warn("Gemini API key not set, AI assistant disabled")
	case err != nil:
		return err
	default:
		defer assistant.Close()
		app.Assistant = assistant
	}

	// 6. --- HTTP Server ---
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRouter(app, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting Glow Beauty API", "addr", srv.Addr, "version", version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
	}
	return nil
}

// newPublisher routes events through RabbitMQ when configured, otherwise
// to the notifier through an in-process queue.
func newPublisher(ctx context.Context, cfg config.Config, notifier *events.Notifier, log *slog.Logger) (events.Publisher, error) {
	if cfg.RabbitURL == "" {
		return events.NewLocalPublisher(notifier, log), nil
	}

	pub, err := events.NewAMQPPublisher(cfg.RabbitURL, cfg.RabbitExchange)
	if err != nil {
		return nil, err
	}
	consumer := events.NewConsumer(events.ConsumerConfig{URL: cfg.RabbitURL, Exchange: cfg.RabbitExchange}, notifier, log)
	if err := consumer.Connect(); err != nil {
		pub.Close()
		return nil, err
	}
	go func() {
		defer consumer.Close()
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("event consumer stopped", "error", err)
		}
	}()
	log.Info("events routed through RabbitMQ", "exchange", cfg.RabbitExchange)
	return pub, nil
}
