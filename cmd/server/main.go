package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "backoffice/internal/adapters/email"
	web "backoffice/internal/adapters/http"
	"backoffice/internal/adapters/http/perf"
	"backoffice/internal/adapters/storage"
	activityStore "backoffice/internal/adapters/storage/activity"
	ambassadorStore "backoffice/internal/adapters/storage/ambassador"
	blogStore "backoffice/internal/adapters/storage/blog"
	menuStore "backoffice/internal/adapters/storage/menu"
	newsletterStore "backoffice/internal/adapters/storage/newsletter"
	notificationStore "backoffice/internal/adapters/storage/notification"
	orderStore "backoffice/internal/adapters/storage/orders"
	outboxStore "backoffice/internal/adapters/storage/outbox"
	userStore "backoffice/internal/adapters/storage/users"
	"backoffice/internal/adapters/uploads"
	"backoffice/internal/application/orchestrators"
	"backoffice/internal/config"
	"backoffice/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// WAL mode, foreign keys and a busy timeout on every connection
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialise database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQuery)

	stores := &web.Stores{
		UserStore:         userStore.NewSQLiteStore(timedDB),
		MenuStore:         menuStore.NewSQLiteStore(timedDB),
		BlogStore:         blogStore.NewSQLiteStore(timedDB),
		AmbassadorStore:   ambassadorStore.NewSQLiteStore(timedDB),
		NewsletterStore:   newsletterStore.NewSQLiteStore(timedDB),
		ActivityStore:     activityStore.NewSQLiteStore(timedDB),
		OrderStore:        orderStore.NewSQLiteStore(timedDB),
		NotificationStore: notificationStore.NewSQLiteStore(timedDB),
		OutboxStore:       outboxStore.NewSQLiteStore(timedDB),
	}

	ctx := context.Background()
	if err := orchestrators.ExecuteSeedAdmin(ctx, orchestrators.SeedAdminDeps{UserStore: stores.UserStore, Now: time.Now}, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if err := orchestrators.ExecuteSeedCategories(ctx, orchestrators.SeedCategoriesDeps{MenuStore: stores.MenuStore}); err != nil {
		log.Fatalf("failed to seed categories: %v", err)
	}

	sender := newEmailSender(cfg)
	web.SetEmailSender(sender, cfg.MailFrom, cfg.ReplyTo)

	// Newsletter campaigns are sent by the outbox worker
	processor := orchestrators.NewOutboxProcessor(stores.OutboxStore, map[string]orchestrators.ActionExecutor{
		outbox.ActionNewsletterCampaign: &orchestrators.CampaignExecutor{
			Store:       stores.NewsletterStore,
			Sender:      sender,
			FromAddress: cfg.MailFrom,
			ReplyTo:     cfg.ReplyTo,
			Activity:    orchestrators.ActivityDeps{Store: stores.ActivityStore, Now: time.Now},
			Now:         time.Now,
		},
	})
	processor.Observe(collector)
	outboxStopCh := make(chan struct{})
	orchestrators.StartBackgroundWorker(processor, cfg.OutboxInterval, outboxStopCh)

	handler := web.NewMux(stores, collector, web.Options{
		StaticDir:   cfg.StaticDir,
		UploadDir:   cfg.UploadDir,
		CSRFKey:     cfg.CSRFKey,
		SessionKey:  cfg.SessionKey,
		Secure:      cfg.IsProduction(),
		SlowRequest: cfg.SlowRequest,
		Currency:    cfg.Currency,
		Images:      uploads.NewImageStore(cfg.UploadDir, "/uploads/menu"),
		Assets:      uploads.NewAssetDir(cfg.AssetDir),
		Processor:   processor,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("startup_event", "event", "listening", "version", version, "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-sigCtx.Done()
	slog.Info("shutdown_event", "event", "signal_received")
	close(outboxStopCh)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown_event", "event", "forced", "error", err.Error())
	}
}

// newEmailSender picks Resend when a key is configured and the log-only sender
// in development. Production without a key gets no sender, so invoice sends
// answer 503 and campaigns are cancelled.
func newEmailSender(cfg config.Config) emailPkg.Sender {
	switch {
	case cfg.ResendKey != "":
		slog.Info("startup_event", "event", "email_configured", "provider", "resend")
		return emailPkg.NewResendSender(cfg.ResendKey, cfg.MailFrom)
	case cfg.IsProduction():
		slog.Warn("startup_event", "event", "email_disabled", "reason", "BACKOFFICE_RESEND_KEY is not set")
		return nil
	default:
		slog.Info("startup_event", "event", "email_configured", "provider", "noop")
		return emailPkg.NewNoopSender()
	}
}
