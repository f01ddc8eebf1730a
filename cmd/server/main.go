// Command server runs the document gateway: the admin API for document
// lifecycle transitions, expiry classification, statistics, and reminder
// dispatch.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"docgate/internal/audit"
	"docgate/internal/collaborators"
	docstore "docgate/internal/document/store"
	"docgate/internal/events"
	"docgate/internal/expiry"
	"docgate/internal/jwttoken"
	"docgate/internal/lifecycle"
	lcmetrics "docgate/internal/lifecycle/metrics"
	"docgate/internal/platform/config"
	"docgate/internal/platform/httpserver"
	"docgate/internal/platform/kafka"
	"docgate/internal/platform/logger"
	httpmetrics "docgate/internal/platform/metrics"
	platformredis "docgate/internal/platform/redis"
	"docgate/internal/reminder"
	rmetrics "docgate/internal/reminder/metrics"
	"docgate/internal/reminder/ports"
	remstore "docgate/internal/reminder/store"
	httptransport "docgate/internal/transport/http"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	log := logger.New()

	// Stores: postgres when a DSN is configured, in-memory otherwise.
	var (
		documents  docstore.Store
		auditStore audit.Store
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(context.Background()); err != nil {
			log.Error("ping postgres", "error", err)
			os.Exit(1)
		}
		documents = docstore.NewPostgres(db)
		auditStore = audit.NewPostgresStore(db)
	} else {
		log.Warn("no postgres DSN configured, using in-memory stores")
		documents = docstore.NewInMemoryStore()
		auditStore = audit.NewInMemoryStore()
	}

	// Reminder log: redis shares the cooldown across instances.
	var reminderLog reminder.Log
	if cfg.RedisAddr != "" {
		redisClient, err := platformredis.New(cfg.RedisAddr)
		if err != nil {
			log.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		reminderLog = remstore.NewRedisLog(redisClient.Client, cfg.Reminder.Cooldown)
	} else {
		reminderLog = remstore.NewInMemoryLog()
	}

	// Event pipeline: bus -> worker -> audit recorder (+ kafka when configured).
	bus := events.NewBus(0, log)
	recorder := audit.NewRecorder(auditStore)
	sinks := []events.Sink{recorder}
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.New(cfg.KafkaBrokers, cfg.KafkaTopic, kafka.WithLogger(log))
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}
	worker := events.NewWorker(bus.Events(), log, sinks...)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go func() {
		if err := worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("event worker stopped", "error", err)
		}
	}()

	classifier := expiry.NewClassifier(expiry.Thresholds{
		CriticalDays: cfg.Classifier.CriticalDays,
		WarningDays:  cfg.Classifier.WarningDays,
	})

	lifecycleSvc := lifecycle.NewService(documents,
		lifecycle.WithEmitter(lifecycle.EmitterFunc(func(e lifecycle.StatusChanged) { bus.Emit(e) })),
		lifecycle.WithMetrics(lcmetrics.New()),
		lifecycle.WithLogger(log),
	)

	reminderSvc := reminder.NewService(
		documents,
		reminderLog,
		walletClient(cfg),
		contactClient(cfg),
		notifier(cfg, log),
		classifier,
		reminder.WithConfig(reminder.Config{
			Cooldown:    cfg.Reminder.Cooldown,
			MaxInFlight: cfg.Reminder.MaxInFlight,
			SendTimeout: cfg.Reminder.SendTimeout,
		}),
		reminder.WithEmitter(reminder.EmitterFunc(func(e reminder.Sent) { bus.Emit(e) })),
		reminder.WithMetrics(rmetrics.New()),
		reminder.WithLogger(log),
	)

	handler := httptransport.NewHandler(lifecycleSvc, reminderSvc, classifier,
		httptransport.WithAuditTrail(recorder),
		httptransport.WithMetrics(httpmetrics.New()),
		httptransport.WithLogger(log),
	)
	jwtService := jwttoken.NewService(cfg.JWTSigningKey, "docgate")
	router := httptransport.NewRouter(handler, jwtService)

	srv := httpserver.New(cfg.Addr, router)
	go func() {
		log.Info("starting docgate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	stopWorker()
}

func walletClient(cfg config.Server) ports.WalletStatusProvider {
	if cfg.WalletServiceURL != "" {
		return collaborators.NewHTTPWallet(cfg.WalletServiceURL)
	}
	return collaborators.NewMockWallet()
}

func contactClient(cfg config.Server) ports.ContactResolver {
	if cfg.ProfileServiceURL != "" {
		return collaborators.NewHTTPContacts(cfg.ProfileServiceURL)
	}
	return collaborators.NewMockContacts()
}

func notifier(cfg config.Server, log *slog.Logger) ports.NotificationTransport {
	if cfg.NotifyServiceURL != "" {
		return collaborators.NewHTTPNotifier(cfg.NotifyServiceURL)
	}
	return &collaborators.LogNotifier{Logger: log}
}
