package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"colloquium/backstage/internal/config"
	"colloquium/backstage/internal/db"
	"colloquium/backstage/internal/importer"
	"colloquium/backstage/internal/logging"
	"colloquium/backstage/internal/metrics"
	"colloquium/backstage/internal/notify"
	"colloquium/backstage/internal/reminders"
	"colloquium/backstage/internal/repository"
	"colloquium/backstage/internal/routes"
	"colloquium/backstage/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("backstage starting up", "environment", cfg.AppEnv)

	gormDB, err := db.InitPostgresORM(cfg.PostgresDSN())
	if err != nil {
		logging.Fatal("failed to connect to postgres (gorm)", "error", err.Error())
	}
	logging.Info("connected to postgres (gorm)")

	sqlxDB, err := db.InitPostgres(cfg.PostgresDSN())
	if err != nil {
		logging.Fatal("failed to connect to postgres (sqlx)", "error", err.Error())
	}
	logging.Info("connected to postgres (sqlx)")

	users := repository.NewUserRepository(gormDB)
	events := repository.NewEventRepository(gormDB)
	roles := repository.NewRoleRepository(gormDB)
	rsvps := repository.NewRSVPRepository(gormDB)
	tokens := repository.NewTokenRepository(gormDB)

	reg := metrics.NewRegistry()

	var dispatcher notify.Dispatcher
	if cfg.TelegramToken != "" {
		dispatcher = notify.NewTelegramDispatcher(cfg.TelegramToken)
	} else {
		logging.Warn("no bot token configured, notifications run dry")
		dispatcher = &notify.LogDispatcher{Log: logging.Info}
	}

	var (
		states      notify.StateStore
		redisClient *redis.Client
	)
	if addr := cfg.RedisAddr(); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.RedisPassword,
		})
		states = notify.NewRedisStateStore(redisClient, cfg.StateTTL)
		logging.Info("conversation state stored in redis", "addr", addr)
	} else {
		states = notify.NewMemoryStateStore(cfg.StateTTL)
		logging.Info("conversation state stored in memory")
	}

	env := &reminders.Env{
		Users:      users,
		RSVPs:      rsvps,
		Dispatcher: dispatcher,
		States:     states,
		Metrics:    reg,
	}
	scheduler := reminders.NewScheduler(env)
	defer scheduler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := reminders.ScheduleExisting(ctx, scheduler, events); err != nil {
		logging.Error("failed to reschedule stored reminders", "error", err.Error())
	} else {
		logging.Info("stored reminders rescheduled", "pending", scheduler.Pending())
	}

	var verification *services.VerificationService
	if redisClient != nil && cfg.VerificationSecret != "" {
		verification = services.NewVerificationService(
			[]byte(cfg.VerificationSecret),
			redisClient,
			&services.LogMailer{Log: logging.Info},
			users,
			cfg.VerificationBaseURL,
			cfg.VerificationTTL,
		)
	} else {
		logging.Warn("email verification disabled, redis or secret missing")
	}

	deps := &routes.Deps{
		SQLX:         sqlxDB,
		Metrics:      reg,
		Verification: verification,
		Stats:        services.NewStatsService(sqlxDB),
		Tokens:       services.NewTokenService(tokens, users),
		Importer:     importer.NewImporter(users, events, roles, rsvps),
	}

	upSince := time.Now()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", routes.RegisterRoutes(deps, upSince))

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info("server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Fatal("server terminated", "error", err.Error())
	}
	logging.Info("backstage stopped")
}
