package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"wfm/internal/domain/audit"
	"wfm/internal/domain/auth"
	"wfm/internal/domain/leave"
	"wfm/internal/domain/notifications"
	"wfm/internal/domain/org"
	"wfm/internal/domain/reports"
	"wfm/internal/domain/task"
	"wfm/internal/platform/config"
	"wfm/internal/platform/db"
	"wfm/internal/platform/email"
	"wfm/internal/platform/jobs"
	"wfm/internal/platform/metrics"
	"wfm/internal/requestctx"
	"wfm/internal/transport/http/api"
	audithandler "wfm/internal/transport/http/handlers/audit"
	authhandler "wfm/internal/transport/http/handlers/auth"
	leavehandler "wfm/internal/transport/http/handlers/leave"
	notificationhandler "wfm/internal/transport/http/handlers/notifications"
	orghandler "wfm/internal/transport/http/handlers/org"
	reporthandler "wfm/internal/transport/http/handlers/reports"
	taskhandler "wfm/internal/transport/http/handlers/task"
	"wfm/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	orgStore := org.NewStore(pool)
	taskStore := task.NewStore(pool)
	leaveStore := leave.NewStore(pool)
	authStore := auth.NewStore(pool)
	notificationStore := notifications.NewStore(pool)

	authService := auth.NewService(authStore)
	taskService := task.NewService(taskStore)
	leaveService := leave.NewService(leaveStore, orgStore, taskStore)
	notificationService := notifications.New(notificationStore, email.New(cfg), cfg.EmailFrom)
	auditService := audit.New(pool)
	reportService := reports.NewService(reports.NewStore(pool), leaveService, orgStore)

	jobRunner := jobs.New(pool, cfg, taskService)
	jobRunner.Start(ctx)

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Metrics(collector))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if collector != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), requestctx.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService, orgStore, cfg.JWTSecret).RegisterRoutes(r)
		orghandler.NewHandler(orgStore, authService).RegisterRoutes(r)
		leavehandler.NewHandler(leaveService, notificationService, auditService).RegisterRoutes(r)
		taskhandler.NewHandler(taskService, notificationService).RegisterRoutes(r)
		reporthandler.NewHandler(reportService).RegisterRoutes(r)
		notificationhandler.NewHandler(notificationService).RegisterRoutes(r)
		audithandler.NewHandler(auditService).RegisterRoutes(r)
	})

	log.Printf("workforce server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
