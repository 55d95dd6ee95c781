package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kpitrack/internal/domain/audit"
	"kpitrack/internal/domain/auth"
	"kpitrack/internal/domain/kpi"
	"kpitrack/internal/domain/member"
	"kpitrack/internal/domain/notifications"
	"kpitrack/internal/domain/template"
	"kpitrack/internal/platform/config"
	"kpitrack/internal/platform/db"
	"kpitrack/internal/platform/metrics"
	audithandler "kpitrack/internal/transport/http/handlers/audit"
	authhandler "kpitrack/internal/transport/http/handlers/auth"
	entrieshandler "kpitrack/internal/transport/http/handlers/entries"
	membershandler "kpitrack/internal/transport/http/handlers/members"
	notificationshandler "kpitrack/internal/transport/http/handlers/notifications"
	reportshandler "kpitrack/internal/transport/http/handlers/reports"
	templateshandler "kpitrack/internal/transport/http/handlers/templates"
	"kpitrack/internal/transport/http/middleware"
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

	collector := metrics.New()

	authStore := auth.NewStore(pool)
	auditSvc := audit.New(pool)
	notifySvc := notifications.New(pool)
	memberSvc := member.NewService(member.NewStore(pool))
	templateSvc := template.NewService(template.NewStore(pool))
	kpiSvc := kpi.NewService(kpi.NewStore(pool), memberSvc, templateSvc)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

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

	if cfg.MetricsEnabled {
		router.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authStore, auditSvc, cfg.JWTSecret, cfg.TokenTTL)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Get("/auth/me", authHandler.HandleMe)

		membershandler.NewHandler(memberSvc, authStore).RegisterRoutes(r)
		templateshandler.NewHandler(templateSvc, authStore, auditSvc).RegisterRoutes(r)
		entrieshandler.NewHandler(kpiSvc, authStore, notifySvc, auditSvc, collector).RegisterRoutes(r)
		reportshandler.NewHandler(kpiSvc, authStore, notifySvc, auditSvc, collector).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, authStore).RegisterRoutes(r)
		notificationshandler.NewHandler(notifySvc).RegisterRoutes(r)
	})

	log.Printf("KPI tracking server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
