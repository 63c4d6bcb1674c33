package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NPierce1798/launchlens/internal/auth"
	"github.com/NPierce1798/launchlens/internal/competitors"
	"github.com/NPierce1798/launchlens/internal/config"
	"github.com/NPierce1798/launchlens/internal/enrich"
	"github.com/NPierce1798/launchlens/internal/llm"
	"github.com/NPierce1798/launchlens/internal/middleware"
	"github.com/NPierce1798/launchlens/internal/mvp"
	"github.com/NPierce1798/launchlens/internal/report"
	"github.com/NPierce1798/launchlens/internal/store"
)

func main() {
	godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	reportStore, err := store.NewReportStore(ctx, mongoClient.Database(cfg.MongoDB))
	if err != nil {
		log.Fatalf("mongo report store: %v", err)
	}

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()
	sessions := auth.NewSessionStore(rdb)

	// ── External collaborators ───────────────────────────────
	model := llm.NewAdapter(llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel), log)
	enricher := enrich.NewProxycurlClient(cfg.ProxycurlBaseURL, cfg.ProxycurlKey, log)
	newsClient := enrich.NewNewsClient(cfg.NewsFeedURL)

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(pgStore, sessions)
	competitorHandler := competitors.NewHandler(model, pgStore, log)
	reportBuilder := report.NewBuilder(enricher, newsClient, model, log)
	reportHandler := report.NewHandler(reportBuilder, reportStore, log)
	insightGenerator := mvp.NewGenerator(model, pgStore, log)
	mvpHandler := mvp.NewHandler(insightGenerator, pgStore, cfg.OpenAIKey != "", log)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes (public)
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.With(middleware.RequireAuth(sessions)).Get("/me", authHandler.Me)
	})

	// Competitor routes
	r.Route("/api/competitors", func(r chi.Router) {
		r.Post("/extract", competitorHandler.Extract)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(sessions))
			r.Get("/tracked", competitorHandler.List)
			r.Post("/tracked", competitorHandler.Track)
			r.Delete("/tracked/{id}", competitorHandler.Untrack)
		})
	})

	// Report routes (protected)
	r.Route("/api/reports", func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessions))
		r.Post("/generate", reportHandler.Generate)
		r.Get("/", reportHandler.List)
		r.Get("/{name}", reportHandler.Get)
		r.Delete("/{name}", reportHandler.Delete)
	})

	// MVP routes (protected)
	r.Route("/api/mvp", func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessions))
		r.Post("/insights", mvpHandler.GenerateInsights)
		r.Get("/insights", mvpHandler.GetInsights)
		r.Post("/", mvpHandler.Create)
		r.Get("/", mvpHandler.List)
		r.Get("/{id}", mvpHandler.Get)
		r.Delete("/{id}", mvpHandler.Delete)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	go func() {
		log.Infof("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
