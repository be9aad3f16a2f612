package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"citrusreach/internal/auth"
	"citrusreach/internal/cache"
	"citrusreach/internal/config"
	"citrusreach/internal/domain/models"
	"citrusreach/internal/domain/repositories"
	"citrusreach/internal/handler"
	"citrusreach/internal/kinds"
	"citrusreach/internal/middleware"
	"citrusreach/internal/repository/postgres"
	"citrusreach/internal/service/content"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.Migrate(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	logger.Info("database connected")

	// Create repositories, one per kind
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	var nodeRepos []repositories.NodeRepository
	for _, kind := range models.Kinds() {
		nodeRepos = append(nodeRepos, postgres.NewNodeRepository(repoConfig, kind))
	}
	txManager := postgres.NewTransactionManager(pool)

	// Kind registry from embedded config
	kindRegistry, err := kinds.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load kind registry: %v", err)
	}

	// Published-node cache (optional)
	var publishedCache content.PublishedCache
	if cfg.RedisURL != "" {
		store, err := cache.NewPublishedStore(cfg.RedisURL, config.PublishedCacheTTL)
		if err != nil {
			log.Fatalf("Failed to connect published cache: %v", err)
		}
		defer store.Close()
		publishedCache = store
		logger.Info("published cache connected")
	}

	// Create services
	nodeService := content.NewStore(nodeRepos, txManager, kindRegistry, publishedCache, logger)
	treeService := content.NewTreeService(nodeRepos, logger)

	// Create handlers
	nodeHandler := handler.NewNodeHandler(nodeService, logger)
	treeHandler := handler.NewTreeHandler(treeService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", nodeHandler.HealthCheck)

	// Node routes, shared across documents/profiles/events
	mux.HandleFunc("POST /api/{kind}", nodeHandler.CreateNode)
	mux.HandleFunc("GET /api/{kind}", nodeHandler.ListNodes)
	mux.HandleFunc("GET /api/{kind}/tree", treeHandler.GetTree)
	mux.HandleFunc("GET /api/{kind}/{id}", nodeHandler.GetNode)
	mux.HandleFunc("PATCH /api/{kind}/{id}", nodeHandler.UpdateNode)
	mux.HandleFunc("POST /api/{kind}/{id}/archive", nodeHandler.ArchiveNode)
	mux.HandleFunc("POST /api/{kind}/{id}/restore", nodeHandler.RestoreNode)
	mux.HandleFunc("DELETE /api/{kind}/{id}", nodeHandler.RemoveNode)

	// Build middleware chain (applied in reverse order, they wrap each other)
	var httpHandler http.Handler = mux

	if cfg.DevUserID != "" {
		logger.Warn("DEV MODE: requests authenticated as fixed user", "user_id", cfg.DevUserID)
		httpHandler = middleware.DevAuth(cfg.DevUserID)(httpHandler)
	} else {
		verifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create token verifier: %v", err)
		}
		defer verifier.Close()
		httpHandler = middleware.Auth(verifier)(httpHandler)
	}

	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
