package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/bazario/bazario/internal/app"
	"github.com/bazario/bazario/internal/catalog"
	"github.com/bazario/bazario/internal/masterdata"
	"github.com/bazario/bazario/internal/platform/cache"
	"github.com/bazario/bazario/internal/platform/db"
	"github.com/bazario/bazario/internal/shared"
)

// catalogAuditor bridges categorization change events into audit_logs.
// Sink failures are logged and swallowed so a broken audit table never
// rolls back a product write.
type catalogAuditor struct {
	audit  *shared.AuditLogger
	logger *slog.Logger
}

func (a catalogAuditor) CategorizationChanged(ctx context.Context, change catalog.CategorizationChange) {
	err := a.audit.Record(ctx, shared.AuditLog{
		Action:   "product.categorization_changed",
		Entity:   "product",
		EntityID: strconv.FormatInt(change.ProductID, 10),
		Meta: map[string]any{
			"correlation_id":     uuid.NewString(),
			"before_category":    change.Before.Category,
			"before_subcategory": change.Before.Subcategory,
			"before_brand":       change.Before.Brand,
			"after_category":     change.After.Category,
			"after_subcategory":  change.After.Subcategory,
			"after_brand":        change.After.Brand,
		},
		At: change.At,
	})
	if err != nil && a.logger != nil {
		a.logger.Warn("record categorization change", slog.Any("error", err))
	}
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, db.Options{
		MaxConns:        cfg.PGMaxConns,
		MinConns:        cfg.PGMinConns,
		MaxConnLifetime: cfg.PGConnMaxLife,
		MaxConnIdleTime: cfg.PGConnMaxIdle,
	})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, category cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(dbpool)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	categoryRepo := catalog.NewCategoryRepository(dbpool)
	brandRepo := catalog.NewBrandRepository(dbpool)
	productRepo := catalog.NewProductRepository(dbpool)

	categoryCache := catalog.NewCategoryCache(redisClient, categoryRepo, cfg.CategoryCacheTTL, logger)
	subcategoryResolvers := catalog.NewSubcategoryResolvers(dbpool)

	hierarchyValidator := catalog.NewHierarchyValidator(categoryCache, subcategoryResolvers, brandRepo)
	slugGenerator := catalog.NewSlugGenerator(productRepo)
	writer := catalog.NewSchemaTolerantWriter(productRepo, logger)
	engine := catalog.NewEngine(
		hierarchyValidator,
		slugGenerator,
		writer,
		productRepo,
		catalogAuditor{audit: auditLogger, logger: logger},
		logger,
	)

	catalogHandler := catalog.NewHandler(logger, engine, categoryCache, brandRepo, idempotencyStore)

	masterRepo := masterdata.NewRepository(dbpool)
	masterService := masterdata.NewService(masterRepo, categoryCache, logger)
	masterHandler := masterdata.NewHandler(logger, masterService)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		CatalogHandler:    catalogHandler,
		MasterDataHandler: masterHandler,
		Pool:              dbpool,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
