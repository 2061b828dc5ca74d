package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bazario/bazario/internal/catalog"
	"github.com/bazario/bazario/internal/masterdata"
	"github.com/bazario/bazario/internal/platform/httpx"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	CatalogHandler    *catalog.Handler
	MasterDataHandler *masterdata.Handler
	Pool              *pgxpool.Pool
}

// NewRouter assembles the admin API router.
func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{Logger: p.Logger, Config: p.Config}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if p.Pool != nil {
			if err := p.Pool.Ping(req.Context()); err != nil {
				httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/admin", func(admin chi.Router) {
		if p.CatalogHandler != nil {
			p.CatalogHandler.MountRoutes(admin)
		}
		if p.MasterDataHandler != nil {
			p.MasterDataHandler.MountRoutes(admin)
		}
	})

	return r
}
