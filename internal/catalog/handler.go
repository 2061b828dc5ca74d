package catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bazario/bazario/internal/platform/httpx"
	"github.com/bazario/bazario/internal/shared"
)

const idempotencyModule = "catalog.product_write"

// IdempotencyGuard records processed request keys so a resubmitted
// form cannot run the same write twice. shared.IdempotencyStore
// implements it.
type IdempotencyGuard interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// Handler wires the admin product write endpoints onto the engine.
type Handler struct {
	logger   *slog.Logger
	engine   *Engine
	cache    *CategoryCache
	brands   BrandRepository
	idem     IdempotencyGuard
	validate *validator.Validate
}

// NewHandler constructs the catalog handler. idem may be nil when
// idempotency keys are not enforced (tests).
func NewHandler(logger *slog.Logger, engine *Engine, cache *CategoryCache, brands BrandRepository, idem IdempotencyGuard) *Handler {
	return &Handler{
		logger:   logger,
		engine:   engine,
		cache:    cache,
		brands:   brands,
		idem:     idem,
		validate: validator.New(),
	}
}

// MountRoutes registers product routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/products", h.create)
	r.Put("/products/{id}", h.update)
	r.Get("/products/form-data", h.formData)
}

type productPayload struct {
	Name          string  `json:"name" validate:"required,min=2,max=200"`
	Description   string  `json:"description" validate:"max=5000"`
	Price         float64 `json:"price" validate:"gte=0"`
	ImageURL      string  `json:"image_url" validate:"omitempty,url"`
	CategoryID    int64   `json:"category_id" validate:"required,gt=0"`
	SubcategoryID *int64  `json:"subcategory_id" validate:"omitempty,gt=0"`
	BrandID       *int64  `json:"brand_id" validate:"omitempty,gt=0"`
	IsActive      bool    `json:"is_active"`

	PurchaseType string `json:"purchase_type" validate:"omitempty,oneof=direct auction preorder"`
	Condition    string `json:"condition" validate:"omitempty,oneof=new used refurbished"`
	StockQty     int    `json:"stock_qty" validate:"gte=0"`
	BannerLabel  string `json:"banner_label" validate:"max=120"`
	BannerLink   string `json:"banner_link" validate:"omitempty,url"`
}

func (p productPayload) input() ProductInput {
	in := ProductInput{
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		ImageURL:      p.ImageURL,
		CategoryID:    p.CategoryID,
		SubcategoryID: p.SubcategoryID,
		BrandID:       p.BrandID,
		IsActive:      p.IsActive,
	}
	if p.PurchaseType != "" || p.Condition != "" || p.StockQty != 0 || p.BannerLabel != "" || p.BannerLink != "" {
		in.Optional = &OptionalFields{
			PurchaseType: p.PurchaseType,
			Condition:    p.Condition,
			StockQty:     p.StockQty,
			BannerLabel:  p.BannerLabel,
			BannerLink:   p.BannerLink,
		}
	}
	return in
}

type successResponse struct {
	Success        bool                `json:"success"`
	ProductID      int64               `json:"product_id"`
	Slug           string              `json:"slug"`
	Categorization CategorizationNames `json:"categorization"`
	Warning        string              `json:"warning,omitempty"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.JSON(w, http.StatusBadRequest, errorResponse{Error: validationMessage(err)})
		return
	}

	idemKey, ok := h.claimIdempotencyKey(w, r)
	if !ok {
		return
	}

	result, err := h.engine.CreateProduct(r.Context(), payload.input())
	if err != nil {
		h.releaseIdempotencyKey(r.Context(), idemKey)
		h.respondEngineError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, successResponse{
		Success:        true,
		ProductID:      result.Product.ID,
		Slug:           result.Product.Slug,
		Categorization: result.Categorization,
		Warning:        result.Warning,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product ID"})
		return
	}

	var payload productPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.JSON(w, http.StatusBadRequest, errorResponse{Error: validationMessage(err)})
		return
	}

	idemKey, ok := h.claimIdempotencyKey(w, r)
	if !ok {
		return
	}

	result, err := h.engine.UpdateProduct(r.Context(), id, payload.input())
	if err != nil {
		h.releaseIdempotencyKey(r.Context(), idemKey)
		h.respondEngineError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, successResponse{
		Success:        true,
		ProductID:      result.Product.ID,
		Slug:           result.Product.Slug,
		Categorization: result.Categorization,
		Warning:        result.Warning,
	})
}

// formData returns the active categories and brands the product form
// needs, loaded concurrently.
func (h *Handler) formData(w http.ResponseWriter, r *http.Request) {
	var (
		categories []Category
		brands     []Brand
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		categories, err = h.cache.All(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		brands, err = h.brands.ListActive(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("load product form data", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"categories": categories,
		"brands":     brands,
	})
}

// claimIdempotencyKey registers the Idempotency-Key header when
// present. Returns ok=false after writing a response.
func (h *Handler) claimIdempotencyKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := r.Header.Get("Idempotency-Key")
	if key == "" || h.idem == nil {
		return "", true
	}
	if _, err := uuid.Parse(key); err != nil {
		httpx.JSON(w, http.StatusBadRequest, errorResponse{Error: "Idempotency-Key must be a UUID"})
		return "", false
	}
	if err := h.idem.CheckAndInsert(r.Context(), key, idempotencyModule); err != nil {
		if errors.Is(err, shared.ErrIdempotencyConflict) {
			httpx.JSON(w, http.StatusConflict, errorResponse{Error: "request already processed"})
			return "", false
		}
		h.logger.Error("idempotency check", slog.Any("error", err))
		httpx.JSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return "", false
	}
	return key, true
}

// releaseIdempotencyKey frees a claimed key after a failed write so the
// admin can retry once the form is fixed.
func (h *Handler) releaseIdempotencyKey(ctx context.Context, key string) {
	if key == "" || h.idem == nil {
		return
	}
	if err := h.idem.Delete(ctx, key); err != nil {
		h.logger.Warn("release idempotency key", slog.Any("error", err))
	}
}

// respondEngineError maps engine errors onto the admin JSON body.
// Categorization rejections are client errors with a suggestion where
// one exists, writer faults are server errors.
func (h *Handler) respondEngineError(w http.ResponseWriter, err error) {
	var ce *CategorizationError
	switch {
	case errors.As(err, &ce):
		httpx.JSON(w, http.StatusBadRequest, errorResponse{Error: ce.Message, Suggestion: ce.Suggestion})
	case errors.Is(err, ErrProductNotFound):
		httpx.JSON(w, http.StatusNotFound, errorResponse{Error: "product not found"})
	case errors.Is(err, ErrConflict):
		httpx.JSON(w, http.StatusConflict, errorResponse{
			Error:      "the product name collided with a concurrent change",
			Suggestion: "retry the submission",
		})
	default:
		h.logger.Error("product write failed", slog.Any("error", err))
		httpx.JSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to save product"})
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "invalid field: " + verrs[0].Field()
	}
	return "validation failed"
}
