package masterdata

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bazario/bazario/internal/platform/httpx"
)

// Handler manages master data endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers master data routes.
func (h *Handler) MountRoutes(r chi.Router) {
	// Categories
	r.Get("/categories", h.listCategories)
	r.Get("/categories/{id}", h.showCategory)
	r.Post("/categories", h.createCategory)
	r.Put("/categories/{id}", h.updateCategory)
	r.Delete("/categories/{id}", h.deleteCategory)

	// Brands
	r.Get("/brands", h.listBrands)
	r.Get("/brands/{id}", h.showBrand)
	r.Post("/brands", h.createBrand)
	r.Put("/brands/{id}", h.updateBrand)
	r.Delete("/brands/{id}", h.deleteBrand)

	// Banners
	r.Get("/banners", h.listBanners)
	r.Get("/banners/{id}", h.showBanner)
	r.Post("/banners", h.createBanner)
	r.Put("/banners/{id}", h.updateBanner)
	r.Delete("/banners/{id}", h.deleteBanner)
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// parseFilters extracts common list query parameters.
func parseFilters(r *http.Request) ListFilters {
	q := r.URL.Query()
	filters := ListFilters{Search: q.Get("search")}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filters.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filters.Limit = limit
	}
	if q.Has("is_active") {
		active := q.Get("is_active") == "true"
		filters.IsActive = &active
	}
	if parent, err := strconv.ParseInt(q.Get("parent_id"), 10, 64); err == nil {
		filters.ParentID = &parent
	}
	return filters
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSON(w, http.StatusNotFound, map[string]string{"error": "record not found"})
	case errors.Is(err, ErrCategoryInUse):
		httpx.JSON(w, http.StatusConflict, map[string]string{"error": "category has products or subcategories attached"})
	case errors.Is(err, ErrBrandInUse):
		httpx.JSON(w, http.StatusConflict, map[string]string{"error": "brand has products attached"})
	case errors.Is(err, ErrDuplicateSlug):
		httpx.JSON(w, http.StatusConflict, map[string]string{"error": "slug already exists"})
	default:
		h.logger.Error("masterdata request failed", slog.Any("error", err))
		httpx.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// Categories
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	items, total, err := h.service.ListCategories(r.Context(), parseFilters(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[Category]{Items: items, Total: total})
}

func (h *Handler) showCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category ID"})
		return
	}
	category, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var category Category
	if err := httpx.DecodeJSON(r, &category); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	created, err := h.service.CreateCategory(r.Context(), category)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateSlug) {
			h.respondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category ID"})
		return
	}
	var category Category
	if err := httpx.DecodeJSON(r, &category); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.service.UpdateCategory(r.Context(), id, category); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category ID"})
		return
	}
	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Brands
func (h *Handler) listBrands(w http.ResponseWriter, r *http.Request) {
	items, total, err := h.service.ListBrands(r.Context(), parseFilters(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[Brand]{Items: items, Total: total})
}

func (h *Handler) showBrand(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid brand ID"})
		return
	}
	brand, err := h.service.GetBrand(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, brand)
}

func (h *Handler) createBrand(w http.ResponseWriter, r *http.Request) {
	var brand Brand
	if err := httpx.DecodeJSON(r, &brand); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	created, err := h.service.CreateBrand(r.Context(), brand)
	if err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			h.respondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) updateBrand(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid brand ID"})
		return
	}
	var brand Brand
	if err := httpx.DecodeJSON(r, &brand); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.service.UpdateBrand(r.Context(), id, brand); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) deleteBrand(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid brand ID"})
		return
	}
	if err := h.service.DeleteBrand(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Banners
func (h *Handler) listBanners(w http.ResponseWriter, r *http.Request) {
	items, total, err := h.service.ListBanners(r.Context(), parseFilters(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[Banner]{Items: items, Total: total})
}

func (h *Handler) showBanner(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid banner ID"})
		return
	}
	banner, err := h.service.GetBanner(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, banner)
}

func (h *Handler) createBanner(w http.ResponseWriter, r *http.Request) {
	var banner Banner
	if err := httpx.DecodeJSON(r, &banner); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	created, err := h.service.CreateBanner(r.Context(), banner)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) updateBanner(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid banner ID"})
		return
	}
	var banner Banner
	if err := httpx.DecodeJSON(r, &banner); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.service.UpdateBanner(r.Context(), id, banner); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) deleteBanner(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid banner ID"})
		return
	}
	if err := h.service.DeleteBanner(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
