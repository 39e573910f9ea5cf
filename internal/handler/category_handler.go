package handler

import (
	"net/http"
	"strings"

	"catalog-service/internal/model"
	"catalog-service/internal/service"

	"github.com/rs/zerolog"
)

// CategoryHandler handles category-related HTTP requests.
type CategoryHandler struct {
	service        service.CategoryService
	catalogService service.CatalogService
	productService service.ProductService
	logger         zerolog.Logger
}

// NewCategoryHandler creates a new category handler. The catalog service
// backs the composite detail read; the product service backs the
// products-in-category listing.
func NewCategoryHandler(
	categoryService service.CategoryService,
	catalogService service.CatalogService,
	productService service.ProductService,
	logger zerolog.Logger,
) *CategoryHandler {
	return &CategoryHandler{
		service:        categoryService,
		catalogService: catalogService,
		productService: productService,
		logger:         logger.With().Str("handler", "category").Logger(),
	}
}

// Collection handles /api/categories requests.
func (h *CategoryHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getAll(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
	}
}

// Item handles /api/categories/{id} and /api/categories/{id}/products
// requests.
func (h *CategoryHandler) Item(w http.ResponseWriter, r *http.Request) {
	// Extract the category ID from the path.
	// Simple extraction without routing library.
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/categories"), "/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "category ID is required", h.logger)
		return
	}

	if id, found := strings.CutSuffix(rest, "/products"); found {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
			return
		}
		h.products(w, r, id)
		return
	}

	if strings.Contains(rest, "/") {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "not found", h.logger)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.detail(w, r, rest)
	case http.MethodPut:
		h.update(w, r, rest)
	case http.MethodDelete:
		h.delete(w, r, rest)
	default:
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
	}
}

// getAll handles GET /api/categories requests.
func (h *CategoryHandler) getAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// create handles POST /api/categories requests.
func (h *CategoryHandler) create(w http.ResponseWriter, r *http.Request) {
	input, err := decodeCategoryInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	category, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

// detail handles GET /api/categories/{id} requests, returning the
// category together with all products referencing it.
func (h *CategoryHandler) detail(w http.ResponseWriter, r *http.Request, id string) {
	detail, err := h.catalogService.CategoryDetail(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// update handles PUT /api/categories/{id} requests.
func (h *CategoryHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	input, err := decodeCategoryInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	category, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// delete handles DELETE /api/categories/{id} requests. A delete blocked
// by referencing products is reported as a conflict, with the blocking
// products in the body.
func (h *CategoryHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if !result.Deleted {
		writeJSON(w, http.StatusConflict, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// products handles GET /api/categories/{id}/products requests.
func (h *CategoryHandler) products(w http.ResponseWriter, r *http.Request, id string) {
	products, err := h.productService.GetByCategory(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}
