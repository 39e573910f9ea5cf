package handler

import (
	"net/http"
	"strings"

	"catalog-service/internal/model"
	"catalog-service/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service        service.ProductService
	catalogService service.CatalogService
	logger         zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(
	productService service.ProductService,
	catalogService service.CatalogService,
	logger zerolog.Logger,
) *ProductHandler {
	return &ProductHandler{
		service:        productService,
		catalogService: catalogService,
		logger:         logger.With().Str("handler", "product").Logger(),
	}
}

// Collection handles /api/products requests.
func (h *ProductHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getAll(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
	}
}

// Item handles /api/products/{id} requests.
func (h *ProductHandler) Item(w http.ResponseWriter, r *http.Request) {
	// Extract the product ID from the path.
	// Simple extraction without routing library.
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/products"), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "product ID is required", h.logger)
		return
	}
	if strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "not found", h.logger)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.detail(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
	}
}

// getAll handles GET /api/products requests. Products come back
// hydrated with their categories.
func (h *ProductHandler) getAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// create handles POST /api/products requests.
func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	input, err := decodeProductInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	product, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// detail handles GET /api/products/{id} requests.
func (h *ProductHandler) detail(w http.ResponseWriter, r *http.Request, id string) {
	product, err := h.catalogService.ProductDetail(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// update handles PUT /api/products/{id} requests.
func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	input, err := decodeProductInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	product, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// delete handles DELETE /api/products/{id} requests.
func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
