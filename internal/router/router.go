package router

import (
	"net/http"

	"catalog-service/internal/handler"
	"catalog-service/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	categoryHandler *handler.CategoryHandler,
	productHandler *handler.ProductHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Category handler function
	categoryRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Collection vs item is decided by the path shape; the handler
		// routes on method from there.
		if r.URL.Path == "/api/categories" || r.URL.Path == "/api/categories/" {
			categoryHandler.Collection(w, r)
			return
		}
		categoryHandler.Item(w, r)
	}

	// Register category routes (both with and without trailing slash)
	mux.HandleFunc("/api/categories", categoryRouteHandler)
	mux.HandleFunc("/api/categories/", categoryRouteHandler)

	// Product handler function
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/products" || r.URL.Path == "/api/products/" {
			productHandler.Collection(w, r)
			return
		}
		productHandler.Item(w, r)
	}

	// Register product routes (both with and without trailing slash)
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
