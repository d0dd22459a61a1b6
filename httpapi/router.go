package httpapi

import (
	"net/http"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", app.homeHandler)
	mux.HandleFunc("/upload", app.uploadHandler)
	mux.HandleFunc("/products", app.listProductsHandler)
	mux.HandleFunc("/products/search", app.searchProductsHandler)
	mux.HandleFunc("/health", app.healthHandler)
	mux.HandleFunc("/debug/products", app.debugProductsHandler)
	return WithRequestID(WithLogging(mux))
}
