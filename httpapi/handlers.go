package httpapi

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hlubek/productcatalog/config"
	"github.com/hlubek/productcatalog/domain"
	"github.com/hlubek/productcatalog/ingest"
	"github.com/hlubek/productcatalog/obs"
)

//go:embed templates/index.html
var templateFS embed.FS

// ProductStore is the record store contract the HTTP layer depends on.
type ProductStore interface {
	Select(ctx context.Context, filter domain.Filter, page, limit int) ([]domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) error
}

// App wires the handlers to their collaborators.
type App struct {
	Cfg      config.Config
	Store    ProductStore
	pipeline *ingest.Pipeline
	tmpl     *template.Template
}

func NewApp(cfg config.Config, store ProductStore) *App {
	return &App{
		Cfg:      cfg,
		Store:    store,
		pipeline: ingest.NewPipeline(store),
		tmpl:     template.Must(template.ParseFS(templateFS, "templates/index.html")),
	}
}

type listingData struct {
	Products    []domain.Product
	Message     string
	MessageType string
	Search      searchParams
}

type searchParams struct {
	SKU      string
	Brand    string
	Color    string
	Size     string
	MinPrice string
	MaxPrice string
}

// homeHandler renders the HTML listing. Filter parameters are optional;
// non-numeric price bounds are ignored rather than rejected.
func (a *App) homeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	q := r.URL.Query()
	filter := parseFilter(q)
	products, err := a.Store.Select(r.Context(), filter, 0, 0)
	if err != nil {
		obs.Logger.Error("listing_failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	data := listingData{
		Products:    products,
		Message:     q.Get("message"),
		MessageType: q.Get("message_type"),
		Search: searchParams{
			SKU:      q.Get("sku"),
			Brand:    q.Get("brand"),
			Color:    q.Get("color"),
			Size:     q.Get("size"),
			MinPrice: q.Get("min_price"),
			MaxPrice: q.Get("max_price"),
		},
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.tmpl.Execute(w, data); err != nil {
		obs.Logger.Error("template_render_failed", "error", err)
	}
}

// listProductsHandler serves GET /products: the paginated JSON listing.
func (a *App) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	page, err := positiveIntParam(r.URL.Query(), "page", 1)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "page must be a positive integer")
		return
	}
	limit, err := positiveIntParam(r.URL.Query(), "limit", a.Cfg.DefaultPageLimit)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "limit must be a positive integer")
		return
	}
	products, err := a.Store.Select(r.Context(), domain.Filter{}, page, limit)
	if err != nil {
		obs.Logger.Error("listing_failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	writeProducts(w, products)
}

// searchProductsHandler serves GET /products/search: filtered, unpaginated.
// Like the interactive listing it ignores malformed price bounds.
func (a *App) searchProductsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	products, err := a.Store.Select(r.Context(), parseFilter(r.URL.Query()), 0, 0)
	if err != nil {
		obs.Logger.Error("search_failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	writeProducts(w, products)
}

// uploadHandler accepts a multipart CSV upload and runs it through the
// ingestion pipeline. Clients accepting JSON get the {stored, failed}
// report; browsers get a redirect to the listing with a summary message.
func (a *App) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	wantsJSON := strings.Contains(r.Header.Get("Accept"), "application/json")

	file, header, err := r.FormFile("file")
	if err != nil {
		a.uploadFailure(w, r, wantsJSON, "missing file field")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		a.uploadFailure(w, r, wantsJSON, "Only CSV files are allowed")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		a.uploadFailure(w, r, wantsJSON, "reading upload failed")
		return
	}

	result, err := a.pipeline.Ingest(r.Context(), data)
	if err != nil {
		var malformed *ingest.MalformedInputError
		var missing *ingest.MissingColumnsError
		switch {
		case errors.As(err, &malformed), errors.As(err, &missing):
			a.uploadFailure(w, r, wantsJSON, err.Error())
		default:
			obs.Logger.Error("ingest_failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
			WriteJSONError(w, http.StatusInternalServerError, "internal_error", "")
		}
		return
	}

	obs.Logger.Info("csv_ingest_done",
		"file", header.Filename,
		"stored", result.Stored,
		"failed", len(result.Failed),
		"request_id", RequestIDFromContext(r.Context()),
	)

	if wantsJSON {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
		return
	}
	message := fmt.Sprintf("Successfully uploaded %d products", result.Stored)
	if len(result.Failed) > 0 {
		message += fmt.Sprintf(", %d rows failed", len(result.Failed))
	}
	redirectWithMessage(w, r, message, "success")
}

func (a *App) uploadFailure(w http.ResponseWriter, r *http.Request, wantsJSON bool, message string) {
	if wantsJSON {
		WriteJSONError(w, http.StatusBadRequest, "invalid_upload", message)
		return
	}
	redirectWithMessage(w, r, message, "danger")
}

func redirectWithMessage(w http.ResponseWriter, r *http.Request, message, messageType string) {
	target := "/?message=" + url.QueryEscape(message) + "&message_type=" + url.QueryEscape(messageType)
	http.Redirect(w, r, target, http.StatusFound)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// debugProductsHandler dumps every product in the store.
func (a *App) debugProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := a.Store.Select(r.Context(), domain.Filter{}, 0, 0)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeProducts(w, products)
}

func writeProducts(w http.ResponseWriter, products []domain.Product) {
	if products == nil {
		products = []domain.Product{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(products)
}
