package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"catalog-management/apperr"
	"catalog-management/service"
)

// Options tune the HTTP layer.
type Options struct {
	// Production hides error details from responses.
	Production bool
	// ProtectUploads requires a bearer token on image upload.
	ProtectUploads bool
	// MaxUploadBytes bounds the multipart body of an upload.
	MaxUploadBytes int64
	// AllowedOrigin is the single origin granted cross-origin access.
	AllowedOrigin string
	// UploadDir and UploadURLPrefix serve locally stored images when set.
	UploadDir       string
	UploadURLPrefix string
}

// Handler is the HTTP layer that talks to service.Service
type Handler struct {
	svc  service.ServiceInterface
	opts Options
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	return &Handler{svc: s, opts: opts}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	// Auth
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/validate-token", h.requireAuth(h.ValidateToken)).Methods(http.MethodGet)

	// Categories
	r.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet)

	// Products; reorder routes before {id}
	r.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/products", h.requireAuth(h.CreateProduct)).Methods(http.MethodPost)
	r.HandleFunc("/products/reorder/global", h.requireAuth(h.ReorderGlobal)).Methods(http.MethodPost)
	r.HandleFunc("/products/reorder/category/{categoryId:[0-9]+}", h.requireAuth(h.ReorderCategory)).Methods(http.MethodPost)
	r.HandleFunc("/products/{id:[0-9]+}", h.GetProduct).Methods(http.MethodGet)
	r.HandleFunc("/products/{id:[0-9]+}", h.requireAuth(h.UpdateProduct)).Methods(http.MethodPut)
	r.HandleFunc("/products/{id:[0-9]+}", h.requireAuth(h.DeleteProduct)).Methods(http.MethodDelete)

	// Images
	upload := h.UploadImage
	if h.opts.ProtectUploads {
		upload = h.requireAuth(upload)
	}
	r.HandleFunc("/images/upload/{productId:-?[0-9]+}", upload).Methods(http.MethodPost)
	r.HandleFunc("/images/{imageId:[0-9]+}", h.requireAuth(h.DeleteImage)).Methods(http.MethodDelete)

	if h.opts.UploadDir != "" && h.opts.UploadURLPrefix != "" {
		prefix := "/" + strings.Trim(h.opts.UploadURLPrefix, "/") + "/"
		r.PathPrefix(prefix).
			Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(h.opts.UploadDir)))).
			Methods(http.MethodGet, http.MethodHead)
	}
}

// Routes returns the full HTTP handler: router plus middleware chain.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErr(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	h.RegisterRoutes(r)

	// cors wraps the router so preflight requests never reach route matching
	return recoverer(requestID(accessLog(cors(h.opts.AllowedOrigin, r))))
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

type errorBody struct {
	Error  string            `json:"error"`
	Detail string            `json:"detail,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeAppErr maps err through the error taxonomy. Outside production the
// underlying cause is returned as detail.
func (h *Handler) writeAppErr(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.HTTPStatus(err)
	body := errorBody{Error: apperr.PublicMessage(err)}
	if ae, ok := apperr.As(err); ok {
		body.Fields = ae.Fields
		if !h.opts.Production && ae.Err != nil {
			body.Detail = ae.Err.Error()
		}
	} else if !h.opts.Production {
		body.Detail = err.Error()
	}
	if code >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	writeJSON(w, code, body)
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.InvalidErr("invalid json", nil)
	}
	return nil
}
