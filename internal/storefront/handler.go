// internal/storefront/handler.go
package storefront

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/time/rate"

	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/view"
)

type Handler struct {
	service Service
	catalog *catalog.Handler
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewHandler serves service over JSON. limiter guards order submission; a nil limiter
// allows every request.
func NewHandler(service Service, products *catalog.Handler, limiter *rate.Limiter, logger *zap.Logger) *Handler {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &Handler{service: service, catalog: products, limiter: limiter, logger: logger.Named("http")}
}

// NewSubmitLimiter allows perMinute order submissions with the given burst.
func NewSubmitLimiter(perMinute, burst int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Mount("/products", h.catalog.Routes())
	r.Get("/state", h.handleState)

	r.Route("/cart", func(r chi.Router) {
		r.Delete("/", h.handleClearCart)
		r.Post("/items", h.handleAddItem)
		r.Patch("/items/{id}", h.handleUpdateItem)
		r.Delete("/items/{id}", h.handleRemoveItem)
	})
	r.Put("/view", h.handleSetView)
	r.Patch("/checkout", h.handleEditCheckout)
	r.Post("/checkout", h.handleSubmitCheckout)
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// handleState serves the snapshot with an ETag so polling renderers can skip unchanged state.
func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(snap); err != nil {
		h.writeError(w, err)
		return
	}
	sum := blake2b.Sum256(body.Bytes())
	etag := `"` + hex.EncodeToString(sum[:]) + `"`

	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body.Bytes())
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.AddToCart(r.Context(), req.ProductID); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSnapshot(w, r)
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Quantity == nil {
		writeJSONError(w, http.StatusBadRequest, "quantity is required")
		return
	}

	h.service.UpdateQuantity(r.Context(), id, *req.Quantity)
	h.writeSnapshot(w, r)
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	h.service.RemoveFromCart(r.Context(), id)
	h.writeSnapshot(w, r)
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCart(r.Context())
	h.writeSnapshot(w, r)
}

func (h *Handler) handleSetView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		View string `json:"view"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	v, err := view.Parse(req.View)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.SetView(r.Context(), v); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSnapshot(w, r)
}

func (h *Handler) handleEditCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	field, err := checkout.ParseField(req.Field)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.EditCheckout(r.Context(), field, req.Value); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSnapshot(w, r)
}

// handleSubmitCheckout places the order. Non-empty fields in the body overwrite the edited form.
func (h *Handler) handleSubmitCheckout(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow() {
		writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var patch checkout.Form
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil && !errors.Is(err, io.EOF) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if _, err := h.service.SubmitCheckout(r.Context(), patch); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSnapshot(w, r)
}

func (h *Handler) writeSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// writeError maps domain errors onto status codes.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, checkout.ErrIncompleteForm):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, view.ErrInvalidTransition),
		errors.Is(err, view.ErrGuardedTransition),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrCheckoutInactive),
		errors.Is(err, checkout.ErrNotInCheckout):
		status = http.StatusConflict
	case errors.Is(err, view.ErrUnknownView), errors.Is(err, checkout.ErrUnknownField):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	writeJSONError(w, status, checkout.Message(err))
}

func productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid product ID")
		return 0, false
	}
	return id, true
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
