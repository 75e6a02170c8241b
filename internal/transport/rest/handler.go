// Package rest provides HTTP handlers for the storefront.
package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/abgdnv/freshcart/internal/service"
	"github.com/abgdnv/freshcart/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// emptyCartMessage is shown to the shopper when checkout is attempted with an empty cart.
const emptyCartMessage = "Your cart is empty!"

type Handler struct {
	service  service.StorefrontService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the storefront API with the provided service.
func NewHandler(service service.StorefrontService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes of the storefront.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", h.Products)
			r.Get("/products/{id}", h.Product)
			r.Get("/categories", h.Categories)
			r.Get("/banners", h.Banners)
			r.Get("/plans", h.Plans)
			r.Get("/plans/{id}", h.Plan)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddToCart)
			r.Delete("/items/{id}", h.RemoveItem)
			r.Post("/items/{id}/increment", h.IncrementItem)
			r.Post("/items/{id}/decrement", h.DecrementItem)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.Wishlist)
			r.Put("/{id}", h.AddToWishlist)
			r.Delete("/{id}", h.RemoveFromWishlist)
			r.Post("/{id}/toggle", h.ToggleWishlist)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders)
			r.Post("/", h.PlaceOrder)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Order)
				r.Post("/cancel", h.CancelOrder)
				r.Post("/advance", h.AdvanceOrder)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.Notifications)
			r.Delete("/", h.ClearNotifications)
			r.Post("/read", h.MarkAllNotificationsRead)
			r.Post("/{id}/read", h.MarkNotificationRead)
		})

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", h.Preferences)
			r.Put("/", h.UpdatePreferences)
			r.Post("/dark-mode/toggle", h.ToggleDarkMode)
			r.Post("/sidebar/toggle", h.ToggleSidebar)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", h.Profile)
			r.Patch("/", h.UpdateProfile)
			r.Post("/addresses", h.AddAddress)
			r.Delete("/addresses/{id}", h.RemoveAddress)
			r.Put("/addresses/{id}/default", h.SetDefaultAddress)
			r.Post("/payment-methods", h.AddPaymentMethod)
			r.Delete("/payment-methods/{id}", h.RemovePaymentMethod)
			r.Put("/payment-methods/{id}/default", h.SetDefaultPaymentMethod)
		})

		r.Post("/logout", h.Logout)
	})
	r.Get("/healthz", h.HealthCheck)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}

// decodeBody decodes and validates a JSON request body into dst.
// An empty body leaves dst at its zero value when allowEmpty is set.
// It writes the error response itself and reports whether the handler may continue.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any, allowEmpty bool) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			logger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
			web.RespondError(w, logger, http.StatusBadRequest, "Invalid request body")
			return false
		}
	}
	if err := h.validate.Struct(dst); err != nil {
		web.RespondValidationError(w, r, logger, err)
		return false
	}
	return true
}
