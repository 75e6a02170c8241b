package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	storeerrors "github.com/abgdnv/freshcart/internal/errors"
	"github.com/abgdnv/freshcart/internal/service"
	"github.com/abgdnv/freshcart/pkg/web"
)

// Orders lists placed orders newest first, with the order statistics.
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.Orders(r.Context()))
}

// Order retrieves an order by its ID.
func (h *Handler) Order(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := r.PathValue("id")
	mLogger.DebugContext(r.Context(), "Received request to find order by ID", "ID", id)
	found, err := h.service.Order(r.Context(), id)
	h.respondOrder(w, r, mLogger, id, found, err, "Failed to retrieve order with ID %s")
}

// PlaceOrder checks out the cart. An empty body uses the profile defaults.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto service.PlaceOrderDto
	if !h.decodeBody(w, r, mLogger, &dto, true) {
		return
	}
	placed, err := h.service.PlaceOrder(r.Context(), dto)
	if err != nil {
		if errors.Is(err, storeerrors.ErrCartEmpty) {
			mLogger.WarnContext(r.Context(), "Checkout attempted with an empty cart")
			web.RespondError(w, mLogger, http.StatusUnprocessableEntity, emptyCartMessage)
			return
		}
		mLogger.ErrorContext(r.Context(), "Error placing order", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to place order")
		return
	}
	mLogger.InfoContext(r.Context(), "Order placed successfully", slog.String("ID", placed.ID), slog.String("total", placed.Total.Formatted))
	web.RespondJSON(w, mLogger, http.StatusCreated, placed)
}

// CancelOrder cancels an order. Orders that are already delivered or
// cancelled are returned unchanged.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := r.PathValue("id")
	cancelled, err := h.service.CancelOrder(r.Context(), id)
	h.respondOrder(w, r, mLogger, id, cancelled, err, "Failed to cancel order with ID %s")
}

// AdvanceOrder moves an order one fulfillment stage forward.
func (h *Handler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := r.PathValue("id")
	advanced, err := h.service.AdvanceOrder(r.Context(), id)
	h.respondOrder(w, r, mLogger, id, advanced, err, "Failed to advance order with ID %s")
}

func (h *Handler) respondOrder(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, id string, o *service.OrderDto, err error, failure string) {
	if err != nil {
		if errors.Is(err, storeerrors.ErrOrderNotFound) {
			mLogger.WarnContext(r.Context(), "Order not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Order with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error handling order", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf(failure, id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, o)
}
