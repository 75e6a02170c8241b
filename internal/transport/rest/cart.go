package rest

import (
	"errors"
	"fmt"
	"net/http"

	storeerrors "github.com/abgdnv/freshcart/internal/errors"
	"github.com/abgdnv/freshcart/internal/service"
	"github.com/abgdnv/freshcart/pkg/web"
)

func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.Cart(r.Context()))
}

// AddToCart adds a catalog product to the cart.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto service.AddToCartDto
	if !h.decodeBody(w, r, mLogger, &dto, false) {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to add to cart", "product_id", dto.ProductID, "quantity", dto.Quantity)
	updated, err := h.service.AddToCart(r.Context(), dto)
	if err != nil {
		if errors.Is(err, storeerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", dto.ProductID)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", dto.ProductID))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error adding to cart", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to add product to cart")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

func (h *Handler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseIntID(w, r, mLogger)
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, h.service.IncrementItem(r.Context(), id))
}

func (h *Handler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseIntID(w, r, mLogger)
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, h.service.DecrementItem(r.Context(), id))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseIntID(w, r, mLogger)
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, h.service.RemoveItem(r.Context(), id))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.ClearCart(r.Context()))
}

func (h *Handler) Wishlist(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.Wishlist(r.Context()))
}

func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseIntID(w, r, mLogger)
	if !ok {
		return
	}
	updated, err := h.service.AddToWishlist(r.Context(), id)
	h.respondWishlist(w, r, id, updated, err)
}

func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseIntID(w, r, mLogger)
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, h.service.RemoveFromWishlist(r.Context(), id))
}

func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseIntID(w, r, mLogger)
	if !ok {
		return
	}
	updated, err := h.service.ToggleWishlist(r.Context(), id)
	h.respondWishlist(w, r, id, updated, err)
}

func (h *Handler) respondWishlist(w http.ResponseWriter, r *http.Request, id int, updated *service.WishlistDto, err error) {
	mLogger := h.loggerWithReqID(r)
	if err != nil {
		if errors.Is(err, storeerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating wishlist", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}
