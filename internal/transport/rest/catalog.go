package rest

import (
	"errors"
	"fmt"
	"net/http"

	storeerrors "github.com/abgdnv/freshcart/internal/errors"
	"github.com/abgdnv/freshcart/pkg/web"
)

// Products lists catalog products, filtered by the category and q query parameters.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	category := r.URL.Query().Get("category")
	query := r.URL.Query().Get("q")
	mLogger.DebugContext(r.Context(), "Received request to list products", "category", category, "q", query)
	web.RespondJSON(w, mLogger, http.StatusOK, h.service.Products(r.Context(), category, query))
}

// Product retrieves a product by its ID.
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseIntID(w, r, mLogger)
	if !ok {
		return
	}
	found, err := h.service.Product(r.Context(), id)
	if err != nil {
		if errors.Is(err, storeerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.Categories(r.Context()))
}

func (h *Handler) Banners(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.Banners(r.Context()))
}

// Plans lists subscription plans, optionally filtered by the frequency query parameter.
func (h *Handler) Plans(w http.ResponseWriter, r *http.Request) {
	frequency := r.URL.Query().Get("frequency")
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.Plans(r.Context(), frequency))
}

func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := r.PathValue("id")
	found, err := h.service.Plan(r.Context(), id)
	if err != nil {
		if errors.Is(err, storeerrors.ErrPlanNotFound) {
			mLogger.WarnContext(r.Context(), "Plan not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Plan with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving plan", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve plan with ID %s", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}
