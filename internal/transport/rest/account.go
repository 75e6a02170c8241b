package rest

import (
	"net/http"

	"github.com/abgdnv/freshcart/internal/service"
	"github.com/abgdnv/freshcart/pkg/web"
)

func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.Notifications(r.Context()))
}

func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.MarkAllNotificationsRead(r.Context()))
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.MarkNotificationRead(r.Context(), id))
}

func (h *Handler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.ClearNotifications(r.Context()))
}

func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.Preferences(r.Context()))
}

// UpdatePreferences changes the preferences present in the body.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto service.PreferencesUpdateDto
	if !h.decodeBody(w, r, mLogger, &dto, false) {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, h.service.UpdatePreferences(r.Context(), dto))
}

func (h *Handler) ToggleDarkMode(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.ToggleDarkMode(r.Context()))
}

func (h *Handler) ToggleSidebar(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.ToggleSidebar(r.Context()))
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.Profile(r.Context()))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto service.ProfileUpdateDto
	if !h.decodeBody(w, r, mLogger, &dto, false) {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, h.service.UpdateProfile(r.Context(), dto))
}

func (h *Handler) AddAddress(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto service.AddressCreateDto
	if !h.decodeBody(w, r, mLogger, &dto, false) {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusCreated, h.service.AddAddress(r.Context(), dto))
}

func (h *Handler) RemoveAddress(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.RemoveAddress(r.Context(), id))
}

func (h *Handler) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.SetDefaultAddress(r.Context(), id))
}

func (h *Handler) AddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto service.PaymentMethodCreateDto
	if !h.decodeBody(w, r, mLogger, &dto, false) {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusCreated, h.service.AddPaymentMethod(r.Context(), dto))
}

func (h *Handler) RemovePaymentMethod(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.RemovePaymentMethod(r.Context(), id))
}

func (h *Handler) SetDefaultPaymentMethod(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.service.SetDefaultPaymentMethod(r.Context(), id))
}

// Logout discards the session and returns the fresh profile.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	h.service.Logout(r.Context())
	mLogger.InfoContext(r.Context(), "Session reset")
	web.RespondJSON(w, mLogger, http.StatusOK, h.service.Profile(r.Context()))
}
