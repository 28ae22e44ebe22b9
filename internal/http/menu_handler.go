package http

import (
	"context"
	"net/http"
	"time"

	"github.com/monkamherman/restau--foodi-sub000/internal/menu"
)

type MenuHandler struct {
	menu    *menu.Service
	timeout time.Duration
}

func NewMenuHandler(menuSvc *menu.Service, timeout time.Duration) *MenuHandler {
	return &MenuHandler{menu: menuSvc, timeout: timeout}
}

func (h *MenuHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.menu.ListItems(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load menu")
		return
	}

	respondJSON(w, http.StatusOK, items)
}
