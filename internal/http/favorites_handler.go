package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
	"github.com/monkamherman/restau--foodi-sub000/internal/favorites"
	"github.com/monkamherman/restau--foodi-sub000/internal/menu"
)

type FavoritesHandler struct {
	svc     *favorites.Service
	menu    *menu.Service
	timeout time.Duration
}

func NewFavoritesHandler(svc *favorites.Service, menuSvc *menu.Service, timeout time.Duration) *FavoritesHandler {
	return &FavoritesHandler{svc: svc, menu: menuSvc, timeout: timeout}
}

type AddFavoriteRequestDTO struct {
	ItemID string `json:"item_id"`
}

func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	favs, err := h.svc.List(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load favorites")
		return
	}
	if favs == nil {
		favs = []domain.Favorite{}
	}

	respondJSON(w, http.StatusOK, favs)
}

func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddFavoriteRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ItemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id is required")
		return
	}

	dish, err := h.menu.GetItem(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, menu.ErrItemNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "unknown menu item")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to resolve menu item")
		return
	}

	sessionID := getSessionIDFromContext(r.Context())
	fav := domain.Favorite{
		ItemID:    dish.ID,
		Name:      dish.Name,
		UnitPrice: dish.Price,
		ImageRef:  dish.ImageURL,
		AddedAt:   time.Now(),
	}
	if err := h.svc.Add(ctx, sessionID, fav); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save favorite")
		return
	}

	respondJSON(w, http.StatusCreated, fav)
}

func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID := chi.URLParam(r, "item_id")
	sessionID := getSessionIDFromContext(r.Context())
	if err := h.svc.Remove(ctx, sessionID, itemID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove favorite")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
