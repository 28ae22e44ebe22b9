package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Favorite is a dish pinned by a visitor for quick re-ordering.
type Favorite struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageRef  string          `json:"image_ref,omitempty"`
	AddedAt   time.Time       `json:"added_at"`
}

// FavoritesState is the per-session favorites snapshot, the second storage
// key next to the cart snapshot.
type FavoritesState struct {
	SessionID string     `json:"session_id"`
	Favorites []Favorite `json:"favorites"`
	UpdatedAt time.Time  `json:"updated_at"`
}
