// Package payments implements the payment method registry and the
// per-provider checkout flow state machine. Provider communication is
// entirely simulated; no real gateway is contacted.
package payments

import (
	"errors"

	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
)

var ErrUnknownProvider = errors.New("unknown payment provider")

// providerTable is the fixed ordered set of payment channels. Display
// metadata only, no behavior.
var providerTable = []domain.Provider{
	{
		ID:          domain.ProviderMTNMoMo,
		Name:        "MTN Mobile Money",
		Icon:        "smartphone",
		Color:       "#FFCC00",
		Description: "Paiement via votre compte MTN MoMo",
		Category:    domain.CategoryMobileMoney,
	},
	{
		ID:          domain.ProviderOrangeMoney,
		Name:        "Orange Money",
		Icon:        "smartphone",
		Color:       "#FF6600",
		Description: "Paiement via votre compte Orange Money",
		Category:    domain.CategoryMobileMoney,
	},
	{
		ID:          domain.ProviderMastercard,
		Name:        "Mastercard",
		Icon:        "credit-card",
		Color:       "#EB001B",
		Description: "Carte bancaire Mastercard",
		Category:    domain.CategoryCard,
	},
	{
		ID:          domain.ProviderVisa,
		Name:        "Visa",
		Icon:        "credit-card",
		Color:       "#1A1F71",
		Description: "Carte bancaire Visa",
		Category:    domain.CategoryCard,
	},
}

// Providers returns the fixed ordered set of payment providers.
func Providers() []domain.Provider {
	out := make([]domain.Provider, len(providerTable))
	copy(out, providerTable)
	return out
}

// ProviderGroup is one display grouping of providers.
type ProviderGroup struct {
	Category  domain.ProviderCategory `json:"category"`
	Providers []domain.Provider       `json:"providers"`
}

// Groups partitions the providers by category for display, mobile money
// first. Pure, no side effects.
func Groups() []ProviderGroup {
	groups := []ProviderGroup{
		{Category: domain.CategoryMobileMoney},
		{Category: domain.CategoryCard},
	}
	for _, p := range providerTable {
		for i := range groups {
			if groups[i].Category == p.Category {
				groups[i].Providers = append(groups[i].Providers, p)
			}
		}
	}
	return groups
}

// Lookup fetches one provider by id.
func Lookup(id domain.ProviderID) (domain.Provider, error) {
	for _, p := range providerTable {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Provider{}, ErrUnknownProvider
}
