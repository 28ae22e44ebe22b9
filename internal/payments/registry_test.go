package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
)

func TestProviders_FixedOrderedSet(t *testing.T) {
	providers := Providers()

	require.Len(t, providers, 4)
	assert.Equal(t, domain.ProviderMTNMoMo, providers[0].ID)
	assert.Equal(t, domain.ProviderOrangeMoney, providers[1].ID)
	assert.Equal(t, domain.ProviderMastercard, providers[2].ID)
	assert.Equal(t, domain.ProviderVisa, providers[3].ID)
}

func TestProviders_ReturnsCopy(t *testing.T) {
	providers := Providers()
	providers[0].Name = "mutated"

	assert.Equal(t, "MTN Mobile Money", Providers()[0].Name)
}

func TestGroups_PartitionsByCategory(t *testing.T) {
	groups := Groups()

	require.Len(t, groups, 2)
	assert.Equal(t, domain.CategoryMobileMoney, groups[0].Category)
	assert.Len(t, groups[0].Providers, 2)
	assert.Equal(t, domain.CategoryCard, groups[1].Category)
	assert.Len(t, groups[1].Providers, 2)
}

func TestLookup(t *testing.T) {
	p, err := Lookup(domain.ProviderOrangeMoney)
	require.NoError(t, err)
	assert.Equal(t, "Orange Money", p.Name)

	_, err = Lookup("paypal")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestRules_EveryProviderHasRules(t *testing.T) {
	for _, p := range Providers() {
		rules, ok := rulesTable[p.ID]
		require.True(t, ok, "provider %s has no rules", p.ID)

		switch p.Category {
		case domain.CategoryMobileMoney:
			assert.NotEmpty(t, rules.phonePrefixes)
		case domain.CategoryCard:
			assert.NotNil(t, rules.cardPrefix)
		}
	}
}
