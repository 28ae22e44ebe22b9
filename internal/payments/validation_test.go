package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
)

var testNow = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

func TestValidatePhone_MTNPrefixes(t *testing.T) {
	rules := rulesTable[domain.ProviderMTNMoMo]

	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{"prefix 67", "671234567", true},
		{"prefix 68", "681234567", true},
		{"prefix 65", "651234567", true},
		{"prefix 61 rejected", "612345678", false},
		{"too short", "67123456", false},
		{"too long", "6712345678", false},
		{"letters", "67123456a", false},
		{"spaces stripped", "67 123 45 67", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rules.validatePhone(domain.MobileMoneyInput{PhoneNumber: tt.phone})
			if tt.valid {
				assert.Nil(t, err)
			} else {
				require.NotNil(t, err)
				assert.Equal(t, CodeBadPhone, err.Code)
				assert.Equal(t, "phone_number", err.Field)
			}
		})
	}
}

func TestValidatePhone_OrangeAcceptsAnySixPrefix(t *testing.T) {
	rules := rulesTable[domain.ProviderOrangeMoney]

	assert.Nil(t, rules.validatePhone(domain.MobileMoneyInput{PhoneNumber: "612345678"}))
	assert.Nil(t, rules.validatePhone(domain.MobileMoneyInput{PhoneNumber: "691234567"}))
	assert.NotNil(t, rules.validatePhone(domain.MobileMoneyInput{PhoneNumber: "712345678"}))
}

func validCard() domain.CardInput {
	return domain.CardInput{
		HolderName: "A. Mbarga",
		Number:     "4111111111111111",
		Expiry:     "12/27",
		CVV:        "123",
	}
}

func TestValidateCard_NetworkMismatchBeforeLength(t *testing.T) {
	rules := rulesTable[domain.ProviderVisa]

	// A well-formed 16-digit Mastercard number against Visa must report a
	// network mismatch, not a length error.
	input := validCard()
	input.Number = "5105105105105100"

	err := rules.validateCard(input, testNow)
	require.NotNil(t, err)
	assert.Equal(t, CodeNetworkMismatch, err.Code)
}

func TestValidateCard_OrderOfChecks(t *testing.T) {
	rules := rulesTable[domain.ProviderMastercard]

	tests := []struct {
		name   string
		mutate func(*domain.CardInput)
		code   string
	}{
		{"wrong network", func(c *domain.CardInput) { c.Number = "4111111111111111" }, CodeNetworkMismatch},
		{"right prefix wrong length", func(c *domain.CardInput) { c.Number = "51051051051051" }, CodeBadLength},
		{"expired", func(c *domain.CardInput) { c.Expiry = "08/26" }, CodeBadExpiry},
		{"bad expiry format", func(c *domain.CardInput) { c.Expiry = "13/27" }, CodeBadExpiry},
		{"bad cvv", func(c *domain.CardInput) { c.CVV = "12" }, CodeBadCVV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCard()
			input.Number = "5105105105105100"
			tt.mutate(&input)

			err := rules.validateCard(input, testNow)
			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
		})
	}
}

func TestValidateCard_CurrentMonthStillValid(t *testing.T) {
	rules := rulesTable[domain.ProviderMastercard]

	input := validCard()
	input.Number = "5105105105105100"
	input.Expiry = "09/26" // same month as testNow

	assert.Nil(t, rules.validateCard(input, testNow))
}

func TestValidateCard_SpacedNumberAccepted(t *testing.T) {
	rules := rulesTable[domain.ProviderVisa]

	input := validCard()
	input.Number = "4111 1111 1111 1111"

	assert.Nil(t, rules.validateCard(input, testNow))
}
