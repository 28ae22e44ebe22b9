package payments

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/monkamherman/restau--foodi-sub000/internal/domain"
)

// Validation error codes, stable across message wording changes.
const (
	CodeBadPhone        = "bad_phone"
	CodeNetworkMismatch = "network_mismatch"
	CodeBadLength       = "bad_length"
	CodeBadExpiry       = "bad_expiry"
	CodeBadCVV          = "bad_cvv"
)

// ValidationError is a recoverable field-level input error. The flow stays
// in collecting-input when one is returned.
type ValidationError struct {
	Field   string
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const phoneLength = 9

// providerRules holds the data-driven validation rules per provider. The
// four flows share one state machine shape and differ only here.
type providerRules struct {
	phonePrefixes []string
	cardPrefix    *regexp.Regexp
}

var rulesTable = map[domain.ProviderID]providerRules{
	domain.ProviderMTNMoMo:     {phonePrefixes: []string{"67", "68", "65"}},
	domain.ProviderOrangeMoney: {phonePrefixes: []string{"6"}},
	domain.ProviderMastercard:  {cardPrefix: regexp.MustCompile(`^5[1-5]`)},
	domain.ProviderVisa:        {cardPrefix: regexp.MustCompile(`^4`)},
}

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

func stripSpaces(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}

// validatePhone checks a mobile-money number against the provider's
// national prefix rule: exactly nine digits, matching prefix.
func (r providerRules) validatePhone(input domain.MobileMoneyInput) *ValidationError {
	phone := stripSpaces(input.PhoneNumber)

	if len(phone) != phoneLength || !digitsOnly.MatchString(phone) {
		return &ValidationError{
			Field:   "phone_number",
			Code:    CodeBadPhone,
			Message: fmt.Sprintf("le numéro doit comporter %d chiffres", phoneLength),
		}
	}

	for _, prefix := range r.phonePrefixes {
		if strings.HasPrefix(phone, prefix) {
			return nil
		}
	}

	return &ValidationError{
		Field:   "phone_number",
		Code:    CodeBadPhone,
		Message: "ce numéro n'appartient pas à cet opérateur",
	}
}

// validateCard checks the card fields in order, first failure wins:
// issuer prefix, then digit count, then expiry, then CVV. The prefix check
// runs before the length check so a well-formed number of the wrong network
// reports a mismatch, not a length error.
func (r providerRules) validateCard(input domain.CardInput, now time.Time) *ValidationError {
	number := stripSpaces(input.Number)

	if !digitsOnly.MatchString(number) || !r.cardPrefix.MatchString(number) {
		return &ValidationError{
			Field:   "number",
			Code:    CodeNetworkMismatch,
			Message: "le numéro ne correspond pas au réseau sélectionné",
		}
	}

	if len(number) != 16 {
		return &ValidationError{
			Field:   "number",
			Code:    CodeBadLength,
			Message: "le numéro de carte doit comporter 16 chiffres",
		}
	}

	if err := validateExpiry(input.Expiry, now); err != nil {
		return err
	}

	cvv := stripSpaces(input.CVV)
	if len(cvv) != 3 || !digitsOnly.MatchString(cvv) {
		return &ValidationError{
			Field:   "cvv",
			Code:    CodeBadCVV,
			Message: "le CVV doit comporter 3 chiffres",
		}
	}

	return nil
}

// validateExpiry parses MM/YY and rejects months strictly before the
// current one.
func validateExpiry(expiry string, now time.Time) *ValidationError {
	badExpiry := &ValidationError{
		Field:   "expiry",
		Code:    CodeBadExpiry,
		Message: "date d'expiration invalide ou dépassée",
	}

	parts := strings.Split(stripSpaces(expiry), "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return badExpiry
	}
	if !digitsOnly.MatchString(parts[0]) || !digitsOnly.MatchString(parts[1]) {
		return badExpiry
	}

	month := int(parts[0][0]-'0')*10 + int(parts[0][1]-'0')
	year := 2000 + int(parts[1][0]-'0')*10 + int(parts[1][1]-'0')
	if month < 1 || month > 12 {
		return badExpiry
	}

	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return badExpiry
	}

	return nil
}
