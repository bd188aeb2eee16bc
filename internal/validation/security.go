package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/stackvalue/portfolio-tracker/internal/api/request"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,10}$`)

// ValidateSymbol checks that a ticker symbol is present and well-formed:
// 1-10 uppercase characters, digits, dots or dashes.
func ValidateSymbol(symbol string) error {
	if strings.TrimSpace(symbol) == "" {
		return fmt.Errorf("symbol is required")
	}
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("invalid symbol: %s", symbol)
	}
	return nil
}

// ValidateCreateSecurity validates a security creation request.
//
// Required fields:
//   - symbol: 1-10 uppercase characters, digits, dots or dashes
//
// Optional fields:
//   - currency: Must be a 3-letter code if provided
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateSecurity(req request.CreateSecurityRequest) error {
	errors := make(map[string]string)

	if err := ValidateSymbol(req.Symbol); err != nil {
		errors["symbol"] = err.Error()
	}

	if req.Currency != "" && len(req.Currency) != 3 {
		errors["currency"] = fmt.Sprintf("invalid currency code: %s", req.Currency)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
