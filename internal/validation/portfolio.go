package validation

import "github.com/stackvalue/portfolio-tracker/internal/api/request"

// ValidateCreatePortfolio validates a portfolio creation request.
// Only the name is required; style and risk tolerance are free-form
// descriptive fields with service-side defaults.
func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	errors := make(map[string]string)

	if req.Name == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be at most 100 characters"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdatePortfolio validates a portfolio update request.
// All fields are optional, but a provided name must not be empty.
func ValidateUpdatePortfolio(req request.UpdatePortfolioRequest) error {
	errors := make(map[string]string)

	if req.Name != nil {
		if *req.Name == "" {
			errors["name"] = "name cannot be empty"
		} else if len(*req.Name) > 100 {
			errors["name"] = "name must be at most 100 characters"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
