package validation_test

import (
	"errors"
	"testing"

	"github.com/stackvalue/portfolio-tracker/internal/api/request"
	"github.com/stackvalue/portfolio-tracker/internal/validation"
)

func TestValidateSymbol(t *testing.T) {
	valid := []string{"AAPL", "BRK.B", "BF-B", "9988", "V"}
	for _, symbol := range valid {
		if err := validation.ValidateSymbol(symbol); err != nil {
			t.Errorf("Expected %q to be valid, got: %v", symbol, err)
		}
	}

	invalid := []string{"", "  ", "aapl", "TOOLONGSYMBOL", "AA PL", "AA$L"}
	for _, symbol := range invalid {
		if err := validation.ValidateSymbol(symbol); err == nil {
			t.Errorf("Expected %q to be rejected", symbol)
		}
	}
}

func TestValidateCreateTransaction(t *testing.T) {
	base := func() request.CreateTransactionRequest {
		return request.CreateTransactionRequest{
			PortfolioID: "550e8400-e29b-41d4-a716-446655440000",
			Symbol:      "AAPL",
			Quantity:    100,
			Price:       150.25,
			Type:        "BUY",
			Date:        "2026-08-31",
		}
	}

	t.Run("accepts valid request", func(t *testing.T) {
		if err := validation.ValidateCreateTransaction(base()); err != nil {
			t.Errorf("Expected valid request, got: %v", err)
		}
	})

	t.Run("accepts empty date", func(t *testing.T) {
		req := base()
		req.Date = ""
		if err := validation.ValidateCreateTransaction(req); err != nil {
			t.Errorf("Expected valid request without date, got: %v", err)
		}
	})

	t.Run("rejects malformed portfolio id", func(t *testing.T) {
		req := base()
		req.PortfolioID = "not-a-uuid"
		if err := validation.ValidateCreateTransaction(req); err == nil {
			t.Error("Expected validation error")
		}
	})

	tests := []struct {
		name    string
		mutate  func(*request.CreateTransactionRequest)
		wantKey string
	}{
		{"zero quantity", func(r *request.CreateTransactionRequest) { r.Quantity = 0 }, "quantity"},
		{"negative quantity", func(r *request.CreateTransactionRequest) { r.Quantity = -5 }, "quantity"},
		{"zero price", func(r *request.CreateTransactionRequest) { r.Price = 0 }, "price"},
		{"unknown type", func(r *request.CreateTransactionRequest) { r.Type = "SHORT" }, "type"},
		{"missing type", func(r *request.CreateTransactionRequest) { r.Type = "" }, "type"},
		{"missing symbol", func(r *request.CreateTransactionRequest) { r.Symbol = "" }, "symbol"},
		{"US date format", func(r *request.CreateTransactionRequest) { r.Date = "08/31/2026" }, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(&req)

			err := validation.ValidateCreateTransaction(req)
			if err == nil {
				t.Fatal("Expected validation error")
			}

			var vErr *validation.Error
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected *validation.Error, got %T", err)
			}
			if _, ok := vErr.Fields[tt.wantKey]; !ok {
				t.Errorf("Expected error on field %q, got %v", tt.wantKey, vErr.Fields)
			}
		})
	}
}

func TestValidateCreateSecurity(t *testing.T) {
	t.Run("accepts valid request", func(t *testing.T) {
		req := request.CreateSecurityRequest{Symbol: "MSFT", Currency: "USD"}
		if err := validation.ValidateCreateSecurity(req); err != nil {
			t.Errorf("Expected valid request, got: %v", err)
		}
	})

	t.Run("rejects bad currency code", func(t *testing.T) {
		req := request.CreateSecurityRequest{Symbol: "MSFT", Currency: "DOLLARS"}
		if err := validation.ValidateCreateSecurity(req); err == nil {
			t.Error("Expected validation error")
		}
	})
}

func TestValidateCreatePortfolio(t *testing.T) {
	t.Run("requires name", func(t *testing.T) {
		if err := validation.ValidateCreatePortfolio(request.CreatePortfolioRequest{}); err == nil {
			t.Error("Expected validation error for missing name")
		}
	})

	t.Run("rejects oversized name", func(t *testing.T) {
		req := request.CreatePortfolioRequest{Name: string(make([]byte, 101))}
		if err := validation.ValidateCreatePortfolio(req); err == nil {
			t.Error("Expected validation error for oversized name")
		}
	})
}
