package dto_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swiftremind/internal/api/handler/dto"
	"swiftremind/internal/domain/customer"
)

func strPtr(s string) *string { return &s }

func TestIsRestorePayload(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"exact restore shape", `{"deleted": false}`, true},
		{"whitespace tolerated", ` { "deleted" : false } `, true},
		{"deleted true is not a restore", `{"deleted": true}`, false},
		{"extra key disqualifies", `{"deleted": false, "name": "x"}`, false},
		{"wrong key", `{"removed": false}`, false},
		{"non-boolean value", `{"deleted": "false"}`, false},
		{"null value", `{"deleted": null}`, false},
		{"empty object", `{}`, false},
		{"array body", `[{"deleted": false}]`, false},
		{"malformed JSON", `{"deleted": fal`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dto.IsRestorePayload([]byte(tt.body)))
		})
	}
}

func TestUpdateCustomerRequest_ToPatch(t *testing.T) {
	t.Run("parses RFC 3339 and date-only due dates", func(t *testing.T) {
		req := dto.UpdateCustomerRequest{DueDate: strPtr("2026-09-15")}
		patch, err := req.ToPatch()
		require.NoError(t, err)
		require.NotNil(t, patch.DueDate)
		assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), *patch.DueDate)

		req = dto.UpdateCustomerRequest{DueDate: strPtr("2026-09-15T10:30:00Z")}
		patch, err = req.ToPatch()
		require.NoError(t, err)
		assert.Equal(t, 10, patch.DueDate.Hour())
	})

	t.Run("rejects unparseable dates", func(t *testing.T) {
		req := dto.UpdateCustomerRequest{DueDate: strPtr("15/09/2026")}
		_, err := req.ToPatch()
		assert.Error(t, err)
	})

	t.Run("accepts known payment statuses", func(t *testing.T) {
		for _, status := range []string{"Current", "Overdue", "Paid", "Delinquent"} {
			req := dto.UpdateCustomerRequest{PaymentStatus: strPtr(status)}
			patch, err := req.ToPatch()
			require.NoError(t, err)
			require.NotNil(t, patch.PaymentStatus)
			assert.Equal(t, customer.PaymentStatus(status), *patch.PaymentStatus)
		}
	})

	t.Run("rejects unknown payment status", func(t *testing.T) {
		req := dto.UpdateCustomerRequest{PaymentStatus: strPtr("Bankrupt")}
		_, err := req.ToPatch()
		assert.Error(t, err)
	})

	t.Run("converts payment history entries", func(t *testing.T) {
		req := dto.UpdateCustomerRequest{
			PaymentHistory: []dto.PaymentEntryRequest{
				{Date: "2026-08-01", Amount: decimal.NewFromInt(500), Method: "UPI"},
			},
		}
		patch, err := req.ToPatch()
		require.NoError(t, err)
		require.Len(t, patch.PaymentHistory, 1)
		assert.Equal(t, "UPI", patch.PaymentHistory[0].Method)
		assert.True(t, patch.PaymentHistory[0].Amount.Equal(decimal.NewFromInt(500)))
	})

	t.Run("missing history date stays zero for the service to reject", func(t *testing.T) {
		req := dto.UpdateCustomerRequest{
			PaymentHistory: []dto.PaymentEntryRequest{
				{Amount: decimal.NewFromInt(500), Method: "UPI"},
			},
		}
		patch, err := req.ToPatch()
		require.NoError(t, err)
		require.Len(t, patch.PaymentHistory, 1)
		assert.True(t, patch.PaymentHistory[0].Date.IsZero())
	})

	t.Run("empty history slice is distinguishable from absent", func(t *testing.T) {
		req := dto.UpdateCustomerRequest{PaymentHistory: []dto.PaymentEntryRequest{}}
		patch, err := req.ToPatch()
		require.NoError(t, err)
		assert.NotNil(t, patch.PaymentHistory)
		assert.Empty(t, patch.PaymentHistory)

		patch, err = (&dto.UpdateCustomerRequest{}).ToPatch()
		require.NoError(t, err)
		assert.Nil(t, patch.PaymentHistory)
	})
}

func TestNewCustomerResponse(t *testing.T) {
	cust := customer.NewCustomer(42, "Ravi Traders", "+919876543210", "ravi@example.com")
	cust.CustomerID = 5
	cust.PendingAmount = decimal.RequireFromString("1234.56")
	amount := decimal.NewFromInt(200)
	cust.LastPaymentAmount = &amount

	resp := dto.NewCustomerResponse(cust)

	assert.Equal(t, "5", resp.ID)
	assert.Equal(t, "42", resp.OrganisationID)
	assert.Equal(t, "1234.56", resp.PendingAmount)
	require.NotNil(t, resp.LastPaymentAmount)
	assert.Equal(t, "200", *resp.LastPaymentAmount)
	assert.Equal(t, "Current", resp.PaymentStatus)
	assert.NotNil(t, resp.PaymentHistory)
}
