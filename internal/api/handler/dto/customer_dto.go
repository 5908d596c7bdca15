package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"swiftremind/internal/domain/customer"
)

type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (r *CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.TrimSpace(r.Phone) == "" {
		return fmt.Errorf("phone cannot be empty")
	}
	return nil
}

type PaymentEntryRequest struct {
	Date      string          `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// UpdateCustomerRequest carries a partial update. Every field is optional;
// absent fields stay untouched.
type UpdateCustomerRequest struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Address        *string `json:"address"`
	BusinessName   *string `json:"businessName"`
	GSTNumber      *string `json:"gstNumber"`
	AlternatePhone *string `json:"alternatePhone"`
	Notes          *string `json:"notes"`

	PendingAmount *decimal.Decimal `json:"pendingAmount"`
	Currency      *string          `json:"currency"`
	PaymentTerms  *string          `json:"paymentTerms"`
	CreditLimit   *decimal.Decimal `json:"creditLimit"`

	LastPaymentDate   *string               `json:"lastPaymentDate"`
	LastPaymentAmount *decimal.Decimal      `json:"lastPaymentAmount"`
	DueDate           *string               `json:"dueDate"`
	PaymentHistory    []PaymentEntryRequest `json:"paymentHistory"`

	CustomerType  *string `json:"customerType"`
	PaymentStatus *string `json:"paymentStatus"`
	RiskLevel     *string `json:"riskLevel"`

	ReminderFrequency      *string `json:"reminderFrequency"`
	PreferredContactMethod *string `json:"preferredContactMethod"`
	AutoReminder           *bool   `json:"autoReminder"`

	Deleted *bool `json:"deleted"`
}

// ToPatch converts the request into a domain patch, parsing dates and
// checking enum fields. Value-level rules (negative amounts, history entry
// completeness) stay with the service's validation gate.
func (r *UpdateCustomerRequest) ToPatch() (*customer.UpdatePatch, error) {
	patch := &customer.UpdatePatch{
		Name:                   r.Name,
		Phone:                  r.Phone,
		Email:                  r.Email,
		Address:                r.Address,
		BusinessName:           r.BusinessName,
		GSTNumber:              r.GSTNumber,
		AlternatePhone:         r.AlternatePhone,
		Notes:                  r.Notes,
		PendingAmount:          r.PendingAmount,
		Currency:               r.Currency,
		PaymentTerms:           r.PaymentTerms,
		CreditLimit:            r.CreditLimit,
		LastPaymentAmount:      r.LastPaymentAmount,
		CustomerType:           r.CustomerType,
		RiskLevel:              r.RiskLevel,
		ReminderFrequency:      r.ReminderFrequency,
		PreferredContactMethod: r.PreferredContactMethod,
		AutoReminder:           r.AutoReminder,
		Deleted:                r.Deleted,
	}

	if r.LastPaymentDate != nil {
		parsed, err := parseDate(*r.LastPaymentDate)
		if err != nil {
			return nil, fmt.Errorf("invalid lastPaymentDate: %w", err)
		}
		patch.LastPaymentDate = parsed
	}
	if r.DueDate != nil {
		parsed, err := parseDate(*r.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid dueDate: %w", err)
		}
		patch.DueDate = parsed
	}

	if r.PaymentStatus != nil {
		status := customer.PaymentStatus(*r.PaymentStatus)
		switch status {
		case customer.StatusCurrent, customer.StatusOverdue, customer.StatusPaid, customer.StatusDelinquent:
			patch.PaymentStatus = &status
		default:
			return nil, fmt.Errorf("invalid paymentStatus %q", *r.PaymentStatus)
		}
	}

	if r.PaymentHistory != nil {
		entries := make([]customer.PaymentEntry, 0, len(r.PaymentHistory))
		for _, e := range r.PaymentHistory {
			entry := customer.PaymentEntry{
				Amount:    e.Amount,
				Method:    e.Method,
				Reference: e.Reference,
				Notes:     e.Notes,
			}
			if e.Date != "" {
				parsed, err := parseDate(e.Date)
				if err != nil {
					return nil, fmt.Errorf("invalid paymentHistory date: %w", err)
				}
				entry.Date = *parsed
			}
			entries = append(entries, entry)
		}
		patch.PaymentHistory = entries
	}

	return patch, nil
}

// IsRestorePayload reports whether a raw PATCH body is exactly
// {"deleted": false} with no other keys. Only that precise shape restores a
// soft-deleted customer; anything else is an ordinary update.
func IsRestorePayload(body []byte) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return false
	}
	if len(fields) != 1 {
		return false
	}
	raw, ok := fields["deleted"]
	if !ok {
		return false
	}
	var deleted bool
	if err := json.Unmarshal(raw, &deleted); err != nil {
		return false
	}
	return !deleted
}

func parseDate(s string) (*time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q (use RFC 3339 or YYYY-MM-DD)", s)
}

type PaymentEntryResponse struct {
	Date      time.Time `json:"date"`
	Amount    string    `json:"amount"`
	Method    string    `json:"method"`
	Reference string    `json:"reference,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

type CustomerResponse struct {
	ID             string `json:"id"`
	OrganisationID string `json:"organisationId"`

	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email,omitempty"`
	Address        string `json:"address,omitempty"`
	BusinessName   string `json:"businessName,omitempty"`
	GSTNumber      string `json:"gstNumber,omitempty"`
	AlternatePhone string `json:"alternatePhone,omitempty"`
	Notes          string `json:"notes,omitempty"`

	PendingAmount string `json:"pendingAmount"`
	Currency      string `json:"currency"`
	PaymentTerms  string `json:"paymentTerms"`
	CreditLimit   string `json:"creditLimit"`

	LastPaymentDate   *time.Time             `json:"lastPaymentDate,omitempty"`
	LastPaymentAmount *string                `json:"lastPaymentAmount,omitempty"`
	DueDate           *time.Time             `json:"dueDate,omitempty"`
	PaymentHistory    []PaymentEntryResponse `json:"paymentHistory"`

	CustomerType  string `json:"customerType"`
	PaymentStatus string `json:"paymentStatus"`
	RiskLevel     string `json:"riskLevel"`

	ReminderFrequency      string `json:"reminderFrequency"`
	PreferredContactMethod string `json:"preferredContactMethod"`
	AutoReminder           bool   `json:"autoReminder"`

	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:                     strconv.FormatInt(cust.CustomerID, 10),
		OrganisationID:         strconv.FormatInt(cust.OrganisationID, 10),
		Name:                   cust.Name,
		Phone:                  cust.Phone,
		Email:                  cust.Email,
		Address:                cust.Address,
		BusinessName:           cust.BusinessName,
		GSTNumber:              cust.GSTNumber,
		AlternatePhone:         cust.AlternatePhone,
		Notes:                  cust.Notes,
		PendingAmount:          cust.PendingAmount.String(),
		Currency:               cust.Currency,
		PaymentTerms:           cust.PaymentTerms,
		CreditLimit:            cust.CreditLimit.String(),
		LastPaymentDate:        cust.LastPaymentDate,
		DueDate:                cust.DueDate,
		PaymentHistory:         make([]PaymentEntryResponse, 0, len(cust.PaymentHistory)),
		CustomerType:           cust.CustomerType,
		PaymentStatus:          string(cust.PaymentStatus),
		RiskLevel:              cust.RiskLevel,
		ReminderFrequency:      cust.ReminderFrequency,
		PreferredContactMethod: cust.PreferredContactMethod,
		AutoReminder:           cust.AutoReminder,
		Deleted:                cust.Deleted,
		CreatedAt:              cust.CreatedAt,
		UpdatedAt:              cust.UpdatedAt,
	}
	if cust.LastPaymentAmount != nil {
		amount := cust.LastPaymentAmount.String()
		resp.LastPaymentAmount = &amount
	}
	for _, entry := range cust.PaymentHistory {
		resp.PaymentHistory = append(resp.PaymentHistory, PaymentEntryResponse{
			Date:      entry.Date,
			Amount:    entry.Amount.String(),
			Method:    entry.Method,
			Reference: entry.Reference,
			Notes:     entry.Notes,
		})
	}
	return resp
}

func NewCustomerListResponse(customers []*customer.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, 0, len(customers))
	for _, cust := range customers {
		responses = append(responses, NewCustomerResponse(cust))
	}
	return responses
}
