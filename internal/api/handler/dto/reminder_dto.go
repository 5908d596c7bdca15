package dto

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"swiftremind/internal/domain/reminder"
)

type CreateReminderRequest struct {
	CustomerID int64           `json:"customerId"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    string          `json:"dueDate"`
	Notes      string          `json:"notes"`
}

func (r *CreateReminderRequest) Validate() error {
	if r.CustomerID <= 0 {
		return fmt.Errorf("customerId is required")
	}
	if r.DueDate == "" {
		return fmt.Errorf("dueDate cannot be empty")
	}
	return nil
}

func (r *CreateReminderRequest) ParsedDueDate() (time.Time, error) {
	parsed, err := parseDate(r.DueDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid dueDate: %w", err)
	}
	return *parsed, nil
}

type UpdateReminderRequest struct {
	Amount  *decimal.Decimal `json:"amount"`
	DueDate *string          `json:"dueDate"`
	Notes   *string          `json:"notes"`
	Status  *string          `json:"status"`
}

func (r *UpdateReminderRequest) ToPatch() (*reminder.UpdatePatch, error) {
	patch := &reminder.UpdatePatch{
		Amount: r.Amount,
		Notes:  r.Notes,
	}
	if r.DueDate != nil {
		parsed, err := parseDate(*r.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid dueDate: %w", err)
		}
		patch.DueDate = parsed
	}
	if r.Status != nil {
		status := reminder.Status(*r.Status)
		patch.Status = &status
	}
	return patch, nil
}

type ReminderResponse struct {
	ID             string    `json:"id"`
	OrganisationID string    `json:"organisationId"`
	CustomerID     string    `json:"customerId"`
	Amount         string    `json:"amount"`
	DueDate        time.Time `json:"dueDate"`
	Notes          string    `json:"notes,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func NewReminderResponse(rem *reminder.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:             strconv.FormatInt(rem.ReminderID, 10),
		OrganisationID: strconv.FormatInt(rem.OrganisationID, 10),
		CustomerID:     strconv.FormatInt(rem.CustomerID, 10),
		Amount:         rem.Amount.String(),
		DueDate:        rem.DueDate,
		Notes:          rem.Notes,
		Status:         string(rem.Status),
		CreatedAt:      rem.CreatedAt,
		UpdatedAt:      rem.UpdatedAt,
	}
}

func NewReminderListResponse(reminders []*reminder.Reminder) []ReminderResponse {
	responses := make([]ReminderResponse, 0, len(reminders))
	for _, rem := range reminders {
		responses = append(responses, NewReminderResponse(rem))
	}
	return responses
}
