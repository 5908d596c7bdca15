package dto

import (
	"strconv"
	"time"

	"swiftremind/internal/domain/audit"
)

type AuditEntryResponse struct {
	ID             string         `json:"id"`
	Action         string         `json:"action"`
	Entity         string         `json:"entity"`
	EntityID       string         `json:"entityId"`
	UserID         string         `json:"userId"`
	UserName       string         `json:"userName"`
	OrganisationID string         `json:"organisationId"`
	Timestamp      time.Time      `json:"timestamp"`
	Details        map[string]any `json:"details,omitempty"`
}

func NewAuditEntryResponse(entry *audit.Entry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:             strconv.FormatInt(entry.ID, 10),
		Action:         entry.Action,
		Entity:         entry.Entity,
		EntityID:       strconv.FormatInt(entry.EntityID, 10),
		UserID:         strconv.FormatInt(entry.UserID, 10),
		UserName:       entry.UserName,
		OrganisationID: strconv.FormatInt(entry.OrganisationID, 10),
		Timestamp:      entry.Timestamp,
		Details:        entry.Details,
	}
}

func NewAuditEntryListResponse(entries []*audit.Entry) []AuditEntryResponse {
	responses := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewAuditEntryResponse(entry))
	}
	return responses
}
