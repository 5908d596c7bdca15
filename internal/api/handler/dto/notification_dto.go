package dto

import (
	"strconv"
	"time"

	"swiftremind/internal/domain/notification"
)

type NotificationResponse struct {
	ID             string    `json:"id"`
	OrganisationID string    `json:"organisationId"`
	CustomerID     string    `json:"customerId"`
	ReminderID     string    `json:"reminderId"`
	Channel        string    `json:"channel"`
	Status         string    `json:"status"`
	Message        string    `json:"message"`
	SentAt         time.Time `json:"sentAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

func NewNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:             strconv.FormatInt(n.NotificationID, 10),
		OrganisationID: strconv.FormatInt(n.OrganisationID, 10),
		CustomerID:     strconv.FormatInt(n.CustomerID, 10),
		ReminderID:     strconv.FormatInt(n.ReminderID, 10),
		Channel:        string(n.Channel),
		Status:         string(n.Status),
		Message:        n.Message,
		SentAt:         n.SentAt,
		CreatedAt:      n.CreatedAt,
	}
}

func NewNotificationListResponse(notifications []*notification.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, NewNotificationResponse(n))
	}
	return responses
}
