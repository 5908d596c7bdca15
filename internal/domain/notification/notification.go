package notification

import "time"

type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

type Status string

const (
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// Notification records one reminder delivery attempt. Rows are written by the
// dispatch job; the API only reads them.
type Notification struct {
	NotificationID int64
	OrganisationID int64
	CustomerID     int64
	ReminderID     int64

	Channel Channel
	Status  Status
	Message string

	SentAt    time.Time
	CreatedAt time.Time
}

// ChannelFor maps a customer's preferred contact method onto a delivery
// channel. Anything that is not a phone preference goes out as email.
func ChannelFor(preferredContactMethod string) Channel {
	switch preferredContactMethod {
	case "SMS", "WhatsApp", "Phone":
		return ChannelSMS
	default:
		return ChannelEmail
	}
}
