package kafka

import (
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NotificationEvent is one batch of recipients that share a subject.
type NotificationEvent struct {
	ID         uuid.UUID `json:"id"`
	Subject    string    `json:"subject"`
	Recipients []string  `json:"recipients"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewNotificationEvent(subject string, recipients []string, now time.Time) NotificationEvent {
	return NotificationEvent{
		ID:         uuid.New(),
		Subject:    subject,
		Recipients: recipients,
		CreatedAt:  now.UTC(),
	}
}

func DecodeNotificationEvent(data []byte) (NotificationEvent, error) {
	var event NotificationEvent
	err := json.Unmarshal(data, &event)
	return event, err
}
