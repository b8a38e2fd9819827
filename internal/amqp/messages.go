package amqp

import (
	"encoding/json"
	"time"
)

// InvalidationMessage tells consumers that the cash book for one month must
// be rebuilt. It carries only the affected period; consumers re-read the
// source collections themselves, so a stale message can never replay stale
// data.
type InvalidationMessage struct {
	Year      int        `json:"year"`
	Month     time.Month `json:"month"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewInvalidationMessage creates an invalidation message for the given period.
func NewInvalidationMessage(year int, month time.Month) *InvalidationMessage {
	return &InvalidationMessage{
		Year:      year,
		Month:     month,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *InvalidationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// InvalidationMessageFromJSON creates a message from JSON bytes
func InvalidationMessageFromJSON(data []byte) (*InvalidationMessage, error) {
	var msg InvalidationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
