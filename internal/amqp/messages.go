package amqp

import (
	"encoding/json"
	"time"
)

// ReportJobMessage asks the worker to generate one financial report. It
// carries only the job coordinates; the worker fetches the month data from
// the store itself.
type ReportJobMessage struct {
	UserID    string    `json:"userId"`
	Year      int       `json:"year"`
	Month     string    `json:"month"`
	Plan      string    `json:"plan"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportJobMessage creates a job message for the given period.
func NewReportJobMessage(userID string, year int, month, plan string) *ReportJobMessage {
	return &ReportJobMessage{
		UserID:    userID,
		Year:      year,
		Month:     month,
		Plan:      plan,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportJobMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportJobMessageFromJSON creates a message from JSON bytes
func ReportJobMessageFromJSON(data []byte) (*ReportJobMessage, error) {
	var msg ReportJobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
