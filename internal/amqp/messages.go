package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"gagyebu/internal/core"
)

// ReportMessage announces a built report so it can be exported.
type ReportMessage struct {
	ID           string             `json:"id"`
	SessionID    string             `json:"sessionId"`
	Filename     string             `json:"filename"`
	Range        core.DateRange     `json:"range"`
	Transactions int                `json:"transactions"`
	Groups       []core.GroupReport `json:"groups"`
	Timestamp    time.Time          `json:"timestamp"`
}

// NewReportMessage creates a message with a fresh id for the given report.
func NewReportMessage(sessionID, filename string, rng core.DateRange, transactions int, report core.AggregateReport) *ReportMessage {
	return &ReportMessage{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		Filename:     filename,
		Range:        rng,
		Transactions: transactions,
		Groups:       append([]core.GroupReport(nil), report.Groups...),
		Timestamp:    time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportMessageFromJSON decodes a message and checks its required fields.
func ReportMessageFromJSON(data []byte) (*ReportMessage, error) {
	var msg ReportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, errors.New("report message without id")
	}
	return &msg, nil
}
