package events

import (
	"encoding/json"
	"time"
)

// Run kinds and statuses carried by lifecycle messages.
const (
	KindExport = "export"
	KindImport = "import"
	KindClear  = "clear"

	StatusStarted   = "started"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunMessage announces the lifecycle of one backup operation. Consumers use
// it for notification only; the message carries no record data.
type RunMessage struct {
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	Expenses  int       `json:"expenses"`
	Budgets   int       `json:"budgets"`
	Savings   int       `json:"savings"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRunMessage(kind, status string) *RunMessage {
	return &RunMessage{
		Kind:      kind,
		Status:    status,
		Timestamp: time.Now(),
	}
}

func (m *RunMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RunMessageFromJSON(data []byte) (*RunMessage, error) {
	var msg RunMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
