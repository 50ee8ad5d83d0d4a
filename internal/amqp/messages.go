package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// DatasetImportedMessage announces that a new import replaced the stored
// funding records. Consumers reload from storage; the message carries no rows.
type DatasetImportedMessage struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Rows      int       `json:"rows"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDatasetImportedMessage creates a message stamped with the current time.
func NewDatasetImportedMessage(id, source string, rows int) *DatasetImportedMessage {
	return &DatasetImportedMessage{
		ID:        id,
		Source:    source,
		Rows:      rows,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DatasetImportedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DatasetImportedMessageFromJSON decodes a message. A message without an
// import id is malformed.
func DatasetImportedMessageFromJSON(data []byte) (*DatasetImportedMessage, error) {
	var msg DatasetImportedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, errors.New("dataset imported message without id")
	}
	return &msg, nil
}
