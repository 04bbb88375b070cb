package amqp

import (
	"encoding/json"
	"time"
)

// Operations carried by EntryChangeMessage.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// EntryChangeMessage tells the backup worker that an entry changed.
// It carries only the id and operation; the worker reads current state
// from the database when it rebuilds the snapshot.
type EntryChangeMessage struct {
	ID        string    `json:"id"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntryChangeMessage(id, op string) *EntryChangeMessage {
	return &EntryChangeMessage{
		ID:        id,
		Op:        op,
		Timestamp: time.Now(),
	}
}

func (m *EntryChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntryChangeMessageFromJSON(data []byte) (*EntryChangeMessage, error) {
	var msg EntryChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
