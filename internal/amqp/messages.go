package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	OpSync   = "sync"
	OpDelete = "delete"
)

// Message is the lightweight mirror instruction published for a transaction.
// It carries only the operation and the document id; the worker fetches the
// full document from the local store when replaying a sync.
type Message struct {
	Op        string    `json:"op"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSyncMessage marks a transaction as needing a mirror write.
func NewSyncMessage(id string) *Message {
	return &Message{Op: OpSync, ID: id, Timestamp: time.Now()}
}

// NewDeleteMessage marks a transaction as deleted locally.
func NewDeleteMessage(id string) *Message {
	return &Message{Op: OpDelete, ID: id, Timestamp: time.Now()}
}

// Validate checks the message carries a known operation and an id.
func (m *Message) Validate() error {
	if m.Op != OpSync && m.Op != OpDelete {
		return fmt.Errorf("unknown op %q", m.Op)
	}
	if m.ID == "" {
		return fmt.Errorf("missing id")
	}
	return nil
}

// ToJSON converts the message to JSON bytes.
func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes.
func FromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
