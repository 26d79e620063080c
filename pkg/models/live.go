package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type LiveMessageType string

const (
	LiveNotulenUpdated   LiveMessageType = "notulen_updated"
	LiveNotulenFinalized LiveMessageType = "notulen_finalized"
	LiveNotulenArchived  LiveMessageType = "notulen_archived"
	LiveNotulenDeleted   LiveMessageType = "notulen_deleted"
	LiveWelcome          LiveMessageType = "welcome"
	LivePing             LiveMessageType = "ping"
	LivePong             LiveMessageType = "pong"
	LiveError            LiveMessageType = "error"

	// Commands sent by clients.
	LiveUpdateNotulen   LiveMessageType = "update_notulen"
	LiveFinalizeNotulen LiveMessageType = "finalize_notulen"
)

// LiveMessage is the JSON frame exchanged on the notulen socket, tagged by Type.
type LiveMessage struct {
	Type      LiveMessageType `json:"type"`
	NotulenID string          `json:"notulen_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Message   string          `json:"message,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewLiveMessage(t LiveMessageType, notulenID string, data interface{}) (LiveMessage, error) {
	msg := LiveMessage{Type: t, NotulenID: notulenID, Timestamp: time.Now().UTC()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return msg, fmt.Errorf("failed to encode %s payload: %w", t, err)
		}
		msg.Data = raw
	}
	return msg, nil
}

// Notulen decodes the payload of notulen_updated, notulen_finalized and notulen_archived.
func (m LiveMessage) Notulen() (*Notulen, error) {
	switch m.Type {
	case LiveNotulenUpdated, LiveNotulenFinalized, LiveNotulenArchived:
	default:
		return nil, fmt.Errorf("message type %q carries no notulen", m.Type)
	}
	var n Notulen
	if err := json.Unmarshal(m.Data, &n); err != nil {
		return nil, fmt.Errorf("failed to decode notulen payload: %w", err)
	}
	return &n, nil
}
