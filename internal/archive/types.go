package archive

import (
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/flight-intent/internal/extraction"
)

// Intent is a booking intent the traveller confirmed.
type Intent struct {
	ID          uuid.UUID             `json:"id"`
	SessionID   string                `json:"session_id"`
	Record      extraction.SlotRecord `json:"record"`
	Turns       int                   `json:"turns"`
	ConfirmedAt time.Time             `json:"confirmed_at"`
}

// NewIntent stamps a confirmed record with a fresh id.
func NewIntent(sessionID string, record extraction.SlotRecord, turns int, at time.Time) Intent {
	return Intent{
		ID:          uuid.New(),
		SessionID:   sessionID,
		Record:      record.Clone(),
		Turns:       turns,
		ConfirmedAt: at.UTC(),
	}
}
