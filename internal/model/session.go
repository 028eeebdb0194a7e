package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionState is the full mutable state of one intake session. It is
// passed into and returned from every orchestration call; the engine keeps
// no state of its own, so independent sessions never share data.
type SessionState struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id,omitempty"`
	Phase      Phase     `json:"phase"`
	Fields     FieldSet  `json:"fields"`
	CanProceed bool      `json:"can_proceed"` // last evaluation, for transition detection
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewSession creates an empty session starting at phase p1.
func NewSession() *SessionState {
	now := time.Now().UTC()
	return &SessionState{
		ID:        uuid.New().String(),
		Phase:     PhaseBasicInfo,
		Fields:    make(FieldSet),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
