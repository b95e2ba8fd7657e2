package model

import (
	"time"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
)

// ModerationEvent is one row of the append-only moderation ledger.
// Rows are written exactly once per applied action and never mutated.
type ModerationEvent struct {
	ID         string                 `json:"id"`
	TargetKind enums.ContentKind      `json:"target_kind"`
	TargetID   string                 `json:"target_id"`
	ActorID    string                 `json:"actor_id"`
	Action     enums.ModerationAction `json:"action"`
	FromStatus enums.ModerationStatus `json:"from_status"`
	ToStatus   enums.ModerationStatus `json:"to_status"`
	ReasonText string                 `json:"reason_text"`
	Note       *string                `json:"note,omitempty"`
	Metadata   map[string]any         `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}
