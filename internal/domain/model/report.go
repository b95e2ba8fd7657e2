package model

import (
	"time"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
)

// Report is a single user's complaint about one target. At most one row
// exists per (reporter, target); re-reporting reopens the existing row.
type Report struct {
	ID               string             `json:"id"`
	ReporterID       string             `json:"reporter_id"`
	TargetKind       enums.ContentKind  `json:"target_kind"`
	TargetID         string             `json:"target_id"`
	Reason           enums.ReportReason `json:"reason"`
	Note             *string            `json:"note,omitempty"`
	Status           enums.ReportStatus `json:"status"`
	ReviewedBy       *string            `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time         `json:"reviewed_at,omitempty"`
	ResolutionAction *string            `json:"resolution_action,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}
