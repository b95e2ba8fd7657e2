package model

import (
	"time"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
)

// Content is the common moderatable shape every kind-specific store maps
// its documents into. Response kinds (comment, review) carry Excerpt
// instead of Title/Slug and have an empty PublishStatus.
type Content struct {
	ID               string                 `json:"id"`
	Kind             enums.ContentKind      `json:"kind"`
	OwnerID          string                 `json:"owner_id"`
	Title            string                 `json:"title,omitempty"`
	Slug             string                 `json:"slug,omitempty"`
	Excerpt          string                 `json:"excerpt,omitempty"`
	AssetKey         string                 `json:"-"`
	PublishStatus    enums.PublishStatus    `json:"publish_status,omitempty"`
	ModerationStatus enums.ModerationStatus `json:"moderation_status"`
	ModerationReason *string                `json:"moderation_reason,omitempty"`
	ModerationNote   *string                `json:"moderation_note,omitempty"`
	ModeratedBy      *string                `json:"moderated_by,omitempty"`
	ModeratedAt      *time.Time             `json:"moderated_at,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

func (c Content) Target() Target {
	return Target{Kind: c.Kind, ID: c.ID}
}
