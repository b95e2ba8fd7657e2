package model

import "github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"

// Target identifies one moderatable item across the heterogeneous content stores.
type Target struct {
	Kind enums.ContentKind `json:"kind"`
	ID   string            `json:"id"`
}

func (t Target) Key() string {
	return string(t.Kind) + ":" + t.ID
}
