package dto

type ModerateRequest struct {
	Action string  `json:"action"`
	Reason string  `json:"reason,omitempty"`
	Note   *string `json:"note,omitempty"`
}

type FastHideRequest struct {
	Reason string  `json:"reason,omitempty"`
	Note   *string `json:"note,omitempty"`
}

type BulkTarget struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

type BulkModerateRequest struct {
	Action  string       `json:"action"`
	Reason  string       `json:"reason,omitempty"`
	Note    *string      `json:"note,omitempty"`
	Confirm bool         `json:"confirm,omitempty"`
	Items   []BulkTarget `json:"items"`
}
