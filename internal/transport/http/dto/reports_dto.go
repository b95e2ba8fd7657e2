package dto

type SubmitReportRequest struct {
	Kind   string  `json:"kind"`
	ID     string  `json:"id"`
	Reason string  `json:"reason"`
	Note   *string `json:"note,omitempty"`
}

type SubmitReportResponse struct {
	OK bool `json:"ok"`
}
