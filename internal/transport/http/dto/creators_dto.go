package dto

type ApplyControlRequest struct {
	Control string `json:"control"`
	Enabled bool   `json:"enabled"`
}

type TrustScoresRequest struct {
	CreatorIDs []string `json:"creator_ids"`
}
