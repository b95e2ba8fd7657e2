package dto

type SessionRequest struct {
	AdminID string `json:"admin_id"`
	Role    string `json:"role"`
}

type SessionResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresInSec int64  `json:"expires_in_sec"`
	SID          string `json:"sid"`
}

type LogoutResponse struct {
	OK bool `json:"ok"`
}
