package dto

// DevTokenRequest body para POST /auth/dev-token (solo en desarrollo).
type DevTokenRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// TokenResponse token emitido para un usuario sembrado.
type TokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}
