package httpdto

// RegisterRequest is used for POST /auth/register
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is used for POST /auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
