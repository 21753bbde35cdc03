package dto

// RegisterRequest defines the data needed to open an account.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	UPIID       string `json:"upiId" binding:"required,upi"`
	DisplayName string `json:"displayName"` // Defaults to the email local part
}

// LoginRequest defines the credentials for a login attempt.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token for an authenticated account.
type LoginResponse struct {
	AccountID string `json:"accountID"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"` // Seconds until expiry
}
