package model

// User is a registered player. Credentials are persisted one per line as
// "username:bcrypt-hash" in the users file.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// RegisterRequest is the payload for creating a player account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32,alphanum"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
