package auth

// RegisterRequest represents the registration request payload.
// `validate` tags declare the rules, `msg` the message reported when they fail.
type RegisterRequest struct {
	Name     string `json:"name" validate:"min=3" msg:"Enter a valid name" example:"Ann Lee"`
	Email    string `json:"email" validate:"email" msg:"Enter a valid email" example:"ann@x.com"`
	Password string `json:"password" validate:"min=5" msg:"Password must be atleast 5 characters" redact:"true" example:"secret"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"email" msg:"Enter a valid email" example:"ann@x.com"`
	Password string `json:"password" validate:"required" msg:"Password cannot be blank" redact:"true" example:"secret"`
}

// TokenResponse is returned by successful registration and login.
type TokenResponse struct {
	Success   bool   `json:"success" example:"true"`
	AuthToken string `json:"authtoken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}
