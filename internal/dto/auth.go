// Package dto holds the request and response shapes exchanged with the web
// front-end. Types here carry no behavior beyond JSON encoding.
package dto

const TokenTypeBearer = "Bearer"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expiresIn"`
}

type UserInfo struct {
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	Role        string       `json:"role"`
	Permissions []Permission `json:"permissions"`
}

// HasPermission reports whether name is among the user's permissions.
func (u UserInfo) HasPermission(name string) bool {
	for _, p := range u.Permissions {
		if p.NamePermission == name {
			return true
		}
	}
	return false
}

type Permission struct {
	NamePermission string `json:"namePermission"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	Email string `json:"email"`
}

type (
	AuthResponse    = TokenResponse
	LoginPayload    = LoginRequest
	RegisterPayload = CreateUserDto
)
