package dto

// AuthState is a point-in-time view of an authentication session as the
// front-end sees it.
type AuthState struct {
	User            *UserInfo `json:"user"`
	Token           *string   `json:"token"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	IsLoading       bool      `json:"isLoading"`
}
