// Package session keeps the authentication state of a single client: the
// current user, the access token and whether an action is in flight.
package session

import (
	"context"
	"sync"

	"innosistemas/api/internal/dto"
)

type Authenticator interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (dto.TokenResponse, error)
	Logout(ctx context.Context, accessToken string, req dto.LogoutRequest) error
	UserInfo(ctx context.Context, accessToken string) (dto.UserInfo, error)
}

// Context is safe for concurrent use. Refreshes happen only when
// RefreshToken is called.
type Context struct {
	auth Authenticator

	mu           sync.RWMutex
	user         *dto.UserInfo
	accessToken  *string
	refreshToken string
	inFlight     int
}

func New(auth Authenticator) *Context {
	return &Context{auth: auth}
}

func (c *Context) begin() {
	c.mu.Lock()
	c.inFlight++
	c.mu.Unlock()
}

func (c *Context) end() {
	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()
}

func (c *Context) Login(ctx context.Context, email, password string) error {
	c.begin()
	defer c.end()

	tokens, err := c.auth.Login(ctx, dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	user, err := c.auth.UserInfo(ctx, tokens.AccessToken)
	if err != nil {
		return err
	}
	c.set(user, tokens)
	return nil
}

// Logout always clears the local state, even when the server call fails.
func (c *Context) Logout(ctx context.Context) error {
	c.begin()
	defer c.end()

	c.mu.RLock()
	token := c.accessToken
	var email string
	if c.user != nil {
		email = c.user.Email
	}
	c.mu.RUnlock()

	var err error
	if token != nil {
		err = c.auth.Logout(ctx, *token, dto.LogoutRequest{Email: email})
	}
	c.clear()
	return err
}

// RefreshToken exchanges the held refresh token. On failure the session is
// cleared and the caller must log in again.
func (c *Context) RefreshToken(ctx context.Context) error {
	c.begin()
	defer c.end()

	c.mu.RLock()
	refresh := c.refreshToken
	c.mu.RUnlock()

	tokens, err := c.auth.Refresh(ctx, refresh)
	if err != nil {
		c.clear()
		return err
	}
	user, err := c.auth.UserInfo(ctx, tokens.AccessToken)
	if err != nil {
		c.clear()
		return err
	}
	c.set(user, tokens)
	return nil
}

func (c *Context) set(user dto.UserInfo, tokens dto.TokenResponse) {
	access := tokens.AccessToken
	c.mu.Lock()
	c.user = &user
	c.accessToken = &access
	c.refreshToken = tokens.RefreshToken
	c.mu.Unlock()
}

func (c *Context) clear() {
	c.mu.Lock()
	c.user = nil
	c.accessToken = nil
	c.refreshToken = ""
	c.mu.Unlock()
}

func (c *Context) User() *dto.UserInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// HasPermission is false while signed out.
func (c *Context) HasPermission(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil && c.user.HasPermission(name)
}

func (c *Context) Token() *string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.accessToken == nil {
		return nil
	}
	t := *c.accessToken
	return &t
}

func (c *Context) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil && c.accessToken != nil
}

func (c *Context) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inFlight > 0
}

func (c *Context) Snapshot() dto.AuthState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	state := dto.AuthState{
		IsAuthenticated: c.user != nil && c.accessToken != nil,
		IsLoading:       c.inFlight > 0,
	}
	if c.user != nil {
		u := *c.user
		state.User = &u
	}
	if c.accessToken != nil {
		t := *c.accessToken
		state.Token = &t
	}
	return state
}
