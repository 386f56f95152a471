package memory

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"innosistemas/api/internal/model"
)

func (c *Client) CreateRefreshSession(ctx context.Context, session model.RefreshSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.users[session.UserID]; !exists {
		return goerr.Wrap(model.ErrNotFound, "session owner not found", goerr.V("user_id", session.UserID))
	}
	if _, exists := c.hashIndex[session.TokenHash]; exists {
		return goerr.Wrap(model.ErrConflict, "refresh token hash already stored")
	}
	sessionCopy := session
	c.sessions[session.ID] = &sessionCopy
	c.hashIndex[session.TokenHash] = session.ID
	return nil
}

func (c *Client) GetRefreshSession(ctx context.Context, tokenHash string) (model.RefreshSession, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id, exists := c.hashIndex[tokenHash]
	if !exists {
		return model.RefreshSession{}, goerr.Wrap(model.ErrNotFound, "refresh session not found")
	}
	return *c.sessions[id], nil
}

func (c *Client) RevokeRefreshSession(ctx context.Context, sessionID string, revokedAt time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, exists := c.sessions[sessionID]
	if !exists {
		return goerr.Wrap(model.ErrNotFound, "refresh session not found", goerr.V("session_id", sessionID))
	}
	if session.RevokedAt != nil || !session.ExpiresAt.After(revokedAt) {
		return goerr.Wrap(model.ErrRefreshExpired, "refresh session no longer live", goerr.V("session_id", sessionID))
	}
	at := revokedAt
	session.RevokedAt = &at
	return nil
}

func (c *Client) RevokeRefreshSessionsByUser(ctx context.Context, userID string, revokedAt time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, session := range c.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			at := revokedAt
			session.RevokedAt = &at
		}
	}
	return nil
}

func (c *Client) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var deleted int64
	for id, session := range c.sessions {
		if session.ExpiresAt.Before(before) {
			delete(c.hashIndex, session.TokenHash)
			delete(c.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}
