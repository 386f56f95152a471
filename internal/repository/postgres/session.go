package postgres

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"innosistemas/api/internal/model"
)

func (s *Store) CreateRefreshSession(ctx context.Context, session model.RefreshSession) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO refresh_token_sessions (id, user_id, token_hash, created_at, expires_at, revoked_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, session.ID, session.UserID, session.TokenHash, session.CreatedAt, session.ExpiresAt, session.RevokedAt, session.UserAgent, session.IPAddress)
	if err != nil {
		return goerr.Wrap(classify(err), "insert refresh session", goerr.V("user_id", session.UserID))
	}
	return nil
}

func (s *Store) GetRefreshSession(ctx context.Context, tokenHash string) (model.RefreshSession, error) {
	var session model.RefreshSession
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, token_hash, created_at, expires_at, revoked_at, user_agent, ip_address
		FROM refresh_token_sessions
		WHERE token_hash = $1
	`, tokenHash)
	err := row.Scan(&session.ID, &session.UserID, &session.TokenHash, &session.CreatedAt, &session.ExpiresAt, &session.RevokedAt, &session.UserAgent, &session.IPAddress)
	if err != nil {
		return model.RefreshSession{}, goerr.Wrap(classify(err), "get refresh session")
	}
	return session, nil
}

func (s *Store) RevokeRefreshSession(ctx context.Context, sessionID string, revokedAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE refresh_token_sessions
		SET revoked_at = $1
		WHERE id = $2 AND revoked_at IS NULL AND expires_at > $1
	`, revokedAt, sessionID)
	if err != nil {
		return goerr.Wrap(classify(err), "revoke refresh session", goerr.V("session_id", sessionID))
	}
	if tag.RowsAffected() == 0 {
		return goerr.Wrap(model.ErrRefreshExpired, "refresh session no longer live", goerr.V("session_id", sessionID))
	}
	return nil
}

func (s *Store) RevokeRefreshSessionsByUser(ctx context.Context, userID string, revokedAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE refresh_token_sessions
		SET revoked_at = $1
		WHERE user_id = $2 AND revoked_at IS NULL
	`, revokedAt, userID)
	if err != nil {
		return goerr.Wrap(err, "revoke user sessions", goerr.V("user_id", userID))
	}
	return nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM refresh_token_sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, goerr.Wrap(err, "delete expired sessions")
	}
	return tag.RowsAffected(), nil
}
