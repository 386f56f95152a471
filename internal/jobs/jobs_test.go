package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"innosistemas/api/internal/config"
	"innosistemas/api/internal/jobs"
	"innosistemas/api/internal/model"
	"innosistemas/api/internal/repository/memory"
)

func addSession(t *testing.T, store *memory.Client, id string, expires time.Time) {
	t.Helper()
	err := store.CreateRefreshSession(context.Background(), model.RefreshSession{
		ID:        id,
		UserID:    "user-1",
		TokenHash: "hash-" + id,
		CreatedAt: expires.Add(-time.Hour),
		ExpiresAt: expires,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
}

func TestCleanupSessionsRemovesExpired(t *testing.T) {
	store := memory.New()
	now := time.Now().UTC()
	if err := store.CreateUser(context.Background(), model.User{ID: "user-1", Email: "ana@example.com", Name: "Ana", Role: model.RoleStudent}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	addSession(t, store, "old", now.Add(-time.Minute))
	addSession(t, store, "live", now.Add(time.Hour))

	deleted, err := jobs.CleanupSessions(context.Background(), store, now)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted session, got %d", deleted)
	}
	if _, err := store.GetRefreshSession(context.Background(), "hash-old"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected expired session gone, got %v", err)
	}
	if _, err := store.GetRefreshSession(context.Background(), "hash-live"); err != nil {
		t.Fatalf("expected live session kept: %v", err)
	}
}

type recordingCloser struct {
	calls  chan time.Duration
	closed int
}

func (r *recordingCloser) CloseFormation(_ context.Context, _ time.Time, window time.Duration) (int, error) {
	select {
	case r.calls <- window:
	default:
	}
	return r.closed, nil
}

func TestFormationDeadlineJobTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	closer := &recordingCloser{calls: make(chan time.Duration, 1), closed: 2}
	cfg := config.Config{
		FormationJobEnabled:  true,
		FormationJobInterval: 10 * time.Millisecond,
		FormationJobTimeout:  time.Second,
		TeamFormationWindow:  48 * time.Hour,
	}
	jobs.StartFormationDeadlineJob(ctx, cfg, closer)

	select {
	case window := <-closer.calls:
		if window != 48*time.Hour {
			t.Fatalf("expected configured window, got %v", window)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("formation job did not run")
	}
}

func TestFormationDeadlineJobDisabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	closer := &recordingCloser{calls: make(chan time.Duration, 1)}
	jobs.StartFormationDeadlineJob(ctx, config.Config{FormationJobEnabled: false, FormationJobInterval: 5 * time.Millisecond}, closer)

	select {
	case <-closer.calls:
		t.Fatalf("disabled job should not run")
	case <-time.After(50 * time.Millisecond):
	}
}
