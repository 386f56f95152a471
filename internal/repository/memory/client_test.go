package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"innosistemas/api/internal/model"
	"innosistemas/api/internal/repository"
	"innosistemas/api/internal/repository/memory"
)

var _ repository.Store = (*memory.Client)(nil)

func seedUser(t *testing.T, store *memory.Client, id, email string) model.User {
	t.Helper()
	now := time.Now().UTC()
	user := model.User{ID: id, Email: email, Name: email, PasswordHash: "x", Role: model.RoleStudent, CreatedAt: now, UpdatedAt: now}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestUserEmailIsUniqueCaseInsensitive(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	seedUser(t, store, "u1", "Ana@Example.com")

	err := store.CreateUser(ctx, model.User{ID: "u2", Email: "ana@example.com"})
	if !errors.Is(err, model.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	got, err := store.GetUserByEmail(ctx, "ANA@example.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ID != "u1" || got.Email != "ana@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := store.GetUserByID(ctx, "missing"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRefreshSessionLifecycle(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	seedUser(t, store, "u1", "a@example.com")
	now := time.Now().UTC()

	sessions := []model.RefreshSession{
		{ID: "s1", UserID: "u1", TokenHash: "h1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)},
		{ID: "s2", UserID: "u1", TokenHash: "h2", CreatedAt: now, ExpiresAt: now.Add(-time.Minute)},
	}
	for _, s := range sessions {
		if err := store.CreateRefreshSession(ctx, s); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}

	if err := store.RevokeRefreshSessionsByUser(ctx, "u1", now); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	got, err := store.GetRefreshSession(ctx, "h1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.RevokedAt == nil {
		t.Fatalf("expected session to be revoked")
	}

	deleted, err := store.DeleteExpiredSessions(ctx, now)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted session, got %d", deleted)
	}
	if _, err := store.GetRefreshSession(ctx, "h2"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected expired session gone, got %v", err)
	}
}

func TestTeamMembershipRules(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	now := time.Now().UTC()
	seedUser(t, store, "u1", "a@example.com")
	seedUser(t, store, "u2", "b@example.com")
	seedUser(t, store, "u3", "c@example.com")

	course, err := store.CreateCourse(ctx, model.Course{Name: "Software Engineering I", Semester: 1, Active: true, MaxTeamSize: 2, MinTeamSize: 1, CreatedAt: now})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	project, err := store.CreateProject(ctx, model.Project{Name: "Tracker", CourseID: course.ID, CreatedAt: now})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	team, err := store.CreateTeam(ctx, model.Team{Name: "Alpha", ProjectID: project.ID, CourseID: course.ID, CreatorID: "u1", Status: model.TeamStatusForming, CreatedAt: now, UpdatedAt: now, LastActivity: now})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if team.ID == 0 {
		t.Fatalf("expected generated team id")
	}

	_, err = store.CreateTeam(ctx, model.Team{Name: "Beta", ProjectID: project.ID, CourseID: course.ID, CreatorID: "u1", Status: model.TeamStatusForming, CreatedAt: now})
	if !errors.Is(err, model.ErrAlreadyInTeam) {
		t.Fatalf("expected already in team, got %v", err)
	}

	if err := store.AddTeamMember(ctx, team.ID, "u2", course.MaxTeamSize, now); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := store.AddTeamMember(ctx, team.ID, "u3", course.MaxTeamSize, now); !errors.Is(err, model.ErrTeamFull) {
		t.Fatalf("expected team full, got %v", err)
	}
	if err := store.AddTeamMember(ctx, team.ID, "u2", 0, now); !errors.Is(err, model.ErrAlreadyInTeam) {
		t.Fatalf("expected already in team, got %v", err)
	}

	members, err := store.ListTeamMembers(ctx, team.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 || members[0].User.ID != "u1" {
		t.Fatalf("unexpected members: %+v", members)
	}

	if err := store.RemoveTeamMember(ctx, team.ID, "u3", now); !errors.Is(err, model.ErrNotMember) {
		t.Fatalf("expected not member, got %v", err)
	}
	if err := store.RemoveTeamMember(ctx, team.ID, "u2", now); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	teams, err := store.ListTeamsForUser(ctx, "u2")
	if err != nil {
		t.Fatalf("list teams for user: %v", err)
	}
	if len(teams) != 0 {
		t.Fatalf("expected no teams after leaving, got %d", len(teams))
	}
}

func TestFormingTeamsCreatedBefore(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	now := time.Now().UTC()
	seedUser(t, store, "u1", "a@example.com")
	seedUser(t, store, "u2", "b@example.com")

	course, _ := store.CreateCourse(ctx, model.Course{Name: "Software Engineering II", MaxTeamSize: 4, MinTeamSize: 1, CreatedAt: now})
	project, _ := store.CreateProject(ctx, model.Project{Name: "P", CourseID: course.ID, CreatedAt: now})

	old, err := store.CreateTeam(ctx, model.Team{Name: "Old", ProjectID: project.ID, CourseID: course.ID, CreatorID: "u1", Status: model.TeamStatusForming, CreatedAt: now.Add(-48 * time.Hour)})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if _, err := store.CreateTeam(ctx, model.Team{Name: "New", ProjectID: project.ID, CourseID: course.ID, CreatorID: "u2", Status: model.TeamStatusForming, CreatedAt: now}); err != nil {
		t.Fatalf("create team: %v", err)
	}

	teams, err := store.ListFormingTeamsCreatedBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("list forming: %v", err)
	}
	if len(teams) != 1 || teams[0].ID != old.ID {
		t.Fatalf("unexpected forming teams: %+v", teams)
	}
}

func TestNotificationsAreScopedToOwner(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	now := time.Now().UTC()
	seedUser(t, store, "u1", "a@example.com")
	seedUser(t, store, "u2", "b@example.com")

	_ = store.CreateNotification(ctx, model.Notification{ID: "n1", UserID: "u1", Message: "first", CreatedAt: now.Add(-time.Minute)})
	_ = store.CreateNotification(ctx, model.Notification{ID: "n2", UserID: "u1", Message: "second", CreatedAt: now})

	notes, err := store.ListNotifications(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notes) != 2 || notes[0].ID != "n2" {
		t.Fatalf("expected newest first, got %+v", notes)
	}

	if _, err := store.MarkNotificationRead(ctx, "n1", "u2"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected not found for foreign notification, got %v", err)
	}
	n, err := store.MarkNotificationRead(ctx, "n1", "u1")
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !n.Read {
		t.Fatalf("expected notification to be read")
	}
}

func TestPermissionsPerRole(t *testing.T) {
	store := memory.New()
	perms, err := store.ListPermissions(context.Background(), model.RoleAdmin)
	if err != nil {
		t.Fatalf("list permissions: %v", err)
	}
	found := false
	for _, p := range perms {
		if p == model.PermManageUsers {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected admin to hold %s, got %v", model.PermManageUsers, perms)
	}
	none, _ := store.ListPermissions(context.Background(), "GUEST")
	if len(none) != 0 {
		t.Fatalf("expected no permissions for unknown role")
	}
}

func TestRevokeRefreshSessionOnlyOnce(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	seedUser(t, store, "u1", "a@example.com")
	now := time.Now().UTC()

	if err := store.CreateRefreshSession(ctx, model.RefreshSession{ID: "s1", UserID: "u1", TokenHash: "h1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := store.CreateRefreshSession(ctx, model.RefreshSession{ID: "s2", UserID: "u1", TokenHash: "h2", CreatedAt: now, ExpiresAt: now.Add(-time.Second)}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := store.RevokeRefreshSession(ctx, "s1", now); err != nil {
		t.Fatalf("first revoke: %v", err)
	}
	if err := store.RevokeRefreshSession(ctx, "s1", now); !errors.Is(err, model.ErrRefreshExpired) {
		t.Fatalf("expected second revoke to fail, got %v", err)
	}
	if err := store.RevokeRefreshSession(ctx, "s2", now); !errors.Is(err, model.ErrRefreshExpired) {
		t.Fatalf("expected expired session to be refused, got %v", err)
	}
	if err := store.RevokeRefreshSession(ctx, "missing", now); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
