package teams_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"innosistemas/api/internal/auth"
	"innosistemas/api/internal/dto"
	"innosistemas/api/internal/model"
	"innosistemas/api/internal/repository/memory"
	"innosistemas/api/internal/teams"
)

type fixture struct {
	store   *memory.Client
	svc     *teams.Service
	course  model.Course
	project model.Project
	users   map[string]*auth.Claims
}

func newFixture(t *testing.T, maxSize, minSize int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	now := time.Now().UTC()

	course, err := store.CreateCourse(ctx, model.Course{Name: "Ingeniería de Software I", Semester: 4, Active: true, MaxTeamSize: maxSize, MinTeamSize: minSize, CreatedAt: now})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	project, err := store.CreateProject(ctx, model.Project{Name: "Scheduler", CourseID: course.ID, CreatedAt: now})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	f := &fixture{store: store, svc: teams.NewService(store), course: course, project: project, users: map[string]*auth.Claims{}}
	for _, name := range []string{"ana", "bob", "cid", "dee"} {
		f.addStudent(t, name, true)
	}
	f.users["prof"] = &auth.Claims{UserID: "prof", Email: "prof@example.com", Role: model.RoleProfessor, Permissions: model.DefaultRolePermissions[model.RoleProfessor]}
	if err := store.CreateUser(ctx, model.User{ID: "prof", Email: "prof@example.com", Name: "prof", Role: model.RoleProfessor, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("create professor: %v", err)
	}
	return f
}

func (f *fixture) addStudent(t *testing.T, name string, enroll bool) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	email := name + "@example.com"
	if err := f.store.CreateUser(ctx, model.User{ID: name, Email: email, Name: name, Role: model.RoleStudent, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if enroll {
		if err := f.store.EnrollStudent(ctx, f.course.ID, name, now); err != nil {
			t.Fatalf("enroll: %v", err)
		}
	}
	f.users[name] = &auth.Claims{UserID: name, Email: email, Role: model.RoleStudent, Permissions: model.DefaultRolePermissions[model.RoleStudent]}
}

func (f *fixture) createTeam(t *testing.T, creator string) dto.TeamDto {
	t.Helper()
	team, err := f.svc.Create(context.Background(), f.users[creator], dto.CreateTeamForm{NameTeam: "Team " + creator, ProjectID: f.project.ID})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	return team
}

func TestCreateTeam(t *testing.T) {
	f := newFixture(t, 4, 1)
	ctx := context.Background()

	team := f.createTeam(t, "ana")
	if team.ProjectID != f.project.ID || team.NameTeam != "Team ana" {
		t.Fatalf("unexpected team: %+v", team)
	}
	shown, err := f.svc.Show(ctx, team.IDTeam)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if len(shown.Students) != 1 || shown.Students[0].Email != "ana@example.com" || shown.ProjectName != "Scheduler" {
		t.Fatalf("unexpected show: %+v", shown)
	}

	_, err = f.svc.Create(ctx, f.users["ana"], dto.CreateTeamForm{NameTeam: "Second", ProjectID: f.project.ID})
	if !errors.Is(err, model.ErrAlreadyInTeam) {
		t.Fatalf("expected already in team, got %v", err)
	}

	f.addStudent(t, "eve", false)
	_, err = f.svc.Create(ctx, f.users["eve"], dto.CreateTeamForm{NameTeam: "Eve", ProjectID: f.project.ID})
	if !errors.Is(err, model.ErrNotEnrolled) {
		t.Fatalf("expected not enrolled, got %v", err)
	}

	_, err = f.svc.Create(ctx, f.users["bob"], dto.CreateTeamForm{NameTeam: "Ghost", ProjectID: 999})
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected project not found, got %v", err)
	}
	_, err = f.svc.Create(ctx, f.users["bob"], dto.CreateTeamForm{NameTeam: "  ", ProjectID: f.project.ID})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestJoinRespectsMaxSizeAndNotifies(t *testing.T) {
	f := newFixture(t, 2, 1)
	ctx := context.Background()
	team := f.createTeam(t, "ana")

	shown, err := f.svc.Join(ctx, f.users["bob"], team.IDTeam)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if len(shown.Students) != 2 {
		t.Fatalf("expected 2 members, got %d", len(shown.Students))
	}
	if _, err := f.svc.Join(ctx, f.users["cid"], team.IDTeam); !errors.Is(err, model.ErrTeamFull) {
		t.Fatalf("expected team full, got %v", err)
	}

	notes, err := f.svc.Notifications(ctx, "ana", 10)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if len(notes) != 1 || notes[0].Message != "bob joined team Team ana" {
		t.Fatalf("unexpected notifications: %+v", notes)
	}
	own, _ := f.svc.Notifications(ctx, "bob", 10)
	if len(own) != 0 {
		t.Fatalf("joiner must not be notified of their own join")
	}

	read, err := f.svc.MarkNotificationRead(ctx, "ana", notes[0].ID)
	if err != nil || !read.Read {
		t.Fatalf("mark read: %+v %v", read, err)
	}
}

func TestLeaveRules(t *testing.T) {
	f := newFixture(t, 4, 1)
	ctx := context.Background()
	team := f.createTeam(t, "ana")
	if _, err := f.svc.Join(ctx, f.users["bob"], team.IDTeam); err != nil {
		t.Fatalf("join: %v", err)
	}

	if _, err := f.svc.Leave(ctx, f.users["cid"], team.IDTeam, "bob@example.com"); !errors.Is(err, model.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	shown, err := f.svc.Leave(ctx, f.users["bob"], team.IDTeam, "bob@example.com")
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if len(shown.Students) != 1 {
		t.Fatalf("expected 1 member after leave, got %d", len(shown.Students))
	}
	if _, err := f.svc.Leave(ctx, f.users["prof"], team.IDTeam, "bob@example.com"); !errors.Is(err, model.ErrNotMember) {
		t.Fatalf("expected not member, got %v", err)
	}

	// bob may now join another team in the same course
	if _, err := f.svc.Create(ctx, f.users["bob"], dto.CreateTeamForm{NameTeam: "Bob's", ProjectID: f.project.ID}); err != nil {
		t.Fatalf("create after leave: %v", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	f := newFixture(t, 4, 2)
	ctx := context.Background()
	team := f.createTeam(t, "ana")

	if _, err := f.svc.ChangeStatus(ctx, team.IDTeam, dto.TeamStatusActive); !errors.Is(err, model.ErrTeamTooSmall) {
		t.Fatalf("expected too small, got %v", err)
	}
	if _, err := f.svc.ChangeStatus(ctx, team.IDTeam, dto.TeamStatusCompleted); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if _, err := f.svc.Join(ctx, f.users["bob"], team.IDTeam); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := f.svc.ChangeStatus(ctx, team.IDTeam, dto.TeamStatusActive); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if _, err := f.svc.ChangeStatus(ctx, team.IDTeam, dto.TeamStatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := f.svc.Join(ctx, f.users["cid"], team.IDTeam); !errors.Is(err, model.ErrTeamClosed) {
		t.Fatalf("expected closed team, got %v", err)
	}

	cases := []struct {
		from, to string
		ok       bool
	}{
		{model.TeamStatusForming, model.TeamStatusActive, true},
		{model.TeamStatusForming, model.TeamStatusIncomplete, true},
		{model.TeamStatusForming, model.TeamStatusCompleted, false},
		{model.TeamStatusActive, model.TeamStatusCompleted, true},
		{model.TeamStatusActive, model.TeamStatusForming, false},
		{model.TeamStatusIncomplete, model.TeamStatusActive, true},
		{model.TeamStatusCompleted, model.TeamStatusActive, false},
	}
	for _, tc := range cases {
		if got := teams.CanTransition(tc.from, tc.to); got != tc.ok {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestUpdateProgress(t *testing.T) {
	f := newFixture(t, 4, 1)
	ctx := context.Background()
	team := f.createTeam(t, "ana")

	report, err := f.svc.UpdateProgress(ctx, f.users["ana"], team.IDTeam, 60)
	if err != nil {
		t.Fatalf("update progress: %v", err)
	}
	if report.ProjectProgress != 60 || report.MemberCount != 1 || report.CourseName != f.course.Name {
		t.Fatalf("unexpected report: %+v", report)
	}
	if _, err := f.svc.UpdateProgress(ctx, f.users["bob"], team.IDTeam, 70); !errors.Is(err, model.ErrForbidden) {
		t.Fatalf("expected forbidden for non-member, got %v", err)
	}
	if _, err := f.svc.UpdateProgress(ctx, f.users["prof"], team.IDTeam, 70); err != nil {
		t.Fatalf("staff update: %v", err)
	}
	if _, err := f.svc.UpdateProgress(ctx, f.users["ana"], team.IDTeam, 101); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestReportsAndDetail(t *testing.T) {
	f := newFixture(t, 4, 1)
	ctx := context.Background()
	first := f.createTeam(t, "ana")
	second := f.createTeam(t, "bob")
	if _, err := f.svc.Join(ctx, f.users["cid"], second.IDTeam); err != nil {
		t.Fatalf("join: %v", err)
	}

	reports, err := f.svc.Reports(ctx, &f.course.ID)
	if err != nil {
		t.Fatalf("reports: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].MemberCount != 1 || reports[1].MemberCount != 2 {
		t.Fatalf("unexpected member counts: %+v", reports)
	}
	if reports[0].Status != dto.TeamStatusForming {
		t.Fatalf("expected forming status, got %s", reports[0].Status)
	}

	missing := int64(999)
	if _, err := f.svc.Reports(ctx, &missing); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	detail, err := f.svc.Detail(ctx, first.IDTeam)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.CreatorID != "ana" || len(detail.Members) != 1 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	courseKey := string(dto.FlexibleIDFromInt(f.course.ID))
	if detail.Members[0].CurrentTeams[courseKey] != detail.ID {
		t.Fatalf("expected current team mapping, got %v", detail.Members[0].CurrentTeams)
	}
}

func TestCloseFormation(t *testing.T) {
	f := newFixture(t, 4, 2)
	ctx := context.Background()
	small := f.createTeam(t, "ana")
	full := f.createTeam(t, "bob")
	if _, err := f.svc.Join(ctx, f.users["cid"], full.IDTeam); err != nil {
		t.Fatalf("join: %v", err)
	}

	closed, err := f.svc.CloseFormation(ctx, time.Now().UTC(), time.Hour)
	if err != nil || closed != 0 {
		t.Fatalf("teams inside the window must stay forming: %d %v", closed, err)
	}

	closed, err = f.svc.CloseFormation(ctx, time.Now().UTC().Add(2*time.Hour), time.Hour)
	if err != nil {
		t.Fatalf("close formation: %v", err)
	}
	if closed != 2 {
		t.Fatalf("expected 2 closed teams, got %d", closed)
	}

	got, _ := f.store.GetTeam(ctx, small.IDTeam)
	if got.Status != model.TeamStatusIncomplete {
		t.Fatalf("expected incomplete, got %s", got.Status)
	}
	got, _ = f.store.GetTeam(ctx, full.IDTeam)
	if got.Status != model.TeamStatusActive {
		t.Fatalf("expected active, got %s", got.Status)
	}
}
