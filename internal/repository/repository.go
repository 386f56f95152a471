// Package repository defines the persistence contract shared by the
// PostgreSQL and in-memory stores. Missing rows are reported as
// model.ErrNotFound and uniqueness violations as model.ErrConflict.
package repository

import (
	"context"
	"time"

	"innosistemas/api/internal/model"
)

type UserStore interface {
	CreateUser(ctx context.Context, user model.User) error
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, userID string) (model.User, error)
	ListUsers(ctx context.Context, limit int) ([]model.User, error)
	ListPermissions(ctx context.Context, role string) ([]string, error)
}

type SessionStore interface {
	CreateRefreshSession(ctx context.Context, session model.RefreshSession) error
	GetRefreshSession(ctx context.Context, tokenHash string) (model.RefreshSession, error)
	// RevokeRefreshSession claims a live session for rotation. It fails with
	// model.ErrRefreshExpired when the session is already revoked or expired
	// at revokedAt, so at most one caller wins per session.
	RevokeRefreshSession(ctx context.Context, sessionID string, revokedAt time.Time) error
	RevokeRefreshSessionsByUser(ctx context.Context, userID string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

type CourseStore interface {
	CreateCourse(ctx context.Context, course model.Course) (model.Course, error)
	GetCourse(ctx context.Context, courseID int64) (model.Course, error)
	GetCourseByName(ctx context.Context, name string) (model.Course, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
	EnrollStudent(ctx context.Context, courseID int64, userID string, at time.Time) error
	IsEnrolled(ctx context.Context, courseID int64, userID string) (bool, error)
	ListCourseIDsForUser(ctx context.Context, userID string) ([]int64, error)
	ListCourseStudents(ctx context.Context, courseID int64) ([]model.User, error)
}

type ProjectStore interface {
	CreateProject(ctx context.Context, project model.Project) (model.Project, error)
	GetProject(ctx context.Context, projectID int64) (model.Project, error)
	ListProjectsByCourse(ctx context.Context, courseID int64) ([]model.Project, error)
}

type TeamStore interface {
	// CreateTeam inserts the team and its creator as first member atomically.
	CreateTeam(ctx context.Context, team model.Team) (model.Team, error)
	GetTeam(ctx context.Context, teamID int64) (model.Team, error)
	ListTeams(ctx context.Context) ([]model.Team, error)
	ListTeamsByCourse(ctx context.Context, courseID int64) ([]model.Team, error)
	ListTeamsForUser(ctx context.Context, userID string) ([]model.Team, error)
	ListTeamMembers(ctx context.Context, teamID int64) ([]model.TeamMember, error)
	// AddTeamMember fails with model.ErrAlreadyInTeam when the user already
	// belongs to a team of the same course and with model.ErrTeamFull when
	// the team already has maxSize members. maxSize <= 0 disables the check.
	AddTeamMember(ctx context.Context, teamID int64, userID string, maxSize int, at time.Time) error
	RemoveTeamMember(ctx context.Context, teamID int64, userID string, at time.Time) error
	UpdateTeamStatus(ctx context.Context, teamID int64, status string, at time.Time) error
	UpdateTeamProgress(ctx context.Context, teamID int64, progress int, at time.Time) error
	ListFormingTeamsCreatedBefore(ctx context.Context, before time.Time) ([]model.Team, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, notification model.Notification) error
	ListNotifications(ctx context.Context, userID string, limit int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID, userID string) (model.Notification, error)
}

type Store interface {
	UserStore
	SessionStore
	CourseStore
	ProjectStore
	TeamStore
	NotificationStore
	Ping(ctx context.Context) error
}
