// Package teams implements the team lifecycle: creation, membership,
// status transitions, progress tracking and reporting.
package teams

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"innosistemas/api/internal/auth"
	"innosistemas/api/internal/dto"
	"innosistemas/api/internal/metrics"
	"innosistemas/api/internal/model"
	"innosistemas/api/internal/repository"
)

type Store interface {
	repository.UserStore
	repository.CourseStore
	repository.ProjectStore
	repository.TeamStore
	repository.NotificationStore
}

// transitions lists the statuses reachable from each status.
var transitions = map[string][]string{
	model.TeamStatusForming:    {model.TeamStatusActive, model.TeamStatusIncomplete},
	model.TeamStatusActive:     {model.TeamStatusCompleted, model.TeamStatusIncomplete},
	model.TeamStatusIncomplete: {model.TeamStatusActive},
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Create(ctx context.Context, actor *auth.Claims, form dto.CreateTeamForm) (dto.TeamDto, error) {
	name := strings.TrimSpace(form.NameTeam)
	if name == "" {
		return dto.TeamDto{}, goerr.Wrap(model.ErrInvalidInput, "team name is required")
	}
	project, err := s.store.GetProject(ctx, form.ProjectID)
	if err != nil {
		return dto.TeamDto{}, err
	}
	if err := s.requireEnrolled(ctx, project.CourseID, actor.UserID); err != nil {
		return dto.TeamDto{}, err
	}

	now := s.now()
	team, err := s.store.CreateTeam(ctx, model.Team{
		Name:         name,
		ProjectID:    project.ID,
		CourseID:     project.CourseID,
		CreatorID:    actor.UserID,
		Status:       model.TeamStatusForming,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastActivity: now,
	})
	if err != nil {
		return dto.TeamDto{}, err
	}
	metrics.TeamEvents.WithLabelValues("created").Inc()
	ctxlog.From(ctx).Info("team created", "team_id", team.ID, "course_id", team.CourseID, "creator_id", actor.UserID)
	return TeamDto(team), nil
}

func (s *Service) Join(ctx context.Context, actor *auth.Claims, teamID int64) (dto.TeamShowDto, error) {
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return dto.TeamShowDto{}, err
	}
	if team.Status != model.TeamStatusForming && team.Status != model.TeamStatusActive {
		return dto.TeamShowDto{}, goerr.Wrap(model.ErrTeamClosed, "team does not accept members",
			goerr.V("team_id", teamID), goerr.V("status", team.Status))
	}
	if err := s.requireEnrolled(ctx, team.CourseID, actor.UserID); err != nil {
		return dto.TeamShowDto{}, err
	}
	course, err := s.store.GetCourse(ctx, team.CourseID)
	if err != nil {
		return dto.TeamShowDto{}, err
	}

	if err := s.store.AddTeamMember(ctx, teamID, actor.UserID, course.MaxTeamSize, s.now()); err != nil {
		return dto.TeamShowDto{}, err
	}
	metrics.TeamEvents.WithLabelValues("joined").Inc()

	joiner, err := s.store.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return dto.TeamShowDto{}, err
	}
	s.notifyMembers(ctx, team.ID, actor.UserID, fmt.Sprintf("%s joined team %s", joiner.Name, team.Name))
	return s.Show(ctx, teamID)
}

// Leave removes email from the team. Members may remove themselves; anyone
// else needs MANAGE_TEAMS.
func (s *Service) Leave(ctx context.Context, actor *auth.Claims, teamID int64, email string) (dto.TeamShowDto, error) {
	target, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return dto.TeamShowDto{}, err
	}
	if target.ID != actor.UserID && !actor.HasPermission(model.PermManageTeams) {
		return dto.TeamShowDto{}, goerr.Wrap(model.ErrForbidden, "cannot remove another member", goerr.V("team_id", teamID))
	}
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return dto.TeamShowDto{}, err
	}
	if team.Status == model.TeamStatusCompleted {
		return dto.TeamShowDto{}, goerr.Wrap(model.ErrTeamClosed, "team is completed", goerr.V("team_id", teamID))
	}
	if err := s.store.RemoveTeamMember(ctx, teamID, target.ID, s.now()); err != nil {
		return dto.TeamShowDto{}, err
	}
	metrics.TeamEvents.WithLabelValues("left").Inc()
	s.notifyMembers(ctx, team.ID, actor.UserID, fmt.Sprintf("%s left team %s", target.Name, team.Name))
	return s.Show(ctx, teamID)
}

func (s *Service) ChangeStatus(ctx context.Context, teamID int64, status dto.TeamStatus) (dto.TeamDto, error) {
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return dto.TeamDto{}, err
	}
	next := string(status)
	if !CanTransition(team.Status, next) {
		return dto.TeamDto{}, goerr.Wrap(model.ErrInvalidTransition, "status change rejected",
			goerr.V("team_id", teamID), goerr.V("from", team.Status), goerr.V("to", next))
	}
	if next == model.TeamStatusActive {
		if err := s.requireMinimumSize(ctx, team); err != nil {
			return dto.TeamDto{}, err
		}
	}

	now := s.now()
	if err := s.store.UpdateTeamStatus(ctx, teamID, next, now); err != nil {
		return dto.TeamDto{}, err
	}
	metrics.TeamEvents.WithLabelValues("status_" + next).Inc()
	s.notifyMembers(ctx, team.ID, "", fmt.Sprintf("Team %s is now %s", team.Name, next))
	team.Status = next
	team.UpdatedAt = now
	return TeamDto(team), nil
}

func (s *Service) UpdateProgress(ctx context.Context, actor *auth.Claims, teamID int64, progress int) (dto.TeamReport, error) {
	if progress < 0 || progress > 100 {
		return dto.TeamReport{}, goerr.Wrap(model.ErrInvalidInput, "progress must be between 0 and 100", goerr.V("progress", progress))
	}
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return dto.TeamReport{}, err
	}
	members, err := s.store.ListTeamMembers(ctx, teamID)
	if err != nil {
		return dto.TeamReport{}, err
	}
	if !isMember(members, actor.UserID) && !actor.HasPermission(model.PermManageTeams) {
		return dto.TeamReport{}, goerr.Wrap(model.ErrForbidden, "only members may report progress", goerr.V("team_id", teamID))
	}
	if team.Status == model.TeamStatusCompleted || team.Status == model.TeamStatusIncomplete {
		return dto.TeamReport{}, goerr.Wrap(model.ErrTeamClosed, "team is closed", goerr.V("status", team.Status))
	}

	now := s.now()
	if err := s.store.UpdateTeamProgress(ctx, teamID, progress, now); err != nil {
		return dto.TeamReport{}, err
	}
	team.Progress = progress
	team.UpdatedAt = now
	team.LastActivity = now

	course, err := s.store.GetCourse(ctx, team.CourseID)
	if err != nil {
		return dto.TeamReport{}, err
	}
	return Report(team, course.Name, len(members)), nil
}

// CloseFormation settles teams still forming after the formation window:
// those with enough members become active, the rest incomplete.
func (s *Service) CloseFormation(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	teams, err := s.store.ListFormingTeamsCreatedBefore(ctx, now.Add(-window))
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, team := range teams {
		next := model.TeamStatusActive
		if err := s.requireMinimumSize(ctx, team); err != nil {
			if !errors.Is(err, model.ErrTeamTooSmall) {
				return closed, err
			}
			next = model.TeamStatusIncomplete
		}
		if err := s.store.UpdateTeamStatus(ctx, team.ID, next, now); err != nil {
			return closed, err
		}
		closed++
		metrics.TeamEvents.WithLabelValues("formation_closed").Inc()
		s.notifyMembers(ctx, team.ID, "", fmt.Sprintf("Formation period ended: team %s is now %s", team.Name, next))
	}
	return closed, nil
}

func (s *Service) Show(ctx context.Context, teamID int64) (dto.TeamShowDto, error) {
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return dto.TeamShowDto{}, err
	}
	return s.show(ctx, team)
}

func (s *Service) ListByCourse(ctx context.Context, courseID int64) ([]dto.TeamShowDto, error) {
	if _, err := s.store.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	teams, err := s.store.ListTeamsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TeamShowDto, 0, len(teams))
	for _, team := range teams {
		shown, err := s.show(ctx, team)
		if err != nil {
			return nil, err
		}
		out = append(out, shown)
	}
	return out, nil
}

func (s *Service) show(ctx context.Context, team model.Team) (dto.TeamShowDto, error) {
	project, err := s.store.GetProject(ctx, team.ProjectID)
	if err != nil {
		return dto.TeamShowDto{}, err
	}
	members, err := s.store.ListTeamMembers(ctx, team.ID)
	if err != nil {
		return dto.TeamShowDto{}, err
	}
	students := make([]dto.UserDto, 0, len(members))
	for _, m := range members {
		students = append(students, dto.UserDto{Email: m.User.Email, NameUser: m.User.Name})
	}
	return dto.TeamShowDto{
		IDTeam:      team.ID,
		NameTeam:    team.Name,
		ProjectID:   team.ProjectID,
		ProjectName: project.Name,
		CourseID:    team.CourseID,
		Students:    students,
	}, nil
}

func (s *Service) requireEnrolled(ctx context.Context, courseID int64, userID string) error {
	enrolled, err := s.store.IsEnrolled(ctx, courseID, userID)
	if err != nil {
		return err
	}
	if !enrolled {
		return goerr.Wrap(model.ErrNotEnrolled, "user not enrolled", goerr.V("course_id", courseID), goerr.V("user_id", userID))
	}
	return nil
}

func (s *Service) requireMinimumSize(ctx context.Context, team model.Team) error {
	course, err := s.store.GetCourse(ctx, team.CourseID)
	if err != nil {
		return err
	}
	members, err := s.store.ListTeamMembers(ctx, team.ID)
	if err != nil {
		return err
	}
	if len(members) < course.MinTeamSize {
		return goerr.Wrap(model.ErrTeamTooSmall, "not enough members",
			goerr.V("team_id", team.ID), goerr.V("members", len(members)), goerr.V("min", course.MinTeamSize))
	}
	return nil
}

// notifyMembers writes message to every member except skipUserID. Failures
// are logged and do not fail the triggering operation.
func (s *Service) notifyMembers(ctx context.Context, teamID int64, skipUserID, message string) {
	members, err := s.store.ListTeamMembers(ctx, teamID)
	if err != nil {
		ctxlog.From(ctx).Warn("list members for notification", "team_id", teamID, "error", err)
		return
	}
	now := s.now()
	for _, m := range members {
		if m.User.ID == skipUserID {
			continue
		}
		err := s.store.CreateNotification(ctx, model.Notification{
			ID:        uuid.NewString(),
			UserID:    m.User.ID,
			Message:   message,
			CreatedAt: now,
		})
		if err != nil {
			ctxlog.From(ctx).Warn("create notification", "team_id", teamID, "user_id", m.User.ID, "error", err)
		}
	}
}

func isMember(members []model.TeamMember, userID string) bool {
	for _, m := range members {
		if m.User.ID == userID {
			return true
		}
	}
	return false
}

func TeamDto(t model.Team) dto.TeamDto {
	return dto.TeamDto{IDTeam: t.ID, NameTeam: t.Name, ProjectID: t.ProjectID}
}

func Report(t model.Team, courseName string, memberCount int) dto.TeamReport {
	return dto.TeamReport{
		TeamID:          strconv.FormatInt(t.ID, 10),
		TeamName:        t.Name,
		CourseName:      courseName,
		MemberCount:     memberCount,
		ProjectProgress: t.Progress,
		LastActivity:    t.LastActivity,
		Status:          dto.TeamStatus(t.Status),
	}
}
