package teams

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"innosistemas/api/internal/academics"
	"innosistemas/api/internal/dto"
	"innosistemas/api/internal/model"
)

const reportConcurrency = 8

// Detail returns the front-end view of a team including full member records.
func (s *Service) Detail(ctx context.Context, teamID int64) (dto.Team, error) {
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return dto.Team{}, err
	}
	members, err := s.store.ListTeamMembers(ctx, teamID)
	if err != nil {
		return dto.Team{}, err
	}

	students := make([]dto.Student, 0, len(members))
	for _, m := range members {
		student, err := academics.Student(ctx, s.store, m.User)
		if err != nil {
			return dto.Team{}, err
		}
		students = append(students, student)
	}

	out := dto.Team{
		ID:        strconv.FormatInt(team.ID, 10),
		Name:      team.Name,
		CourseID:  strconv.FormatInt(team.CourseID, 10),
		CreatorID: team.CreatorID,
		ProjectID: strconv.FormatInt(team.ProjectID, 10),
		Members:   students,
		CreatedAt: team.CreatedAt,
		Status:    dto.TeamStatus(team.Status),
	}
	if !team.UpdatedAt.IsZero() && !team.UpdatedAt.Equal(team.CreatedAt) {
		updated := team.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out, nil
}

// Reports builds one report per team, optionally restricted to a course.
// Member counts are fetched concurrently; output order follows team id.
func (s *Service) Reports(ctx context.Context, courseID *int64) ([]dto.TeamReport, error) {
	var (
		teams []model.Team
		err   error
	)
	if courseID != nil {
		if _, err := s.store.GetCourse(ctx, *courseID); err != nil {
			return nil, err
		}
		teams, err = s.store.ListTeamsByCourse(ctx, *courseID)
	} else {
		teams, err = s.store.ListTeams(ctx)
	}
	if err != nil {
		return nil, err
	}

	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(courses))
	for _, c := range courses {
		names[c.ID] = c.Name
	}

	reports := make([]dto.TeamReport, len(teams))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(reportConcurrency)
	for i, team := range teams {
		eg.Go(func() error {
			members, err := s.store.ListTeamMembers(egCtx, team.ID)
			if err != nil {
				return err
			}
			reports[i] = Report(team, names[team.CourseID], len(members))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *Service) Notifications(ctx context.Context, userID string, limit int) ([]dto.Notification, error) {
	notes, err := s.store.ListNotifications(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.Notification, 0, len(notes))
	for _, n := range notes {
		out = append(out, Notification(n))
	}
	return out, nil
}

func (s *Service) MarkNotificationRead(ctx context.Context, userID, notificationID string) (dto.Notification, error) {
	n, err := s.store.MarkNotificationRead(ctx, notificationID, userID)
	if err != nil {
		return dto.Notification{}, err
	}
	return Notification(n), nil
}

func Notification(n model.Notification) dto.Notification {
	created := n.CreatedAt
	return dto.Notification{ID: n.ID, Message: n.Message, Read: n.Read, CreatedAt: &created}
}
