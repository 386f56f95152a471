// Package academics manages courses, enrollment and course projects.
package academics

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"innosistemas/api/internal/dto"
	"innosistemas/api/internal/model"
	"innosistemas/api/internal/repository"
)

// Team size bounds given to courses created without a catalog entry.
const (
	DefaultMaxTeamSize = 4
	DefaultMinTeamSize = 1
)

type Store interface {
	repository.UserStore
	repository.CourseStore
	repository.ProjectStore
	repository.TeamStore
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) CreateCourse(ctx context.Context, form dto.CreateCourseForm) (dto.CourseDto, error) {
	name := strings.TrimSpace(form.NameCourse)
	if name == "" {
		return dto.CourseDto{}, goerr.Wrap(model.ErrInvalidInput, "course name is required")
	}
	if form.Semester < 1 {
		return dto.CourseDto{}, goerr.Wrap(model.ErrInvalidInput, "semester must be positive", goerr.V("semester", form.Semester))
	}
	course, err := s.store.CreateCourse(ctx, model.Course{
		Name:        name,
		Semester:    form.Semester,
		Active:      form.Status,
		MaxTeamSize: DefaultMaxTeamSize,
		MinTeamSize: DefaultMinTeamSize,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return dto.CourseDto{}, err
	}
	ctxlog.From(ctx).Info("course created", "course_id", course.ID)
	return CourseDto(course), nil
}

func (s *Service) GetCourse(ctx context.Context, courseID int64) (dto.CourseDto, error) {
	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return dto.CourseDto{}, err
	}
	return CourseDto(course), nil
}

func (s *Service) ListCourses(ctx context.Context) ([]dto.CourseDto, error) {
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CourseDto, 0, len(courses))
	for _, c := range courses {
		out = append(out, CourseDto(c))
	}
	return out, nil
}

func (s *Service) Enroll(ctx context.Context, courseID int64, userID string) error {
	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if !course.Active {
		return goerr.Wrap(model.ErrInvalidInput, "course is not active", goerr.V("course_id", courseID))
	}
	return s.store.EnrollStudent(ctx, courseID, userID, s.now())
}

func (s *Service) ListStudents(ctx context.Context, courseID int64) ([]dto.Student, error) {
	users, err := s.store.ListCourseStudents(ctx, courseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.Student, 0, len(users))
	for _, u := range users {
		student, err := Student(ctx, s.store, u)
		if err != nil {
			return nil, err
		}
		out = append(out, student)
	}
	return out, nil
}

func (s *Service) CreateProject(ctx context.Context, form dto.CreateProjectForm) (dto.ProjectDto, error) {
	name := strings.TrimSpace(form.NameProject)
	if name == "" {
		return dto.ProjectDto{}, goerr.Wrap(model.ErrInvalidInput, "project name is required")
	}
	project, err := s.store.CreateProject(ctx, model.Project{
		Name:        name,
		Description: strings.TrimSpace(form.Descriptions),
		CourseID:    form.CourseID,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return dto.ProjectDto{}, err
	}
	return ProjectDto(project), nil
}

func (s *Service) GetProject(ctx context.Context, projectID int64) (dto.ProjectDto, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return dto.ProjectDto{}, err
	}
	return ProjectDto(project), nil
}

func (s *Service) ListProjects(ctx context.Context, courseID int64) ([]dto.ProjectDto, error) {
	if _, err := s.store.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	projects, err := s.store.ListProjectsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProjectDto, 0, len(projects))
	for _, p := range projects {
		out = append(out, ProjectDto(p))
	}
	return out, nil
}

func CourseDto(c model.Course) dto.CourseDto {
	return dto.CourseDto{IDCourse: c.ID, NameCourse: c.Name}
}

func ProjectDto(p model.Project) dto.ProjectDto {
	return dto.ProjectDto{ID: p.ID, Name: p.Name}
}

// StudentStore is what Student needs to resolve enrollments and teams.
type StudentStore interface {
	ListCourseIDsForUser(ctx context.Context, userID string) ([]int64, error)
	ListTeamsForUser(ctx context.Context, userID string) ([]model.Team, error)
}

// Student builds the front-end view of a user with its enrolled courses and
// current team per course.
func Student(ctx context.Context, store StudentStore, u model.User) (dto.Student, error) {
	courseIDs, err := store.ListCourseIDsForUser(ctx, u.ID)
	if err != nil {
		return dto.Student{}, goerr.Wrap(err, "list enrolled courses", goerr.V("user_id", u.ID))
	}
	teams, err := store.ListTeamsForUser(ctx, u.ID)
	if err != nil {
		return dto.Student{}, goerr.Wrap(err, "list user teams", goerr.V("user_id", u.ID))
	}

	student := dto.Student{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Skills:    append([]string(nil), u.Skills...),
		CourseIDs: make([]dto.FlexibleID, 0, len(courseIDs)),
	}
	for _, id := range courseIDs {
		student.CourseIDs = append(student.CourseIDs, dto.FlexibleIDFromInt(id))
	}
	if len(teams) > 0 {
		student.CurrentTeams = make(map[string]string, len(teams))
		for _, t := range teams {
			student.CurrentTeams[strconv.FormatInt(t.CourseID, 10)] = strconv.FormatInt(t.ID, 10)
		}
	}
	if u.Avatar != nil {
		student.Avatar = *u.Avatar
	}
	if !u.CreatedAt.IsZero() {
		created := u.CreatedAt
		student.CreatedAt = &created
	}
	if !u.UpdatedAt.IsZero() {
		updated := u.UpdatedAt
		student.UpdatedAt = &updated
	}
	return student, nil
}
