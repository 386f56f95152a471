package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/goerr/v2"

	"innosistemas/api/internal/model"
)

const courseColumns = `id, name, semester, active, max_team_size, min_team_size, created_at`

func scanCourse(row pgx.Row) (model.Course, error) {
	var c model.Course
	err := row.Scan(&c.ID, &c.Name, &c.Semester, &c.Active, &c.MaxTeamSize, &c.MinTeamSize, &c.CreatedAt)
	return c, err
}

func (s *Store) CreateCourse(ctx context.Context, course model.Course) (model.Course, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO courses (name, semester, active, max_team_size, min_team_size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+courseColumns,
		course.Name, course.Semester, course.Active, course.MaxTeamSize, course.MinTeamSize, course.CreatedAt)
	created, err := scanCourse(row)
	if err != nil {
		return model.Course{}, goerr.Wrap(classify(err), "insert course", goerr.V("name", course.Name))
	}
	return created, nil
}

func (s *Store) GetCourse(ctx context.Context, courseID int64) (model.Course, error) {
	course, err := scanCourse(s.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, courseID))
	if err != nil {
		return model.Course{}, goerr.Wrap(classify(err), "get course", goerr.V("course_id", courseID))
	}
	return course, nil
}

func (s *Store) GetCourseByName(ctx context.Context, name string) (model.Course, error) {
	course, err := scanCourse(s.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE lower(name) = lower($1)`, name))
	if err != nil {
		return model.Course{}, goerr.Wrap(classify(err), "get course by name", goerr.V("name", name))
	}
	return course, nil
}

func (s *Store) ListCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY id`)
	if err != nil {
		return nil, goerr.Wrap(err, "list courses")
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "scan course")
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (s *Store) EnrollStudent(ctx context.Context, courseID int64, userID string, at time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO course_students (course_id, user_id, enrolled_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (course_id, user_id) DO NOTHING
	`, courseID, userID, at)
	if err != nil {
		return goerr.Wrap(classify(err), "enroll student", goerr.V("course_id", courseID), goerr.V("user_id", userID))
	}
	return nil
}

func (s *Store) IsEnrolled(ctx context.Context, courseID int64, userID string) (bool, error) {
	var enrolled bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM course_students WHERE course_id = $1 AND user_id = $2)
	`, courseID, userID).Scan(&enrolled)
	if err != nil {
		return false, goerr.Wrap(err, "check enrollment", goerr.V("course_id", courseID))
	}
	return enrolled, nil
}

func (s *Store) ListCourseIDsForUser(ctx context.Context, userID string) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT course_id FROM course_students WHERE user_id = $1 ORDER BY course_id`, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "list enrolled courses", goerr.V("user_id", userID))
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, goerr.Wrap(err, "scan enrolled courses")
	}
	return ids, nil
}

func (s *Store) ListCourseStudents(ctx context.Context, courseID int64) ([]model.User, error) {
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT u.id, u.email, u.name, u.password_hash, u.role, u.avatar, u.skills, u.created_at, u.updated_at
		FROM course_students cs
		JOIN users u ON u.id = cs.user_id
		WHERE cs.course_id = $1
		ORDER BY u.email
	`, courseID)
	if err != nil {
		return nil, goerr.Wrap(err, "list course students", goerr.V("course_id", courseID))
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "scan student")
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) CreateProject(ctx context.Context, project model.Project) (model.Project, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO projects (name, description, course_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, project.Name, project.Description, project.CourseID, project.CreatedAt).Scan(&project.ID)
	if err != nil {
		return model.Project{}, goerr.Wrap(classify(err), "insert project", goerr.V("course_id", project.CourseID))
	}
	return project, nil
}

func (s *Store) GetProject(ctx context.Context, projectID int64) (model.Project, error) {
	var p model.Project
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, description, course_id, created_at FROM projects WHERE id = $1
	`, projectID).Scan(&p.ID, &p.Name, &p.Description, &p.CourseID, &p.CreatedAt)
	if err != nil {
		return model.Project{}, goerr.Wrap(classify(err), "get project", goerr.V("project_id", projectID))
	}
	return p, nil
}

func (s *Store) ListProjectsByCourse(ctx context.Context, courseID int64) ([]model.Project, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, description, course_id, created_at FROM projects WHERE course_id = $1 ORDER BY id
	`, courseID)
	if err != nil {
		return nil, goerr.Wrap(err, "list projects", goerr.V("course_id", courseID))
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CourseID, &p.CreatedAt); err != nil {
			return nil, goerr.Wrap(err, "scan project")
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
