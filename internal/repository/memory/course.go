package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"innosistemas/api/internal/model"
)

func (c *Client) CreateCourse(ctx context.Context, course model.Course) (model.Course, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.courses {
		if strings.EqualFold(existing.Name, course.Name) {
			return model.Course{}, goerr.Wrap(model.ErrConflict, "course name already used", goerr.V("name", course.Name))
		}
	}
	c.nextCourseID++
	course.ID = c.nextCourseID
	courseCopy := course
	c.courses[course.ID] = &courseCopy
	return course, nil
}

func (c *Client) GetCourse(ctx context.Context, courseID int64) (model.Course, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	course, exists := c.courses[courseID]
	if !exists {
		return model.Course{}, goerr.Wrap(model.ErrNotFound, "course not found", goerr.V("course_id", courseID))
	}
	return *course, nil
}

func (c *Client) GetCourseByName(ctx context.Context, name string) (model.Course, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, course := range c.courses {
		if strings.EqualFold(course.Name, name) {
			return *course, nil
		}
	}
	return model.Course{}, goerr.Wrap(model.ErrNotFound, "course not found", goerr.V("name", name))
}

func (c *Client) ListCourses(ctx context.Context) ([]model.Course, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	courses := make([]model.Course, 0, len(c.courses))
	for _, course := range c.courses {
		courses = append(courses, *course)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (c *Client) EnrollStudent(ctx context.Context, courseID int64, userID string, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.courses[courseID]; !exists {
		return goerr.Wrap(model.ErrNotFound, "course not found", goerr.V("course_id", courseID))
	}
	if _, exists := c.users[userID]; !exists {
		return goerr.Wrap(model.ErrNotFound, "user not found", goerr.V("user_id", userID))
	}
	key := enrollment{courseID: courseID, userID: userID}
	if _, exists := c.enrollments[key]; !exists {
		c.enrollments[key] = at
	}
	return nil
}

func (c *Client) IsEnrolled(ctx context.Context, courseID int64, userID string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.enrollments[enrollment{courseID: courseID, userID: userID}]
	return exists, nil
}

func (c *Client) ListCourseIDsForUser(ctx context.Context, userID string) ([]int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := []int64{}
	for key := range c.enrollments {
		if key.userID == userID {
			ids = append(ids, key.courseID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (c *Client) ListCourseStudents(ctx context.Context, courseID int64) ([]model.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, exists := c.courses[courseID]; !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "course not found", goerr.V("course_id", courseID))
	}
	users := []model.User{}
	for key := range c.enrollments {
		if key.courseID == courseID {
			if u, ok := c.users[key.userID]; ok {
				users = append(users, copyUser(u))
			}
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (c *Client) CreateProject(ctx context.Context, project model.Project) (model.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.courses[project.CourseID]; !exists {
		return model.Project{}, goerr.Wrap(model.ErrNotFound, "course not found", goerr.V("course_id", project.CourseID))
	}
	c.nextProject++
	project.ID = c.nextProject
	projectCopy := project
	c.projects[project.ID] = &projectCopy
	return project, nil
}

func (c *Client) GetProject(ctx context.Context, projectID int64) (model.Project, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	project, exists := c.projects[projectID]
	if !exists {
		return model.Project{}, goerr.Wrap(model.ErrNotFound, "project not found", goerr.V("project_id", projectID))
	}
	return *project, nil
}

func (c *Client) ListProjectsByCourse(ctx context.Context, courseID int64) ([]model.Project, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	projects := []model.Project{}
	for _, project := range c.projects {
		if project.CourseID == courseID {
			projects = append(projects, *project)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}
