// Package catalog loads the course reference table and seeds it into a store.
package catalog

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"innosistemas/api/internal/dto"
	"innosistemas/api/internal/model"
	"innosistemas/api/internal/repository"
)

// Load reads a YAML list of catalog entries. An empty path yields the
// built-in software engineering table.
func Load(path string) ([]dto.CourseCatalogEntry, error) {
	if path == "" {
		return dto.SoftwareEngineeringCourses(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read course catalog", goerr.V("file", path))
	}
	var entries []dto.CourseCatalogEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, goerr.Wrap(err, "failed to parse course catalog", goerr.V("file", path))
	}
	if err := Validate(entries); err != nil {
		return nil, goerr.Wrap(err, "invalid course catalog", goerr.V("file", path))
	}
	return entries, nil
}

func Validate(entries []dto.CourseCatalogEntry) error {
	if len(entries) == 0 {
		return goerr.Wrap(model.ErrInvalidInput, "catalog is empty")
	}
	seen := make(map[int64]bool, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			return goerr.Wrap(model.ErrInvalidInput, "duplicate course id", goerr.V("id", e.ID))
		}
		seen[e.ID] = true
		if strings.TrimSpace(e.Name) == "" {
			return goerr.Wrap(model.ErrInvalidInput, "course name is empty", goerr.V("id", e.ID))
		}
		if e.MinTeamSize < 1 || e.MinTeamSize > e.MaxTeamSize {
			return goerr.Wrap(model.ErrInvalidInput, "invalid team size bounds",
				goerr.V("id", e.ID), goerr.V("min", e.MinTeamSize), goerr.V("max", e.MaxTeamSize))
		}
	}
	return nil
}

// Seed inserts entries whose name is not yet in the store and returns how
// many were created.
func Seed(ctx context.Context, store repository.CourseStore, entries []dto.CourseCatalogEntry) (int, error) {
	created := 0
	now := time.Now().UTC()
	for _, e := range entries {
		_, err := store.GetCourseByName(ctx, e.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, model.ErrNotFound) {
			return created, err
		}
		course, err := store.CreateCourse(ctx, model.Course{
			Name:        e.Name,
			Semester:    e.Semester,
			Active:      e.Status,
			MaxTeamSize: e.MaxTeamSize,
			MinTeamSize: e.MinTeamSize,
			CreatedAt:   now,
		})
		if err != nil {
			return created, goerr.Wrap(err, "seed course", goerr.V("name", e.Name))
		}
		created++
		ctxlog.From(ctx).Debug("course seeded", "course_id", course.ID, "name", course.Name)
	}
	return created, nil
}
