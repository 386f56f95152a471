package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"innosistemas/api/internal/catalog"
	"innosistemas/api/internal/dto"
	"innosistemas/api/internal/model"
	"innosistemas/api/internal/repository/memory"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoadDefaultsToBuiltInTable(t *testing.T) {
	entries, err := catalog.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 8 {
		t.Fatalf("expected 8 courses, got %d", len(entries))
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := writeFile(t, `
- id: 10
  name: Redes
  semester: 6
  status: true
  maxTeamSize: 3
  minTeamSize: 2
- id: 11
  name: Compiladores
  semester: 7
  status: false
  maxTeamSize: 5
  minTeamSize: 1
`)
	entries, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := dto.CourseCatalogEntry{ID: 10, Name: "Redes", Semester: 6, Status: true, MaxTeamSize: 3, MinTeamSize: 2}
	if len(entries) != 2 || entries[0] != want {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestLoadRejectsInvalidCatalogs(t *testing.T) {
	cases := map[string]string{
		"duplicate id": "- {id: 1, name: A, semester: 1, maxTeamSize: 2, minTeamSize: 1}\n- {id: 1, name: B, semester: 1, maxTeamSize: 2, minTeamSize: 1}\n",
		"empty name":   "- {id: 1, name: '', semester: 1, maxTeamSize: 2, minTeamSize: 1}\n",
		"bad bounds":   "- {id: 1, name: A, semester: 1, maxTeamSize: 1, minTeamSize: 2}\n",
		"zero minimum": "- {id: 1, name: A, semester: 1, maxTeamSize: 1, minTeamSize: 0}\n",
		"empty":        "[]\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.Load(writeFile(t, content))
			if !errors.Is(err, model.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}

	if _, err := catalog.Load(writeFile(t, "not: [valid")); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := catalog.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	entries := dto.SoftwareEngineeringCourses()

	created, err := catalog.Seed(ctx, store, entries)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if created != len(entries) {
		t.Fatalf("expected %d created, got %d", len(entries), created)
	}

	created, err = catalog.Seed(ctx, store, entries)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected no new courses, got %d", created)
	}

	course, err := store.GetCourseByName(ctx, entries[3].Name)
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	if course.MaxTeamSize != 4 || course.MinTeamSize != 1 || !course.Active {
		t.Fatalf("unexpected seeded course: %+v", course)
	}
}
