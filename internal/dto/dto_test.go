package dto

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestTokenResponseWireNames(t *testing.T) {
	data, err := json.Marshal(AuthResponse{
		AccessToken:  "a",
		RefreshToken: "r",
		TokenType:    TokenTypeBearer,
		ExpiresIn:    900,
	})
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	want := `{"accessToken":"a","refreshToken":"r","tokenType":"Bearer","expiresIn":900}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
}

func TestTeamShowDtoDecode(t *testing.T) {
	body := `{"idTeam":3,"nameTeam":"Alpha","projectId":7,"projectName":"Compiler","courseId":2,
		"students":[{"email":"ana@udea.edu.co","nameUser":"Ana"}]}`
	var team TeamShowDto
	if err := json.Unmarshal([]byte(body), &team); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if team.IDTeam != 3 || team.ProjectID != 7 || team.CourseID != 2 || team.ProjectName != "Compiler" {
		t.Fatalf("unexpected team %+v", team)
	}
	if len(team.Students) != 1 || team.Students[0].NameUser != "Ana" {
		t.Fatalf("unexpected students %+v", team.Students)
	}
}

func TestUserWithRoleOmitsMissingTimestamps(t *testing.T) {
	data, err := json.Marshal(UserWithRoleDto{Email: "a@b.co", NameUser: "A", Role: "STUDENT"})
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if strings.Contains(string(data), "createdAt") || strings.Contains(string(data), "updatedAt") {
		t.Fatalf("expected timestamps to be omitted, got %s", data)
	}
}

func TestAPIResponseEnvelope(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	resp := OK(201, CourseDto{IDCourse: 4, NameCourse: "Bases de Datos"}, "created", now)
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	want := `{"data":{"idCourse":4,"nameCourse":"Bases de Datos"},"message":"created","timestamp":"2025-03-01T12:00:00Z","status":201}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}

	var empty APIResponse[[]ProjectDto]
	data, _ = json.Marshal(empty)
	if string(data) != `{}` {
		t.Fatalf("expected empty envelope, got %s", data)
	}
}

func TestAPIErrorPathOptional(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	data, _ := json.Marshal(NewAPIError(404, "team_not_found", "team not found", "", now))
	if strings.Contains(string(data), "path") {
		t.Fatalf("expected path to be omitted, got %s", data)
	}
	data, _ = json.Marshal(NewAPIError(404, "team_not_found", "team not found", "/teams/9", now))
	if !strings.Contains(string(data), `"path":"/teams/9"`) {
		t.Fatalf("expected path, got %s", data)
	}
}

func TestSoftwareEngineeringCoursesIsCopy(t *testing.T) {
	courses := SoftwareEngineeringCourses()
	if len(courses) != 8 {
		t.Fatalf("expected 8 courses, got %d", len(courses))
	}
	if courses[0].Name != "Fundamentos de Programación" || courses[7].Semester != 8 {
		t.Fatalf("unexpected catalog contents")
	}
	for _, c := range courses {
		if !c.Status || c.MinTeamSize != 1 || c.MaxTeamSize != 4 {
			t.Fatalf("unexpected course %+v", c)
		}
	}
	courses[0].Name = "changed"
	if SoftwareEngineeringCourses()[0].Name == "changed" {
		t.Fatalf("catalog must not be mutable through returned slice")
	}
}

func TestFlexibleID(t *testing.T) {
	var student Student
	body := `{"id":"u1","name":"Ana","email":"ana@udea.edu.co","courseIds":["2",4]}`
	if err := json.Unmarshal([]byte(body), &student); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(student.CourseIDs) != 2 || student.CourseIDs[0] != "2" || student.CourseIDs[1] != "4" {
		t.Fatalf("unexpected course ids %v", student.CourseIDs)
	}
	data, _ := json.Marshal(student.CourseIDs)
	if string(data) != `["2","4"]` {
		t.Fatalf("expected string encoding, got %s", data)
	}
	var id FlexibleID
	if err := json.Unmarshal([]byte(`true`), &id); err == nil {
		t.Fatalf("expected bool id to be rejected")
	}
}

func TestTeamStatus(t *testing.T) {
	for _, value := range []string{"forming", "active", "completed", "incomplete"} {
		if _, err := ParseTeamStatus(value); err != nil {
			t.Fatalf("expected %s to be valid", value)
		}
	}
	var report TeamReport
	if err := json.Unmarshal([]byte(`{"status":"archived"}`), &report); err == nil {
		t.Fatalf("expected unknown status to be rejected")
	}
}

func TestUserInfoHasPermission(t *testing.T) {
	info := UserInfo{Permissions: []Permission{{NamePermission: "JOIN_TEAM"}}}
	if !info.HasPermission("JOIN_TEAM") || info.HasPermission("MANAGE_USERS") {
		t.Fatalf("unexpected permission lookup")
	}
}

func TestTeamStatusNullAndEmpty(t *testing.T) {
	status := TeamStatusActive
	if err := json.Unmarshal([]byte(`null`), &status); err != nil || status != TeamStatusActive {
		t.Fatalf("expected null to leave status untouched, got %q (%v)", status, err)
	}
	if err := json.Unmarshal([]byte(`""`), &status); err != nil || status != "" {
		t.Fatalf("expected empty status to decode as unset, got %q (%v)", status, err)
	}
}

func roundTrip[T any](t *testing.T, in T) {
	t.Helper()
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal %T: %v", in, err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal %T from %s: %v", in, data, err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("%T changed in transit:\n in: %+v\nout: %+v\njson: %s", in, in, out, data)
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	token := "access-token"
	info := UserInfo{Email: "ana@udea.edu.co", Name: "Ana", Role: "STUDENT", Permissions: []Permission{{NamePermission: "JOIN_TEAM"}}}
	student := Student{
		ID:           "7",
		Name:         "Ana",
		Email:        "ana@udea.edu.co",
		Role:         "STUDENT",
		CourseIDs:    []FlexibleID{"1", "4"},
		Skills:       []string{"go", "sql"},
		CurrentTeams: map[string]string{"4": "12"},
		Avatar:       "https://cdn.example/ana.png",
		CreatedAt:    &at,
		UpdatedAt:    &at,
	}
	report := TeamReport{TeamID: "12", TeamName: "Alpha", CourseName: "Bases de Datos", MemberCount: 3, ProjectProgress: 40, LastActivity: at, Status: TeamStatusActive}

	cases := map[string]func(*testing.T){
		"LoginRequest":        func(t *testing.T) { roundTrip(t, LoginRequest{Email: "ana@udea.edu.co", Password: "secret"}) },
		"TokenResponse":       func(t *testing.T) { roundTrip(t, TokenResponse{AccessToken: "a", RefreshToken: "r", TokenType: TokenTypeBearer, ExpiresIn: 900}) },
		"UserInfo":            func(t *testing.T) { roundTrip(t, info) },
		"RefreshTokenRequest": func(t *testing.T) { roundTrip(t, RefreshTokenRequest{RefreshToken: "r"}) },
		"LogoutRequest":       func(t *testing.T) { roundTrip(t, LogoutRequest{Email: "ana@udea.edu.co"}) },
		"UserDto":             func(t *testing.T) { roundTrip(t, UserDto{Email: "ana@udea.edu.co", NameUser: "Ana"}) },
		"UserWithRoleDto":     func(t *testing.T) { roundTrip(t, UserWithRoleDto{Email: "a@b.co", NameUser: "A", Role: "ADMIN", CreatedAt: &at, UpdatedAt: &at}) },
		"CreateUserDto":       func(t *testing.T) { roundTrip(t, CreateUserDto{Email: "a@b.co", NameUser: "A", Password: "p"}) },
		"CourseDto":           func(t *testing.T) { roundTrip(t, CourseDto{IDCourse: 4, NameCourse: "Bases de Datos"}) },
		"TeamDto":             func(t *testing.T) { roundTrip(t, TeamDto{IDTeam: 12, NameTeam: "Alpha", ProjectID: 3}) },
		"TeamShowDto": func(t *testing.T) {
			roundTrip(t, TeamShowDto{IDTeam: 12, NameTeam: "Alpha", ProjectID: 3, ProjectName: "Planner", CourseID: 4, Students: []UserDto{{Email: "a@b.co", NameUser: "A"}}})
		},
		"ProjectDto":         func(t *testing.T) { roundTrip(t, ProjectDto{ID: 3, Name: "Planner"}) },
		"CreateTeamForm":     func(t *testing.T) { roundTrip(t, CreateTeamForm{NameTeam: "Alpha", ProjectID: 3}) },
		"CreateCourseForm":   func(t *testing.T) { roundTrip(t, CreateCourseForm{NameCourse: "Bases de Datos", Semester: 4, Status: true}) },
		"CreateProjectForm":  func(t *testing.T) { roundTrip(t, CreateProjectForm{NameProject: "Planner", Descriptions: "d", CourseID: 4}) },
		"CourseCatalogEntry": func(t *testing.T) { roundTrip(t, SoftwareEngineeringCourses()[0]) },
		"APIResponse":        func(t *testing.T) { roundTrip(t, OK(200, []TeamReport{report}, "ok", at)) },
		"APIError":           func(t *testing.T) { roundTrip(t, NewAPIError(404, "not_found", "missing", "/teams/9", at)) },
		"AuthState":          func(t *testing.T) { roundTrip(t, AuthState{User: &info, Token: &token, IsAuthenticated: true}) },
		"Student":            func(t *testing.T) { roundTrip(t, student) },
		"Notification":       func(t *testing.T) { roundTrip(t, Notification{ID: "n1", Message: "Ana joined team Alpha", Read: true, CreatedAt: &at}) },
		"Team": func(t *testing.T) {
			roundTrip(t, Team{ID: "12", Name: "Alpha", CourseID: "4", CreatorID: "7", ProjectID: "3", Members: []Student{student}, CreatedAt: at, UpdatedAt: &at, Status: TeamStatusForming})
		},
		"TeamReport":     func(t *testing.T) { roundTrip(t, report) },
		"zero Team":       func(t *testing.T) { roundTrip(t, Team{}) },
		"zero TeamReport": func(t *testing.T) { roundTrip(t, TeamReport{}) },
		"zero Student":    func(t *testing.T) { roundTrip(t, Student{}) },
		"zero AuthState":  func(t *testing.T) { roundTrip(t, AuthState{}) },
		"zero APIError":   func(t *testing.T) { roundTrip(t, APIError{}) },
	}
	for name, check := range cases {
		t.Run(name, check)
	}
}
