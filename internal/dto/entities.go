package dto

import "time"

type UserDto struct {
	Email    string `json:"email"`
	NameUser string `json:"nameUser"`
}

type UserWithRoleDto struct {
	Email     string     `json:"email"`
	NameUser  string     `json:"nameUser"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type CreateUserDto struct {
	Email    string `json:"email"`
	NameUser string `json:"nameUser"`
	Password string `json:"password"`
}

type CourseDto struct {
	IDCourse   int64  `json:"idCourse"`
	NameCourse string `json:"nameCourse"`
}

type TeamDto struct {
	IDTeam    int64  `json:"idTeam"`
	NameTeam  string `json:"nameTeam"`
	ProjectID int64  `json:"projectId"`
}

type TeamShowDto struct {
	IDTeam      int64     `json:"idTeam"`
	NameTeam    string    `json:"nameTeam"`
	ProjectID   int64     `json:"projectId"`
	ProjectName string    `json:"projectName"`
	CourseID    int64     `json:"courseId"`
	Students    []UserDto `json:"students"`
}

type ProjectDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
