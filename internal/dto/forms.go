package dto

type CreateTeamForm struct {
	NameTeam  string `json:"nameTeam"`
	ProjectID int64  `json:"projectId"`
}

type CreateCourseForm struct {
	NameCourse string `json:"nameCourse"`
	Semester   int    `json:"semester"`
	Status     bool   `json:"status"`
}

type CreateProjectForm struct {
	NameProject  string `json:"nameProject"`
	Descriptions string `json:"descriptions"`
	CourseID     int64  `json:"courseId"`
}
