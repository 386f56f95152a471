package dto

type CourseCatalogEntry struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Semester    int    `json:"semester" yaml:"semester"`
	Status      bool   `json:"status" yaml:"status"`
	MaxTeamSize int    `json:"maxTeamSize" yaml:"maxTeamSize"`
	MinTeamSize int    `json:"minTeamSize" yaml:"minTeamSize"`
}

var softwareEngineeringCourses = [...]CourseCatalogEntry{
	{ID: 1, Name: "Fundamentos de Programación", Semester: 1, Status: true, MaxTeamSize: 4, MinTeamSize: 1},
	{ID: 2, Name: "Estructuras de Datos", Semester: 2, Status: true, MaxTeamSize: 4, MinTeamSize: 1},
	{ID: 3, Name: "Algoritmos y Complejidad", Semester: 3, Status: true, MaxTeamSize: 4, MinTeamSize: 1},
	{ID: 4, Name: "Ingeniería de Software I", Semester: 4, Status: true, MaxTeamSize: 4, MinTeamSize: 1},
	{ID: 5, Name: "Bases de Datos", Semester: 4, Status: true, MaxTeamSize: 4, MinTeamSize: 1},
	{ID: 6, Name: "Ingeniería de Software II", Semester: 5, Status: true, MaxTeamSize: 4, MinTeamSize: 1},
	{ID: 7, Name: "Arquitectura de Software", Semester: 6, Status: true, MaxTeamSize: 4, MinTeamSize: 1},
	{ID: 8, Name: "Proyecto de Grado", Semester: 8, Status: true, MaxTeamSize: 4, MinTeamSize: 1},
}

// SoftwareEngineeringCourses returns a copy of the built-in reference table
// of software engineering courses.
func SoftwareEngineeringCourses() []CourseCatalogEntry {
	out := make([]CourseCatalogEntry, len(softwareEngineeringCourses))
	copy(out, softwareEngineeringCourses[:])
	return out
}
