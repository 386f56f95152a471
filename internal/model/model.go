package model

import "time"

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	Avatar       *string
	Skills       []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RefreshSession struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
	UserAgent *string
	IPAddress *string
}

type Course struct {
	ID          int64
	Name        string
	Semester    int
	Active      bool
	MaxTeamSize int
	MinTeamSize int
	CreatedAt   time.Time
}

type Project struct {
	ID          int64
	Name        string
	Description string
	CourseID    int64
	CreatedAt   time.Time
}

type Team struct {
	ID           int64
	Name         string
	ProjectID    int64
	CourseID     int64
	CreatorID    string
	Status       string
	Progress     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastActivity time.Time
}

type TeamMember struct {
	TeamID   int64
	User     User
	JoinedAt time.Time
}

type Notification struct {
	ID        string
	UserID    string
	Message   string
	Read      bool
	CreatedAt time.Time
}

const (
	TeamStatusForming    = "forming"
	TeamStatusActive     = "active"
	TeamStatusCompleted  = "completed"
	TeamStatusIncomplete = "incomplete"
)
