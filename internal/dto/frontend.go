package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// FlexibleID accepts either a JSON string or a JSON number and always
// encodes as a string.
type FlexibleID string

func (id FlexibleID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = FlexibleID(n.String())
	return nil
}

func FlexibleIDFromInt(v int64) FlexibleID {
	return FlexibleID(strconv.FormatInt(v, 10))
}

type Student struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Role         string            `json:"role,omitempty"`
	CourseIDs    []FlexibleID      `json:"courseIds,omitempty"`
	Skills       []string          `json:"skills,omitempty"`
	CurrentTeams map[string]string `json:"currentTeams,omitempty"`
	Avatar       string            `json:"avatar,omitempty"`
	CreatedAt    *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time        `json:"updatedAt,omitempty"`
}

type Notification struct {
	ID        string     `json:"id"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type TeamStatus string

const (
	TeamStatusForming    TeamStatus = "forming"
	TeamStatusActive     TeamStatus = "active"
	TeamStatusCompleted  TeamStatus = "completed"
	TeamStatusIncomplete TeamStatus = "incomplete"
)

func ParseTeamStatus(value string) (TeamStatus, error) {
	switch s := TeamStatus(value); s {
	case TeamStatusForming, TeamStatusActive, TeamStatusCompleted, TeamStatusIncomplete:
		return s, nil
	default:
		return "", fmt.Errorf("unknown team status %q", value)
	}
}

// UnmarshalJSON rejects unknown statuses. null is a no-op and "" decodes to
// the unset zero value.
func (s *TeamStatus) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*s = ""
		return nil
	}
	parsed, err := ParseTeamStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type Team struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CourseID  string     `json:"courseId"`
	CreatorID string     `json:"creatorId"`
	ProjectID string     `json:"projectId,omitempty"`
	Members   []Student  `json:"members"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Status    TeamStatus `json:"status"`
}

type TeamReport struct {
	TeamID          string     `json:"teamId"`
	TeamName        string     `json:"teamName"`
	CourseName      string     `json:"courseName"`
	MemberCount     int        `json:"memberCount"`
	ProjectProgress int        `json:"projectProgress"`
	LastActivity    time.Time  `json:"lastActivity"`
	Status          TeamStatus `json:"status"`
}
