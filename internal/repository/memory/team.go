package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"innosistemas/api/internal/model"
)

func (c *Client) CreateTeam(ctx context.Context, team model.Team) (model.Team, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.projects[team.ProjectID]; !exists {
		return model.Team{}, goerr.Wrap(model.ErrNotFound, "project not found", goerr.V("project_id", team.ProjectID))
	}
	if _, exists := c.users[team.CreatorID]; !exists {
		return model.Team{}, goerr.Wrap(model.ErrNotFound, "creator not found", goerr.V("user_id", team.CreatorID))
	}
	key := memberKey{courseID: team.CourseID, userID: team.CreatorID}
	if teamID, exists := c.courseTeams[key]; exists {
		return model.Team{}, goerr.Wrap(model.ErrAlreadyInTeam, "creator already in a team",
			goerr.V("user_id", team.CreatorID), goerr.V("team_id", teamID))
	}

	c.nextTeamID++
	team.ID = c.nextTeamID
	teamCopy := team
	c.teams[team.ID] = &teamCopy
	c.members[team.ID] = []membership{{userID: team.CreatorID, joinedAt: team.CreatedAt}}
	c.courseTeams[key] = team.ID
	return team, nil
}

func (c *Client) GetTeam(ctx context.Context, teamID int64) (model.Team, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	team, exists := c.teams[teamID]
	if !exists {
		return model.Team{}, goerr.Wrap(model.ErrNotFound, "team not found", goerr.V("team_id", teamID))
	}
	return *team, nil
}

func (c *Client) ListTeams(ctx context.Context) ([]model.Team, error) {
	return c.filterTeams(func(*model.Team) bool { return true }), nil
}

func (c *Client) ListTeamsByCourse(ctx context.Context, courseID int64) ([]model.Team, error) {
	return c.filterTeams(func(t *model.Team) bool { return t.CourseID == courseID }), nil
}

func (c *Client) ListTeamsForUser(ctx context.Context, userID string) ([]model.Team, error) {
	c.mu.RLock()
	ids := make(map[int64]bool)
	for key, teamID := range c.courseTeams {
		if key.userID == userID {
			ids[teamID] = true
		}
	}
	c.mu.RUnlock()
	return c.filterTeams(func(t *model.Team) bool { return ids[t.ID] }), nil
}

func (c *Client) ListFormingTeamsCreatedBefore(ctx context.Context, before time.Time) ([]model.Team, error) {
	return c.filterTeams(func(t *model.Team) bool {
		return t.Status == model.TeamStatusForming && t.CreatedAt.Before(before)
	}), nil
}

func (c *Client) filterTeams(keep func(*model.Team) bool) []model.Team {
	c.mu.RLock()
	defer c.mu.RUnlock()

	teams := []model.Team{}
	for _, team := range c.teams {
		if keep(team) {
			teams = append(teams, *team)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams
}

func (c *Client) ListTeamMembers(ctx context.Context, teamID int64) ([]model.TeamMember, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, exists := c.teams[teamID]; !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "team not found", goerr.V("team_id", teamID))
	}
	members := make([]model.TeamMember, 0, len(c.members[teamID]))
	for _, m := range c.members[teamID] {
		u, ok := c.users[m.userID]
		if !ok {
			continue
		}
		members = append(members, model.TeamMember{TeamID: teamID, User: copyUser(u), JoinedAt: m.joinedAt})
	}
	return members, nil
}

func (c *Client) AddTeamMember(ctx context.Context, teamID int64, userID string, maxSize int, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	team, exists := c.teams[teamID]
	if !exists {
		return goerr.Wrap(model.ErrNotFound, "team not found", goerr.V("team_id", teamID))
	}
	if _, exists := c.users[userID]; !exists {
		return goerr.Wrap(model.ErrNotFound, "user not found", goerr.V("user_id", userID))
	}
	key := memberKey{courseID: team.CourseID, userID: userID}
	if current, exists := c.courseTeams[key]; exists {
		return goerr.Wrap(model.ErrAlreadyInTeam, "user already in a team",
			goerr.V("user_id", userID), goerr.V("team_id", current))
	}
	if maxSize > 0 && len(c.members[teamID]) >= maxSize {
		return goerr.Wrap(model.ErrTeamFull, "team is full", goerr.V("team_id", teamID), goerr.V("max_size", maxSize))
	}

	c.members[teamID] = append(c.members[teamID], membership{userID: userID, joinedAt: at})
	c.courseTeams[key] = teamID
	team.UpdatedAt = at
	team.LastActivity = at
	return nil
}

func (c *Client) RemoveTeamMember(ctx context.Context, teamID int64, userID string, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	team, exists := c.teams[teamID]
	if !exists {
		return goerr.Wrap(model.ErrNotFound, "team not found", goerr.V("team_id", teamID))
	}
	members := c.members[teamID]
	for i, m := range members {
		if m.userID != userID {
			continue
		}
		c.members[teamID] = append(members[:i:i], members[i+1:]...)
		delete(c.courseTeams, memberKey{courseID: team.CourseID, userID: userID})
		team.UpdatedAt = at
		team.LastActivity = at
		return nil
	}
	return goerr.Wrap(model.ErrNotMember, "user not in team", goerr.V("team_id", teamID), goerr.V("user_id", userID))
}

func (c *Client) UpdateTeamStatus(ctx context.Context, teamID int64, status string, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	team, exists := c.teams[teamID]
	if !exists {
		return goerr.Wrap(model.ErrNotFound, "team not found", goerr.V("team_id", teamID))
	}
	team.Status = status
	team.UpdatedAt = at
	return nil
}

func (c *Client) UpdateTeamProgress(ctx context.Context, teamID int64, progress int, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	team, exists := c.teams[teamID]
	if !exists {
		return goerr.Wrap(model.ErrNotFound, "team not found", goerr.V("team_id", teamID))
	}
	team.Progress = progress
	team.UpdatedAt = at
	team.LastActivity = at
	return nil
}
