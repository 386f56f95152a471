package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/goerr/v2"

	"innosistemas/api/internal/db"
	"innosistemas/api/internal/model"
)

const teamColumns = `id, name, project_id, course_id, creator_id, status, progress, created_at, updated_at, last_activity`

func scanTeam(row pgx.Row) (model.Team, error) {
	var t model.Team
	err := row.Scan(&t.ID, &t.Name, &t.ProjectID, &t.CourseID, &t.CreatorID, &t.Status, &t.Progress, &t.CreatedAt, &t.UpdatedAt, &t.LastActivity)
	return t, err
}

func (s *Store) queryTeams(ctx context.Context, query string, args ...any) ([]model.Team, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []model.Team{}
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

// alreadyInTeam turns the team_members (course_id, user_id) unique violation
// into model.ErrAlreadyInTeam.
func alreadyInTeam(err error) error {
	err = classify(err)
	if errors.Is(err, model.ErrConflict) {
		return model.ErrAlreadyInTeam
	}
	return err
}

func (s *Store) CreateTeam(ctx context.Context, team model.Team) (model.Team, error) {
	err := s.db.WithTx(ctx, func(q db.Querier) error {
		err := q.QueryRow(ctx, `
			INSERT INTO teams (name, project_id, course_id, creator_id, status, progress, created_at, updated_at, last_activity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`, team.Name, team.ProjectID, team.CourseID, team.CreatorID, team.Status, team.Progress, team.CreatedAt, team.UpdatedAt, team.LastActivity).Scan(&team.ID)
		if err != nil {
			return classify(err)
		}
		_, err = q.Exec(ctx, `
			INSERT INTO team_members (team_id, course_id, user_id, joined_at)
			VALUES ($1, $2, $3, $4)
		`, team.ID, team.CourseID, team.CreatorID, team.CreatedAt)
		return alreadyInTeam(err)
	})
	if err != nil {
		return model.Team{}, goerr.Wrap(err, "create team", goerr.V("name", team.Name), goerr.V("creator_id", team.CreatorID))
	}
	return team, nil
}

func (s *Store) GetTeam(ctx context.Context, teamID int64) (model.Team, error) {
	team, err := scanTeam(s.pool.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, teamID))
	if err != nil {
		return model.Team{}, goerr.Wrap(classify(err), "get team", goerr.V("team_id", teamID))
	}
	return team, nil
}

func (s *Store) ListTeams(ctx context.Context) ([]model.Team, error) {
	teams, err := s.queryTeams(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY id`)
	if err != nil {
		return nil, goerr.Wrap(err, "list teams")
	}
	return teams, nil
}

func (s *Store) ListTeamsByCourse(ctx context.Context, courseID int64) ([]model.Team, error) {
	teams, err := s.queryTeams(ctx, `SELECT `+teamColumns+` FROM teams WHERE course_id = $1 ORDER BY id`, courseID)
	if err != nil {
		return nil, goerr.Wrap(err, "list course teams", goerr.V("course_id", courseID))
	}
	return teams, nil
}

func (s *Store) ListTeamsForUser(ctx context.Context, userID string) ([]model.Team, error) {
	teams, err := s.queryTeams(ctx, `
		SELECT t.id, t.name, t.project_id, t.course_id, t.creator_id, t.status, t.progress, t.created_at, t.updated_at, t.last_activity
		FROM teams t
		JOIN team_members m ON m.team_id = t.id
		WHERE m.user_id = $1
		ORDER BY t.id
	`, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "list user teams", goerr.V("user_id", userID))
	}
	return teams, nil
}

func (s *Store) ListFormingTeamsCreatedBefore(ctx context.Context, before time.Time) ([]model.Team, error) {
	teams, err := s.queryTeams(ctx, `
		SELECT `+teamColumns+` FROM teams WHERE status = $1 AND created_at < $2 ORDER BY id
	`, model.TeamStatusForming, before)
	if err != nil {
		return nil, goerr.Wrap(err, "list forming teams")
	}
	return teams, nil
}

func (s *Store) ListTeamMembers(ctx context.Context, teamID int64) ([]model.TeamMember, error) {
	if _, err := s.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT u.id, u.email, u.name, u.password_hash, u.role, u.avatar, u.skills, u.created_at, u.updated_at, m.joined_at
		FROM team_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.team_id = $1
		ORDER BY m.joined_at, u.email
	`, teamID)
	if err != nil {
		return nil, goerr.Wrap(err, "list team members", goerr.V("team_id", teamID))
	}
	defer rows.Close()

	members := []model.TeamMember{}
	for rows.Next() {
		m := model.TeamMember{TeamID: teamID}
		u := &m.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Avatar, &u.Skills, &u.CreatedAt, &u.UpdatedAt, &m.JoinedAt); err != nil {
			return nil, goerr.Wrap(err, "scan team member")
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) AddTeamMember(ctx context.Context, teamID int64, userID string, maxSize int, at time.Time) error {
	err := s.db.WithTx(ctx, func(q db.Querier) error {
		var courseID int64
		err := q.QueryRow(ctx, `SELECT course_id FROM teams WHERE id = $1 FOR UPDATE`, teamID).Scan(&courseID)
		if err != nil {
			return classify(err)
		}
		if maxSize > 0 {
			var count int
			if err := q.QueryRow(ctx, `SELECT count(*) FROM team_members WHERE team_id = $1`, teamID).Scan(&count); err != nil {
				return err
			}
			if count >= maxSize {
				return model.ErrTeamFull
			}
		}
		if _, err := q.Exec(ctx, `
			INSERT INTO team_members (team_id, course_id, user_id, joined_at)
			VALUES ($1, $2, $3, $4)
		`, teamID, courseID, userID, at); err != nil {
			return alreadyInTeam(err)
		}
		_, err = q.Exec(ctx, `UPDATE teams SET updated_at = $1, last_activity = $1 WHERE id = $2`, at, teamID)
		return err
	})
	if err != nil {
		return goerr.Wrap(err, "add team member", goerr.V("team_id", teamID), goerr.V("user_id", userID))
	}
	return nil
}

func (s *Store) RemoveTeamMember(ctx context.Context, teamID int64, userID string, at time.Time) error {
	err := s.db.WithTx(ctx, func(q db.Querier) error {
		tag, err := q.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrNotMember
		}
		_, err = q.Exec(ctx, `UPDATE teams SET updated_at = $1, last_activity = $1 WHERE id = $2`, at, teamID)
		return err
	})
	if err != nil {
		return goerr.Wrap(err, "remove team member", goerr.V("team_id", teamID), goerr.V("user_id", userID))
	}
	return nil
}

func (s *Store) UpdateTeamStatus(ctx context.Context, teamID int64, status string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE teams SET status = $1, updated_at = $2 WHERE id = $3`, status, at, teamID)
	if err != nil {
		return goerr.Wrap(err, "update team status", goerr.V("team_id", teamID))
	}
	if tag.RowsAffected() == 0 {
		return goerr.Wrap(model.ErrNotFound, "team not found", goerr.V("team_id", teamID))
	}
	return nil
}

func (s *Store) UpdateTeamProgress(ctx context.Context, teamID int64, progress int, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE teams SET progress = $1, updated_at = $2, last_activity = $2 WHERE id = $3
	`, progress, at, teamID)
	if err != nil {
		return goerr.Wrap(err, "update team progress", goerr.V("team_id", teamID))
	}
	if tag.RowsAffected() == 0 {
		return goerr.Wrap(model.ErrNotFound, "team not found", goerr.V("team_id", teamID))
	}
	return nil
}
