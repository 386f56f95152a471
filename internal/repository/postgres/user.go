package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/goerr/v2"

	"innosistemas/api/internal/model"
)

const userColumns = `id, email, name, password_hash, role, avatar, skills, created_at, updated_at`

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.Avatar,
		&user.Skills,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (s *Store) CreateUser(ctx context.Context, user model.User) error {
	skills := user.Skills
	if skills == nil {
		skills = []string{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, user.ID, strings.ToLower(user.Email), user.Name, user.PasswordHash, user.Role, user.Avatar, skills, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return goerr.Wrap(classify(err), "insert user", goerr.V("email", user.Email))
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	user, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
	if err != nil {
		return model.User{}, goerr.Wrap(classify(err), "get user by email", goerr.V("email", email))
	}
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	user, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if err != nil {
		return model.User{}, goerr.Wrap(classify(err), "get user by id", goerr.V("user_id", userID))
	}
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context, limit int) ([]model.User, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY email LIMIT $1`, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "list users")
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "scan user")
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) ListPermissions(ctx context.Context, role string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT permission FROM role_permissions WHERE role = $1 ORDER BY permission`, role)
	if err != nil {
		return nil, goerr.Wrap(err, "list permissions", goerr.V("role", role))
	}
	perms, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, goerr.Wrap(err, "scan permissions", goerr.V("role", role))
	}
	return perms, nil
}
