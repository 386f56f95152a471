package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"innosistemas/api/internal/model"
)

func (c *Client) CreateUser(ctx context.Context, user model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := c.emailIndex[email]; exists {
		return goerr.Wrap(model.ErrConflict, "email already registered", goerr.V("email", email))
	}
	if _, exists := c.users[user.ID]; exists {
		return goerr.Wrap(model.ErrConflict, "user id already used", goerr.V("user_id", user.ID))
	}

	userCopy := user
	userCopy.Email = email
	userCopy.Skills = append([]string(nil), user.Skills...)
	c.users[user.ID] = &userCopy
	c.emailIndex[email] = user.ID
	return nil
}

func (c *Client) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id, exists := c.emailIndex[strings.ToLower(email)]
	if !exists {
		return model.User{}, goerr.Wrap(model.ErrNotFound, "user not found", goerr.V("email", email))
	}
	return copyUser(c.users[id]), nil
}

func (c *Client) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	u, exists := c.users[userID]
	if !exists {
		return model.User{}, goerr.Wrap(model.ErrNotFound, "user not found", goerr.V("user_id", userID))
	}
	return copyUser(u), nil
}

func (c *Client) ListUsers(ctx context.Context, limit int) ([]model.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	users := make([]model.User, 0, len(c.users))
	for _, u := range c.users {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (c *Client) ListPermissions(ctx context.Context, role string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]string{}, c.permissions[role]...), nil
}

func copyUser(u *model.User) model.User {
	userCopy := *u
	userCopy.Skills = append([]string(nil), u.Skills...)
	return userCopy
}
