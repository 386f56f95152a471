package model

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("already exists")
	ErrMissingCredentials  = errors.New("missing credentials")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshExpired      = errors.New("refresh token expired or revoked")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotEnrolled         = errors.New("user is not enrolled in the course")
	ErrAlreadyInTeam       = errors.New("user already belongs to a team in this course")
	ErrNotMember           = errors.New("user is not a member of the team")
	ErrTeamFull            = errors.New("team has reached the maximum size")
	ErrTeamClosed          = errors.New("team no longer accepts members")
	ErrInvalidTransition   = errors.New("team status transition not allowed")
	ErrTeamTooSmall        = errors.New("team has fewer members than the course minimum")
)
