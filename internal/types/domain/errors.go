package domain

import "errors"

var (
	ErrUserExists   = errors.New("user exists")
	ErrUserNotFound = errors.New("user not found")
	ErrTeamExists   = errors.New("team exists")
	ErrTeamNotFound = errors.New("team not found")
)
