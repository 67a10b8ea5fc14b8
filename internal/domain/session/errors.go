package session

import "errors"

var (
	ErrSessionNotFound = errors.New("attendance session not found")
	ErrSessionExists   = errors.New("attendance session already exists for this date")
)
