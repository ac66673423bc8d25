package domain

import (
	"time"
)

type Team struct {
	ID          int64
	Name        string
	Description string
	UserEmails  []string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
