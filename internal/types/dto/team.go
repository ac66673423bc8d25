package dto

import (
	"time"
)

type CreateTeamRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	UserEmails  []string `json:"user_emails" validate:"omitempty,dive,email"`
}

func (r *CreateTeamRequest) Normalize() {
	r.UserEmails = lowercaseList(r.UserEmails)
}

type UpdateTeamRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	UserEmails  []string `json:"user_emails" validate:"omitempty,dive,email"`
}

func (r *UpdateTeamRequest) Normalize() {
	r.UserEmails = lowercaseList(r.UserEmails)
}

type TeamResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	UserEmails  []string   `json:"user_emails"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
