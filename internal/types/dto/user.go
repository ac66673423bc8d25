package dto

import (
	"time"
)

type CreateUserRequest struct {
	Email string   `json:"email" validate:"required,email"`
	Name  string   `json:"name" validate:"required"`
	Roles []string `json:"roles"`
	Teams []string `json:"teams"`
}

// Normalize lowercases the email and cleans the list fields. Call after
// validation, before the request reaches the service.
func (r *CreateUserRequest) Normalize() {
	r.Email = lowercase(r.Email)
	r.Roles = cleanStringList(r.Roles)
	r.Teams = cleanStringList(r.Teams)
}

type UpdateUserRequest struct {
	Email string   `json:"email" validate:"required,email"`
	Name  string   `json:"name" validate:"required"`
	Roles []string `json:"roles"`
	Teams []string `json:"teams"`
}

func (r *UpdateUserRequest) Normalize() {
	r.Email = lowercase(r.Email)
	r.Roles = cleanStringList(r.Roles)
	r.Teams = cleanStringList(r.Teams)
}

// PatchUserRequest is the partial-update body. Nil pointers mean the field was
// omitted; a present-but-empty list replaces the stored one with nothing.
type PatchUserRequest struct {
	Email *string   `json:"email" validate:"omitempty,email"`
	Name  *string   `json:"name"`
	Roles *[]string `json:"roles"`
	Teams *[]string `json:"teams"`
}

func (r *PatchUserRequest) Normalize() {
	if r.Email != nil {
		e := lowercase(*r.Email)
		r.Email = &e
	}
	if r.Roles != nil {
		cleaned := cleanStringList(*r.Roles)
		r.Roles = &cleaned
	}
	if r.Teams != nil {
		cleaned := cleanStringList(*r.Teams)
		r.Teams = &cleaned
	}
}

type UserResponse struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Roles     []string   `json:"roles"`
	Teams     []string   `json:"teams"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
