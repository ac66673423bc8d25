package domain

import (
	"time"
)

type User struct {
	ID        int64
	Email     string
	Name      string
	Roles     []string
	Teams     []string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// UserPatch carries the fields of a partial update. A nil pointer means the
// field was omitted and must be left untouched; a non-nil pointer to an empty
// slice explicitly clears the list.
type UserPatch struct {
	Email *string
	Name  *string
	Roles *[]string
	Teams *[]string
}

func (p UserPatch) Empty() bool {
	return p.Email == nil && p.Name == nil && p.Roles == nil && p.Teams == nil
}
