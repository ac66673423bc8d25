package service

import (
	"context"
	"errors"
	"strings"

	"github.com/LinkingTom/CustomIdP/internal/types/domain"
	"github.com/LinkingTom/CustomIdP/internal/types/dto"
	"github.com/LinkingTom/CustomIdP/internal/user/repo"
	"github.com/LinkingTom/CustomIdP/pkg/errutils"
)

type UserRepo interface {
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error)
	UpdateUser(ctx context.Context, email string, u domain.User) (domain.User, error)
	PartialUpdateUser(ctx context.Context, email string, patch domain.UserPatch) (domain.User, error)
	DeleteUser(ctx context.Context, email string) (bool, error)
	UserExists(ctx context.Context, email string) (bool, error)
}

type User struct {
	userRepo UserRepo
}

func NewUser(userRepo UserRepo) *User {
	return &User{userRepo: userRepo}
}

func (u *User) CreateUser(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error) {
	const op = "service.user.CreateUser"

	// Pre-check closes the common case early; the unique index in the repo
	// remains the authority under concurrent creates.
	exists, err := u.userRepo.UserExists(ctx, req.Email)
	if err != nil {
		return dto.UserResponse{}, errutils.Wrap(op, err)
	}
	if exists {
		return dto.UserResponse{}, errutils.Wrap(op, domain.ErrUserExists)
	}

	created, err := u.userRepo.CreateUser(ctx, domain.User{
		Email: req.Email,
		Name:  req.Name,
		Roles: req.Roles,
		Teams: req.Teams,
	})
	if err != nil {
		if errors.Is(err, repo.ErrUserExists) {
			return dto.UserResponse{}, errutils.Wrap(op, domain.ErrUserExists)
		}
		return dto.UserResponse{}, errutils.Wrap(op, err)
	}

	return toUserResponse(created), nil
}

func (u *User) GetUser(ctx context.Context, email string) (dto.UserResponse, error) {
	const op = "service.user.GetUser"

	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return dto.UserResponse{}, errutils.Wrap(op, domain.ErrUserNotFound)
		}
		return dto.UserResponse{}, errutils.Wrap(op, err)
	}

	return toUserResponse(user), nil
}

func (u *User) ListUsers(ctx context.Context, skip, limit int) ([]dto.UserResponse, error) {
	const op = "service.user.ListUsers"

	users, err := u.userRepo.ListUsers(ctx, skip, limit)
	if err != nil {
		return nil, errutils.Wrap(op, err)
	}

	resp := make([]dto.UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user)
	}
	return resp, nil
}

func (u *User) UpdateUser(ctx context.Context, email string, req dto.UpdateUserRequest) (dto.UserResponse, error) {
	const op = "service.user.UpdateUser"

	exists, err := u.userRepo.UserExists(ctx, email)
	if err != nil {
		return dto.UserResponse{}, errutils.Wrap(op, err)
	}
	if !exists {
		return dto.UserResponse{}, errutils.Wrap(op, domain.ErrUserNotFound)
	}

	// Changing the email to its own current value is a no-op, not a conflict.
	if !strings.EqualFold(req.Email, email) {
		taken, err := u.userRepo.UserExists(ctx, req.Email)
		if err != nil {
			return dto.UserResponse{}, errutils.Wrap(op, err)
		}
		if taken {
			return dto.UserResponse{}, errutils.Wrap(op, domain.ErrUserExists)
		}
	}

	updated, err := u.userRepo.UpdateUser(ctx, email, domain.User{
		Email: req.Email,
		Name:  req.Name,
		Roles: req.Roles,
		Teams: req.Teams,
	})
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return dto.UserResponse{}, errutils.Wrap(op, domain.ErrUserNotFound)
		}
		if errors.Is(err, repo.ErrUserExists) {
			return dto.UserResponse{}, errutils.Wrap(op, domain.ErrUserExists)
		}
		return dto.UserResponse{}, errutils.Wrap(op, err)
	}

	return toUserResponse(updated), nil
}

func (u *User) PatchUser(ctx context.Context, email string, req dto.PatchUserRequest) (dto.UserResponse, error) {
	const op = "service.user.PatchUser"

	exists, err := u.userRepo.UserExists(ctx, email)
	if err != nil {
		return dto.UserResponse{}, errutils.Wrap(op, err)
	}
	if !exists {
		return dto.UserResponse{}, errutils.Wrap(op, domain.ErrUserNotFound)
	}

	if req.Email != nil && !strings.EqualFold(*req.Email, email) {
		taken, err := u.userRepo.UserExists(ctx, *req.Email)
		if err != nil {
			return dto.UserResponse{}, errutils.Wrap(op, err)
		}
		if taken {
			return dto.UserResponse{}, errutils.Wrap(op, domain.ErrUserExists)
		}
	}

	updated, err := u.userRepo.PartialUpdateUser(ctx, email, domain.UserPatch{
		Email: req.Email,
		Name:  req.Name,
		Roles: req.Roles,
		Teams: req.Teams,
	})
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return dto.UserResponse{}, errutils.Wrap(op, domain.ErrUserNotFound)
		}
		if errors.Is(err, repo.ErrUserExists) {
			return dto.UserResponse{}, errutils.Wrap(op, domain.ErrUserExists)
		}
		return dto.UserResponse{}, errutils.Wrap(op, err)
	}

	return toUserResponse(updated), nil
}

func (u *User) DeleteUser(ctx context.Context, email string) error {
	const op = "service.user.DeleteUser"

	deleted, err := u.userRepo.DeleteUser(ctx, email)
	if err != nil {
		return errutils.Wrap(op, err)
	}
	if !deleted {
		return errutils.Wrap(op, domain.ErrUserNotFound)
	}

	return nil
}

func toUserResponse(u domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Roles:     u.Roles,
		Teams:     u.Teams,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
