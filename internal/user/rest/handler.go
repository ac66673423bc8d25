package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/LinkingTom/CustomIdP/internal/response"
	"github.com/LinkingTom/CustomIdP/internal/types/domain"
	"github.com/LinkingTom/CustomIdP/internal/types/dto"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type User interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error)
	GetUser(ctx context.Context, email string) (dto.UserResponse, error)
	ListUsers(ctx context.Context, skip, limit int) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, email string, req dto.UpdateUserRequest) (dto.UserResponse, error)
	PatchUser(ctx context.Context, email string, req dto.PatchUserRequest) (dto.UserResponse, error)
	DeleteUser(ctx context.Context, email string) error
}

type Validator interface {
	Validate(i interface{}) error
}

type UserHandler struct {
	user      User
	validator Validator
}

func NewUserHandler(user User, validator Validator) *UserHandler {
	return &UserHandler{user: user, validator: validator}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Logger.Warn().Err(err).Msg("failed to bind user json")
		response.UnprocessableEntity(c, "invalid request body")
		return
	}

	if err := h.validator.Validate(req); err != nil {
		log.Logger.Warn().Err(err).Msg("user validation error")
		response.UnprocessableEntity(c, fmt.Sprintf("validation error: %s", err.Error()))
		return
	}
	req.Normalize()

	user, err := h.user.CreateUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			response.Conflict(c, "USER_EXISTS", fmt.Sprintf("User with email '%s' already exists", req.Email))
			return
		}
		log.Logger.Error().Err(err).Str("email", req.Email).Msg("failed to create user")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	skip, limit, ok := parseListParams(c)
	if !ok {
		return
	}

	users, err := h.user.ListUsers(c.Request.Context(), skip, limit)
	if err != nil {
		log.Logger.Error().Err(err).Msg("failed to list users")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	email := c.Param("email")

	user, err := h.user.GetUser(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.NotFound(c, fmt.Sprintf("User with email '%s' not found", email))
			return
		}
		log.Logger.Error().Err(err).Str("email", email).Msg("failed to get user")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	email := c.Param("email")

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Logger.Warn().Err(err).Msg("failed to bind user json")
		response.UnprocessableEntity(c, "invalid request body")
		return
	}

	if err := h.validator.Validate(req); err != nil {
		log.Logger.Warn().Err(err).Msg("user validation error")
		response.UnprocessableEntity(c, fmt.Sprintf("validation error: %s", err.Error()))
		return
	}
	req.Normalize()

	user, err := h.user.UpdateUser(c.Request.Context(), email, req)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.NotFound(c, fmt.Sprintf("User with email '%s' not found", email))
			return
		}
		if errors.Is(err, domain.ErrUserExists) {
			response.Conflict(c, "USER_EXISTS", fmt.Sprintf("User with email '%s' already exists", req.Email))
			return
		}
		log.Logger.Error().Err(err).Str("email", email).Msg("failed to update user")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) PatchUser(c *gin.Context) {
	email := c.Param("email")

	var req dto.PatchUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Logger.Warn().Err(err).Msg("failed to bind user json")
		response.UnprocessableEntity(c, "invalid request body")
		return
	}

	if err := h.validator.Validate(req); err != nil {
		log.Logger.Warn().Err(err).Msg("user validation error")
		response.UnprocessableEntity(c, fmt.Sprintf("validation error: %s", err.Error()))
		return
	}
	req.Normalize()

	user, err := h.user.PatchUser(c.Request.Context(), email, req)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.NotFound(c, fmt.Sprintf("User with email '%s' not found", email))
			return
		}
		if errors.Is(err, domain.ErrUserExists) {
			newEmail := email
			if req.Email != nil {
				newEmail = *req.Email
			}
			response.Conflict(c, "USER_EXISTS", fmt.Sprintf("User with email '%s' already exists", newEmail))
			return
		}
		log.Logger.Error().Err(err).Str("email", email).Msg("failed to patch user")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	email := c.Param("email")

	if err := h.user.DeleteUser(c.Request.Context(), email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.NotFound(c, fmt.Sprintf("User with email '%s' not found", email))
			return
		}
		log.Logger.Error().Err(err).Str("email", email).Msg("failed to delete user")
		response.InternalServerError(c)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseListParams reads skip/limit, applying the defaults and bounds of the
// list endpoints: skip >= 0 (default 0), 1 <= limit <= 1000 (default 100).
func parseListParams(c *gin.Context) (skip, limit int, ok bool) {
	var err error

	skip, err = strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		response.UnprocessableEntity(c, "query param 'skip' must be a non-negative integer")
		return 0, 0, false
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 || limit > 1000 {
		response.UnprocessableEntity(c, "query param 'limit' must be an integer between 1 and 1000")
		return 0, 0, false
	}

	return skip, limit, true
}
