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

type Team interface {
	CreateTeam(ctx context.Context, req dto.CreateTeamRequest) (dto.TeamResponse, error)
	GetTeam(ctx context.Context, id int64) (dto.TeamResponse, error)
	ListTeams(ctx context.Context, skip, limit int) ([]dto.TeamResponse, error)
	UpdateTeam(ctx context.Context, id int64, req dto.UpdateTeamRequest) (dto.TeamResponse, error)
	DeleteTeam(ctx context.Context, id int64) error
}

type Validator interface {
	Validate(i interface{}) error
}

type TeamHandler struct {
	team      Team
	validator Validator
}

func NewTeamHandler(team Team, validator Validator) *TeamHandler {
	return &TeamHandler{team: team, validator: validator}
}

func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Logger.Warn().Err(err).Msg("failed to bind team json")
		response.UnprocessableEntity(c, "invalid request body")
		return
	}

	if err := h.validator.Validate(req); err != nil {
		log.Logger.Warn().Err(err).Msg("team validation error")
		response.UnprocessableEntity(c, fmt.Sprintf("validation error: %s", err.Error()))
		return
	}
	req.Normalize()

	team, err := h.team.CreateTeam(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrTeamExists) {
			response.Conflict(c, "TEAM_EXISTS", fmt.Sprintf("Team with name '%s' already exists", req.Name))
			return
		}
		log.Logger.Error().Err(err).Str("name", req.Name).Msg("failed to create team")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusCreated, team)
}

func (h *TeamHandler) ListTeams(c *gin.Context) {
	skip, limit, ok := parseListParams(c)
	if !ok {
		return
	}

	teams, err := h.team.ListTeams(c.Request.Context(), skip, limit)
	if err != nil {
		log.Logger.Error().Err(err).Msg("failed to list teams")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, teams)
}

func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := parseTeamID(c)
	if !ok {
		return
	}

	team, err := h.team.GetTeam(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			response.NotFound(c, fmt.Sprintf("Team with ID '%d' not found", id))
			return
		}
		log.Logger.Error().Err(err).Int64("id", id).Msg("failed to get team")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, team)
}

func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	id, ok := parseTeamID(c)
	if !ok {
		return
	}

	var req dto.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Logger.Warn().Err(err).Msg("failed to bind team json")
		response.UnprocessableEntity(c, "invalid request body")
		return
	}

	if err := h.validator.Validate(req); err != nil {
		log.Logger.Warn().Err(err).Msg("team validation error")
		response.UnprocessableEntity(c, fmt.Sprintf("validation error: %s", err.Error()))
		return
	}
	req.Normalize()

	team, err := h.team.UpdateTeam(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			response.NotFound(c, fmt.Sprintf("Team with ID '%d' not found", id))
			return
		}
		if errors.Is(err, domain.ErrTeamExists) {
			response.Conflict(c, "TEAM_EXISTS", fmt.Sprintf("Team with name '%s' already exists", req.Name))
			return
		}
		log.Logger.Error().Err(err).Int64("id", id).Msg("failed to update team")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, team)
}

func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id, ok := parseTeamID(c)
	if !ok {
		return
	}

	if err := h.team.DeleteTeam(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			response.NotFound(c, fmt.Sprintf("Team with ID '%d' not found", id))
			return
		}
		log.Logger.Error().Err(err).Int64("id", id).Msg("failed to delete team")
		response.InternalServerError(c)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseTeamID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.UnprocessableEntity(c, "path param 'id' must be an integer")
		return 0, false
	}
	return id, true
}

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
