package service

import (
	"context"
	"errors"

	"github.com/LinkingTom/CustomIdP/internal/team/repo"
	"github.com/LinkingTom/CustomIdP/internal/types/domain"
	"github.com/LinkingTom/CustomIdP/internal/types/dto"
	"github.com/LinkingTom/CustomIdP/pkg/errutils"
)

type TeamRepo interface {
	CreateTeam(ctx context.Context, t domain.Team) (domain.Team, error)
	GetTeamByID(ctx context.Context, id int64) (domain.Team, error)
	ListTeams(ctx context.Context, skip, limit int) ([]domain.Team, error)
	UpdateTeam(ctx context.Context, id int64, t domain.Team) (domain.Team, error)
	DeleteTeam(ctx context.Context, id int64) (bool, error)
	TeamExistsByName(ctx context.Context, name string) (bool, error)
}

type Team struct {
	teamRepo TeamRepo
}

func NewTeam(teamRepo TeamRepo) *Team {
	return &Team{teamRepo: teamRepo}
}

func (t *Team) CreateTeam(ctx context.Context, req dto.CreateTeamRequest) (dto.TeamResponse, error) {
	const op = "service.team.CreateTeam"

	exists, err := t.teamRepo.TeamExistsByName(ctx, req.Name)
	if err != nil {
		return dto.TeamResponse{}, errutils.Wrap(op, err)
	}
	if exists {
		return dto.TeamResponse{}, errutils.Wrap(op, domain.ErrTeamExists)
	}

	created, err := t.teamRepo.CreateTeam(ctx, domain.Team{
		Name:        req.Name,
		Description: req.Description,
		UserEmails:  req.UserEmails,
	})
	if err != nil {
		if errors.Is(err, repo.ErrTeamExists) {
			return dto.TeamResponse{}, errutils.Wrap(op, domain.ErrTeamExists)
		}
		return dto.TeamResponse{}, errutils.Wrap(op, err)
	}

	return toTeamResponse(created), nil
}

func (t *Team) GetTeam(ctx context.Context, id int64) (dto.TeamResponse, error) {
	const op = "service.team.GetTeam"

	team, err := t.teamRepo.GetTeamByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrTeamNotFound) {
			return dto.TeamResponse{}, errutils.Wrap(op, domain.ErrTeamNotFound)
		}
		return dto.TeamResponse{}, errutils.Wrap(op, err)
	}

	return toTeamResponse(team), nil
}

func (t *Team) ListTeams(ctx context.Context, skip, limit int) ([]dto.TeamResponse, error) {
	const op = "service.team.ListTeams"

	teams, err := t.teamRepo.ListTeams(ctx, skip, limit)
	if err != nil {
		return nil, errutils.Wrap(op, err)
	}

	resp := make([]dto.TeamResponse, len(teams))
	for i, team := range teams {
		resp[i] = toTeamResponse(team)
	}
	return resp, nil
}

func (t *Team) UpdateTeam(ctx context.Context, id int64, req dto.UpdateTeamRequest) (dto.TeamResponse, error) {
	const op = "service.team.UpdateTeam"

	current, err := t.teamRepo.GetTeamByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrTeamNotFound) {
			return dto.TeamResponse{}, errutils.Wrap(op, domain.ErrTeamNotFound)
		}
		return dto.TeamResponse{}, errutils.Wrap(op, err)
	}

	// Renaming to a name already held by another team is a conflict; keeping
	// the current name is fine.
	if req.Name != current.Name {
		taken, err := t.teamRepo.TeamExistsByName(ctx, req.Name)
		if err != nil {
			return dto.TeamResponse{}, errutils.Wrap(op, err)
		}
		if taken {
			return dto.TeamResponse{}, errutils.Wrap(op, domain.ErrTeamExists)
		}
	}

	updated, err := t.teamRepo.UpdateTeam(ctx, id, domain.Team{
		Name:        req.Name,
		Description: req.Description,
		UserEmails:  req.UserEmails,
	})
	if err != nil {
		if errors.Is(err, repo.ErrTeamNotFound) {
			return dto.TeamResponse{}, errutils.Wrap(op, domain.ErrTeamNotFound)
		}
		if errors.Is(err, repo.ErrTeamExists) {
			return dto.TeamResponse{}, errutils.Wrap(op, domain.ErrTeamExists)
		}
		return dto.TeamResponse{}, errutils.Wrap(op, err)
	}

	return toTeamResponse(updated), nil
}

func (t *Team) DeleteTeam(ctx context.Context, id int64) error {
	const op = "service.team.DeleteTeam"

	deleted, err := t.teamRepo.DeleteTeam(ctx, id)
	if err != nil {
		return errutils.Wrap(op, err)
	}
	if !deleted {
		return errutils.Wrap(op, domain.ErrTeamNotFound)
	}

	return nil
}

func toTeamResponse(t domain.Team) dto.TeamResponse {
	return dto.TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		UserEmails:  t.UserEmails,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
