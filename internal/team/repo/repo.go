package repo

import (
	"context"
	"errors"

	"github.com/LinkingTom/CustomIdP/internal/types/domain"
	"github.com/LinkingTom/CustomIdP/pkg/errutils"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeamRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *TeamRepo {
	return &TeamRepo{db: db}
}

var (
	ErrTeamExists   = errors.New("team exists")
	ErrTeamNotFound = errors.New("team not found")
)

const MaxListLimit = 1000

const teamColumns = `id, name, COALESCE(description, ''), COALESCE(user_emails, '[]'::jsonb), created_at, updated_at`

func scanTeam(row pgx.Row) (domain.Team, error) {
	var t domain.Team
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.UserEmails, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *TeamRepo) CreateTeam(ctx context.Context, t domain.Team) (domain.Team, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Team{}, errutils.Wrap("failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		INSERT INTO teams (name, description, user_emails)
		VALUES ($1, $2, $3)
		RETURNING ` + teamColumns + `;
	`

	created, err := scanTeam(tx.QueryRow(ctx, query, t.Name, t.Description, t.UserEmails))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Team{}, ErrTeamExists
		}
		return domain.Team{}, errutils.Wrap("failed to insert team", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Team{}, errutils.Wrap("failed to commit transaction", err)
	}

	return created, nil
}

func (r *TeamRepo) GetTeamByID(ctx context.Context, id int64) (domain.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE id = $1;
	`

	team, err := scanTeam(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Team{}, ErrTeamNotFound
		}
		return domain.Team{}, errutils.Wrap("failed to get team", err)
	}

	return team, nil
}

// GetTeamByName matches the name exactly; team names are case-sensitive.
func (r *TeamRepo) GetTeamByName(ctx context.Context, name string) (domain.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE name = $1;
	`

	team, err := scanTeam(r.db.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Team{}, ErrTeamNotFound
		}
		return domain.Team{}, errutils.Wrap("failed to get team by name", err)
	}

	return team, nil
}

func (r *TeamRepo) ListTeams(ctx context.Context, skip, limit int) ([]domain.Team, error) {
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	query := `
		SELECT ` + teamColumns + `
		FROM teams
		ORDER BY id
		OFFSET $1 LIMIT $2;
	`

	rows, err := r.db.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, errutils.Wrap("failed to query teams", err)
	}
	defer rows.Close()

	teams := make([]domain.Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, errutils.Wrap("failed to scan team", err)
		}
		teams = append(teams, t)
	}

	if err := rows.Err(); err != nil {
		return nil, errutils.Wrap("rows iteration error", err)
	}

	return teams, nil
}

// UpdateTeam replaces every mutable field. Teams only support full replace.
func (r *TeamRepo) UpdateTeam(ctx context.Context, id int64, t domain.Team) (domain.Team, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Team{}, errutils.Wrap("failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		UPDATE teams
		SET name = $1,
		    description = $2,
		    user_emails = $3,
		    updated_at = now()
		WHERE id = $4
		RETURNING ` + teamColumns + `;
	`

	updated, err := scanTeam(tx.QueryRow(ctx, query, t.Name, t.Description, t.UserEmails, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Team{}, ErrTeamNotFound
		}
		if isUniqueViolation(err) {
			return domain.Team{}, ErrTeamExists
		}
		return domain.Team{}, errutils.Wrap("failed to update team", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Team{}, errutils.Wrap("failed to commit transaction", err)
	}

	return updated, nil
}

func (r *TeamRepo) DeleteTeam(ctx context.Context, id int64) (bool, error) {
	query := `
		DELETE FROM teams
		WHERE id = $1;
	`

	res, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, errutils.Wrap("failed to delete team", err)
	}

	return res.RowsAffected() > 0, nil
}

func (r *TeamRepo) TeamExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM teams WHERE name = $1)`
	var exists bool

	if err := r.db.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, errutils.Wrap("failed to check existing team", err)
	}

	return exists, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
