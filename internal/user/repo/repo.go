package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LinkingTom/CustomIdP/internal/types/domain"
	"github.com/LinkingTom/CustomIdP/pkg/errutils"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

var (
	ErrUserExists   = errors.New("user exists")
	ErrUserNotFound = errors.New("user not found")
)

// MaxListLimit caps page sizes regardless of what the caller asks for.
const MaxListLimit = 1000

const userColumns = `id, email, name, COALESCE(roles, '[]'::jsonb), COALESCE(teams, '[]'::jsonb), created_at, updated_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Roles, &u.Teams, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreateUser inserts a new user. The email is lowercased again in SQL so that
// callers bypassing DTO normalization still cannot violate the
// case-insensitive uniqueness invariant.
func (r *UserRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.User{}, errutils.Wrap("failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		INSERT INTO users (email, name, roles, teams)
		VALUES (lower($1), $2, $3, $4)
		RETURNING ` + userColumns + `;
	`

	created, err := scanUser(tx.QueryRow(ctx, query, u.Email, u.Name, u.Roles, u.Teams))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, errutils.Wrap("failed to insert user", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.User{}, errutils.Wrap("failed to commit transaction", err)
	}

	return created, nil
}

// GetUserByEmail looks the user up case-insensitively. The stored email is
// already lowercase, but the comparison lowercases both sides anyway.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(email) = lower($1);
	`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, errutils.Wrap("failed to get user", err)
	}

	return user, nil
}

func (r *UserRepo) ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error) {
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY id
		OFFSET $1 LIMIT $2;
	`

	rows, err := r.db.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, errutils.Wrap("failed to query users", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errutils.Wrap("failed to scan user", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, errutils.Wrap("rows iteration error", err)
	}

	return users, nil
}

// UpdateUser replaces every mutable field of the user addressed by email.
func (r *UserRepo) UpdateUser(ctx context.Context, email string, u domain.User) (domain.User, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.User{}, errutils.Wrap("failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		UPDATE users
		SET email = lower($1),
		    name = $2,
		    roles = $3,
		    teams = $4,
		    updated_at = now()
		WHERE lower(email) = lower($5)
		RETURNING ` + userColumns + `;
	`

	updated, err := scanUser(tx.QueryRow(ctx, query, u.Email, u.Name, u.Roles, u.Teams, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, errutils.Wrap("failed to update user", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.User{}, errutils.Wrap("failed to commit transaction", err)
	}

	return updated, nil
}

// PartialUpdateUser applies only the fields present in the patch. An empty
// patch is a no-op read: no UPDATE runs and updated_at keeps its value.
func (r *UserRepo) PartialUpdateUser(ctx context.Context, email string, patch domain.UserPatch) (domain.User, error) {
	if patch.Empty() {
		return r.GetUserByEmail(ctx, email)
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.User{}, errutils.Wrap("failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query, args := buildUserPatchQuery(email, patch)

	updated, err := scanUser(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, errutils.Wrap("failed to patch user", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.User{}, errutils.Wrap("failed to commit transaction", err)
	}

	return updated, nil
}

// buildUserPatchQuery maps each present patch field to its SET clause. Fields
// left nil never appear in the statement.
func buildUserPatchQuery(email string, patch domain.UserPatch) (string, []any) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 5)

	add := func(expr string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
	}

	if patch.Email != nil {
		add("email = lower($%d)", *patch.Email)
	}
	if patch.Name != nil {
		add("name = $%d", *patch.Name)
	}
	if patch.Roles != nil {
		add("roles = $%d", *patch.Roles)
	}
	if patch.Teams != nil {
		add("teams = $%d", *patch.Teams)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, email)
	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE lower(email) = lower($%d)
		RETURNING `+userColumns+`;
	`, strings.Join(sets, ", "), len(args))

	return query, args
}

// DeleteUser reports whether a row was actually removed; a missing user is
// not an error here, the caller decides how to surface it.
func (r *UserRepo) DeleteUser(ctx context.Context, email string) (bool, error) {
	query := `
		DELETE FROM users
		WHERE lower(email) = lower($1);
	`

	res, err := r.db.Exec(ctx, query, email)
	if err != nil {
		return false, errutils.Wrap("failed to delete user", err)
	}

	return res.RowsAffected() > 0, nil
}

func (r *UserRepo) UserExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`
	var exists bool

	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, errutils.Wrap("failed to check existing user", err)
	}

	return exists, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
