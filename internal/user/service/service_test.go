package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/LinkingTom/CustomIdP/internal/types/domain"
	"github.com/LinkingTom/CustomIdP/internal/types/dto"
	"github.com/LinkingTom/CustomIdP/internal/user/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo keeps users in a map keyed by lowercase email, mimicking the
// case-insensitive unique index.
type fakeUserRepo struct {
	users  map[string]domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User), nextID: 1}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	key := strings.ToLower(u.Email)
	if _, ok := f.users[key]; ok {
		return domain.User{}, repo.ErrUserExists
	}
	u.ID = f.nextID
	f.nextID++
	u.Email = key
	f.users[key] = u
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	u, ok := f.users[strings.ToLower(email)]
	if !ok {
		return domain.User{}, repo.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) ListUsers(_ context.Context, _, _ int) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, email string, u domain.User) (domain.User, error) {
	key := strings.ToLower(email)
	cur, ok := f.users[key]
	if !ok {
		return domain.User{}, repo.ErrUserNotFound
	}
	newKey := strings.ToLower(u.Email)
	if newKey != key {
		if _, taken := f.users[newKey]; taken {
			return domain.User{}, repo.ErrUserExists
		}
		delete(f.users, key)
	}
	u.ID = cur.ID
	u.Email = newKey
	f.users[newKey] = u
	return u, nil
}

func (f *fakeUserRepo) PartialUpdateUser(_ context.Context, email string, patch domain.UserPatch) (domain.User, error) {
	key := strings.ToLower(email)
	cur, ok := f.users[key]
	if !ok {
		return domain.User{}, repo.ErrUserNotFound
	}
	if patch.Email != nil {
		newKey := strings.ToLower(*patch.Email)
		if newKey != key {
			if _, taken := f.users[newKey]; taken {
				return domain.User{}, repo.ErrUserExists
			}
			delete(f.users, key)
		}
		cur.Email = newKey
		key = newKey
	}
	if patch.Name != nil {
		cur.Name = *patch.Name
	}
	if patch.Roles != nil {
		cur.Roles = *patch.Roles
	}
	if patch.Teams != nil {
		cur.Teams = *patch.Teams
	}
	f.users[key] = cur
	return cur, nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, email string) (bool, error) {
	key := strings.ToLower(email)
	if _, ok := f.users[key]; !ok {
		return false, nil
	}
	delete(f.users, key)
	return true, nil
}

func (f *fakeUserRepo) UserExists(_ context.Context, email string) (bool, error) {
	_, ok := f.users[strings.ToLower(email)]
	return ok, nil
}

func TestCreateUserThenGetCaseInsensitive(t *testing.T) {
	svc := NewUser(newFakeUserRepo())
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, dto.CreateUserRequest{Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, "ALICE@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestCreateUserDuplicateConflict(t *testing.T) {
	svc := NewUser(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{Email: "a@x.com", Name: "A"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, dto.CreateUserRequest{Email: "A@X.com", Name: "A2"})
	assert.True(t, errors.Is(err, domain.ErrUserExists))
}

func TestUpdateUserKeepingOwnEmailSucceeds(t *testing.T) {
	svc := NewUser(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{Email: "a@x.com", Name: "A"})
	require.NoError(t, err)

	// Re-submitting the same email (any case) must not count as a conflict.
	updated, err := svc.UpdateUser(ctx, "A@X.com", dto.UpdateUserRequest{Email: "a@x.com", Name: "A renamed"})
	require.NoError(t, err)
	assert.Equal(t, "A renamed", updated.Name)
}

func TestUpdateUserToTakenEmailConflicts(t *testing.T) {
	svc := NewUser(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{Email: "a@x.com", Name: "A"})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, dto.CreateUserRequest{Email: "b@x.com", Name: "B"})
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, "a@x.com", dto.UpdateUserRequest{Email: "b@x.com", Name: "A"})
	assert.True(t, errors.Is(err, domain.ErrUserExists))
}

func TestUpdateUserMissingIsNotFound(t *testing.T) {
	svc := NewUser(newFakeUserRepo())

	_, err := svc.UpdateUser(context.Background(), "ghost@x.com", dto.UpdateUserRequest{Email: "ghost@x.com", Name: "G"})
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestPatchUserClearsRolesOnlyWhenPresent(t *testing.T) {
	svc := NewUser(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{
		Email: "a@x.com", Name: "A", Roles: []string{"admin"}, Teams: []string{"core"},
	})
	require.NoError(t, err)

	empty := []string{}
	patched, err := svc.PatchUser(ctx, "a@x.com", dto.PatchUserRequest{Roles: &empty})
	require.NoError(t, err)
	assert.Empty(t, patched.Roles)
	assert.Equal(t, []string{"core"}, patched.Teams)

	name := "A2"
	patched, err = svc.PatchUser(ctx, "a@x.com", dto.PatchUserRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "A2", patched.Name)
	assert.Empty(t, patched.Roles)
	assert.Equal(t, []string{"core"}, patched.Teams)
}

func TestPatchUserEmailConflict(t *testing.T) {
	svc := NewUser(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{Email: "a@x.com", Name: "A"})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, dto.CreateUserRequest{Email: "b@x.com", Name: "B"})
	require.NoError(t, err)

	taken := "B@X.com"
	_, err = svc.PatchUser(ctx, "a@x.com", dto.PatchUserRequest{Email: &taken})
	assert.True(t, errors.Is(err, domain.ErrUserExists))
}

func TestDeleteUserOutcomes(t *testing.T) {
	svc := NewUser(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{Email: "a@x.com", Name: "A"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, "A@X.com"))

	err = svc.DeleteUser(ctx, "a@x.com")
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))

	_, err = svc.GetUser(ctx, "a@x.com")
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}
