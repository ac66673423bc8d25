package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LinkingTom/CustomIdP/internal/types/domain"
	"github.com/LinkingTom/CustomIdP/internal/types/dto"
	"github.com/LinkingTom/CustomIdP/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserService struct {
	createFn func(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error)
	getFn    func(ctx context.Context, email string) (dto.UserResponse, error)
	listFn   func(ctx context.Context, skip, limit int) ([]dto.UserResponse, error)
	updateFn func(ctx context.Context, email string, req dto.UpdateUserRequest) (dto.UserResponse, error)
	patchFn  func(ctx context.Context, email string, req dto.PatchUserRequest) (dto.UserResponse, error)
	deleteFn func(ctx context.Context, email string) error
}

func (s *stubUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error) {
	return s.createFn(ctx, req)
}

func (s *stubUserService) GetUser(ctx context.Context, email string) (dto.UserResponse, error) {
	return s.getFn(ctx, email)
}

func (s *stubUserService) ListUsers(ctx context.Context, skip, limit int) ([]dto.UserResponse, error) {
	return s.listFn(ctx, skip, limit)
}

func (s *stubUserService) UpdateUser(ctx context.Context, email string, req dto.UpdateUserRequest) (dto.UserResponse, error) {
	return s.updateFn(ctx, email, req)
}

func (s *stubUserService) PatchUser(ctx context.Context, email string, req dto.PatchUserRequest) (dto.UserResponse, error) {
	return s.patchFn(ctx, email, req)
}

func (s *stubUserService) DeleteUser(ctx context.Context, email string) error {
	return s.deleteFn(ctx, email)
}

func setupUserRouter(svc *stubUserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(svc, validator.New())

	engine := gin.New()
	engine.POST("/users", h.CreateUser)
	engine.GET("/users", h.ListUsers)
	engine.GET("/users/:email", h.GetUser)
	engine.PUT("/users/:email", h.UpdateUser)
	engine.PATCH("/users/:email", h.PatchUser)
	engine.DELETE("/users/:email", h.DeleteUser)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateUserNormalizesBeforeService(t *testing.T) {
	var got dto.CreateUserRequest
	svc := &stubUserService{
		createFn: func(_ context.Context, req dto.CreateUserRequest) (dto.UserResponse, error) {
			got = req
			return dto.UserResponse{ID: 1, Email: req.Email, Name: req.Name, Roles: req.Roles, Teams: req.Teams}, nil
		},
	}
	engine := setupUserRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/users", gin.H{
		"email": "Alice@Example.COM",
		"name":  "Alice",
		"roles": []string{" admin ", ""},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, []string{"admin"}, got.Roles)

	var resp dto.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice@example.com", resp.Email)
}

func TestCreateUserConflict(t *testing.T) {
	svc := &stubUserService{
		createFn: func(_ context.Context, _ dto.CreateUserRequest) (dto.UserResponse, error) {
			return dto.UserResponse{}, domain.ErrUserExists
		},
	}
	engine := setupUserRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/users", gin.H{"email": "a@x.com", "name": "A"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "USER_EXISTS")
}

func TestCreateUserValidation(t *testing.T) {
	svc := &stubUserService{
		createFn: func(_ context.Context, _ dto.CreateUserRequest) (dto.UserResponse, error) {
			t.Fatal("service must not be called on validation failure")
			return dto.UserResponse{}, nil
		},
	}
	engine := setupUserRouter(svc)

	w := doJSON(t, engine, http.MethodPost, "/users", gin.H{"email": "not-an-email", "name": "A"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/users", gin.H{"email": "a@x.com"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateUserMalformedBody(t *testing.T) {
	engine := setupUserRouter(&stubUserService{})

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetUserNotFound(t *testing.T) {
	svc := &stubUserService{
		getFn: func(_ context.Context, _ string) (dto.UserResponse, error) {
			return dto.UserResponse{}, domain.ErrUserNotFound
		},
	}
	engine := setupUserRouter(svc)

	w := doJSON(t, engine, http.MethodGet, "/users/nobody@x.com", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestListUsersDefaults(t *testing.T) {
	var gotSkip, gotLimit int
	svc := &stubUserService{
		listFn: func(_ context.Context, skip, limit int) ([]dto.UserResponse, error) {
			gotSkip, gotLimit = skip, limit
			return []dto.UserResponse{}, nil
		},
	}
	engine := setupUserRouter(svc)

	w := doJSON(t, engine, http.MethodGet, "/users", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, gotSkip)
	assert.Equal(t, 100, gotLimit)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestListUsersRejectsBadParams(t *testing.T) {
	engine := setupUserRouter(&stubUserService{})

	for _, path := range []string{
		"/users?skip=-1",
		"/users?limit=0",
		"/users?limit=1001",
		"/users?limit=abc",
	} {
		w := doJSON(t, engine, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, path)
	}
}

func TestPatchUserEmptyListVsOmitted(t *testing.T) {
	var got dto.PatchUserRequest
	svc := &stubUserService{
		patchFn: func(_ context.Context, _ string, req dto.PatchUserRequest) (dto.UserResponse, error) {
			got = req
			return dto.UserResponse{}, nil
		},
	}
	engine := setupUserRouter(svc)

	w := doJSON(t, engine, http.MethodPatch, "/users/a@x.com", gin.H{"roles": []string{}})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.Roles)
	assert.Empty(t, *got.Roles)
	assert.Nil(t, got.Teams)

	w = doJSON(t, engine, http.MethodPatch, "/users/a@x.com", gin.H{"name": "B"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, got.Roles)
	require.NotNil(t, got.Name)
	assert.Equal(t, "B", *got.Name)
}

func TestUpdateUserConflictOnTakenEmail(t *testing.T) {
	svc := &stubUserService{
		updateFn: func(_ context.Context, _ string, _ dto.UpdateUserRequest) (dto.UserResponse, error) {
			return dto.UserResponse{}, domain.ErrUserExists
		},
	}
	engine := setupUserRouter(svc)

	w := doJSON(t, engine, http.MethodPut, "/users/a@x.com", gin.H{"email": "b@x.com", "name": "A"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteUser(t *testing.T) {
	svc := &stubUserService{
		deleteFn: func(_ context.Context, email string) error {
			if email == "gone@x.com" {
				return domain.ErrUserNotFound
			}
			return nil
		},
	}
	engine := setupUserRouter(svc)

	w := doJSON(t, engine, http.MethodDelete, "/users/a@x.com", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, engine, http.MethodDelete, "/users/gone@x.com", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
