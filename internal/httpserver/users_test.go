package httpserver

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookvault/api/internal/models"
)

func (env *testEnv) bearer(t *testing.T, u *models.User) map[string]string {
	t.Helper()

	access, err := env.Iss.IssueAccess(u)
	require.NoError(t, err)
	return map[string]string{echo.HeaderAuthorization: "Bearer " + access}
}

func TestUsersList_AdminOnly(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	admin := env.seedUser(t, "a1", "admin@x.com", "Secret123", models.RoleAdmin)
	user := env.seedUser(t, "u1", "user@x.com", "Secret123", models.RoleUser)

	rec := env.do(t, http.MethodGet, "/users", nil, env.bearer(t, user))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/users", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/users?role=USER", nil, env.bearer(t, admin))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	data := resp["data"].([]any)
	require.Len(t, data, 1)
	row := data[0].(map[string]any)
	assert.Equal(t, "user@x.com", row["email"])
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestUsersGet_SelfOrAdmin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	admin := env.seedUser(t, "a1", "admin@x.com", "Secret123", models.RoleAdmin)
	user := env.seedUser(t, "u1", "user@x.com", "Secret123", models.RoleUser)
	env.seedUser(t, "u2", "other@x.com", "Secret123", models.RoleUser)

	rec := env.do(t, http.MethodGet, "/users/u1", nil, env.bearer(t, user))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/users/u2", nil, env.bearer(t, user))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/users/u2", nil, env.bearer(t, admin))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/users/missing", nil, env.bearer(t, admin))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsersCreate_AdminOnly(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	admin := env.seedUser(t, "a1", "admin@x.com", "Secret123", models.RoleAdmin)
	user := env.seedUser(t, "u1", "user@x.com", "Secret123", models.RoleUser)

	body := map[string]string{"email": "new@x.com", "password": "Secret123"}

	rec := env.do(t, http.MethodPost, "/users", body, env.bearer(t, user))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/users", body, env.bearer(t, admin))
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, models.RoleUser, resp["role"])

	rec = env.do(t, http.MethodPost, "/users", body, env.bearer(t, admin))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUsersUpdate_SelfOrAdmin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.seedUser(t, "u1", "user@x.com", "Secret123", models.RoleUser)
	env.seedUser(t, "u2", "other@x.com", "Secret123", models.RoleUser)

	rec := env.do(t, http.MethodPatch, "/users/u1",
		map[string]string{"email": "renamed@x.com"}, env.bearer(t, user))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "renamed@x.com", resp["email"])

	rec = env.do(t, http.MethodPatch, "/users/u2",
		map[string]string{"email": "stolen@x.com"}, env.bearer(t, user))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPatch, "/users/u1",
		map[string]string{"email": "other@x.com"}, env.bearer(t, user))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUsersDelete_AdminOnly_NeverSelf(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	admin := env.seedUser(t, "a1", "admin@x.com", "Secret123", models.RoleAdmin)
	user := env.seedUser(t, "u1", "user@x.com", "Secret123", models.RoleUser)

	rec := env.do(t, http.MethodDelete, "/users/a1", nil, env.bearer(t, user))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// even an admin cannot delete their own account
	rec = env.do(t, http.MethodDelete, "/users/a1", nil, env.bearer(t, admin))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodDelete, "/users/u1", nil, env.bearer(t, admin))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/users/u1", nil, env.bearer(t, admin))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
