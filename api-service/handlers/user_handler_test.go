package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngoconnect-backend/api-service/services"
	"ngoconnect-backend/shared/config"
	"ngoconnect-backend/shared/database/models"
	utils "ngoconnect-backend/shared/utils/auth"
)

type registryFixture struct {
	router *gin.Engine
	users  *memoryUserStore
}

func newRegistryFixture(t *testing.T) *registryFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("ACCESS_TOKEN_KEY", "test-access-key")
	t.Setenv("REFRESH_TOKEN_KEY", "test-refresh-key")
	config.LoadConfig()

	users := newMemoryUserStore()
	hasher := services.NewHashWorkerPool(2)
	t.Cleanup(hasher.Close)

	userHandler := NewUserHandler(users, hasher)
	authHandler := NewAuthHandler(users, hasher)

	router := gin.New()
	router.POST("/api/users", userHandler.CreateUser)
	router.POST("/api/auth/login", authHandler.Login)

	return &registryFixture{router: router, users: users}
}

func (f *registryFixture) postJSON(path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)
	return w
}

func Test_CreateUser_DuplicateEmailRejected(t *testing.T) {
	f := newRegistryFixture(t)

	first := f.postJSON("/api/users", `{"email":"maria@example.org","password":"s3cret-pw"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := f.postJSON("/api/users", `{"email":"maria@example.org","password":"another-pw"}`)
	assert.Equal(t, http.StatusBadRequest, second.Code)
	assert.Contains(t, second.Body.String(), "Could not create user. The email already exists.")

	// The losing registration leaves no record behind.
	all, err := f.users.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func Test_CreateUser_AdminRoleRejected(t *testing.T) {
	f := newRegistryFixture(t)

	w := f.postJSON("/api/users", `{"email":"maria@example.org","password":"s3cret-pw","role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid role")
}

func Test_RegisterThenLogin_RoundTrip(t *testing.T) {
	f := newRegistryFixture(t)

	created := f.postJSON("/api/users", `{"email":"maria@example.org","password":"s3cret-pw","role":"user-ngo"}`)
	require.Equal(t, http.StatusCreated, created.Code)

	// The stored credential is a bcrypt hash, never the plain password.
	stored, err := f.users.FindUserByEmail(context.Background(), "maria@example.org")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pw", stored.Password)
	assert.True(t, strings.HasPrefix(stored.Password, "$2a$"))

	login := f.postJSON("/api/auth/login", `{"email":"maria@example.org","password":"s3cret-pw"}`)
	require.Equal(t, http.StatusOK, login.Code)

	var pair utils.TokenPair
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &pair))

	claims, err := utils.ValidateAccessJWT(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, stored.ID.String(), claims.ID)
	assert.Equal(t, string(models.RoleNGO), claims.Role)

	refreshClaims, err := utils.ValidateRefreshJWT(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, stored.ID.String(), refreshClaims.ID)
}

func Test_Login_WrongPassword(t *testing.T) {
	f := newRegistryFixture(t)

	created := f.postJSON("/api/users", `{"email":"maria@example.org","password":"s3cret-pw"}`)
	require.Equal(t, http.StatusCreated, created.Code)

	login := f.postJSON("/api/auth/login", `{"email":"maria@example.org","password":"wrong-pw"}`)
	assert.Equal(t, http.StatusUnauthorized, login.Code)
	assert.Contains(t, login.Body.String(), "You provided wrong set of credentials.")
}
