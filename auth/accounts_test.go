package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Almiviolad/KaraKata/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func authRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", Register(db))
	r.POST("/auth/login", Login(db))
	r.POST("/auth/refresh", Refresh(db))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginRefreshFlow(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db)

	w := postJSON(t, r, "/auth/register", `{"email":"vendor@example.com","password":"secret1","role":"vendor"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var registered struct {
		User    models.User `json:"user"`
		Access  string      `json:"access"`
		Refresh string      `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	assert.Equal(t, models.RoleVendor, registered.User.Role)
	assert.NotEmpty(t, registered.Access)
	assert.NotEmpty(t, registered.Refresh)
	assert.NotContains(t, w.Body.String(), "secret1")

	w = postJSON(t, r, "/auth/login", `{"email":"vendor@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Access  string      `json:"access"`
		Refresh string      `json:"refresh"`
		Role    models.Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, models.RoleVendor, login.Role)

	w = postJSON(t, r, "/auth/refresh", fmt.Sprintf(`{"refresh":%q}`, login.Refresh))
	require.Equal(t, http.StatusOK, w.Code)
	var refreshed struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	assert.NotEmpty(t, refreshed.Access)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db)

	w := postJSON(t, r, "/auth/register", `{"email":"dup@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/auth/register", `{"email":"dup@example.com","password":"secret2"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterRejectsMissingFieldsAndBadRole(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db)

	w := postJSON(t, r, "/auth/register", `{"password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/auth/register", `{"email":"a@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/auth/register", `{"email":"a@example.com","password":"secret1","role":"superuser"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db)

	postJSON(t, r, "/auth/register", `{"email":"user@example.com","password":"secret1"}`)

	w := postJSON(t, r, "/auth/login", `{"email":"user@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, r, "/auth/login", `{"email":"ghost@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	db := setupTestDB(t)
	r := authRouter(db)

	w := postJSON(t, r, "/auth/register", `{"email":"user@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var registered struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))

	// An access token is not exchangeable for a new access token.
	w = postJSON(t, r, "/auth/refresh", fmt.Sprintf(`{"refresh":%q}`, registered.Access))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
