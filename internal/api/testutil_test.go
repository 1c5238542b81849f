package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"membership_system/internal/config"
	"membership_system/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "api-test-secret"

var memDBCounter atomic.Int64

// newTestEnv assembles the full router backed by an in-memory SQLite
// database and a miniredis instance
func newTestEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	r, db, _ := newTestEnvRedis(t)
	return r, db
}

// newTestEnvRedis is newTestEnv with the backing miniredis exposed, for
// tests that manipulate session state directly
func newTestEnvRedis(t *testing.T) (*gin.Engine, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// A uniquely named shared in-memory database per test, so GORM's
	// connection pool sees one store
	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared", memDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Category{}, &domain.Member{}, &domain.PaymentReport{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{JWTSecret: testJWTSecret}
	return NewRouter(db, rdb, cfg), db, mr
}

// doJSON performs a request against the router with an optional JSON body
// and bearer token
func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body into a generic map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

const testPassword = "secret123"

// registerUser registers a user through the API
func registerUser(t *testing.T, r http.Handler, username, email string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/v1/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": testPassword,
		"address":  "Kigali",
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

// loginUser logs a registered user in and returns the issued token
func loginUser(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/v1/login", "", gin.H{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// newLoggedInAdmin registers and logs in a fresh admin, returning its token
func newLoggedInAdmin(t *testing.T, r http.Handler, username, email string) string {
	t.Helper()
	registerUser(t, r, username, email)
	return loginUser(t, r, email)
}

// createCategory creates a category through the API and returns its ID from
// the database
func createCategory(t *testing.T, r http.Handler, db *gorm.DB, token, name, isGroup string) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/category/v1/create", token, gin.H{
		"categoryName": name,
		"isGroup":      isGroup,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var cat domain.Category
	require.NoError(t, db.Where("category_name = ?", name).Order("id desc").First(&cat).Error)
	return cat.ID
}

// createMember creates a member through the API and returns its ID
func createMember(t *testing.T, r http.Handler, token, name, zone string, categoryID uint) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/member/v1/create", token, gin.H{
		"memberName":  name,
		"zone":        zone,
		"categoryRef": categoryID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	return uint(data["id"].(float64))
}

// createReport records a payment report through the API and returns its ID
func createReport(t *testing.T, r http.Handler, token string, memberID uint, amount float64, method, date string) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/payment/report/v1/create-payment", token, gin.H{
		"memberRef":     memberID,
		"amount":        amount,
		"paymentMethod": method,
		"paymentDate":   date,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	return uint(data["id"].(float64))
}
