package api

import (
	"net/http"
	"testing"
	"time"

	"membership_system/internal/domain"
	"membership_system/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterPersistsLoggedOutUser(t *testing.T) {
	r, db := newTestEnv(t)

	registerUser(t, r, "alice", "alice@example.com")

	var user domain.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&user).Error)
	require.False(t, user.IsLoggedIn)
	require.Empty(t, user.Token)
	// The password is stored hashed, never in the clear
	require.NotEqual(t, testPassword, user.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(testPassword)))
}

func TestRegisterMissingFields(t *testing.T) {
	r, _ := newTestEnv(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/v1/register", "", gin.H{
		"username": "bob",
		"email":    "bob@example.com",
		// password and address missing
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, false, body["success"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, db := newTestEnv(t)

	registerUser(t, r, "carol", "carol@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/v1/register", "", gin.H{
		"username": "carol2",
		"email":    "carol@example.com",
		"password": testPassword,
		"address":  "Huye",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, false, body["success"])

	// No duplicate record was created
	var count int64
	require.NoError(t, db.Model(&domain.User{}).Where("email = ?", "carol@example.com").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestLoginUnknownEmail(t *testing.T) {
	r, _ := newTestEnv(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/v1/login", "", gin.H{
		"email":    "ghost@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginWrongPasswordTerminates(t *testing.T) {
	r, db := newTestEnv(t)
	registerUser(t, r, "dave", "dave@example.com")

	// Unlike the unknown-email path this must still produce a terminal
	// response, distinguishable as an auth failure
	w := doJSON(t, r, http.MethodPost, "/api/auth/v1/login", "", gin.H{
		"email":    "dave@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// A failed login leaves the user logged out
	var user domain.User
	require.NoError(t, db.Where("email = ?", "dave@example.com").First(&user).Error)
	require.False(t, user.IsLoggedIn)
	require.Empty(t, user.Token)
}

func TestLoginPersistsToken(t *testing.T) {
	r, db := newTestEnv(t)
	registerUser(t, r, "erin", "erin@example.com")

	token := loginUser(t, r, "erin@example.com")

	var user domain.User
	require.NoError(t, db.Where("email = ?", "erin@example.com").First(&user).Error)
	require.True(t, user.IsLoggedIn)
	require.Equal(t, token, user.Token)
}

func TestLoginSupersedesPreviousToken(t *testing.T) {
	r, _ := newTestEnv(t)
	registerUser(t, r, "frank", "frank@example.com")

	first := loginUser(t, r, "frank@example.com")
	second := loginUser(t, r, "frank@example.com")
	require.NotEqual(t, first, second)

	// The superseded token still passes the access guard until expiry
	w := doJSON(t, r, http.MethodGet, "/api/category/v1/get-categories", first, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// But it no longer matches the stored token, so logout rejects it
	w = doJSON(t, r, http.MethodPost, "/api/auth/v1/logout", "", gin.H{
		"email": "frank@example.com",
		"token": first,
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	// The current token logs out cleanly
	w = doJSON(t, r, http.MethodPost, "/api/auth/v1/logout", "", gin.H{
		"email": "frank@example.com",
		"token": second,
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestLogoutClearsState(t *testing.T) {
	r, db := newTestEnv(t)
	registerUser(t, r, "grace", "grace@example.com")
	token := loginUser(t, r, "grace@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/v1/logout", "", gin.H{
		"email": "grace@example.com",
		"token": token,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var user domain.User
	require.NoError(t, db.Where("email = ?", "grace@example.com").First(&user).Error)
	require.False(t, user.IsLoggedIn)
	require.Empty(t, user.Token)
}

func TestLogoutRequiresStoredSession(t *testing.T) {
	r, db, mr := newTestEnvRedis(t)
	registerUser(t, r, "gina", "gina@example.com")
	token := loginUser(t, r, "gina@example.com")

	// The session vanishes from Redis, e.g. after a flush or TTL expiry
	mr.FlushAll()

	// The access guard only validates the signature, so reads still pass
	w := doJSON(t, r, http.MethodGet, "/api/category/v1/get-categories", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Logout consults the session store and rejects the orphaned token
	w = doJSON(t, r, http.MethodPost, "/api/auth/v1/logout", "", gin.H{
		"email": "gina@example.com",
		"token": token,
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	// The user record is left untouched
	var user domain.User
	require.NoError(t, db.Where("email = ?", "gina@example.com").First(&user).Error)
	require.True(t, user.IsLoggedIn)
	require.Equal(t, token, user.Token)
}

func TestLogoutMissingFields(t *testing.T) {
	r, _ := newTestEnv(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/v1/logout", "", gin.H{"email": "x@example.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutMalformedToken(t *testing.T) {
	r, _ := newTestEnv(t)
	registerUser(t, r, "henry", "henry@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/v1/logout", "", gin.H{
		"email": "henry@example.com",
		"token": "garbage",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutExpiredToken(t *testing.T) {
	r, _ := newTestEnv(t)
	registerUser(t, r, "iris", "iris@example.com")

	// Sign an already expired token with the right secret
	claims := utils.Claims{
		UserID: 1,
		Email:  "iris@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/auth/v1/logout", "", gin.H{
		"email": "iris@example.com",
		"token": expired,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutEmailMismatch(t *testing.T) {
	r, db := newTestEnv(t)
	registerUser(t, r, "judy", "judy@example.com")
	registerUser(t, r, "karl", "karl@example.com")
	judyToken := loginUser(t, r, "judy@example.com")

	// Judy's token presented with Karl's email fails without mutating state
	w := doJSON(t, r, http.MethodPost, "/api/auth/v1/logout", "", gin.H{
		"email": "karl@example.com",
		"token": judyToken,
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	var judy domain.User
	require.NoError(t, db.Where("email = ?", "judy@example.com").First(&judy).Error)
	require.True(t, judy.IsLoggedIn)
	require.Equal(t, judyToken, judy.Token)
}

func TestLogoutUnknownUser(t *testing.T) {
	r, db := newTestEnv(t)
	registerUser(t, r, "liam", "liam@example.com")
	token := loginUser(t, r, "liam@example.com")

	// The user disappears between login and logout
	require.NoError(t, db.Where("email = ?", "liam@example.com").Delete(&domain.User{}).Error)

	w := doJSON(t, r, http.MethodPost, "/api/auth/v1/logout", "", gin.H{
		"email": "liam@example.com",
		"token": token,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}
