package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globaldevelopmentfuture/gdfuture-management/internal/accounts"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/config"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/resettokens"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/session"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/tokens"
)

const testJWTSecret = "handlers-test-secret-32-bytes-xxx"

type fixture struct {
	router   *gin.Engine
	accounts *accounts.Service
	resets   resettokens.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = testJWTSecret
	cfg.JWT.AccessTokenTTL = time.Hour

	svc := accounts.NewService(accounts.NewMemoryRepository())
	resets := resettokens.NewMemoryStore()

	role := session.RoleAdmin
	_, err := svc.Register(context.Background(), &accounts.Account{
		FullName: "A B",
		Phone:    "0700000000",
		Email:    "a@b.com",
		UserRole: &role,
		Skills:   []string{"go"},
	}, "secret")
	require.NoError(t, err)

	r := gin.New()
	NewAuthHandler(cfg, svc, resets).Register(r.Group("/"))
	return &fixture{router: r, accounts: svc, resets: resets}
}

func (f *fixture) do(method, path, body, bearer string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	w := f.do("POST", "/user/login", `{"email":"a@b.com","password":"secret"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var got session.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, "A B", got.FullName)
	require.NotNil(t, got.UserRole)
	assert.Equal(t, session.RoleAdmin, *got.UserRole)
	require.NotEmpty(t, got.JwtToken)

	// the issued token is a valid HS256 bearer credential
	claims, err := tokens.Parse(testJWTSecret, got.JwtToken)
	require.NoError(t, err)
	assert.Equal(t, "1", claims["sub"])
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t)
	w := f.do("POST", "/user/login", `{"email":"a@b.com","password":"wrong"}`, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")
}

func TestLogin_MissingFields(t *testing.T) {
	f := newFixture(t)
	w := f.do("POST", "/user/login", `{"email":"a@b.com"}`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetRequest_KnownAndUnknownEmail(t *testing.T) {
	f := newFixture(t)

	w := f.do("POST", "/password/password-reset-request/a@b.com", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@b.com")

	w = f.do("POST", "/password/password-reset-request/nobody@b.com", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestResetFlow_ValidateConfirmConsume(t *testing.T) {
	f := newFixture(t)
	tok, err := f.resets.Mint(context.Background(), "a@b.com", time.Minute)
	require.NoError(t, err)

	// link is good
	w := f.do("GET", "/password/is-token-valid/"+tok, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", strings.TrimSpace(w.Body.String()))

	// confirm sets the new password
	body := fmt.Sprintf(`{"token":"%s","newPassword":"brand-new"}`, tok)
	w = f.do("POST", "/password/password-reset/", body, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reset successfully")

	// the token is consumed: the link dies and a replay fails
	w = f.do("GET", "/password/is-token-valid/"+tok, "", "")
	assert.Equal(t, "false", strings.TrimSpace(w.Body.String()))
	w = f.do("POST", "/password/password-reset/", body, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	// old password no longer works, new one does
	w = f.do("POST", "/user/login", `{"email":"a@b.com","password":"secret"}`, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	w = f.do("POST", "/user/login", `{"email":"a@b.com","password":"brand-new"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestValidateToken_UnknownToken(t *testing.T) {
	f := newFixture(t)
	w := f.do("GET", "/password/is-token-valid/deadbeef", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "false", strings.TrimSpace(w.Body.String()))
}

func TestMemberRoutes_RequireBearer(t *testing.T) {
	f := newFixture(t)

	w := f.do("GET", "/user/all", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// login, then use the issued token
	w = f.do("POST", "/user/login", `{"email":"a@b.com","password":"secret"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var sess session.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))

	w = f.do("GET", "/user/all", "", sess.JwtToken)
	require.Equal(t, http.StatusOK, w.Code)
	var members []accounts.Account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &members))
	require.Len(t, members, 1)
	assert.Equal(t, "A B", members[0].FullName)
	// password material never leaves the server
	assert.NotContains(t, w.Body.String(), "passwordHash")
}

func TestMemberCreateUpdateDelete(t *testing.T) {
	f := newFixture(t)
	w := f.do("POST", "/user/login", `{"email":"a@b.com","password":"secret"}`, "")
	var sess session.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	bearer := sess.JwtToken

	w = f.do("POST", "/user/create", `{"fullName":"C D","email":"c@d.com","password":"pw","userRole":"EMPLOYEE"}`, bearer)
	require.Equal(t, http.StatusOK, w.Code)
	var created accounts.Account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, 2, created.ID)

	w = f.do("PUT", "/user/update/2", `{"fullName":"C D Jr","email":"c@d.com"}`, bearer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "C D Jr")

	w = f.do("PUT", "/user/update/99", `{"fullName":"X","email":"x@y.com"}`, bearer)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = f.do("DELETE", "/user/delete/2", "", bearer)
	require.Equal(t, http.StatusOK, w.Code)
}
