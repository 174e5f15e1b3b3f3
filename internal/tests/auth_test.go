// internal/tests/auth_test.go
package tests

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AuthTestSuite struct {
	APISuite
}

func TestAuthTestSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}

func (suite *AuthTestSuite) TestUserRegistration() {
	w := suite.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Ana",
		"email":    "Ana@Example.com",
		"password": testPassword,
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var out sessionBody
	suite.decode(w, &out)
	suite.Equal("ana@example.com", out.Email)
	suite.False(out.IsAdmin)
	suite.NotEmpty(out.Token)
	suite.NotContains(w.Body.String(), "password")

	cookie := w.Header().Get("Set-Cookie")
	suite.Contains(cookie, "sword_session=")
	suite.Contains(cookie, "HttpOnly")
	suite.Contains(cookie, "SameSite=Lax")

	// Duplicate email
	w = suite.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Outra", "email": "ana@example.com", "password": testPassword,
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Email already registered", suite.errorMessage(w))
}

func (suite *AuthTestSuite) TestRegistrationValidation() {
	cases := []map[string]string{
		{"name": "Ana", "email": "not-an-email", "password": testPassword},
		{"name": "", "email": "ana@example.com", "password": testPassword},
		{"name": "Ana", "email": "ana@example.com", "password": "123"},
	}
	for _, body := range cases {
		w := suite.do(http.MethodPost, "/api/auth/register", "", body)
		suite.Equal(http.StatusBadRequest, w.Code, body)
		suite.NotEmpty(suite.errorMessage(w))
	}

	w := suite.do(http.MethodPost, "/api/auth/register", "", "not an object")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid request body", suite.errorMessage(w))
}

func (suite *AuthTestSuite) TestLoginMeLogout() {
	suite.register("Ana", "ana@example.com")

	w := suite.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "wrong-pass",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Incorrect email or password", suite.errorMessage(w))

	w = suite.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": testPassword,
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	var login sessionBody
	suite.decode(w, &login)

	w = suite.do(http.MethodGet, "/api/auth/me", login.Token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var me sessionBody
	suite.decode(w, &me)
	suite.Equal(login.ID, me.ID)

	w = suite.do(http.MethodPost, "/api/auth/logout", login.Token, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Logged out successfully")

	w = suite.do(http.MethodGet, "/api/auth/me", login.Token, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AuthTestSuite) TestSessionCookieIsAccepted() {
	w := suite.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": testPassword,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	cookies := w.Result().Cookies()
	suite.Require().NotEmpty(cookies)

	req, _ := http.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookies[0])
	rec := suite.serve(req)
	suite.Equal(http.StatusOK, rec.Code)
}

func (suite *AuthTestSuite) TestAdminLogin() {
	suite.register("Ana", "ana@example.com")

	w := suite.do(http.MethodPost, "/api/auth/admin/login", "", map[string]string{
		"email": "ana@example.com", "password": testPassword,
	})
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Empty(w.Header().Get("Set-Cookie"))

	admin := suite.admin()
	suite.True(admin.IsAdmin)
}

func (suite *AuthTestSuite) TestUnauthenticatedLocalized() {
	w := suite.do(http.MethodGet, "/api/auth/me", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Not authenticated", suite.errorMessage(w))

	req, _ := http.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Accept-Language", "pt-BR")
	rec := suite.serve(req)
	suite.Equal(http.StatusUnauthorized, rec.Code)
	suite.False(strings.Contains(rec.Body.String(), "Not authenticated"))
}
