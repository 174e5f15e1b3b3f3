package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/i18n"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func queryContext(rawQuery string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/items?"+rawQuery, nil)
	return c, w
}

func TestGetPaginationParams(t *testing.T) {
	cases := []struct {
		query string
		want  PaginationParams
	}{
		{"", PaginationParams{Page: 1, Limit: 0}},
		{"page=2", PaginationParams{Page: 2, Limit: defaultPageLimit}},
		{"page=3&limit=5", PaginationParams{Page: 3, Limit: 5}},
		{"page=-1&limit=500", PaginationParams{Page: 1, Limit: defaultPageLimit}},
		{"limit=abc", PaginationParams{Page: 1, Limit: defaultPageLimit}},
	}

	for _, tc := range cases {
		c, _ := queryContext(tc.query)
		assert.Equal(t, tc.want, GetPaginationParams(c), tc.query)
	}
}

func TestPaginationHeaders(t *testing.T) {
	c, w := queryContext("")
	SetPaginationHeaders(c, 45, PaginationParams{Page: 2, Limit: 20})
	assert.Equal(t, "45", w.Header().Get("X-Total-Count"))
	assert.Equal(t, "2", w.Header().Get("X-Page"))
	assert.Equal(t, "20", w.Header().Get("X-Per-Page"))
	assert.Equal(t, "3", w.Header().Get("X-Total-Pages"))

	c, w = queryContext("")
	SetPaginationHeaders(c, 7, PaginationParams{Page: 1})
	assert.Equal(t, "7", w.Header().Get("X-Per-Page"))
	assert.Equal(t, "1", w.Header().Get("X-Total-Pages"))

	c, w = queryContext("")
	SetPaginationHeaders(c, 0, PaginationParams{Page: 1})
	assert.Equal(t, "0", w.Header().Get("X-Total-Pages"))
}

type signup struct {
	Name     string `json:"name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestValidationFailure(t *testing.T) {
	assert.NoError(t, ValidationFailure(ValidateStruct(&signup{Name: "Ana", Email: "ana@example.com", Password: "secret"})))

	cases := []struct {
		req  signup
		key  string
		args []interface{}
	}{
		{signup{Name: "   ", Email: "ana@example.com", Password: "secret"}, i18n.KeyValidationRequired, []interface{}{"name"}},
		{signup{Name: "Ana", Email: "nope", Password: "secret"}, i18n.KeyValidationEmail, nil},
		{signup{Name: "Ana", Email: "ana@example.com", Password: "123"}, i18n.KeyValidationTooShort, []interface{}{"password", "6"}},
	}

	for _, tc := range cases {
		err := ValidationFailure(ValidateStruct(&tc.req))
		require.Error(t, err)
		appErr := apperrors.From(err)
		assert.Equal(t, apperrors.CodeValidation, appErr.Code)
		assert.Equal(t, tc.key, appErr.Message)
		assert.Equal(t, tc.args, appErr.Args)
	}
}

func TestSessionToken(t *testing.T) {
	secret := []byte("secret")
	userID := uuid.New()
	now := time.Now()

	token, err := GenerateSessionToken(secret, "session-1", userID, now, now.Add(time.Hour))
	require.NoError(t, err)

	claims, err := ValidateSessionToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.ID)
	assert.Equal(t, userID.String(), claims.Subject)

	_, err = ValidateSessionToken([]byte("other"), token)
	assert.Error(t, err)

	expired, err := GenerateSessionToken(secret, "session-2", userID, now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = ValidateSessionToken(secret, expired)
	assert.Error(t, err)
}

func TestGenerateSessionID(t *testing.T) {
	a, err := GenerateSessionID()
	require.NoError(t, err)
	b, err := GenerateSessionID()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestHandleErrorHidesInternalCause(t *testing.T) {
	c, w := queryContext("")
	HandleError(c, errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Equal(t, apperrors.CodeInternal, c.GetString(ContextKeyErrCode))
	assert.True(t, c.IsAborted())
}

func TestHandleErrorStatus(t *testing.T) {
	c, w := queryContext("")
	HandleError(c, apperrors.NotFound(i18n.KeyProductNotFound, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}
