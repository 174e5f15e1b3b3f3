package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/time/rate"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/utils"
)

type MiddlewareTestSuite struct {
	suite.Suite
	user  *models.User
	admin *models.User
	auth  *Auth
}

func TestMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareTestSuite))
}

func (suite *MiddlewareTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(i18n.Initialize(i18n.LangEnglish))

	suite.user = &models.User{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Ana"}
	suite.admin = &models.User{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Admin", IsAdmin: true}

	tokens := map[string]*models.User{"user-token": suite.user, "admin-token": suite.admin}
	suite.auth = NewAuth("sword_session", func(c *gin.Context, token string) (*models.User, error) {
		if user, ok := tokens[token]; ok {
			return user, nil
		}
		return nil, apperrors.Unauthenticated(i18n.KeyAuthRequired)
	})
}

func (suite *MiddlewareTestSuite) router(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(I18nMiddleware())
	handlers = append(handlers, func(c *gin.Context) {
		resp := gin.H{"lang": utils.GetLangFromContext(c)}
		if user := utils.CurrentUser(c); user != nil {
			resp["user"] = user.Name
		}
		c.JSON(http.StatusOK, resp)
	})
	r.GET("/test", handlers...)
	return r
}

func (suite *MiddlewareTestSuite) do(r *gin.Engine, setup func(req *http.Request)) (*httptest.ResponseRecorder, map[string]string) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	body := map[string]string{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func (suite *MiddlewareTestSuite) TestRequiredRejectsMissingToken() {
	w, body := suite.do(suite.router(suite.auth.Required()), nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.NotEmpty(body["error"])
}

func (suite *MiddlewareTestSuite) TestRequiredRejectsUnknownToken() {
	w, _ := suite.do(suite.router(suite.auth.Required()), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer nope")
	})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *MiddlewareTestSuite) TestRequiredAcceptsCookieAndBearer() {
	r := suite.router(suite.auth.Required())

	w, body := suite.do(r, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "sword_session", Value: "user-token"})
	})
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Ana", body["user"])

	w, body = suite.do(r, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer admin-token")
	})
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Admin", body["user"])
}

func (suite *MiddlewareTestSuite) TestAdminRequired() {
	r := suite.router(suite.auth.Required(), suite.auth.AdminRequired())

	w, _ := suite.do(r, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer user-token")
	})
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.do(r, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer admin-token")
	})
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *MiddlewareTestSuite) TestOptionalIgnoresBadTokens() {
	r := suite.router(suite.auth.Optional())

	w, body := suite.do(r, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer nope")
	})
	suite.Equal(http.StatusOK, w.Code)
	suite.Empty(body["user"])

	w, body = suite.do(r, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer user-token")
	})
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Ana", body["user"])
}

func (suite *MiddlewareTestSuite) TestI18nMiddleware() {
	r := suite.router()

	_, body := suite.do(r, func(req *http.Request) {
		req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.8")
	})
	suite.Equal(i18n.LangPortuguese, body["lang"])

	_, body = suite.do(r, func(req *http.Request) {
		req.Header.Set("Accept-Language", "en-US")
	})
	suite.Equal(i18n.LangEnglish, body["lang"])

	_, body = suite.do(r, nil)
	suite.Equal(i18n.DefaultLanguage(), body["lang"])
}

func (suite *MiddlewareTestSuite) TestRateLimit() {
	limiter := NewRateLimiter(rate.Every(time.Hour), 2)
	defer limiter.Stop()
	r := suite.router(limiter.Middleware())

	for i := 0; i < 2; i++ {
		w, _ := suite.do(r, nil)
		suite.Equal(http.StatusOK, w.Code)
	}

	w, body := suite.do(r, nil)
	suite.Equal(http.StatusTooManyRequests, w.Code)
	suite.NotEmpty(body["error"])
}

func TestLoggerAndMetricsPassThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(), Metrics())
	r.GET("/fail", func(c *gin.Context) {
		utils.HandleError(c, errors.New("boom"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotContains(t, body["error"], "boom")
}

func TestPerMinuteWithoutRate(t *testing.T) {
	limiter := PerMinute(0, 1)
	defer limiter.Stop()
	assert.Equal(t, rate.Inf, limiter.rate)
}
