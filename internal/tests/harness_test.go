package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/swordshop/backend/internal/config"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/repository"
	"github.com/swordshop/backend/internal/repository/memory"
	"github.com/swordshop/backend/internal/router"
	"github.com/swordshop/backend/internal/session"
)

const testPassword = "secret123"

// APISuite runs requests against the full router backed by the in-memory
// store.
type APISuite struct {
	suite.Suite
	cfg    *config.Config
	repos  *repository.Repositories
	router *gin.Engine
	stop   func()

	category *models.Category
}

func (suite *APISuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(i18n.Initialize(i18n.LangPortuguese))
}

func (suite *APISuite) SetupTest() {
	suite.cfg = &config.Config{
		Environment: "test",
		Session:     config.SessionConfig{Secret: "test-secret", TTLHours: 1, CookieName: "sword_session", Store: "memory"},
		Storage:     config.StorageConfig{LocalDir: suite.T().TempDir(), PublicBaseURL: "/uploads", MaxUploadBytes: 1 << 20},
		CORS:        config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		Metrics:     config.MetricsConfig{Enabled: true},
	}
	suite.repos = memory.New()
	sessions := session.NewManager(session.NewMemoryStore(), suite.cfg.Session.Secret, suite.cfg.Session.TTL())

	r, stop, err := router.Initialize(suite.cfg, suite.repos, sessions)
	suite.Require().NoError(err)
	suite.router = r
	suite.stop = stop

	suite.category = &models.Category{Name: "Contas", Icon: "Gamepad2"}
	suite.Require().NoError(suite.repos.Categories.Create(context.Background(), suite.category))
}

func (suite *APISuite) TearDownTest() {
	suite.stop()
}

func (suite *APISuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APISuite) decode(w *httptest.ResponseRecorder, out interface{}) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

type sessionBody struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"isAdmin"`
	Token   string    `json:"token"`
}

func (suite *APISuite) register(name, email string) sessionBody {
	w := suite.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": testPassword,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var out sessionBody
	suite.decode(w, &out)
	return out
}

// admin registers a user, promotes it and signs in through the admin login.
func (suite *APISuite) admin() sessionBody {
	registered := suite.register("Admin", "admin@example.com")
	suite.Require().NoError(memory.SetAdmin(suite.repos, registered.ID))

	w := suite.do(http.MethodPost, "/api/auth/admin/login", "", map[string]string{
		"email": "admin@example.com", "password": testPassword,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var out sessionBody
	suite.decode(w, &out)
	return out
}

func (suite *APISuite) errorMessage(w *httptest.ResponseRecorder) string {
	var body struct {
		Error string `json:"error"`
	}
	suite.decode(w, &body)
	return body.Error
}

func (suite *APISuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}
