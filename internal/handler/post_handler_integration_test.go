package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwelldev/inkwell/internal/audit"
	"github.com/inkwelldev/inkwell/internal/handler"
	"github.com/inkwelldev/inkwell/internal/middleware"
	"github.com/inkwelldev/inkwell/internal/repository"
	"github.com/inkwelldev/inkwell/internal/service"
	"github.com/inkwelldev/inkwell/internal/session"
	"github.com/inkwelldev/inkwell/internal/testutil"
	"github.com/inkwelldev/inkwell/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PostHandlerIntegrationTestSuite struct {
	suite.Suite
	testDB      *testutil.TestDatabase
	testRedis   *testutil.TestRedis
	store       *session.RedisStore
	trail       *audit.Trail
	authService *service.AuthService
	router      *gin.Engine
}

func (s *PostHandlerIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	logger.Init(false)

	s.testDB = testutil.SetupTestDatabase(s.T())
	s.testRedis = testutil.SetupTestRedis(s.T())

	var err error
	s.store, err = session.NewRedisStore(s.testRedis.URL)
	require.NoError(s.T(), err)

	s.trail, err = audit.Open(filepath.Join(s.T().TempDir(), "audit.log"))
	require.NoError(s.T(), err)

	sessions := session.NewManager(s.store, "test-secret-key", 1*time.Hour)

	userRepo := repository.NewUserRepository(s.testDB.DB)
	postRepo := repository.NewPostRepository(s.testDB.DB)
	profileRepo := repository.NewProfileRepository(s.testDB.DB)

	s.authService = service.NewAuthService(userRepo, sessions, s.trail)
	postService := service.NewPostService(postRepo)
	profileService := service.NewProfileService(profileRepo)

	authHandler := handler.NewAuthHandler(s.authService, 1*time.Hour, false)
	postHandler := handler.NewPostHandler(postService)
	profileHandler := handler.NewProfileHandler(profileService)

	s.router = gin.New()
	s.router.POST("/api/auth/register", authHandler.Register)
	s.router.GET("/api/posts", postHandler.List)
	s.router.GET("/api/posts/:id", postHandler.Get)
	s.router.GET("/api/users/:id/profile", profileHandler.Get)

	protected := s.router.Group("/api")
	protected.Use(middleware.RequireAuth(s.authService))
	protected.POST("/posts", postHandler.Create)
	protected.PUT("/posts/:id", postHandler.Update)
	protected.DELETE("/posts/:id", postHandler.Delete)
	protected.PUT("/profile", profileHandler.UpdateOwn)
}

func (s *PostHandlerIntegrationTestSuite) TearDownSuite() {
	s.store.Close()
	s.trail.Close()
	s.testRedis.Teardown(s.T())
	s.testDB.Teardown(s.T())
}

func (s *PostHandlerIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
	s.testRedis.Server.FlushAll()
}

func (s *PostHandlerIntegrationTestSuite) request(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.T(), json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// registerUser registers through the API and returns the session token
// and user id.
func (s *PostHandlerIntegrationTestSuite) registerUser(username, email string) (token, userID string) {
	w := s.request(http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": "PostsPass123",
	}, "")
	require.Equal(s.T(), http.StatusCreated, w.Code)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			token = cookie.Value
		}
	}
	require.NotEmpty(s.T(), token)

	var response map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &response))
	userID = response["user"].(map[string]interface{})["id"].(string)
	return token, userID
}

func (s *PostHandlerIntegrationTestSuite) createPost(token, title, content string) string {
	w := s.request(http.MethodPost, "/api/posts", map[string]string{
		"title":   title,
		"content": content,
	}, token)
	require.Equal(s.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &response))
	return response["post"].(map[string]interface{})["id"].(string)
}

func (s *PostHandlerIntegrationTestSuite) TestCreateRequiresLogin() {
	w := s.request(http.MethodPost, "/api/posts", map[string]string{
		"title":   "No session",
		"content": "should be refused",
	}, "")

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(s.T(), response["redirect"], "/login?next=")
}

func (s *PostHandlerIntegrationTestSuite) TestCreateAndListPosts() {
	token, userID := s.registerUser("author", "author@example.com")

	postID := s.createPost(token, "First post", "Hello from the author")

	// Listing is public, no session needed.
	w := s.request(http.MethodGet, "/api/posts", nil, "")
	require.Equal(s.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &response))
	posts := response["posts"].([]interface{})
	require.Len(s.T(), posts, 1)

	post := posts[0].(map[string]interface{})
	assert.Equal(s.T(), postID, post["id"])
	assert.Equal(s.T(), "First post", post["title"])
	assert.Equal(s.T(), "author", post["author"])
	assert.Equal(s.T(), userID, post["user_id"])
}

func (s *PostHandlerIntegrationTestSuite) TestUpdateOwnPost() {
	token, _ := s.registerUser("editor", "editor@example.com")
	postID := s.createPost(token, "Draft", "first version")

	w := s.request(http.MethodPut, "/api/posts/"+postID, map[string]string{
		"title":   "Final",
		"content": "second version",
	}, token)

	require.Equal(s.T(), http.StatusOK, w.Code)

	get := s.request(http.MethodGet, "/api/posts/"+postID, nil, "")
	require.Equal(s.T(), http.StatusOK, get.Code)

	var response map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(get.Body.Bytes(), &response))
	assert.Equal(s.T(), "Final", response["post"].(map[string]interface{})["title"])
}

func (s *PostHandlerIntegrationTestSuite) TestCannotModifyOthersPost() {
	ownerToken, _ := s.registerUser("owner", "owner@example.com")
	postID := s.createPost(ownerToken, "Mine", "hands off")

	otherToken, _ := s.registerUser("other", "other@example.com")

	update := s.request(http.MethodPut, "/api/posts/"+postID, map[string]string{
		"title":   "Hijacked",
		"content": "not yours",
	}, otherToken)
	assert.Equal(s.T(), http.StatusForbidden, update.Code)

	del := s.request(http.MethodDelete, "/api/posts/"+postID, nil, otherToken)
	assert.Equal(s.T(), http.StatusForbidden, del.Code)
}

func (s *PostHandlerIntegrationTestSuite) TestAdminCanDeleteAnyPost() {
	ownerToken, _ := s.registerUser("writer", "writer@example.com")
	postID := s.createPost(ownerToken, "Questionable", "to be moderated")

	adminUser, err := testutil.CreateTestUser("mod", "mod@example.com", "ModPass12345", "admin")
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.testDB.DB.Create(adminUser).Error)

	// Log the admin in through the service directly; the handler flow is
	// covered by the auth suite.
	_, adminToken, err := s.authService.Login(context.Background(), "mod@example.com", "ModPass12345")
	require.NoError(s.T(), err)

	w := s.request(http.MethodDelete, "/api/posts/"+postID, nil, adminToken)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	get := s.request(http.MethodGet, "/api/posts/"+postID, nil, "")
	assert.Equal(s.T(), http.StatusNotFound, get.Code)
}

func (s *PostHandlerIntegrationTestSuite) TestProfileCreatedAtRegistration() {
	_, userID := s.registerUser("profiled", "profiled@example.com")

	w := s.request(http.MethodGet, "/api/users/"+userID+"/profile", nil, "")
	require.Equal(s.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &response))
	profile := response["profile"].(map[string]interface{})
	assert.Equal(s.T(), "default.jpg", profile["avatar_url"])
	assert.Equal(s.T(), "", profile["bio"])
}

func (s *PostHandlerIntegrationTestSuite) TestUpdateOwnProfile() {
	token, userID := s.registerUser("bio", "bio@example.com")

	w := s.request(http.MethodPut, "/api/profile", map[string]string{
		"bio":        "Writes about Go",
		"avatar_url": "avatars/bio.png",
	}, token)
	require.Equal(s.T(), http.StatusOK, w.Code)

	get := s.request(http.MethodGet, "/api/users/"+userID+"/profile", nil, "")
	require.Equal(s.T(), http.StatusOK, get.Code)

	var response map[string]interface{}
	require.NoError(s.T(), json.Unmarshal(get.Body.Bytes(), &response))
	profile := response["profile"].(map[string]interface{})
	assert.Equal(s.T(), "Writes about Go", profile["bio"])
	assert.Equal(s.T(), "avatars/bio.png", profile["avatar_url"])
}

func TestPostHandlerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(PostHandlerIntegrationTestSuite))
}
