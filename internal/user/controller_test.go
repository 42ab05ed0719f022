package user

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auth_service/internal/auth"
	"auth_service/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	observability.InitMetrics()
}

// MockAuthService is a mock implementation of AuthServiceInterface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(username, email, password string) (*AuthResponse, error) {
	args := m.Called(username, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(username, password string) (*AuthResponse, error) {
	args := m.Called(username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AuthResponse), args.Error(1)
}

func (m *MockAuthService) GetProfile(userID int) (*Profile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignUp_Created(t *testing.T) {
	mockService := new(MockAuthService)
	controller := NewAuthController(mockService)
	router := gin.New()
	router.POST("/auth/signup", controller.SignUp)

	resp := &AuthResponse{
		Token: "signed-token",
		User: Profile{
			ID:        1,
			Username:  "alice",
			Email:     "a@x.com",
			CreatedAt: time.Now(),
		},
	}
	mockService.On("SignUp", "alice", "a@x.com", "secret1").Return(resp, nil)

	w := postJSON(router, "/auth/signup", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "secret1",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "signed-token", body["token"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, float64(1), user["id"])
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotContains(t, w.Body.String(), "password")

	mockService.AssertExpectations(t)
}

func TestSignUp_Conflict(t *testing.T) {
	mockService := new(MockAuthService)
	controller := NewAuthController(mockService)
	router := gin.New()
	router.POST("/auth/signup", controller.SignUp)

	mockService.On("SignUp", "alice", "a@x.com", "secret1").Return(nil, auth.ErrConflict)

	w := postJSON(router, "/auth/signup", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "secret1",
	})

	assert.Equal(t, http.StatusConflict, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Username or email already exists", body["error"])
}

func TestSignUp_ValidationRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]string
	}{
		{
			name:    "Missing username",
			payload: map[string]string{"email": "a@x.com", "password": "secret1"},
		},
		{
			name:    "Invalid email",
			payload: map[string]string{"username": "alice", "email": "not-an-email", "password": "secret1"},
		},
		{
			name:    "Password too short",
			payload: map[string]string{"username": "alice", "email": "a@x.com", "password": "short"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			controller := NewAuthController(mockService)
			router := gin.New()
			router.POST("/auth/signup", controller.SignUp)

			w := postJSON(router, "/auth/signup", tt.payload)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			// Malformed input never reaches the service
			mockService.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSignUp_InternalError(t *testing.T) {
	mockService := new(MockAuthService)
	controller := NewAuthController(mockService)
	router := gin.New()
	router.POST("/auth/signup", controller.SignUp)

	mockService.On("SignUp", "alice", "a@x.com", "secret1").Return(nil, auth.ErrHashing)

	w := postJSON(router, "/auth/signup", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "secret1",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLogin_OK(t *testing.T) {
	mockService := new(MockAuthService)
	controller := NewAuthController(mockService)
	router := gin.New()
	router.POST("/auth/login", controller.Login)

	resp := &AuthResponse{
		Token: "signed-token",
		User:  Profile{ID: 42, Username: "alice", Email: "a@x.com"},
	}
	mockService.On("Login", "alice", "secret1").Return(resp, nil)

	w := postJSON(router, "/auth/login", map[string]string{
		"username": "alice",
		"password": "secret1",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "signed-token", body["token"])
	mockService.AssertExpectations(t)
}

func TestLogin_Unauthorized(t *testing.T) {
	mockService := new(MockAuthService)
	controller := NewAuthController(mockService)
	router := gin.New()
	router.POST("/auth/login", controller.Login)

	mockService.On("Login", "alice", "wrong").Return(nil, auth.ErrInvalidCredentials)

	w := postJSON(router, "/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid credentials", body["error"])
}

func TestGetProfile_OK(t *testing.T) {
	mockService := new(MockAuthService)
	controller := NewAuthController(mockService)
	router := gin.New()

	profile := &Profile{ID: 42, Username: "alice", Email: "a@x.com", CreatedAt: time.Now()}
	mockService.On("GetProfile", 42).Return(profile, nil)

	// Simulate the auth middleware having verified the token
	router.GET("/auth/profile", func(c *gin.Context) {
		c.Set(auth.UserIDKey, 42)
		controller.GetProfile(c)
	})

	req := httptest.NewRequest("GET", "/auth/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(42), body["id"])
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.NotContains(t, w.Body.String(), "password")

	mockService.AssertExpectations(t)
}

func TestGetProfile_SubjectNoLongerExists(t *testing.T) {
	mockService := new(MockAuthService)
	controller := NewAuthController(mockService)
	router := gin.New()

	mockService.On("GetProfile", 99).Return(nil, auth.ErrUserNotFound)

	router.GET("/auth/profile", func(c *gin.Context) {
		c.Set(auth.UserIDKey, 99)
		controller.GetProfile(c)
	})

	req := httptest.NewRequest("GET", "/auth/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// A valid token for a deleted user is an auth failure, not a 404
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetProfile_NoVerifiedIdentity(t *testing.T) {
	mockService := new(MockAuthService)
	controller := NewAuthController(mockService)
	router := gin.New()

	router.GET("/auth/profile", controller.GetProfile)

	req := httptest.NewRequest("GET", "/auth/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "GetProfile", mock.Anything)
}

func TestGetProfile_StoreError(t *testing.T) {
	mockService := new(MockAuthService)
	controller := NewAuthController(mockService)
	router := gin.New()

	mockService.On("GetProfile", 42).Return(nil, errors.New("connection refused"))

	router.GET("/auth/profile", func(c *gin.Context) {
		c.Set(auth.UserIDKey, 42)
		controller.GetProfile(c)
	})

	req := httptest.NewRequest("GET", "/auth/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
