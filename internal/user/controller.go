package user

import (
	"errors"
	"net/http"

	"auth_service/internal/auth"
	"auth_service/internal/observability"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService AuthServiceInterface
}

func NewAuthController(authService AuthServiceInterface) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// SignUp handles user registration and returns a token plus the created
// profile. The binding tags are the validation layer: username required,
// email syntactically valid, password at least 6 characters.
func (a *AuthController) SignUp(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := a.authService.SignUp(req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrConflict) {
			observability.GlobalMetrics.SignupsTotal.WithLabelValues("conflict").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
			return
		}
		observability.GlobalMetrics.SignupsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	observability.GlobalMetrics.SignupsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusCreated, resp)
}

// Login handles user login and returns a token plus the profile
func (a *AuthController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := a.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			observability.GlobalMetrics.LoginsTotal.WithLabelValues("unauthorized").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		observability.GlobalMetrics.LoginsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	observability.GlobalMetrics.LoginsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, resp)
}

// GetProfile returns the authenticated user's profile. The auth
// middleware has already verified the token and put the subject id in
// the context; a subject that no longer exists is still a 401, because a
// token for a deleted user must not be trusted.
func (a *AuthController) GetProfile(c *gin.Context) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := a.authService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
