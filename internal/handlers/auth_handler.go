package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/models"
	"expensetracker/internal/services"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	userService services.UserServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RegisterRequest represents the registration and user update payload
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries the bearer token issued on login
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

// Register handles user registration
// @Summary     Register a new user
// @Description Creates a user holding the USER role. Required fields: email, username, password.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} UserResponse "User registered"
// @Failure     400 {object} errors.Envelope "Missing required field"
// @Failure     409 {object} errors.Envelope "Username already exists"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Email, req.Username, req.Password, []string{models.RoleUser})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

// Login handles user login
// @Summary     Log in
// @Description Validates a user's credentials and returns a JWT valid for one hour.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "Token issued"
// @Failure     400 {object} errors.Envelope "Missing required field"
// @Failure     401 {object} errors.Envelope "Invalid credentials"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{AccessToken: token.AccessToken, TokenType: token.TokenType})
}
