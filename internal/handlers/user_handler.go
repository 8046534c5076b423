package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/services"
)

// UserHandler handles user management requests
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// UserIDResponse carries a user id
type UserIDResponse struct {
	ID string `json:"id"`
}

// GetUser returns a user by id
// @Summary     Get a user
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} UserResponse
// @Failure     401 {object} errors.Envelope "Missing or invalid token"
// @Failure     404 {object} errors.Envelope "User not found"
// @Router      /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// GetUserIDByUsername returns the id of a user
// @Summary     Get a user's id by username
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       username path string true "Username"
// @Success     200 {object} UserIDResponse
// @Failure     404 {object} errors.Envelope "User not found"
// @Router      /users/by-username/{username} [get]
func (h *UserHandler) GetUserIDByUsername(c *gin.Context) {
	id, err := h.userService.GetUserIDByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, UserIDResponse{ID: id})
}

// UpdateUser overwrites a user's account details
// @Summary     Update a user
// @Description Replaces username, email and password. Roles are unchanged.
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string          true "User ID"
// @Param       request body RegisterRequest true "New account details"
// @Success     200 {object} UserResponse
// @Failure     400 {object} errors.Envelope "Missing required field"
// @Failure     404 {object} errors.Envelope "User not found"
// @Failure     409 {object} errors.Envelope "Username already exists"
// @Router      /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), req.Email, req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actor(c), services.AuditUpdateUser, "user", user.ID, c.ClientIP(),
		map[string]interface{}{"username": user.Username, "email": user.Email})

	c.JSON(http.StatusOK, newUserResponse(user))
}

// DeleteUser removes a user
// @Summary     Delete a user
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} UserResponse "The deleted user"
// @Failure     404 {object} errors.Envelope "User not found"
// @Router      /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	user, err := h.userService.DeleteUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actor(c), services.AuditDeleteUser, "user", user.ID, c.ClientIP(),
		map[string]interface{}{"username": user.Username})

	c.JSON(http.StatusOK, newUserResponse(user))
}

// GrantAdmin gives a user the ADMIN role
// @Summary     Grant admin
// @Description Adds the ADMIN role to a user. Requires an ADMIN token. The user must log in again to get a token carrying the new role.
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} UserResponse
// @Failure     403 {object} errors.Envelope "Caller is not an admin"
// @Failure     404 {object} errors.Envelope "User or role not found"
// @Router      /users/{id}/admin [post]
func (h *UserHandler) GrantAdmin(c *gin.Context) {
	user, err := h.userService.GrantAdmin(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), actor(c), services.AuditGrantAdmin, "user", user.ID, c.ClientIP(),
		map[string]interface{}{"roles": user.RoleValues()})

	c.JSON(http.StatusOK, newUserResponse(user))
}
