package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/userhubio/userhub/internal/schemas"
	"github.com/userhubio/userhub/internal/services"
	"github.com/userhubio/userhub/pkg/response"
)

// UserHandler exposes account management endpoints.
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler wires the handler to the account service.
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	skip := parseIntQuery(c, "skip", 0)
	limit := parseIntQuery(c, "limit", 50)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	users, total, err := h.users.List(c.Request.Context(), skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	page := 1
	if limit > 0 {
		page = skip/limit + 1
	}

	payload := schemas.NewUserListResponse(users, total, page, limit)
	response.SuccessWithMeta(c, http.StatusOK, payload.Items, &response.Meta{
		Page:  page,
		Size:  limit,
		Total: total,
	})
}

// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, schemas.NewUserResponse(user))
}

// GET /api/users/nickname/:nickname
func (h *UserHandler) GetByNickname(c *gin.Context) {
	user, err := h.users.GetByNickname(c.Request.Context(), c.Param("nickname"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, schemas.NewUserResponse(user))
}

// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var body schemas.CreateUser
	if !bindJSON(c, &body) {
		return
	}

	user, err := h.users.Create(c.Request.Context(), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, schemas.NewUserResponse(user))
}

// PATCH /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var body schemas.UpdateUser
	if !bindJSON(c, &body) {
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, schemas.NewUserResponse(user))
}

// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/users/:id/unlock
func (h *UserHandler) Unlock(c *gin.Context) {
	if err := h.users.UnlockAccount(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unlocked": true})
}
