package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"travelbuk/internal/entity"
	"travelbuk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListUsers returns every account, most recently created first.
func (h *HTTPHandler) ListUsers(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, err := h.userService.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		InternalError(c, "failed to load users")
		return
	}

	c.JSON(http.StatusOK, entity.UserListResponse{Users: users})
}

// GetUser returns one account by id.
func (h *HTTPHandler) GetUser(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		BadRequest(c, ErrCodeInvalidRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.userService.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			NotFound(c, ErrCodeUserNotFound, "user not found")
			return
		}
		logrus.WithError(err).WithField("user_id", id).Error("failed to load user")
		InternalError(c, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// CreateUser creates an account on behalf of an admin. The account starts
// unapproved like any other and receives a confirmation email.
func (h *HTTPHandler) CreateUser(c *gin.Context) {
	var req entity.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.userService.Create(ctx, req)
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			ValidationFailed(c, ve.Reasons)
			return
		}
		logrus.WithError(err).Error("failed to create user")
		InternalError(c, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, summary)
}

// UpdateUser edits an account. Field updates are applied only where the
// value differs from the stored one; a change of the approval flag sends
// the matching account notification.
func (h *HTTPHandler) UpdateUser(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		BadRequest(c, ErrCodeInvalidRequest, "invalid user id")
		return
	}

	var req entity.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.userService.Edit(ctx, id, req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			NotFound(c, ErrCodeUserNotFound, "user not found")
			return
		}
		if ve, ok := service.AsValidationError(err); ok {
			ValidationFailed(c, ve.Reasons)
			return
		}
		logrus.WithError(err).WithField("user_id", id).Error("failed to update user")
		InternalError(c, "failed to update user")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// DeleteUser hard-deletes an account and its role memberships.
func (h *HTTPHandler) DeleteUser(c *gin.Context) {
	requestUser := CurrentUser(c)

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		BadRequest(c, ErrCodeInvalidRequest, "invalid user id")
		return
	}

	if requestUser != nil && requestUser.ID == id {
		BadRequest(c, ErrCodeInvalidRequest, "cannot delete current user")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.userService.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			NotFound(c, ErrCodeUserNotFound, "user not found")
			return
		}
		logrus.WithError(err).WithField("user_id", id).Error("failed to delete user")
		InternalError(c, "failed to delete user")
		return
	}

	c.Status(http.StatusNoContent)
}
