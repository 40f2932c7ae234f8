package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"travelbuk/internal/auth"
	"travelbuk/internal/entity"
	"travelbuk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Register creates a self-service account. Registration follows the same
// lifecycle as an admin-created account: the user starts unapproved and
// must confirm their email before signing in.
func (h *HTTPHandler) Register(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	var req entity.AuthRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.userService.Create(ctx, entity.UserCreateRequest{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			ValidationFailed(c, ve.Reasons)
			return
		}
		logrus.WithError(err).Error("failed to register user")
		InternalError(c, "failed to register")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    summary,
		"message": "account created, awaiting administrator approval; a confirmation email has been sent",
	})
}

// Login verifies credentials and issues a JWT. Sign-in requires both a
// confirmed email address and administrator approval.
func (h *HTTPHandler) Login(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
			return
		}
		logrus.WithError(err).Error("failed to load user during login")
		InternalError(c, "failed to sign in")
		return
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
		return
	}

	if !user.EmailConfirmed {
		ErrorResponse(c, http.StatusForbidden, ErrCodeEmailNotConfirmed, "please confirm your email address first")
		return
	}
	if !user.IsApproved {
		ErrorResponse(c, http.StatusForbidden, ErrCodeAccountNotApproved, "account is not approved yet, please wait for an administrator")
		return
	}

	roles, err := h.repo.ListUserRoles(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to load roles during login")
		InternalError(c, "failed to sign in")
		return
	}

	token, expiresAt, err := h.authManager.GenerateToken(user, roles)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to generate token")
		InternalError(c, "failed to sign in")
		return
	}

	c.JSON(http.StatusOK, entity.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: entity.UserSummary{
			ID:             user.ID,
			FirstName:      user.FirstName,
			LastName:       user.LastName,
			Email:          user.Email,
			IsApproved:     user.IsApproved,
			EmailConfirmed: user.EmailConfirmed,
			Roles:          roles,
			CreatedOn:      user.CreatedOn,
			UpdatedAt:      user.UpdatedAt,
		},
	})
}

// ConfirmEmail redeems the confirmation token from the emailed callback
// link (GET /api/auth/confirm?uid=...&token=...).
func (h *HTTPHandler) ConfirmEmail(c *gin.Context) {
	uid := strings.TrimSpace(c.Query("uid"))
	token := strings.TrimSpace(c.Query("token"))
	if uid == "" {
		MissingField(c, "uid")
		return
	}
	if token == "" {
		MissingField(c, "token")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	err := h.userService.ConfirmEmail(ctx, uid, token)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "email confirmed"})
	case errors.Is(err, service.ErrUserNotFound):
		NotFound(c, ErrCodeUserNotFound, "user not found")
	case errors.Is(err, service.ErrInvalidConfirmToken):
		BadRequest(c, ErrCodeInvalidToken, "confirmation token is invalid")
	default:
		logrus.WithError(err).WithField("user_id", uid).Error("failed to confirm email")
		InternalError(c, "failed to confirm email")
	}
}

// Me returns the authenticated user.
func (h *HTTPHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.userService.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			NotFound(c, ErrCodeUserNotFound, "user not found")
			return
		}
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to load current user")
		InternalError(c, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, summary)
}
