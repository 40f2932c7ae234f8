package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"travelbuk/internal/entity"
	"travelbuk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SubmitContact stores a contact submission for the current user.
func (h *HTTPHandler) SubmitContact(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "not authenticated")
		return
	}

	var req entity.ContactCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	contact, err := h.contactService.Submit(ctx, user.ID, req)
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			ValidationFailed(c, ve.Reasons)
			return
		}
		logrus.WithError(err).Error("failed to submit contact")
		InternalError(c, "failed to submit contact")
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// ListContacts returns contacts. Admins see everything and may filter by
// owner and status; other users only ever see their own submissions.
func (h *HTTPHandler) ListContacts(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "not authenticated")
		return
	}

	var query entity.ContactQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}
	if query.PageSize > 100 {
		query.PageSize = 100
	}

	if !user.IsAdmin() {
		query.OwnerID = user.ID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	contacts, meta, err := h.contactService.List(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list contacts")
		InternalError(c, "failed to load contacts")
		return
	}

	c.JSON(http.StatusOK, entity.ContactListResponse{Contacts: contacts, Meta: meta})
}

// GetContact returns one contact. Non-admins may only read their own.
func (h *HTTPHandler) GetContact(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "not authenticated")
		return
	}

	id, ok := contactID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	contact, err := h.contactService.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			NotFound(c, ErrCodeContactNotFound, "contact not found")
			return
		}
		logrus.WithError(err).WithField("contact_id", id).Error("failed to load contact")
		InternalError(c, "failed to load contact")
		return
	}

	if !user.IsAdmin() && contact.OwnerID != user.ID {
		Forbidden(c, "cannot access another user's contact")
		return
	}

	c.JSON(http.StatusOK, contact)
}

// ReviewContact advances a contact to approved or rejected.
func (h *HTTPHandler) ReviewContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}

	var req entity.ContactStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	contact, err := h.contactService.Review(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			NotFound(c, ErrCodeContactNotFound, "contact not found")
			return
		}
		if ve, ok := service.AsValidationError(err); ok {
			ValidationFailed(c, ve.Reasons)
			return
		}
		logrus.WithError(err).WithField("contact_id", id).Error("failed to review contact")
		InternalError(c, "failed to review contact")
		return
	}

	c.JSON(http.StatusOK, contact)
}

// DeleteContact removes a contact.
func (h *HTTPHandler) DeleteContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.contactService.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrContactNotFound) {
			NotFound(c, ErrCodeContactNotFound, "contact not found")
			return
		}
		logrus.WithError(err).WithField("contact_id", id).Error("failed to delete contact")
		InternalError(c, "failed to delete contact")
		return
	}

	c.Status(http.StatusNoContent)
}

func contactID(c *gin.Context) (uint, bool) {
	idValue := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(idValue, 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid contact id")
		return 0, false
	}
	return uint(id), true
}
