package service

import (
	"context"
	"errors"
	"strings"

	"travelbuk/internal/entity"
	"travelbuk/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ContactService handles contact submissions and their review lifecycle.
// A submission always starts at "submitted"; only an explicit review
// advances it to "approved" or "rejected".
type ContactService struct {
	repo model.Repository
}

// NewContactService creates the contact service.
func NewContactService(repo model.Repository) *ContactService {
	return &ContactService{repo: repo}
}

// Submit stores a new contact for the given owner. The status field is
// forced to "submitted" regardless of input.
func (s *ContactService) Submit(ctx context.Context, ownerID string, req entity.ContactCreateRequest) (*entity.DbContact, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ValidationError{Reasons: []string{"name is required"}}
	}

	contact := &entity.DbContact{
		OwnerID: strings.TrimSpace(ownerID),
		Name:    name,
		Address: strings.TrimSpace(req.Address),
		City:    strings.TrimSpace(req.City),
		State:   strings.TrimSpace(req.State),
		Zip:     strings.TrimSpace(req.Zip),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Status:  entity.ContactStatusSubmitted,
	}

	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"contact_id": contact.ID,
		"owner_id":   contact.OwnerID,
	}).Info("contact submitted")
	return contact, nil
}

// Get loads one contact. Returns ErrContactNotFound when absent.
func (s *ContactService) Get(ctx context.Context, id uint) (*entity.DbContact, error) {
	contact, err := s.repo.GetContactByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return contact, nil
}

// List returns contacts matching the query.
func (s *ContactService) List(ctx context.Context, params *entity.ContactQuery) ([]entity.DbContact, *entity.Meta, error) {
	return s.repo.ListContacts(ctx, params)
}

// Review advances a contact to "approved" or "rejected". Moving a contact
// back to "submitted" is not a review outcome and is rejected.
func (s *ContactService) Review(ctx context.Context, id uint, status string) (*entity.DbContact, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != entity.ContactStatusApproved && status != entity.ContactStatusRejected {
		return nil, &ValidationError{Reasons: []string{"status must be approved or rejected"}}
	}

	contact, err := s.repo.GetContactByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}

	if contact.Status == status {
		return contact, nil
	}

	updates := entity.ContactUpdates{Status: &status}
	if err := s.repo.UpdateContact(ctx, contact.ID, updates); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"contact_id": contact.ID,
		"status":     status,
	}).Info("contact reviewed")

	contact.Status = status
	return contact, nil
}

// Delete removes a contact. Returns ErrContactNotFound when absent.
func (s *ContactService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.DeleteContact(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContactNotFound
		}
		return err
	}
	return nil
}
