package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"travelbuk/internal/auth"
	"travelbuk/internal/entity"
	"travelbuk/internal/model"
	"travelbuk/internal/notifier"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// defaultSignupRoles are granted to every account at creation. Carried over
// from the previous system, where each new account received admin while
// still being unapproved.
// TODO: grant app_user here once the create form carries a role choice and
// existing admins have been migrated.
var defaultSignupRoles = []string{entity.RoleAdmin}

// UserService implements the user admin workflow: list, create, edit and
// delete against the store, running the approval transition and dispatching
// account emails where the lifecycle requires them.
type UserService struct {
	repo          model.Repository
	dispatcher    *notifier.Dispatcher
	publicBaseURL string

	now   func() time.Time
	newID func() string
}

// NewUserService creates the workflow service.
func NewUserService(repo model.Repository, dispatcher *notifier.Dispatcher, publicBaseURL string) *UserService {
	return &UserService{
		repo:          repo,
		dispatcher:    dispatcher,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// List returns all users, most recently created first, with their roles.
func (s *UserService) List(ctx context.Context) ([]entity.UserSummary, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]entity.UserSummary, 0, len(users))
	for i := range users {
		roles, err := s.repo.ListUserRoles(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, makeSummary(&users[i], roles))
	}
	return summaries, nil
}

// Get loads one user with roles. Returns ErrUserNotFound when the id does
// not resolve.
func (s *UserService) Get(ctx context.Context, id string) (*entity.UserSummary, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	roles, err := s.repo.ListUserRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	summary := makeSummary(user, roles)
	return &summary, nil
}

// Create validates the input and creates an account. Every creation path
// yields an unapproved, unconfirmed account; a confirmation email with a
// callback link is dispatched best-effort. Nothing is left half-created:
// when the role grant fails the user row is removed again.
func (s *UserService) Create(ctx context.Context, req entity.UserCreateRequest) (*entity.UserSummary, error) {
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var reasons []string
	if first == "" {
		reasons = append(reasons, "first name is required")
	}
	if last == "" {
		reasons = append(reasons, "last name is required")
	}
	if email == "" {
		reasons = append(reasons, "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		reasons = append(reasons, "email is not a valid address")
	}
	reasons = append(reasons, auth.ValidatePassword(req.Password)...)
	if req.Password != req.ConfirmPassword {
		reasons = append(reasons, "password and confirmation do not match")
	}
	if len(reasons) > 0 {
		return nil, &ValidationError{Reasons: reasons}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	token, err := auth.NewConfirmationToken()
	if err != nil {
		return nil, err
	}

	user := &entity.DbUser{
		ID:             s.newID(),
		FirstName:      first,
		LastName:       last,
		Email:          email,
		PasswordHash:   hash,
		IsApproved:     false,
		EmailConfirmed: false,
		ConfirmToken:   token,
		CreatedOn:      s.now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ValidationError{Reasons: []string{"email already registered"}}
		}
		return nil, err
	}

	roles := make([]string, 0, len(defaultSignupRoles))
	for _, role := range defaultSignupRoles {
		if err := s.repo.AddUserToRole(ctx, user.ID, role); err != nil {
			if delErr := s.repo.DeleteUser(ctx, user.ID); delErr != nil && !errors.Is(delErr, gorm.ErrRecordNotFound) {
				logrus.WithError(delErr).WithField("user_id", user.ID).Error("failed to roll back user after role grant failure")
			}
			return nil, err
		}
		roles = append(roles, role)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("user created, pending approval")

	s.dispatchConfirmation(user)

	summary := makeSummary(user, roles)
	return &summary, nil
}

// Edit applies a field diff to the stored user. Only values that actually
// differ are written; the approval flag runs through EvalApproval and an
// effectful flip dispatches exactly one email after the update commits.
// The password fields on the request are deliberately ignored: an edit
// never rotates the credential.
func (s *UserService) Edit(ctx context.Context, id string, req entity.UserUpdateRequest) (*entity.UserSummary, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var reasons []string
	if first == "" {
		reasons = append(reasons, "first name is required")
	}
	if last == "" {
		reasons = append(reasons, "last name is required")
	}
	if email == "" {
		reasons = append(reasons, "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		reasons = append(reasons, "email is not a valid address")
	}
	if len(reasons) > 0 {
		return nil, &ValidationError{Reasons: reasons}
	}

	var updates entity.UserUpdates
	if user.FirstName != first {
		updates.FirstName = &first
	}
	if user.LastName != last {
		updates.LastName = &last
	}
	if user.Email != email {
		updates.Email = &email
	}

	transition := EvalApproval(user.IsApproved, req.IsApproved)
	if transition.Changed() {
		approved := transition.Approved()
		updates.IsApproved = &approved
	}

	if updates.IsEmpty() {
		roles, err := s.repo.ListUserRoles(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		summary := makeSummary(user, roles)
		return &summary, nil
	}

	if err := s.repo.UpdateUser(ctx, user.ID, updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ValidationError{Reasons: []string{"email already registered"}}
		}
		return nil, err
	}

	// The notification follows the committed state change; a delivery
	// failure must never surface here or undo the update.
	if subject, body, ok := transition.Notification(); ok {
		s.dispatcher.Dispatch(email, subject, body)
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"approved": transition.Approved(),
		}).Info("user approval state changed")
	}

	updated, err := s.repo.GetUserByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	roles, err := s.repo.ListUserRoles(ctx, updated.ID)
	if err != nil {
		return nil, err
	}
	summary := makeSummary(updated, roles)
	return &summary, nil
}

// Delete hard-deletes a user and its role memberships. A missing id is an
// explicit ErrUserNotFound, never a silent fault. Contact records owned by
// the user are kept; their owner id stays as a historical value.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetUserByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.repo.DeleteUserRoles(ctx, id); err != nil {
		return err
	}

	logrus.WithField("user_id", id).Info("user deleted")
	return nil
}

// ConfirmEmail redeems a confirmation token. The token is one-time: a
// successful redemption clears it. Confirming an already confirmed account
// is a no-op.
func (s *UserService) ConfirmEmail(ctx context.Context, id, token string) error {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.EmailConfirmed {
		return nil
	}
	if user.ConfirmToken == "" || user.ConfirmToken != strings.TrimSpace(token) {
		return ErrInvalidConfirmToken
	}

	confirmed := true
	cleared := ""
	updates := entity.UserUpdates{EmailConfirmed: &confirmed, ConfirmToken: &cleared}
	if err := s.repo.UpdateUser(ctx, user.ID, updates); err != nil {
		return err
	}

	logrus.WithField("user_id", user.ID).Info("email confirmed")
	return nil
}

func (s *UserService) dispatchConfirmation(user *entity.DbUser) {
	callback := fmt.Sprintf("%s/api/auth/confirm?uid=%s&token=%s", s.publicBaseURL, user.ID, user.ConfirmToken)
	body := fmt.Sprintf("Please confirm your account by <a href='%s'>clicking here</a>.", callback)
	s.dispatcher.Dispatch(user.Email, "Confirm your email", body)
}

func makeSummary(user *entity.DbUser, roles []string) entity.UserSummary {
	if roles == nil {
		roles = []string{}
	}
	return entity.UserSummary{
		ID:             user.ID,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Email:          user.Email,
		IsApproved:     user.IsApproved,
		EmailConfirmed: user.EmailConfirmed,
		Roles:          roles,
		CreatedOn:      user.CreatedOn,
		UpdatedAt:      user.UpdatedAt,
	}
}
