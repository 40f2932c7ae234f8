package sql

import (
	"context"
	"fmt"
	"strings"

	"travelbuk/internal/entity"

	"gorm.io/gorm"
)

// CreateUser persists a new user record.
func (r *GormRepository) CreateUser(ctx context.Context, user *entity.DbUser) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateUser applies a field diff to an existing user.
func (r *GormRepository) UpdateUser(ctx context.Context, id string, updates entity.UserUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid user id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbUser{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetUserByEmail loads a user by email.
func (r *GormRepository) GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, fmt.Errorf("email is empty")
	}

	var user entity.DbUser
	if err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(trimmed)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID loads a user by ID.
func (r *GormRepository) GetUserByID(ctx context.Context, id string) (*entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("invalid user id")
	}
	var user entity.DbUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all users, most recently created first. Equal
// creation timestamps fall back to id so the order stays deterministic.
func (r *GormRepository) ListUsers(ctx context.Context) ([]entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var users []entity.DbUser
	if err := r.db.WithContext(ctx).Order("created_on DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes a user by ID.
func (r *GormRepository) DeleteUser(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid user id")
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.DbUser{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountUsers returns total user count.
func (r *GormRepository) CountUsers(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbUser{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AddUserToRole grants a role. Re-granting an already held role is a no-op.
func (r *GormRepository) AddUserToRole(ctx context.Context, userID, role string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("invalid user id")
	}
	if !entity.ValidRole(role) {
		return fmt.Errorf("unknown role: %s", role)
	}

	var existing int64
	if err := r.db.WithContext(ctx).Model(&entity.DbUserRole{}).
		Where("user_id = ? AND role = ?", userID, role).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entity.DbUserRole{UserID: userID, Role: role}).Error
}

// ListUserRoles returns the role names held by a user.
func (r *GormRepository) ListUserRoles(ctx context.Context, userID string) ([]string, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("invalid user id")
	}
	var roles []string
	if err := r.db.WithContext(ctx).Model(&entity.DbUserRole{}).
		Where("user_id = ?", userID).Order("role ASC").Pluck("role", &roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// DeleteUserRoles removes all role memberships for a user. Membership rows
// never outlive the account they belong to.
func (r *GormRepository) DeleteUserRoles(ctx context.Context, userID string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("invalid user id")
	}
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.DbUserRole{}).Error
}
