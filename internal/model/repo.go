package model

import (
	"context"

	"travelbuk/internal/entity"
)

// Repository defines the persistence operations consumed by the services.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id string, updates entity.UserUpdates) error
	GetUserByID(ctx context.Context, id string) (*entity.DbUser, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	ListUsers(ctx context.Context) ([]entity.DbUser, error)
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int64, error)

	// Role membership
	AddUserToRole(ctx context.Context, userID, role string) error
	ListUserRoles(ctx context.Context, userID string) ([]string, error)
	DeleteUserRoles(ctx context.Context, userID string) error

	// Contacts
	CreateContact(ctx context.Context, contact *entity.DbContact) error
	UpdateContact(ctx context.Context, id uint, updates entity.ContactUpdates) error
	GetContactByID(ctx context.Context, id uint) (*entity.DbContact, error)
	ListContacts(ctx context.Context, params *entity.ContactQuery) ([]entity.DbContact, *entity.Meta, error)
	DeleteContact(ctx context.Context, id uint) error
}
