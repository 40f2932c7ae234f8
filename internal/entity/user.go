package entity

import "time"

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleAppUser    = "app_user"
)

// DbUser represents a persisted user account. Email doubles as the
// username and is unique across all accounts.
type DbUser struct {
	ID             string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	FirstName      string    `gorm:"column:first_name;type:varchar(255)" json:"first_name"`
	LastName       string    `gorm:"column:last_name;type:varchar(255)" json:"last_name"`
	Email          string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash   string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	IsApproved     bool      `gorm:"column:is_approved;not null;default:false" json:"is_approved"`
	EmailConfirmed bool      `gorm:"column:email_confirmed;not null;default:false" json:"email_confirmed"`
	ConfirmToken   string    `gorm:"column:confirm_token;type:varchar(64)" json:"-"`
	CreatedOn      time.Time `gorm:"column:created_on;not null" json:"created_on"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// DbUserRole is a role membership row. A user may hold zero or more roles.
type DbUserRole struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	UserID string `gorm:"column:user_id;type:varchar(36);uniqueIndex:idx_user_role;not null" json:"user_id"`
	Role   string `gorm:"column:role;type:varchar(50);uniqueIndex:idx_user_role;not null" json:"role"`
}

// TableName overrides default pluralised name.
func (DbUserRole) TableName() string {
	return "user_roles"
}

// ValidRole reports whether the given name is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleAppUser:
		return true
	default:
		return false
	}
}

// UserSummary is a lightweight user description returned to clients.
type UserSummary struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	IsApproved     bool      `json:"is_approved"`
	EmailConfirmed bool      `json:"email_confirmed"`
	Roles          []string  `json:"roles"`
	CreatedOn      time.Time `json:"created_on"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserCreateRequest is the payload for creating a user.
type UserCreateRequest struct {
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// UserUpdateRequest is the payload for editing a user. The password fields
// are accepted for form compatibility but never rotate the credential.
type UserUpdateRequest struct {
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password,omitempty"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
	IsApproved      bool   `json:"is_approved"`
}

// UserListResponse is the response for listing users.
type UserListResponse struct {
	Users []UserSummary `json:"users"`
}

type AuthLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthRegisterRequest struct {
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}
