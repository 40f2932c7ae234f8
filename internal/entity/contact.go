package entity

import "time"

const (
	ContactStatusSubmitted = "submitted"
	ContactStatusApproved  = "approved"
	ContactStatusRejected  = "rejected"
)

// DbContact is a contact submission. OwnerID references the submitting
// user's id and is kept as a historical value; it is not a foreign key and
// contacts survive the deletion of their owner.
type DbContact struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OwnerID   string    `gorm:"column:owner_id;type:varchar(36);index" json:"owner_id"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Address   string    `gorm:"column:address;type:varchar(255)" json:"address"`
	City      string    `gorm:"column:city;type:varchar(255)" json:"city"`
	State     string    `gorm:"column:state;type:varchar(255)" json:"state"`
	Zip       string    `gorm:"column:zip;type:varchar(32)" json:"zip"`
	Email     string    `gorm:"column:email;type:varchar(255)" json:"email"`
	Status    string    `gorm:"column:status;type:varchar(32);index;not null" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides default pluralised name.
func (DbContact) TableName() string {
	return "contacts"
}

// ValidContactStatus reports whether the given value is a known status.
func ValidContactStatus(status string) bool {
	switch status {
	case ContactStatusSubmitted, ContactStatusApproved, ContactStatusRejected:
		return true
	default:
		return false
	}
}

// ContactCreateRequest is the payload for submitting a contact.
type ContactCreateRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Email   string `json:"email" binding:"omitempty,email"`
}

// ContactStatusUpdateRequest advances a contact through review.
type ContactStatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// ContactQuery supports listing contacts with pagination.
type ContactQuery struct {
	BaseParams
	OwnerID string `json:"owner_id" form:"owner_id" query:"owner_id"`
	Status  string `json:"status" form:"status" query:"status"`
}

// ContactListResponse is the response for listing contacts.
type ContactListResponse struct {
	Contacts []DbContact `json:"contacts"`
	Meta     *Meta       `json:"meta"`
}
