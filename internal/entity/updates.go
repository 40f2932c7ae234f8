package entity

// UserUpdates holds the user fields an edit may change. Only non-nil
// fields are written, so an update is always a diff against the stored row.
type UserUpdates struct {
	FirstName      *string
	LastName       *string
	Email          *string
	IsApproved     *bool
	EmailConfirmed *bool
	ConfirmToken   *string
}

// ToMap converts to a GORM updates map.
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.FirstName != nil {
		updates["first_name"] = *u.FirstName
	}
	if u.LastName != nil {
		updates["last_name"] = *u.LastName
	}
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.IsApproved != nil {
		updates["is_approved"] = *u.IsApproved
	}
	if u.EmailConfirmed != nil {
		updates["email_confirmed"] = *u.EmailConfirmed
	}
	if u.ConfirmToken != nil {
		updates["confirm_token"] = *u.ConfirmToken
	}
	return updates
}

// IsEmpty reports whether no field would be written.
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// ContactUpdates holds the contact fields a review or edit may change.
type ContactUpdates struct {
	Name    *string
	Address *string
	City    *string
	State   *string
	Zip     *string
	Email   *string
	Status  *string
}

// ToMap converts to a GORM updates map.
func (u ContactUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Address != nil {
		updates["address"] = *u.Address
	}
	if u.City != nil {
		updates["city"] = *u.City
	}
	if u.State != nil {
		updates["state"] = *u.State
	}
	if u.Zip != nil {
		updates["zip"] = *u.Zip
	}
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	return updates
}

// IsEmpty reports whether no field would be written.
func (u ContactUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
