package sql

import (
	"context"
	"fmt"
	"strings"

	"travelbuk/internal/entity"

	"gorm.io/gorm"
)

// CreateContact persists a new contact submission.
func (r *GormRepository) CreateContact(ctx context.Context, contact *entity.DbContact) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if contact == nil {
		return fmt.Errorf("contact is nil")
	}
	return r.db.WithContext(ctx).Create(contact).Error
}

// UpdateContact applies a field diff to an existing contact.
func (r *GormRepository) UpdateContact(ctx context.Context, id uint, updates entity.ContactUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid contact id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbContact{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetContactByID loads a contact by ID.
func (r *GormRepository) GetContactByID(ctx context.Context, id uint) (*entity.DbContact, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid contact id")
	}
	var contact entity.DbContact
	if err := r.db.WithContext(ctx).First(&contact, id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// ListContacts returns paginated contacts, optionally filtered by owner
// and status.
func (r *GormRepository) ListContacts(ctx context.Context, params *entity.ContactQuery) ([]entity.DbContact, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbContact{})
	if params != nil {
		if owner := strings.TrimSpace(params.OwnerID); owner != "" {
			query = query.Where("owner_id = ?", owner)
		}
		if status := strings.TrimSpace(params.Status); status != "" {
			query = query.Where("status = ?", status)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page := 1
	pageSize := 20
	if params != nil {
		if params.Page > 0 {
			page = int(params.Page)
		}
		if params.PageSize > 0 {
			pageSize = int(params.PageSize)
		}
	}

	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	var contacts []entity.DbContact
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&contacts).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return contacts, meta, nil
}

// DeleteContact removes a contact by ID.
func (r *GormRepository) DeleteContact(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid contact id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbContact{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
