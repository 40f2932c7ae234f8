package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"travelbuk/internal/entity"
	"travelbuk/internal/notifier"

	"gorm.io/gorm"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	mu            sync.Mutex
	users         map[string]entity.DbUser
	roles         map[string][]string
	contacts      map[uint]entity.DbContact
	nextContactID uint

	failRoleGrant bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    make(map[string]entity.DbUser),
		roles:    make(map[string][]string),
		contacts: make(map[uint]entity.DbContact),
	}
}

func (f *fakeRepo) CreateUser(_ context.Context, user *entity.DbUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeRepo) UpdateUser(_ context.Context, id string, updates entity.UserUpdates) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if updates.Email != nil {
		for otherID, existing := range f.users {
			if otherID != id && strings.EqualFold(existing.Email, *updates.Email) {
				return gorm.ErrDuplicatedKey
			}
		}
		user.Email = *updates.Email
	}
	if updates.FirstName != nil {
		user.FirstName = *updates.FirstName
	}
	if updates.LastName != nil {
		user.LastName = *updates.LastName
	}
	if updates.IsApproved != nil {
		user.IsApproved = *updates.IsApproved
	}
	if updates.EmailConfirmed != nil {
		user.EmailConfirmed = *updates.EmailConfirmed
	}
	if updates.ConfirmToken != nil {
		user.ConfirmToken = *updates.ConfirmToken
	}
	f.users[id] = user
	return nil
}

func (f *fakeRepo) GetUserByID(_ context.Context, id string) (*entity.DbUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := user
	return &copied, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*entity.DbUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			copied := user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListUsers(_ context.Context) ([]entity.DbUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]entity.DbUser, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedOn.Equal(users[j].CreatedOn) {
			return users[i].CreatedOn.After(users[j].CreatedOn)
		}
		return users[i].ID > users[j].ID
	})
	return users, nil
}

func (f *fakeRepo) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeRepo) CountUsers(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeRepo) AddUserToRole(_ context.Context, userID, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRoleGrant {
		return fmt.Errorf("role grant failed")
	}
	for _, held := range f.roles[userID] {
		if held == role {
			return nil
		}
	}
	f.roles[userID] = append(f.roles[userID], role)
	return nil
}

func (f *fakeRepo) ListUserRoles(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.roles[userID]...), nil
}

func (f *fakeRepo) DeleteUserRoles(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.roles, userID)
	return nil
}

func (f *fakeRepo) CreateContact(_ context.Context, contact *entity.DbContact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextContactID++
	contact.ID = f.nextContactID
	f.contacts[contact.ID] = *contact
	return nil
}

func (f *fakeRepo) UpdateContact(_ context.Context, id uint, updates entity.ContactUpdates) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	contact, ok := f.contacts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if updates.Name != nil {
		contact.Name = *updates.Name
	}
	if updates.Address != nil {
		contact.Address = *updates.Address
	}
	if updates.City != nil {
		contact.City = *updates.City
	}
	if updates.State != nil {
		contact.State = *updates.State
	}
	if updates.Zip != nil {
		contact.Zip = *updates.Zip
	}
	if updates.Email != nil {
		contact.Email = *updates.Email
	}
	if updates.Status != nil {
		contact.Status = *updates.Status
	}
	f.contacts[id] = contact
	return nil
}

func (f *fakeRepo) GetContactByID(_ context.Context, id uint) (*entity.DbContact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	contact, ok := f.contacts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := contact
	return &copied, nil
}

func (f *fakeRepo) ListContacts(_ context.Context, params *entity.ContactQuery) ([]entity.DbContact, *entity.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var contacts []entity.DbContact
	for _, contact := range f.contacts {
		if params != nil {
			if params.OwnerID != "" && contact.OwnerID != params.OwnerID {
				continue
			}
			if params.Status != "" && contact.Status != params.Status {
				continue
			}
		}
		contacts = append(contacts, contact)
	}
	sort.Slice(contacts, func(i, j int) bool { return contacts[i].ID > contacts[j].ID })
	meta := &entity.Meta{Total: int64(len(contacts)), Page: 1, PageSize: 20}
	return contacts, meta, nil
}

func (f *fakeRepo) DeleteContact(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.contacts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.contacts, id)
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// captureNotifier records outgoing mail and can be told to fail.
type captureNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (n *captureNotifier) Send(_ context.Context, to, subject, htmlBody string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return fmt.Errorf("delivery failed")
	}
	n.sent = append(n.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (n *captureNotifier) mails() []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMail(nil), n.sent...)
}

func newTestUserService(repo *fakeRepo, capture *captureNotifier) (*UserService, *notifier.Dispatcher) {
	dispatcher := notifier.NewDispatcher(capture)
	svc := NewUserService(repo, dispatcher, "http://localhost:8080")
	return svc, dispatcher
}
