package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"travelbuk/internal/entity"
)

func TestCreateStartsUnapprovedWithAdminRoleAndConfirmationEmail(t *testing.T) {
	repo := newFakeRepo()
	capture := &captureNotifier{}
	svc, dispatcher := newTestUserService(repo, capture)

	summary, err := svc.Create(context.Background(), entity.UserCreateRequest{
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "jane@x.com",
		Password:        "Secret1!",
		ConfirmPassword: "Secret1!",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dispatcher.Wait()

	if summary.IsApproved {
		t.Error("expected new account to start unapproved")
	}
	if summary.EmailConfirmed {
		t.Error("expected new account to start unconfirmed")
	}
	if summary.Email != "jane@x.com" {
		t.Errorf("unexpected email %q", summary.Email)
	}

	hasAdmin := false
	for _, role := range summary.Roles {
		if role == entity.RoleAdmin {
			hasAdmin = true
		}
	}
	if !hasAdmin {
		t.Errorf("expected role set to contain admin, got %v", summary.Roles)
	}

	mails := capture.mails()
	if len(mails) != 1 {
		t.Fatalf("expected exactly one confirmation email, got %d", len(mails))
	}
	if mails[0].To != "jane@x.com" {
		t.Errorf("expected confirmation email to jane@x.com, got %s", mails[0].To)
	}
	if mails[0].Subject != "Confirm your email" {
		t.Errorf("unexpected subject %q", mails[0].Subject)
	}
	if !strings.Contains(mails[0].Body, "/api/auth/confirm?uid="+summary.ID) {
		t.Errorf("expected callback link in body, got %q", mails[0].Body)
	}
}

func TestCreateNormalisesEmail(t *testing.T) {
	repo := newFakeRepo()
	capture := &captureNotifier{}
	svc, dispatcher := newTestUserService(repo, capture)

	summary, err := svc.Create(context.Background(), entity.UserCreateRequest{
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "  Jane@X.COM ",
		Password:        "Secret1!",
		ConfirmPassword: "Secret1!",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dispatcher.Wait()

	if summary.Email != "jane@x.com" {
		t.Errorf("expected normalised email, got %q", summary.Email)
	}
}

func TestCreateValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		request entity.UserCreateRequest
		reason  string
	}{
		{
			name: "weak password",
			request: entity.UserCreateRequest{
				FirstName: "Jane", LastName: "Doe", Email: "jane@x.com",
				Password: "short", ConfirmPassword: "short",
			},
			reason: "password must be at least 6 characters long",
		},
		{
			name: "password confirmation mismatch",
			request: entity.UserCreateRequest{
				FirstName: "Jane", LastName: "Doe", Email: "jane@x.com",
				Password: "Secret1!", ConfirmPassword: "Secret2!",
			},
			reason: "password and confirmation do not match",
		},
		{
			name: "missing first name",
			request: entity.UserCreateRequest{
				LastName: "Doe", Email: "jane@x.com",
				Password: "Secret1!", ConfirmPassword: "Secret1!",
			},
			reason: "first name is required",
		},
		{
			name: "invalid email",
			request: entity.UserCreateRequest{
				FirstName: "Jane", LastName: "Doe", Email: "not-an-address",
				Password: "Secret1!", ConfirmPassword: "Secret1!",
			},
			reason: "email is not a valid address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			capture := &captureNotifier{}
			svc, dispatcher := newTestUserService(repo, capture)

			_, err := svc.Create(context.Background(), tt.request)
			dispatcher.Wait()

			ve, ok := AsValidationError(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			found := false
			for _, reason := range ve.Reasons {
				if reason == tt.reason {
					found = true
				}
			}
			if !found {
				t.Errorf("expected reason %q in %v", tt.reason, ve.Reasons)
			}

			if count, _ := repo.CountUsers(context.Background()); count != 0 {
				t.Errorf("expected no user committed, found %d", count)
			}
			if len(capture.mails()) != 0 {
				t.Error("expected no email on validation failure")
			}
		})
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	capture := &captureNotifier{}
	svc, dispatcher := newTestUserService(repo, capture)

	input := entity.UserCreateRequest{
		FirstName: "Jane", LastName: "Doe", Email: "jane@x.com",
		Password: "Secret1!", ConfirmPassword: "Secret1!",
	}
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Create(context.Background(), input)
	dispatcher.Wait()

	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Reasons) != 1 || ve.Reasons[0] != "email already registered" {
		t.Errorf("unexpected reasons %v", ve.Reasons)
	}

	if count, _ := repo.CountUsers(context.Background()); count != 1 {
		t.Errorf("expected a single committed user, found %d", count)
	}
}

func TestCreateRollsBackWhenRoleGrantFails(t *testing.T) {
	repo := newFakeRepo()
	repo.failRoleGrant = true
	capture := &captureNotifier{}
	svc, dispatcher := newTestUserService(repo, capture)

	_, err := svc.Create(context.Background(), entity.UserCreateRequest{
		FirstName: "Jane", LastName: "Doe", Email: "jane@x.com",
		Password: "Secret1!", ConfirmPassword: "Secret1!",
	})
	dispatcher.Wait()

	if err == nil {
		t.Fatal("expected an error")
	}
	if count, _ := repo.CountUsers(context.Background()); count != 0 {
		t.Errorf("expected no half-created account, found %d users", count)
	}
	if len(capture.mails()) != 0 {
		t.Error("expected no confirmation email for a failed create")
	}
}

func createTestUser(t *testing.T, svc *UserService, dispatcher interface{ Wait() }, capture *captureNotifier, email string) entity.UserSummary {
	t.Helper()
	summary, err := svc.Create(context.Background(), entity.UserCreateRequest{
		FirstName: "Jane", LastName: "Doe", Email: email,
		Password: "Secret1!", ConfirmPassword: "Secret1!",
	})
	if err != nil {
		t.Fatalf("unexpected error creating user: %v", err)
	}
	dispatcher.Wait()
	capture.mu.Lock()
	capture.sent = nil
	capture.mu.Unlock()
	return *summary
}

func editRequest(summary entity.UserSummary, approved bool) entity.UserUpdateRequest {
	return entity.UserUpdateRequest{
		FirstName:  summary.FirstName,
		LastName:   summary.LastName,
		Email:      summary.Email,
		IsApproved: approved,
	}
}

func TestApproveSendsExactlyOneActivationEmail(t *testing.T) {
	repo := newFakeRepo()
	capture := &captureNotifier{}
	svc, dispatcher := newTestUserService(repo, capture)
	summary := createTestUser(t, svc, dispatcher, capture, "jane@x.com")

	updated, err := svc.Edit(context.Background(), summary.ID, editRequest(summary, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dispatcher.Wait()

	if !updated.IsApproved {
		t.Error("expected user to be approved")
	}
	mails := capture.mails()
	if len(mails) != 1 {
		t.Fatalf("expected exactly one email, got %d", len(mails))
	}
	if mails[0].Subject != "Account Activated" || mails[0].To != "jane@x.com" {
		t.Errorf("unexpected mail %+v", mails[0])
	}

	// Re-approving with the same value must not send a second email.
	if _, err := svc.Edit(context.Background(), summary.ID, editRequest(summary, true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dispatcher.Wait()

	if got := len(capture.mails()); got != 1 {
		t.Errorf("expected one email total after idempotent repeat, got %d", got)
	}
}

func TestUnapproveSendsDeactivationEmail(t *testing.T) {
	repo := newFakeRepo()
	capture := &captureNotifier{}
	svc, dispatcher := newTestUserService(repo, capture)
	summary := createTestUser(t, svc, dispatcher, capture, "jane@x.com")

	if _, err := svc.Edit(context.Background(), summary.ID, editRequest(summary, true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dispatcher.Wait()
	capture.mu.Lock()
	capture.sent = nil
	capture.mu.Unlock()

	updated, err := svc.Edit(context.Background(), summary.ID, editRequest(summary, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dispatcher.Wait()

	if updated.IsApproved {
		t.Error("expected user to be unapproved")
	}
	mails := capture.mails()
	if len(mails) != 1 {
		t.Fatalf("expected exactly one email, got %d", len(mails))
	}
	if mails[0].Subject != "Account Deactivated" {
		t.Errorf("unexpected subject %q", mails[0].Subject)
	}
	if !strings.Contains(mails[0].Body, "contact Administrator") {
		t.Errorf("expected deactivation body to mention the administrator, got %q", mails[0].Body)
	}
}

func TestEditWithoutApprovalChangeSendsNoEmail(t *testing.T) {
	repo := newFakeRepo()
	capture := &captureNotifier{}
	svc, dispatcher := newTestUserService(repo, capture)
	summary := createTestUser(t, svc, dispatcher, capture, "jane@x.com")

	req := editRequest(summary, false)
	req.FirstName = "Janet"
	updated, err := svc.Edit(context.Background(), summary.ID, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dispatcher.Wait()

	if updated.FirstName != "Janet" {
		t.Errorf("expected first name update, got %q", updated.FirstName)
	}
	if len(capture.mails()) != 0 {
		t.Error("expected no email when approval state is unchanged")
	}
}

func TestEditIgnoresPasswordFields(t *testing.T) {
	repo := newFakeRepo()
	capture := &captureNotifier{}
	svc, dispatcher := newTestUserService(repo, capture)
	summary := createTestUser(t, svc, dispatcher, capture, "jane@x.com")

	before, err := repo.GetUserByID(context.Background(), summary.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := editRequest(summary, false)
	req.Password = "NewSecret9$"
	req.ConfirmPassword = "NewSecret9$"
	if _, err := svc.Edit(context.Background(), summary.ID, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dispatcher.Wait()

	after, err := repo.GetUserByID(context.Background(), summary.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before.PasswordHash != after.PasswordHash {
		t.Error("expected edit to leave the credential unchanged")
	}
}

func TestEditMissingUser(t *testing.T) {
	repo := newFakeRepo()
	capture := &captureNotifier{}
	svc, dispatcher := newTestUserService(repo, capture)

	_, err := svc.Edit(context.Background(), "no-such-id", entity.UserUpdateRequest{
		FirstName: "Jane", LastName: "Doe", Email: "jane@x.com",
	})
	dispatcher.Wait()

	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestNotifierFailureDoesNotFailEdit(t *testing.T) {
	repo := newFakeRepo()
	capture := &captureNotifier{}
	svc, dispatcher := newTestUserService(repo, capture)
	summary := createTestUser(t, svc, dispatcher, capture, "jane@x.com")

	capture.mu.Lock()
	capture.fail = true
	capture.mu.Unlock()

	updated, err := svc.Edit(context.Background(), summary.ID, editRequest(summary, true))
	if err != nil {
		t.Fatalf("expected edit to succeed despite delivery failure, got %v", err)
	}
	dispatcher.Wait()

	if !updated.IsApproved {
		t.Error("expected the state change to stand even though delivery failed")
	}
	stored, err := repo.GetUserByID(context.Background(), summary.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stored.IsApproved {
		t.Error("expected the committed approval to survive a notification failure")
	}
}

func TestDeleteMissingUserReturnsNotFound(t *testing.T) {
	repo := newFakeRepo()
	capture := &captureNotifier{}
	svc, dispatcher := newTestUserService(repo, capture)

	err := svc.Delete(context.Background(), "no-such-id")
	dispatcher.Wait()

	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteThenGetReturnsNotFound(t *testing.T) {
	repo := newFakeRepo()
	capture := &captureNotifier{}
	svc, dispatcher := newTestUserService(repo, capture)
	summary := createTestUser(t, svc, dispatcher, capture, "jane@x.com")

	if err := svc.Delete(context.Background(), summary.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Get(context.Background(), summary.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound after delete, got %v", err)
	}

	roles, err := repo.ListUserRoles(context.Background(), summary.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roles) != 0 {
		t.Errorf("expected role memberships removed with the account, got %v", roles)
	}
}

func TestListOrdersByCreatedOnDescendingWithIDTieBreak(t *testing.T) {
	repo := newFakeRepo()
	capture := &captureNotifier{}
	svc, dispatcher := newTestUserService(repo, capture)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clockCalls := 0
	times := []time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour), base.Add(2 * time.Hour)}
	svc.now = func() time.Time {
		ts := times[clockCalls%len(times)]
		clockCalls++
		return ts
	}
	idCalls := 0
	svc.newID = func() string {
		idCalls++
		return fmt.Sprintf("user-%02d", idCalls)
	}

	for i := 0; i < len(times); i++ {
		_, err := svc.Create(context.Background(), entity.UserCreateRequest{
			FirstName: "User", LastName: fmt.Sprintf("N%d", i),
			Email:    fmt.Sprintf("user%d@x.com", i),
			Password: "Secret1!", ConfirmPassword: "Secret1!",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	dispatcher.Wait()

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 4 {
		t.Fatalf("expected 4 users, got %d", len(users))
	}

	for i := 1; i < len(users); i++ {
		if users[i].CreatedOn.After(users[i-1].CreatedOn) {
			t.Errorf("expected descending created_on order at index %d", i)
		}
	}
	// users 3 and 4 share a timestamp; the higher id must come first.
	if users[0].ID != "user-04" || users[1].ID != "user-03" {
		t.Errorf("expected id tie-break ordering, got %s then %s", users[0].ID, users[1].ID)
	}
}

func TestConfirmEmailIsOneTime(t *testing.T) {
	repo := newFakeRepo()
	capture := &captureNotifier{}
	svc, dispatcher := newTestUserService(repo, capture)
	summary := createTestUser(t, svc, dispatcher, capture, "jane@x.com")

	stored, err := repo.GetUserByID(context.Background(), summary.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token := stored.ConfirmToken
	if token == "" {
		t.Fatal("expected a confirmation token to be issued")
	}

	if err := svc.ConfirmEmail(context.Background(), summary.ID, "wrong"); !errors.Is(err, ErrInvalidConfirmToken) {
		t.Errorf("expected ErrInvalidConfirmToken, got %v", err)
	}

	if err := svc.ConfirmEmail(context.Background(), summary.ID, token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	confirmed, err := repo.GetUserByID(context.Background(), summary.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !confirmed.EmailConfirmed {
		t.Error("expected email to be confirmed")
	}
	if confirmed.ConfirmToken != "" {
		t.Error("expected token to be cleared after redemption")
	}

	// Confirming an already confirmed account is a no-op.
	if err := svc.ConfirmEmail(context.Background(), summary.ID, token); err != nil {
		t.Errorf("expected repeat confirmation to be a no-op, got %v", err)
	}

	if err := svc.ConfirmEmail(context.Background(), "no-such-id", token); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestConfirmationIsOrthogonalToApproval(t *testing.T) {
	repo := newFakeRepo()
	capture := &captureNotifier{}
	svc, dispatcher := newTestUserService(repo, capture)
	summary := createTestUser(t, svc, dispatcher, capture, "jane@x.com")

	stored, _ := repo.GetUserByID(context.Background(), summary.ID)
	if err := svc.ConfirmEmail(context.Background(), summary.ID, stored.ConfirmToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	confirmed, _ := repo.GetUserByID(context.Background(), summary.ID)
	if confirmed.IsApproved {
		t.Error("expected email confirmation to leave approval untouched")
	}
	if len(capture.mails()) != 0 {
		t.Error("expected no approval email from confirming an address")
	}
}
