package services

import (
	"context"
	"testing"
	"time"

	"github.com/gridbase/sheets-backend/internal/dto"
	"github.com/gridbase/sheets-backend/internal/errs"
	"github.com/gridbase/sheets-backend/internal/models"
	"github.com/gridbase/sheets-backend/pkg/helpers"
)

func testCtx() context.Context {
	return helpers.TestCtx()
}

type fakeUserStore struct {
	users     map[string]*models.User
	createErr error
	updated   []string
	deleted   []string
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: map[string]*models.User{}}
	for _, u := range users {
		f.users[u.UID] = u
	}
	return f
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[user.UID]; ok {
		return errs.NewAlreadyExistsError("user already exists")
	}
	f.users[user.UID] = user
	return nil
}

func (f *fakeUserStore) UpdateUser(_ context.Context, user *models.User) error {
	f.updated = append(f.updated, user.UID)
	f.users[user.UID] = user
	return nil
}

func (f *fakeUserStore) DeleteUser(_ context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	delete(f.users, uid)
	return nil
}

func (f *fakeUserStore) GetUser(_ context.Context, uid string) (*models.User, error) {
	u, ok := f.users[uid]
	if !ok {
		return nil, errs.NewNotFoundError("User not found")
	}
	return u, nil
}

func identityData(id string) dto.IdentityUserData {
	return dto.IdentityUserData{
		ID:        id,
		FirstName: "Jane",
		LastName:  "Doe",
		EmailAddresses: []dto.IdentityEmailAddress{
			{EmailAddress: "jane@example.com"},
		},
	}
}

func TestUserServiceCreateUser(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)
	svc.clockNow = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	if err := svc.CreateUser(testCtx(), identityData("u1")); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	u := store.users["u1"]
	if u == nil {
		t.Fatal("user not stored")
	}
	if u.Email != "jane@example.com" || u.FirstName != "Jane" {
		t.Fatalf("stored user = %+v", u)
	}
	if u.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not set")
	}
}

func TestUserServiceCreateUserRedelivery(t *testing.T) {
	store := newFakeUserStore(&models.User{UID: "u1", Email: "old@example.com"})
	svc := NewUserService(store)

	if err := svc.CreateUser(testCtx(), identityData("u1")); err != nil {
		t.Fatalf("redelivered create should not fail: %v", err)
	}
	if len(store.updated) != 1 {
		t.Fatalf("expected fallback update, got %d updates", len(store.updated))
	}
	if store.users["u1"].Email != "jane@example.com" {
		t.Fatalf("user not refreshed: %+v", store.users["u1"])
	}
}

func TestUserServiceDeleteUser(t *testing.T) {
	store := newFakeUserStore(&models.User{UID: "u1"})
	svc := NewUserService(store)

	if err := svc.DeleteUser(testCtx(), "u1"); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "u1" {
		t.Fatalf("unexpected delete calls: %#v", store.deleted)
	}
}
