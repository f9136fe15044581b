package store

import (
	"context"
	"testing"

	"github.com/erazemk/katalog/internal/db"
	"github.com/erazemk/katalog/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewBackendTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "Ana", "ana@example.com", "hash123", model.RoleAdmin)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("expected email 'ana@example.com', got %q", user.Email)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("expected role %q, got %q", model.RoleAdmin, user.Role)
	}

	got, err := GetUserByEmail(ctx, database, "ana@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Fatalf("expected user %d, got %+v", user.ID, got)
	}
	if got.PasswordHash != "hash123" {
		t.Errorf("expected password hash to round-trip, got %q", got.PasswordHash)
	}
}

func TestGetUserByEmailNotFound(t *testing.T) {
	database := db.NewBackendTestDB(t)

	user, err := GetUserByEmail(context.Background(), database, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil, got %+v", user)
	}
}

func TestDuplicateEmail(t *testing.T) {
	database := db.NewBackendTestDB(t)
	ctx := context.Background()

	CreateUser(ctx, database, "A", "dup@example.com", "h", model.RoleAdmin)
	if _, err := CreateUser(ctx, database, "B", "dup@example.com", "h", model.RoleCustomer); err == nil {
		t.Error("expected error for duplicate email")
	}
}

func TestCountAdmins(t *testing.T) {
	database := db.NewBackendTestDB(t)
	ctx := context.Background()

	n, _ := CountAdmins(ctx, database)
	if n != 0 {
		t.Fatalf("expected 0 admins, got %d", n)
	}

	CreateUser(ctx, database, "A", "a@example.com", "h", model.RoleAdmin)
	CreateUser(ctx, database, "C", "c@example.com", "h", model.RoleCustomer)

	n, err := CountAdmins(ctx, database)
	if err != nil {
		t.Fatalf("CountAdmins: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 admin, got %d", n)
	}
}
