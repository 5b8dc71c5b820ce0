package auth

import (
	"context"
	"testing"

	"github.com/brewlog/brewlog/internal/model"
)

func TestUserFromContext_Anonymous(t *testing.T) {
	t.Parallel()

	if user := UserFromContext(context.Background()); user != nil {
		t.Errorf("expected nil user for anonymous context, got %+v", user)
	}

	if id := UserIDFromContext(context.Background()); id != "" {
		t.Errorf("expected empty user ID for anonymous context, got %s", id)
	}
}

func TestUserFromContext_Authenticated(t *testing.T) {
	t.Parallel()

	alice := &model.User{ID: "01HQZX", Name: "Alice", Email: "alice@x", Role: model.RoleUser}
	ctx := ContextWithUser(context.Background(), alice)

	got := UserFromContext(ctx)
	if got == nil {
		t.Fatal("expected user in context, got nil")
	}
	if got.ID != alice.ID || got.Email != alice.Email {
		t.Errorf("unexpected user: %+v", got)
	}

	if id := UserIDFromContext(ctx); id != alice.ID {
		t.Errorf("expected user ID %s, got %s", alice.ID, id)
	}
}
