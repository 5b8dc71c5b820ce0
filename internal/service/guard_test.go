package service

import (
	"testing"

	"github.com/brewlog/brewlog/internal/model"
)

func TestOwnsResource(t *testing.T) {
	owner := &model.User{ID: "u1", Role: model.RoleUser}
	stranger := &model.User{ID: "u2", Role: model.RoleUser}
	admin := &model.User{ID: "u3", Role: model.RoleAdmin}

	tests := []struct {
		name    string
		caller  *model.User
		ownerID string
		want    bool
	}{
		{"anonymous", nil, "u1", false},
		{"owner", owner, "u1", true},
		{"stranger", stranger, "u1", false},
		{"admin", admin, "u1", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ownsResource(test.caller, test.ownerID); got != test.want {
				t.Fatalf("ownsResource = %v, want %v", got, test.want)
			}
		})
	}
}

func TestMayListUser(t *testing.T) {
	self := &model.User{ID: "u1", Role: model.RoleUser}
	admin := &model.User{ID: "u9", Role: model.RoleAdmin}

	tests := []struct {
		name   string
		caller *model.User
		userID string
		want   bool
	}{
		{"anonymous", nil, "u1", false},
		{"own_collection", self, "u1", true},
		{"foreign_collection", self, "u2", false},
		{"admin_foreign", admin, "u2", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := mayListUser(test.caller, test.userID); got != test.want {
				t.Fatalf("mayListUser = %v, want %v", got, test.want)
			}
		})
	}
}
