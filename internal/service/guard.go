package service

import "github.com/brewlog/brewlog/internal/model"

// ownsResource reports whether caller may act on a record owned by ownerID.
// Admins pass for every record.
func ownsResource(caller *model.User, ownerID string) bool {
	if caller == nil {
		return false
	}
	return caller.ID == ownerID || caller.IsAdmin()
}

// mayListUser reports whether caller may read another user's collection.
// Unlike single-resource access, an explicit foreign-user listing is
// answered with a forbidden error rather than not-found.
func mayListUser(caller *model.User, userID string) bool {
	if caller == nil {
		return false
	}
	return caller.ID == userID || caller.IsAdmin()
}
