// Package store holds the per-session client state shared by every view:
// the social graph, feeds, comment threads, the notification badge and the
// confirmation slot. Stores apply changes only after the backend confirms
// them and publish a versioned snapshot to observers after the lock is
// released.
package store

import "socialsync/internal/model"

// Identity answers who is logged in. It returns model.ErrLoginRequired when
// nobody is.
type Identity interface {
	CurrentUserID() (int64, error)
}

// staticIdentity is an Identity fixed at construction, used when a store is
// built for a known user.
type staticIdentity int64

func (id staticIdentity) CurrentUserID() (int64, error) {
	if id <= 0 {
		return 0, model.ErrLoginRequired
	}
	return int64(id), nil
}

// FixedIdentity returns an Identity that always reports userID.
func FixedIdentity(userID int64) Identity {
	return staticIdentity(userID)
}
