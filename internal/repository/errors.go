// Package repository contains the data access layer. Every query
// touching a contact, company or deal row carries the owning
// user's id in its WHERE clause; a row that exists under another
// user is indistinguishable from a row that does not exist, so
// cross-tenant probing cannot leak anything through status codes.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when registering a user whose email
// is already taken (unique key violation).
var ErrEmailExists = errors.New("email already exists")

// isDuplicate reports whether err is a MySQL duplicate-key error
// (error code 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
