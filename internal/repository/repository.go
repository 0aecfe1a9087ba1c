package repository

import "errors"

// Package repository contains data access layer abstractions.
// Implementations can live in subpackages (e.g., postgres, mongo) inside this directory.

// ErrDuplicateEmail is returned by UserRepository.Create when the email is
// already taken. Postgres implementations map unique-constraint violations to
// this error so that callers never have to race a pre-check against the insert.
var ErrDuplicateEmail = errors.New("email already registered")

// FilePageQuery selects one page of a user's files.
// ParentID, when non-empty, is matched against the file's own id together with
// the owner. This mirrors the filter the HTTP listing contract exposes; it is
// not a children-of-parent query.
type FilePageQuery struct {
	UserID   string
	ParentID string
	Skip     int
	Limit    int
}
