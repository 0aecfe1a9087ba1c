package queue

import "context"

// Package queue contains the fire-and-forget job dispatch contract and its
// Redis implementation. Producers enqueue and move on; delivery is
// at-least-once and consumption happens in a separate worker process.

// Dispatcher hands work items to background consumers.
type Dispatcher interface {
	// Enqueue pushes payload onto the named queue. Callers treat failures as
	// non-fatal: a lost job never fails the request that produced it.
	Enqueue(ctx context.Context, queue string, payload any) error
}

// UserJob is the welcome-processing payload pushed on the user queue at
// registration time.
type UserJob struct {
	UserID string `json:"userId"`
}

// FileJob is the variant-generation payload pushed on the file queue after an
// image upload.
type FileJob struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}
