// Package notes is responsible for everything related to notes: the note
// store, the ownership guard and the CRUD endpoints. Every operation runs on
// behalf of the identity the auth middleware put in the request context.
package notes

import (
	"context"
	"errors"
	"time"
)

// DefaultTag is stored when a note is created without a tag.
const DefaultTag = "General"

var (
	// ErrNotFound is returned by stores when no note has the requested id.
	ErrNotFound = errors.New("note not found")
	// ErrOwnerNotFound is returned by stores that enforce the owner reference
	// when the owning user does not exist.
	ErrOwnerNotFound = errors.New("note owner not found")
)

// Note represents a note in the system.
type Note struct {
	ID          string    `json:"_id" db:"id"`
	Owner       string    `json:"user" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Tag         string    `json:"tag" db:"tag"`
	Date        time.Time `json:"date" db:"date"`
}

// Patch lists the fields an update changes. Nil fields keep their value.
type Patch struct {
	Title       *string
	Description *string
	Tag         *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Tag == nil
}

// Apply merges the patch into n.
func (p Patch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Description != nil {
		n.Description = *p.Description
	}
	if p.Tag != nil {
		n.Tag = *p.Tag
	}
}

// Store is the persistence contract for notes.
type Store interface {
	// ListByOwner returns the owner's notes in creation order.
	ListByOwner(ctx context.Context, ownerID string) ([]Note, error)
	// Create persists n, assigning its ID and Date.
	Create(ctx context.Context, n *Note) (*Note, error)
	FindByID(ctx context.Context, id string) (*Note, error)
	// Update applies patch to the note and returns the updated record.
	Update(ctx context.Context, id string, patch Patch) (*Note, error)
	// Delete removes the note and returns the record as it was.
	Delete(ctx context.Context, id string) (*Note, error)
}
