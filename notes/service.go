package notes

import (
	"context"
	"errors"

	"github.com/user/notekeeper/apperror"
	"github.com/user/notekeeper/users"
	"github.com/user/notekeeper/validation"
)

const (
	msgNotFound     = "Not found"
	msgUserNotFound = "User not found"
)

// NoteService defines the note operations available to an authenticated caller.
// Every method takes the caller's user id; update and delete run Guard before
// writing anything.
type NoteService interface {
	ListNotes(ctx context.Context, callerID string) ([]Note, error)
	AddNote(ctx context.Context, callerID string, req CreateNoteRequest) (*Note, error)
	UpdateNote(ctx context.Context, callerID, noteID string, req UpdateNoteRequest) (*Note, error)
	DeleteNote(ctx context.Context, callerID, noteID string) (*Note, error)
}

// OwnerLookup resolves note owners. users.Store satisfies it.
type OwnerLookup interface {
	FindByID(ctx context.Context, id string) (*users.User, error)
}

// noteServiceImpl is the NoteService backed by a Store.
type noteServiceImpl struct {
	store  Store
	owners OwnerLookup
}

// NewNoteService creates a new NoteService. owners is consulted before a note
// is created so that every note references an existing user, whatever the
// backend.
func NewNoteService(store Store, owners OwnerLookup) NoteService {
	return &noteServiceImpl{store: store, owners: owners}
}

func (s *noteServiceImpl) ListNotes(ctx context.Context, callerID string) ([]Note, error) {
	list, err := s.store.ListByOwner(ctx, callerID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list notes", err)
	}
	if list == nil {
		list = []Note{}
	}
	return list, nil
}

func (s *noteServiceImpl) AddNote(ctx context.Context, callerID string, req CreateNoteRequest) (*Note, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}

	// A token can outlive its account; refuse to create orphaned notes.
	if _, err := s.owners.FindByID(ctx, callerID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, apperror.NewNotFoundError(msgUserNotFound, err)
		}
		return nil, apperror.NewDatabaseError("failed to look up note owner", err)
	}

	tag := req.Tag
	if tag == "" {
		tag = DefaultTag
	}
	note, err := s.store.Create(ctx, &Note{
		Owner:       callerID,
		Title:       req.Title,
		Description: req.Description,
		Tag:         tag,
	})
	if err != nil {
		if errors.Is(err, ErrOwnerNotFound) {
			return nil, apperror.NewNotFoundError(msgUserNotFound, err)
		}
		return nil, apperror.NewDatabaseError("failed to create note", err)
	}
	return note, nil
}

func (s *noteServiceImpl) UpdateNote(ctx context.Context, callerID, noteID string, req UpdateNoteRequest) (*Note, error) {
	if _, err := s.authorize(ctx, callerID, noteID); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, noteID, req.Patch())
	if err != nil {
		// Deleted between the ownership check and the write.
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NewNotFoundError(msgNotFound, err)
		}
		return nil, apperror.NewDatabaseError("failed to update note", err)
	}
	return updated, nil
}

func (s *noteServiceImpl) DeleteNote(ctx context.Context, callerID, noteID string) (*Note, error) {
	if _, err := s.authorize(ctx, callerID, noteID); err != nil {
		return nil, err
	}

	deleted, err := s.store.Delete(ctx, noteID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NewNotFoundError(msgNotFound, err)
		}
		return nil, apperror.NewDatabaseError("failed to delete note", err)
	}
	return deleted, nil
}

// authorize loads the note and applies Guard.
func (s *noteServiceImpl) authorize(ctx context.Context, callerID, noteID string) (*Note, error) {
	note, err := s.store.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NewNotFoundError(msgNotFound, nil)
		}
		return nil, apperror.NewDatabaseError("failed to get note", err)
	}
	if err := Guard(note, callerID); err != nil {
		return nil, err
	}
	return note, nil
}
