package notes

import "github.com/user/notekeeper/apperror"

// msgNotAllowed is returned when the caller does not own the note.
const msgNotAllowed = "Not Allowed"

// Guard allows an operation on note only when callerID is its owner.
// It is the only authorization rule in the system.
func Guard(note *Note, callerID string) error {
	if note == nil || callerID == "" || note.Owner != callerID {
		return apperror.NewForbiddenError(msgNotAllowed, nil)
	}
	return nil
}
