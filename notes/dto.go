package notes

// CreateNoteRequest is the body of POST /notes/addnote.
type CreateNoteRequest struct {
	Title       string `json:"title" validate:"min=1" msg:"Enter a valid title" example:"Groceries"`
	Description string `json:"description" validate:"min=1" msg:"Description must be atleast 1 character" example:"milk, eggs"`
	Tag         string `json:"tag,omitempty" example:"personal"`
}

// UpdateNoteRequest is the body of PUT /notes/updatenote/{id}.
// Omitted or empty fields leave the stored value unchanged.
type UpdateNoteRequest struct {
	Title       *string `json:"title,omitempty" example:"Groceries"`
	Description *string `json:"description,omitempty" example:"milk, eggs, bread"`
	Tag         *string `json:"tag,omitempty" example:"errands"`
}

// Patch converts the request into a store Patch.
func (r UpdateNoteRequest) Patch() Patch {
	return Patch{
		Title:       nonEmpty(r.Title),
		Description: nonEmpty(r.Description),
		Tag:         nonEmpty(r.Tag),
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// UpdateNoteResponse wraps the updated note.
type UpdateNoteResponse struct {
	Note *Note `json:"note"`
}

// DeleteNoteResponse confirms a deletion and echoes the deleted note.
type DeleteNoteResponse struct {
	Success string `json:"Success" example:"Note has been deleted"`
	Note    *Note  `json:"note"`
}
