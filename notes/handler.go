package notes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/notekeeper/apperror"
	"github.com/user/notekeeper/auth"
)

// NoteHandler handles HTTP requests for notes. It expects every route to sit
// behind auth.TokenMiddleware.
type NoteHandler struct {
	service NoteService
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(service NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// RegisterRoutes registers the note API routes with a `chi.Router`.
// The grouping prefix and the auth middleware are applied by the caller.
func (h *NoteHandler) RegisterRoutes(router chi.Router) {
	router.Get("/fetchallnotes", h.fetchAllNotes)
	router.Post("/addnote", h.addNote)
	router.Put("/updatenote/{id}", h.updateNote)
	router.Delete("/deletenote/{id}", h.deleteNote)
}

// callerID returns the authenticated user id, writing a 401 when it is absent.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("missing token", nil))
		return "", false
	}
	return id.ID, true
}

// fetchAllNotes godoc
// @Summary List notes
// @Description Returns every note owned by the caller.
// @Tags Notes
// @Produce json
// @Security TokenAuth
// @Success 200 {array} notes.Note
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 500 {string} string "Internal Server Error"
// @Router /notes/fetchallnotes [get]
func (h *NoteHandler) fetchAllNotes(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	list, err := h.service.ListNotes(r.Context(), uid)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, list)
}

// addNote godoc
// @Summary Add a note
// @Tags Notes
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param note body notes.CreateNoteRequest true "Note to create"
// @Success 200 {object} notes.Note
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 500 {string} string "Internal Server Error"
// @Router /notes/addnote [post]
func (h *NoteHandler) addNote(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	var req CreateNoteRequest
	if err := auth.DecodeJSON(r, &req); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	note, err := h.service.AddNote(r.Context(), uid, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, note)
}

// updateNote godoc
// @Summary Update a note
// @Description Changes only the supplied fields. Only the owner may update a note.
// @Tags Notes
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path string true "Note id"
// @Param note body notes.UpdateNoteRequest true "Fields to change"
// @Success 200 {object} notes.UpdateNoteResponse
// @Failure 401 {object} apperror.ErrorResponse "Missing token or not the owner"
// @Failure 404 {object} apperror.ErrorResponse
// @Failure 500 {string} string "Internal Server Error"
// @Router /notes/updatenote/{id} [put]
func (h *NoteHandler) updateNote(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}
	var req UpdateNoteRequest
	if err := auth.DecodeJSON(r, &req); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	note, err := h.service.UpdateNote(r.Context(), uid, chi.URLParam(r, "id"), req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, UpdateNoteResponse{Note: note})
}

// deleteNote godoc
// @Summary Delete a note
// @Description Only the owner may delete a note. The deleted note is echoed back.
// @Tags Notes
// @Produce json
// @Security TokenAuth
// @Param id path string true "Note id"
// @Success 200 {object} notes.DeleteNoteResponse
// @Failure 401 {object} apperror.ErrorResponse "Missing token or not the owner"
// @Failure 404 {object} apperror.ErrorResponse
// @Failure 500 {string} string "Internal Server Error"
// @Router /notes/deletenote/{id} [delete]
func (h *NoteHandler) deleteNote(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(w, r)
	if !ok {
		return
	}

	note, err := h.service.DeleteNote(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, DeleteNoteResponse{Success: "Note has been deleted", Note: note})
}
