package note

import "errors"

var (
	ErrNoteNotFound   = errors.New("note not found")
	ErrDuplicateTitle = errors.New("a note with this title already exists in this folder")
)
