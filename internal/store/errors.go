package store

import "errors"

var (
	ErrLastProject        = errors.New("cannot delete the last project")
	ErrProjectNotFound    = errors.New("project not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrSubtaskNotFound    = errors.New("subtask not found")
	ErrFileNotFound       = errors.New("file not found")
	ErrDeckNotFound       = errors.New("deck not found")
	ErrEmptyTitle         = errors.New("title is required")
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrUndoExpired        = errors.New("undo window expired")
	ErrNotLocalFile       = errors.New("file is a link, not a local upload")
	ErrFileTooLarge       = errors.New("file exceeds the size limit")
	ErrUnsupportedExport  = errors.New("unsupported export file")
	ErrPassphraseRequired = errors.New("export is encrypted; passphrase required")
	ErrWrongPassphrase    = errors.New("incorrect passphrase")
)
