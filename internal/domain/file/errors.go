package file

import "errors"

var (
	ErrFileNotFound  = errors.New("file not found")
	ErrMissingOnDisk = errors.New("file not found on storage")
	ErrDuplicateName = errors.New("a file with this name already exists in this folder")
	ErrStorageWrite  = errors.New("failed to store file")
	ErrDigestFailed  = errors.New("failed to compute content digest")
)
