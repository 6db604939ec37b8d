package folder

import "errors"

var (
	ErrFolderNotFound = errors.New("skill folder not found")
	ErrDuplicateName  = errors.New("a skill folder with this name already exists")
)
