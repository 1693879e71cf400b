package errs

import (
	"errors"
)

var (
	ErrItemNotFound   = errors.New("item not found")
	ErrMemberNotFound = errors.New("member not found")

	ErrOwnerRequired      = errors.New("item must have an owner")
	ErrTitleRequired      = errors.New("item must have a title")
	ErrInvalidItemType    = errors.New("invalid item type")
	ErrDuplicateStudentID = errors.New("member with this studentId already exists")
	ErrNameRequired       = errors.New("member must have a name")
	ErrStudentIDRequired  = errors.New("member must have a studentId")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrMemberNotFound)
}

// IsValidation reports whether err should surface as a 400.
func IsValidation(err error) bool {
	return errors.Is(err, ErrOwnerRequired) ||
		errors.Is(err, ErrTitleRequired) ||
		errors.Is(err, ErrInvalidItemType) ||
		errors.Is(err, ErrDuplicateStudentID) ||
		errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrStudentIDRequired)
}
