package errs

import (
	"errors"
)

var (
	ErrLoanNotFound   = errors.New("loan not found")
	ErrItemNotFound   = errors.New("item not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrNoActiveLoan   = errors.New("no active loan found for this item")

	ErrItemUnavailable = errors.New("item is not available for borrowing")
	ErrItemOnLoan      = errors.New("item is already on loan")
	ErrAlreadyReturned = errors.New("item has already been returned")

	ErrAvailabilityRollback = errors.New("failed to update item availability: loan cancelled")
	ErrAvailabilityUpdate   = errors.New("failed to update item availability")
	ErrAvailabilityCheck    = errors.New("failed to check item availability")
	ErrLoanUpdate           = errors.New("failed to update loan")
)

// IsNotFound reports whether err belongs to the not-found class.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLoanNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrNoActiveLoan)
}

// IsConflict reports whether err is a business-rule violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrItemUnavailable) ||
		errors.Is(err, ErrItemOnLoan) ||
		errors.Is(err, ErrAlreadyReturned)
}
