package categorize

import "errors"

var (
	// ErrNotFound means the transaction id did not resolve for this user.
	ErrNotFound = errors.New("transaction not found")
	// ErrInvalidReference means a supplied tax category is not currently
	// effective, or a supplied chart account is inactive or owned by
	// another user.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrValidation means a percentage, confidence or date range is out of
	// bounds.
	ErrValidation = errors.New("validation failed")
)
