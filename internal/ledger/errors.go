package ledger

import "errors"

var (
	// ErrNotFound means the account does not exist or belongs to another user.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicateCode means the (user, account_code) pair already exists.
	ErrDuplicateCode = errors.New("account code already in use")
	// ErrInvalidParent means the parent is missing, inactive, cross-user, or
	// would create a cycle.
	ErrInvalidParent = errors.New("invalid parent account")
	// ErrSystemAccountProtected means a structural edit or delete was
	// attempted on a system account.
	ErrSystemAccountProtected = errors.New("system account is protected")
	// ErrValidation means a field value is out of range or inconsistent.
	ErrValidation = errors.New("validation failed")
)
