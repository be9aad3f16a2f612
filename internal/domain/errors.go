package domain

import "errors"

// Sentinel errors for the content tree core - wrap with fmt.Errorf("...: %w")
// and match with errors.Is().
var (
	// ErrNotFound indicates a referenced node id does not resolve to a record.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates no caller identity was available where one
	// is required.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the node exists but the caller is not its owner.
	// Handlers must render this identically to ErrNotFound so the existence
	// of other users' private nodes is never leaked.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation indicates invalid input, including a parent_id that does
	// not reference a live node of the same kind and owner.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates a resource conflict.
	ErrConflict = errors.New("already exists")
)
