package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input, such as a
	// TOC that fails validation or an out-of-range section index.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition indicates an operation that is not valid in
	// the report's current status, e.g. approving a TOC for a report
	// that is not awaiting approval.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrLockConflict indicates another owner holds an active lock on
	// the report. The caller may retry after the lock expires.
	ErrLockConflict = errors.New("report locked by another owner")

	// ErrRetrievalFailed indicates the retrieval gateway could not
	// serve a scoped query. Recoverable via resume.
	ErrRetrievalFailed = errors.New("retrieval failed")

	// ErrCompletionFailed indicates the completion gateway failed or
	// timed out. Recoverable via resume.
	ErrCompletionFailed = errors.New("completion failed")

	// ErrCompletionUnavailable indicates no completion gateway is
	// configured.
	ErrCompletionUnavailable = errors.New("completion service unavailable")

	// ErrRetrievalUnavailable indicates no retrieval gateway is
	// configured.
	ErrRetrievalUnavailable = errors.New("retrieval service unavailable")
)
