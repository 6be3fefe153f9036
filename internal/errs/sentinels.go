// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates failed authentication/authorization.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrAdminAccount indicates an attempt to purge an admin account.
	ErrAdminAccount = errors.New("admin account is not purgeable")
)

// Purge step sentinels. The first two roll back the per-account transaction
// and are recovered at the batch boundary; a commit failure is reported
// distinctly because the account is not purged even though every earlier step
// succeeded.
var (
	// ErrTransformFailed indicates a failure archiving/deleting an account's related records.
	ErrTransformFailed = errors.New("retention transform failed")

	// ErrAuditLogFailed indicates a failure appending the deletion log entry.
	ErrAuditLogFailed = errors.New("deletion log append failed")

	// ErrCommitFailed indicates the per-account transaction failed to commit.
	ErrCommitFailed = errors.New("commit failed")
)
