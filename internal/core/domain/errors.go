package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidSetting indicates a configuration value failed validation.
	ErrInvalidSetting = errors.New("invalid setting")

	// ErrRemoteUnavailable indicates the remote search endpoint is not configured.
	// Predictive fetching is disabled and the engine works on the local pool only.
	ErrRemoteUnavailable = errors.New("remote search unavailable")

	// ErrRemoteStatus indicates the remote endpoint answered with a non-2xx status.
	ErrRemoteStatus = errors.New("remote search returned non-success status")

	// ErrAliasCycle indicates an alias would map a tag onto itself.
	ErrAliasCycle = errors.New("alias maps tag onto itself")
)
