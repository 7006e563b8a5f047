package issuance

import "errors"

var (
	// ErrNotDeployed indicates no deployment record exists in the arena.
	ErrNotDeployed = errors.New("issuance: not deployed")

	// ErrInvalidParams indicates deployment parameters that cannot work.
	ErrInvalidParams = errors.New("issuance: invalid parameters")
)
