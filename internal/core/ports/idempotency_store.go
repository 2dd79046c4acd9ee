package ports

import "context"

// IdempotencyStore remembers which employee a client-supplied Idempotency-Key
// produced, so a retried create returns the same record.
//
// A create first claims its key. Only the holder of the claim inserts, then
// records the new id with Remember, or gives the key up with Release when the
// insert fails.
type IdempotencyStore interface {
	// Claim atomically reserves key. It reports false when the key is already
	// claimed or remembered.
	Claim(ctx context.Context, key string) (bool, error)
	// Lookup returns the employee id recorded for key, "" when none exists, or
	// domain.ErrRequestInProgress while the key is claimed but not yet
	// remembered.
	Lookup(ctx context.Context, key string) (string, error)
	Remember(ctx context.Context, key, employeeID string) error
	Release(ctx context.Context, key string) error
}
