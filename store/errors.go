package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a directly requested row does not exist.
	// Existence probes (like/favorite/follow status) never return it; absence
	// is a normal negative result there.
	ErrNotFound = errors.New("record not found")

	// ErrWriteRejected is returned when an owner-scoped mutation matched zero
	// rows because the row belongs to a different user.
	ErrWriteRejected = errors.New("write rejected: row owned by another user")
)

// opError wraps a backend failure with a fixed, operation-specific message.
func opError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
