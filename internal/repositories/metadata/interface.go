package metadata

import (
	"context"
)

// Repository stores named process-level slots, such as the id of the
// logged-in user, that outlive a single run.
type Repository interface {
	// Get returns the slot value and whether the slot is set.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete empties the slot. Deleting an empty slot is not an error.
	Delete(ctx context.Context, key string) error
}
