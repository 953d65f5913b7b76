package core

import (
	"context"

	"github.com/valter-silva-au/datawork/pkg/models"
)

// DefaultStoreKey is the namespaced key holding the whole task collection.
const DefaultStoreKey = "@datawork:tasks"

// KeyValueStore is the durable storage the repository writes through.
// Implementations live in the storage package; core only needs this subset.
type KeyValueStore interface {
	// Get returns the value stored under key. found is false when the key
	// has never been set or was removed.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// TaskCodec converts the task collection to and from the text blob kept in
// the KeyValueStore. Decode(Encode(x)) must reproduce x field for field.
type TaskCodec interface {
	Encode(tasks []models.Task) (string, error)
	Decode(data string) ([]models.Task, error)
}
