// Package metadata stores small string settings in the local sqlite
// database. The admin session (id and token) lives here.
package metadata

import "context"

// Store is a string key/value table. Lookup reports ok=false for a key
// that was never stored.
type Store interface {
	Lookup(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, pairs map[string]string) error
	Clear(ctx context.Context) error
}
