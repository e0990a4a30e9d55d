// Package store provides the key-value persistence used for disclosure
// state and chat history. Backends share one small interface so the
// widget can run against process memory, a JSON file, or Redis without
// caring which.
package store

import "context"

// KV is the persistence contract. Get reports found=false for a
// missing key rather than an error.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
