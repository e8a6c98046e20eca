// Package storage abstracts object storage for relayed media and synthesized
// audio. Keys are forward-slash paths relative to the store root, e.g.
// "assets/20240131120000pet_image.jpg".
package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrObjectNotFound indicates the requested object does not exist.
	ErrObjectNotFound = errors.New("storage object not found")
	// ErrInvalidKey indicates a malformed or traversing storage key.
	ErrInvalidKey = errors.New("invalid storage key")
)

// Provider abstracts object storage operations.
type Provider interface {
	// Put writes data to storage under the given key.
	Put(ctx context.Context, key string, reader io.Reader) error
	// Open returns a reader for the given storage key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error
	// AccessURL returns the externally reachable URL for a storage key.
	AccessURL(key string) string
}
