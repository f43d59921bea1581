// Package storage abstracts the S3/R2 compatible blob store holding book
// metadata and chapter content.
package storage // import "github.com/storyhouse/storyhouse/storage"

import (
	"context"

	"github.com/pkg/errors"
)

// ErrObjectNotFound is returned by Get for a missing key.
var ErrObjectNotFound = errors.New("storage: object not found")

// Object is a stored blob with its content type and user metadata.
type Object struct {
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

// ObjectStore is the narrow contract the rest of the system needs from the
// blob store. Implementations must make Delete idempotent: deleting a
// missing key is not an error.
type ObjectStore interface {
	Get(ctx context.Context, key string) (*Object, error)
	// Put stores the blob and returns a locator URL for it.
	Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) (string, error)
	Copy(ctx context.Context, srcKey, dstKey string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}
