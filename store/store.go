package store // import "github.com/storyhouse/storyhouse/store"

import (
	"context"
	"database/sql"
	"sync"

	"github.com/pkg/errors"

	"github.com/storyhouse/storyhouse/storage"
)

// ErrBookNotFound is returned when a book's metadata object is missing.
var ErrBookNotFound = errors.New("store: book not found")

// Store is the repository facade over the object store holding book
// metadata, chapter content and covers. The optional app db records jobs
// and migration history.
type Store struct {
	objects storage.ObjectStore

	appDb     *sql.DB
	appDbLock sync.Mutex

	bookCache sync.Map // map[string]*model.Book
}

func NewStore(objects storage.ObjectStore, appDb *sql.DB) *Store {
	return &Store{
		objects: objects,
		appDb:   appDb,
	}
}

// Objects exposes the underlying object store for batch operations that need
// raw copy/delete/list access, like the migration engine.
func (s *Store) Objects() storage.ObjectStore {
	return s.objects
}

func (s *Store) CopyObject(ctx context.Context, srcKey, dstKey string) error {
	return s.objects.Copy(ctx, srcKey, dstKey)
}

func (s *Store) DeleteObject(ctx context.Context, key string) error {
	return s.objects.Delete(ctx, key)
}

func (s *Store) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	return s.objects.List(ctx, prefix)
}

func (s *Store) Ping() error {
	if s.appDb == nil {
		return nil
	}
	return s.appDb.Ping()
}

func (s *Store) Close() {
	if s.appDb != nil {
		s.appDb.Close()
	}
}
