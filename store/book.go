package store // import "github.com/storyhouse/storyhouse/store"

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/storyhouse/storyhouse/identity"
	"github.com/storyhouse/storyhouse/log"
	"github.com/storyhouse/storyhouse/model"
	"github.com/storyhouse/storyhouse/storage"
)

const jsonContentType = "application/json"

// GetBookMetadata loads and normalizes a book's metadata. Returns
// ErrBookNotFound when the metadata object is missing.
func (s *Store) GetBookMetadata(ctx context.Context, bookID string) (*model.Book, error) {
	if cache, ok := s.bookCache.Load(bookID); ok {
		return cache.(*model.Book), nil
	}

	author, slug, err := identity.ParseBookID(bookID)
	if err != nil {
		return nil, err
	}

	obj, err := s.objects.Get(ctx, identity.BookMetadataKey(author, slug))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, errors.Wrapf(ErrBookNotFound, "book %s", bookID)
		}
		return nil, errors.Wrapf(err, "failed to load metadata for book %s", bookID)
	}

	book := &model.Book{}
	if err := json.Unmarshal(obj.Data, book); err != nil {
		return nil, errors.Wrapf(err, "corrupt metadata for book %s", bookID)
	}
	book.Normalize()

	s.bookCache.Store(bookID, book)
	return book, nil
}

// StoreBookMetadata persists a book's metadata and returns the locator URL.
// The totalChapters invariant is enforced here so no writer can break it.
func (s *Store) StoreBookMetadata(ctx context.Context, authorAddress, slug string, book *model.Book) (string, error) {
	book.Normalize()
	book.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(book)
	if err != nil {
		return "", errors.Wrapf(err, "failed to marshal metadata for book %s", book.ID)
	}

	url, err := s.objects.Put(ctx, identity.BookMetadataKey(authorAddress, slug), data, jsonContentType, nil)
	if err != nil {
		return "", errors.Wrapf(err, "failed to store metadata for book %s", book.ID)
	}

	s.bookCache.Store(book.ID, book)
	return url, nil
}

// ListBookIDs enumerates every book id known to the object store.
func (s *Store) ListBookIDs(ctx context.Context) ([]string, error) {
	keys, err := s.objects.List(ctx, "books/")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list books")
	}

	var ids []string
	for _, key := range keys {
		if !strings.HasSuffix(key, "/metadata.json") {
			continue
		}
		// books/{author}/{slug}/metadata.json
		parts := strings.Split(key, "/")
		if len(parts) != 4 {
			log.Warn("Skipping unexpected metadata key", zap.String("key", key))
			continue
		}
		ids = append(ids, identity.BookID(parts[1], parts[2]))
	}
	return ids, nil
}

// ListBooks loads book metadata matching the filter, skipping unreadable
// records rather than failing the listing.
func (s *Store) ListBooks(ctx context.Context, find *model.FindBook) ([]*model.Book, error) {
	if find != nil && find.ID != nil {
		book, err := s.GetBookMetadata(ctx, *find.ID)
		if err != nil {
			return nil, err
		}
		return []*model.Book{book}, nil
	}

	ids, err := s.ListBookIDs(ctx)
	if err != nil {
		return nil, err
	}

	var books []*model.Book
	for _, id := range ids {
		book, err := s.GetBookMetadata(ctx, id)
		if err != nil {
			log.Warn("Skipping unreadable book", zap.String("book_id", id), zap.Error(err))
			continue
		}
		if find != nil {
			if find.AuthorAddress != nil && !strings.EqualFold(book.AuthorAddress, *find.AuthorAddress) {
				continue
			}
			if find.ParentBook != nil && book.ParentBook != *find.ParentBook {
				continue
			}
			if find.DerivativesOnly && !book.IsDerivative() {
				continue
			}
		}
		books = append(books, book)
	}
	return books, nil
}

// InvalidateBook drops a book from the metadata cache. The migration engine
// calls this after raw object copies bypass StoreBookMetadata.
func (s *Store) InvalidateBook(bookID string) {
	s.bookCache.Delete(bookID)
}
