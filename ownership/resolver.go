// Package ownership decides who owns a book's intellectual property from
// the authorship of its opening chapters.
package ownership // import "github.com/storyhouse/storyhouse/ownership"

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/storyhouse/storyhouse/identity"
	"github.com/storyhouse/storyhouse/log"
	"github.com/storyhouse/storyhouse/model"
)

// ChapterSource is the slice of the repository facade the resolver needs.
type ChapterSource interface {
	GetChapterContent(ctx context.Context, authorAddress, slug string, chapterNumber int) (*model.Chapter, error)
}

type Resolver struct {
	chapters ChapterSource
}

func NewResolver(chapters ChapterSource) *Resolver {
	return &Resolver{chapters: chapters}
}

// DetermineOwner resolves the book-level IP owner.
//
// Derivatives never carry their own ownership: the shared opening chapters
// always trace to the parent. For root books, chapters 1 through
// FreeChapterCount establish ownership when they all exist and share one
// author. A book with only chapter 1 has a pending owner. Everything else is
// not established.
//
// A chapter that fails to load is logged and treated as unknown authorship
// rather than aborting the determination.
func (r *Resolver) DetermineOwner(ctx context.Context, book *model.Book) (*model.OwnershipResult, error) {
	result := &model.OwnershipResult{
		OwnershipReason: model.OwnershipNotEstablished,
		ChapterAuthors:  map[string]string{},
	}

	if book.IsDerivative() {
		return result, nil
	}

	author, slug, err := identity.ParseBookID(book.ID)
	if err != nil {
		return nil, err
	}

	present := 0
	loadFailed := false
	authors := map[string]bool{}
	for n := 1; n <= model.FreeChapterCount; n++ {
		key, _ := identity.ChapterKey(n)
		if _, ok := book.ChapterMap[key]; !ok {
			continue
		}
		present++

		chapter, err := r.chapters.GetChapterContent(ctx, author, slug, n)
		if err != nil {
			// Per-chapter failures are non-fatal: one corrupt file
			// must not block a best-effort answer.
			log.Warn("Failed to load chapter during ownership scan",
				zap.String("book_id", book.ID),
				zap.String("chapter_key", key),
				zap.Error(err))
			loadFailed = true
			continue
		}

		result.ChapterAuthors[key] = chapter.AuthorAddress
		authors[strings.ToLower(chapter.AuthorAddress)] = true
	}

	switch {
	case present == model.FreeChapterCount && !loadFailed && len(authors) == 1:
		result.IPOwner = result.ChapterAuthors["ch1"]
		result.OwnershipEstablished = true
		result.OwnershipReason = model.OwnershipFirstThreeChapters
	case len(book.ChapterMap) == 1 && result.ChapterAuthors["ch1"] != "":
		// Sole chapter 1: its author will own the IP once they publish
		// chapters 2 and 3 themselves.
		result.IPOwner = result.ChapterAuthors["ch1"]
		result.OwnershipReason = model.OwnershipSingleChapter
	}

	return result, nil
}

// CanRegisterIP reports whether the author is entitled to register the
// book-level IP right now.
func (r *Resolver) CanRegisterIP(ctx context.Context, book *model.Book, authorAddress string) (bool, error) {
	result, err := r.DetermineOwner(ctx, book)
	if err != nil {
		return false, err
	}
	return result.OwnershipEstablished && strings.EqualFold(result.IPOwner, authorAddress), nil
}

// IsRegistrationPending reports whether the book has a sole-chapter pending
// owner waiting on chapters 2 and 3.
func (r *Resolver) IsRegistrationPending(ctx context.Context, book *model.Book) (bool, error) {
	result, err := r.DetermineOwner(ctx, book)
	if err != nil {
		return false, err
	}
	return !result.OwnershipEstablished && result.OwnershipReason == model.OwnershipSingleChapter, nil
}
