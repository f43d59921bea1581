package ownership

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/storyhouse/storyhouse/model"
)

var (
	authorA = "0x" + strings.Repeat("a", 40)
	authorB = "0x" + strings.Repeat("b", 40)
)

// fakeChapters serves chapter records from memory and can simulate per
// chapter load failures.
type fakeChapters struct {
	chapters map[int]*model.Chapter
	broken   map[int]bool
}

func (f *fakeChapters) GetChapterContent(ctx context.Context, authorAddress, slug string, chapterNumber int) (*model.Chapter, error) {
	if f.broken[chapterNumber] {
		return nil, errors.New("simulated corrupt chapter")
	}
	chapter, ok := f.chapters[chapterNumber]
	if !ok {
		return nil, errors.New("chapter not found")
	}
	return chapter, nil
}

func testBook(chapters ...int) *model.Book {
	book := &model.Book{
		ID:            authorA + "-test-book",
		AuthorAddress: authorA,
		ChapterMap:    map[string]string{},
		SchemaVersion: model.BookSchemaVersion,
	}
	for _, n := range chapters {
		key := "ch" + string(rune('0'+n))
		book.ChapterMap[key] = "books/x/test-book/chapters/" + key + "/content.json"
	}
	book.Normalize()
	return book
}

func chapterBy(n int, author string) *model.Chapter {
	return &model.Chapter{ChapterNumber: n, AuthorAddress: author, Content: "..."}
}

func TestDetermineOwnerSameAuthor(t *testing.T) {
	src := &fakeChapters{chapters: map[int]*model.Chapter{
		1: chapterBy(1, authorA),
		2: chapterBy(2, authorA),
		3: chapterBy(3, authorA),
	}}
	r := NewResolver(src)

	result, err := r.DetermineOwner(context.Background(), testBook(1, 2, 3))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.OwnershipEstablished {
		t.Error("Ownership should be established")
	}
	if result.IPOwner != authorA {
		t.Errorf("IPOwner = %q, want %q", result.IPOwner, authorA)
	}
	if result.OwnershipReason != model.OwnershipFirstThreeChapters {
		t.Errorf("Reason = %q", result.OwnershipReason)
	}
	if len(result.ChapterAuthors) != 3 {
		t.Errorf("ChapterAuthors = %v", result.ChapterAuthors)
	}
}

func TestDetermineOwnerSplitAuthorship(t *testing.T) {
	src := &fakeChapters{chapters: map[int]*model.Chapter{
		1: chapterBy(1, authorA),
		2: chapterBy(2, authorB),
		3: chapterBy(3, authorA),
	}}
	r := NewResolver(src)

	result, err := r.DetermineOwner(context.Background(), testBook(1, 2, 3))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.OwnershipEstablished || result.IPOwner != "" {
		t.Errorf("Split authorship must not establish ownership: %+v", result)
	}
	if result.OwnershipReason != model.OwnershipNotEstablished {
		t.Errorf("Reason = %q", result.OwnershipReason)
	}
}

func TestDetermineOwnerPending(t *testing.T) {
	src := &fakeChapters{chapters: map[int]*model.Chapter{
		1: chapterBy(1, authorA),
	}}
	r := NewResolver(src)

	book := testBook(1)
	result, err := r.DetermineOwner(context.Background(), book)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.OwnershipEstablished {
		t.Error("Single chapter must not establish ownership")
	}
	if result.IPOwner != authorA {
		t.Errorf("Pending owner = %q, want %q", result.IPOwner, authorA)
	}
	if result.OwnershipReason != model.OwnershipSingleChapter {
		t.Errorf("Reason = %q", result.OwnershipReason)
	}

	pending, err := r.IsRegistrationPending(context.Background(), book)
	if err != nil || !pending {
		t.Errorf("IsRegistrationPending = %v, %v", pending, err)
	}
}

func TestDetermineOwnerDerivative(t *testing.T) {
	src := &fakeChapters{chapters: map[int]*model.Chapter{
		1: chapterBy(1, authorA),
		2: chapterBy(2, authorA),
		3: chapterBy(3, authorA),
	}}
	r := NewResolver(src)

	book := testBook(1, 2, 3)
	book.ParentBook = authorB + "-parent-book"

	result, err := r.DetermineOwner(context.Background(), book)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.OwnershipEstablished || result.IPOwner != "" {
		t.Errorf("Derivative must not carry ownership: %+v", result)
	}
	if result.OwnershipReason != model.OwnershipNotEstablished {
		t.Errorf("Reason = %q", result.OwnershipReason)
	}
}

func TestDetermineOwnerOnlyLaterChapters(t *testing.T) {
	src := &fakeChapters{chapters: map[int]*model.Chapter{
		2: chapterBy(2, authorA),
		3: chapterBy(3, authorA),
	}}
	r := NewResolver(src)

	result, err := r.DetermineOwner(context.Background(), testBook(2, 3))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.OwnershipEstablished || result.OwnershipReason != model.OwnershipNotEstablished {
		t.Errorf("Books without chapter 1 must not resolve: %+v", result)
	}
}

func TestDetermineOwnerCorruptChapterIsNonFatal(t *testing.T) {
	src := &fakeChapters{
		chapters: map[int]*model.Chapter{
			1: chapterBy(1, authorA),
			3: chapterBy(3, authorA),
		},
		broken: map[int]bool{2: true},
	}
	r := NewResolver(src)

	result, err := r.DetermineOwner(context.Background(), testBook(1, 2, 3))
	if err != nil {
		t.Fatalf("Per-chapter failures must not abort the determination: %v", err)
	}
	if result.OwnershipEstablished {
		t.Error("Unknown authorship must not establish ownership")
	}
	if len(result.ChapterAuthors) != 2 {
		t.Errorf("ChapterAuthors should exclude the broken chapter: %v", result.ChapterAuthors)
	}
}

func TestCanRegisterIP(t *testing.T) {
	src := &fakeChapters{chapters: map[int]*model.Chapter{
		1: chapterBy(1, authorA),
		2: chapterBy(2, authorA),
		3: chapterBy(3, authorA),
	}}
	r := NewResolver(src)
	book := testBook(1, 2, 3)

	ok, err := r.CanRegisterIP(context.Background(), book, strings.ToUpper(authorA))
	if err != nil || !ok {
		t.Errorf("Owner (case-insensitive) should be able to register: %v, %v", ok, err)
	}
	ok, err = r.CanRegisterIP(context.Background(), book, authorB)
	if err != nil || ok {
		t.Errorf("Non-owner must not register: %v, %v", ok, err)
	}
}
