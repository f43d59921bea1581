package identity // import "github.com/storyhouse/storyhouse/identity"

import (
	"fmt"
	"strings"
)

// Storage key layout. The object store is flat; these functions are the only
// place the layout is spelled out.

func BookPrefix(authorAddress, slug string) string {
	return fmt.Sprintf("books/%s/%s/", strings.ToLower(authorAddress), slug)
}

func BookMetadataKey(authorAddress, slug string) string {
	return BookPrefix(authorAddress, slug) + "metadata.json"
}

func CoverKey(authorAddress, slug, ext string) string {
	return BookPrefix(authorAddress, slug) + "cover." + strings.TrimPrefix(ext, ".")
}

func ChapterPrefix(authorAddress, slug string) string {
	return BookPrefix(authorAddress, slug) + "chapters/"
}

// ChapterContentKey returns the content key for a chapter map key, which may
// be a plain "ch{n}" or a conflict-renamed key.
func ChapterContentKey(authorAddress, slug, chapterKey string) string {
	return ChapterPrefix(authorAddress, slug) + chapterKey + "/content.json"
}

// MigrationBackupKey is where Execute snapshots a parent's metadata before
// mutating it.
func MigrationBackupKey(timestamp, bookID string) string {
	return fmt.Sprintf("backups/migration/%s/books/%s/metadata.json", timestamp, bookID)
}
