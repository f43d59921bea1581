package model // import "github.com/storyhouse/storyhouse/model"

type OwnershipReason string

const (
	OwnershipFirstThreeChapters OwnershipReason = "first_three_chapters"
	OwnershipSingleChapter      OwnershipReason = "single_chapter"
	OwnershipNotEstablished     OwnershipReason = "not_established"
)

// OwnershipResult is derived, never persisted.
type OwnershipResult struct {
	IPOwner              string          `json:"ipOwner,omitempty"`
	OwnershipEstablished bool            `json:"ownershipEstablished"`
	OwnershipReason      OwnershipReason `json:"ownershipReason"`
	// ChapterAuthors records the authors observed while resolving, for
	// auditability. Chapters that failed to load are absent.
	ChapterAuthors map[string]string `json:"chapterAuthors"`
}
