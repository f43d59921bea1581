package model // import "github.com/storyhouse/storyhouse/model"

// FreeChapterCount is the free preview boundary. Pricing, ownership and
// branch inheritance all key off this single constant.
const FreeChapterCount = 3

// BookSchemaVersion is the current metadata.json layout version.
const BookSchemaVersion = 2

// AuthorAttribution records which chapters an address contributed to a book
// and its share of the book revenue. Shares are stored as written; they are
// not validated to sum to 100 across a book.
type AuthorAttribution struct {
	Chapters     []string `json:"chapters"`
	RevenueShare float64  `json:"revenueShare"`
}

// AuditNote is appended to a book whenever a migration merges foreign
// chapters into it. Duplicate notes from a retried run are tolerated.
type AuditNote struct {
	Source    string `json:"source"`
	Chapters  int    `json:"chapters"`
	Timestamp string `json:"timestamp"`
	Note      string `json:"note,omitempty"`
}

type Book struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	AuthorAddress string `json:"authorAddress"`
	Description   string `json:"description,omitempty"`
	CoverURL      string `json:"coverUrl,omitempty"`

	// ChapterMap maps chapter keys ("ch1", "ch5-a1b2c3") to the storage
	// key of the chapter content.
	ChapterMap    map[string]string `json:"chapterMap"`
	TotalChapters int               `json:"totalChapters"`

	// ParentBook is set when this book branched from another one.
	ParentBook  string `json:"parentBook,omitempty"`
	BranchPoint string `json:"branchPoint,omitempty"`
	// ParentChapters overrides the inherited chapter count when the fork
	// did not happen at the free preview boundary.
	ParentChapters int `json:"parentChapters,omitempty"`

	// DerivativeBooks is maintained on the parent, best-effort.
	DerivativeBooks []string `json:"derivativeBooks,omitempty"`

	OriginalAuthors map[string]AuthorAttribution `json:"originalAuthors,omitempty"`

	IPAssetID       string `json:"ipAssetId,omitempty"`
	LicenseTermsID  string `json:"licenseTermsId,omitempty"`
	TransactionHash string `json:"transactionHash,omitempty"`

	AuditLog []AuditNote `json:"auditLog,omitempty"`

	SchemaVersion int    `json:"schemaVersion"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// IsDerivative reports whether the book branched from a parent book.
func (b *Book) IsDerivative() bool {
	return b.ParentBook != ""
}

// InheritedChapters returns how many leading chapters this derivative shares
// with its parent. Defaults to the free preview boundary when the fork point
// was never recorded.
func (b *Book) InheritedChapters() int {
	if !b.IsDerivative() {
		return 0
	}
	if b.ParentChapters > 0 {
		return b.ParentChapters
	}
	return FreeChapterCount
}

// Normalize upgrades a book read from storage to the current schema layout.
// Older blobs predate schemaVersion, totalChapters and the attribution map,
// so every reader runs this before trusting the record.
func (b *Book) Normalize() {
	if b.ChapterMap == nil {
		b.ChapterMap = map[string]string{}
	}
	if b.OriginalAuthors == nil {
		b.OriginalAuthors = map[string]AuthorAttribution{}
	}
	// v1 blobs carried totalChapters maintained by hand; recompute so the
	// invariant totalChapters == len(chapterMap) holds regardless of what
	// the writer persisted.
	b.TotalChapters = len(b.ChapterMap)
	if b.SchemaVersion < BookSchemaVersion {
		b.SchemaVersion = BookSchemaVersion
	}
}

type FindBook struct {
	ID            *string `json:"id"`
	AuthorAddress *string `json:"authorAddress"`
	// ParentBook selects derivatives of the given book.
	ParentBook *string `json:"parentBook"`
	// DerivativesOnly selects every book with a parent set.
	DerivativesOnly bool `json:"derivativesOnly"`
}
