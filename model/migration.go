package model // import "github.com/storyhouse/storyhouse/model"

// MigrationCandidate is a derivative book selected by the scan phase, with
// the chapters it authored beyond the inherited branch point.
type MigrationCandidate struct {
	BookID             string   `json:"bookId"`
	ParentBookID       string   `json:"parentBookId"`
	AuthorAddress      string   `json:"authorAddress"`
	Slug               string   `json:"slug"`
	DerivativeChapters []string `json:"derivativeChapters"`
}

// ParentPlan groups every derivative of one parent with the conflict map and
// the final key each chapter will land under.
type ParentPlan struct {
	ParentBookID string               `json:"parentBookId"`
	Derivatives  []MigrationCandidate `json:"derivatives"`
	// ConflictingChapters maps a contested chapter key to the derivative
	// book ids that independently used it.
	ConflictingChapters map[string][]string `json:"conflictingChapters"`
	// Renames maps derivative book id -> original key -> final key under
	// the parent. Uncontested chapters keep their original key.
	Renames map[string]map[string]string `json:"renames"`
}

// MigrationPlan is the full output of the plan phase. DryRun returns it
// untouched; Execute acts on it verbatim.
type MigrationPlan struct {
	RunID       string                 `json:"runId"`
	GeneratedAt string                 `json:"generatedAt"`
	Parents     map[string]*ParentPlan `json:"parents"`
}

// BookMigrationResult records the outcome for a single derivative book.
// Failures never abort the rest of the run.
type BookMigrationResult struct {
	BookID        string `json:"bookId"`
	ParentBookID  string `json:"parentBookId"`
	Success       bool   `json:"success"`
	ChaptersMoved int    `json:"chaptersMoved"`
	Error         string `json:"error,omitempty"`
}

// MigrationReport aggregates per-book results of one run.
type MigrationReport struct {
	RunID     string                `json:"runId"`
	DryRun    bool                  `json:"dryRun"`
	Succeeded []BookMigrationResult `json:"succeeded"`
	Failed    []BookMigrationResult `json:"failed"`
}

// ResultFor returns the recorded result for a book id, if any.
func (r *MigrationReport) ResultFor(bookID string) (BookMigrationResult, bool) {
	for _, res := range r.Succeeded {
		if res.BookID == bookID {
			return res, true
		}
	}
	for _, res := range r.Failed {
		if res.BookID == bookID {
			return res, true
		}
	}
	return BookMigrationResult{}, false
}
