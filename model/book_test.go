package model

import (
	"encoding/json"
	"testing"
)

func TestNormalize(t *testing.T) {
	book := &Book{
		ID: "0xabc-some-book",
		ChapterMap: map[string]string{
			"ch1": "a",
			"ch2": "b",
		},
		TotalChapters: 42,
	}
	book.Normalize()

	if book.TotalChapters != 2 {
		t.Errorf("TotalChapters = %d, want recomputed 2", book.TotalChapters)
	}
	if book.SchemaVersion != BookSchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", book.SchemaVersion, BookSchemaVersion)
	}
	if book.OriginalAuthors == nil {
		t.Error("OriginalAuthors should be initialized")
	}
}

func TestNormalizeLegacyJSON(t *testing.T) {
	// A v1 blob: no chapterMap, no schemaVersion.
	book := &Book{}
	if err := json.Unmarshal([]byte(`{"id":"0xabc-old","title":"Old"}`), book); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	book.Normalize()

	if book.ChapterMap == nil || book.TotalChapters != 0 {
		t.Errorf("Legacy blob not upgraded: %+v", book)
	}
	if book.SchemaVersion != BookSchemaVersion {
		t.Errorf("SchemaVersion = %d", book.SchemaVersion)
	}
}

func TestInheritedChapters(t *testing.T) {
	root := &Book{}
	if root.InheritedChapters() != 0 {
		t.Errorf("Root books inherit nothing, got %d", root.InheritedChapters())
	}

	derivative := &Book{ParentBook: "0xabc-parent"}
	if derivative.InheritedChapters() != FreeChapterCount {
		t.Errorf("Default inheritance = %d, want %d", derivative.InheritedChapters(), FreeChapterCount)
	}

	derivative.ParentChapters = 5
	if derivative.InheritedChapters() != 5 {
		t.Errorf("Recorded fork point should win, got %d", derivative.InheritedChapters())
	}
}

func TestIsDerivative(t *testing.T) {
	if (&Book{}).IsDerivative() {
		t.Error("Book without a parent is not a derivative")
	}
	if !(&Book{ParentBook: "0xabc-parent"}).IsDerivative() {
		t.Error("Book with a parent is a derivative")
	}
}

func TestMigrationReportResultFor(t *testing.T) {
	report := &MigrationReport{
		Succeeded: []BookMigrationResult{{BookID: "a", Success: true}},
		Failed:    []BookMigrationResult{{BookID: "b", Error: "boom"}},
	}

	if r, ok := report.ResultFor("a"); !ok || !r.Success {
		t.Errorf("ResultFor(a) = %+v, %v", r, ok)
	}
	if r, ok := report.ResultFor("b"); !ok || r.Success || r.Error != "boom" {
		t.Errorf("ResultFor(b) = %+v, %v", r, ok)
	}
	if _, ok := report.ResultFor("c"); ok {
		t.Error("ResultFor on unknown book should report not found")
	}
}
