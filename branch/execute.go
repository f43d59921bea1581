package branch // import "github.com/storyhouse/storyhouse/branch"

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/storyhouse/storyhouse/identity"
	"github.com/storyhouse/storyhouse/log"
	"github.com/storyhouse/storyhouse/model"
)

// Execute migrates every planned derivative chapter into its parent. Each
// derivative either succeeds or fails on its own; a failure never aborts the
// rest of the run. The parent metadata is persisted after every derivative
// so earlier successes survive later failures. Re-running the same plan is
// safe: copies land on the same keys and the parent map converges, at the
// cost of duplicate audit notes, which are tolerated.
func (m *Manager) Execute(ctx context.Context, plan *model.MigrationPlan) *model.MigrationReport {
	report := &model.MigrationReport{RunID: plan.RunID}
	backupStamp := fmt.Sprintf("%d", m.now().UTC().Unix())

	parentIDs := make([]string, 0, len(plan.Parents))
	for id := range plan.Parents {
		parentIDs = append(parentIDs, id)
	}
	sort.Strings(parentIDs)

	for _, parentID := range parentIDs {
		m.executeParent(ctx, plan.Parents[parentID], backupStamp, report)
	}

	for _, result := range append(report.Succeeded, report.Failed...) {
		if err := m.store.AddMigrationRecord(result, plan.RunID); err != nil {
			log.Warn("Failed to record migration history", zap.Error(err))
		}
	}
	return report
}

func (m *Manager) executeParent(ctx context.Context, parentPlan *model.ParentPlan, backupStamp string, report *model.MigrationReport) {
	failAll := func(err error) {
		for _, d := range parentPlan.Derivatives {
			report.Failed = append(report.Failed, model.BookMigrationResult{
				BookID:       d.BookID,
				ParentBookID: parentPlan.ParentBookID,
				Error:        err.Error(),
			})
		}
	}

	parentAuthor, parentSlug, err := identity.ParseBookID(parentPlan.ParentBookID)
	if err != nil {
		failAll(err)
		return
	}
	parent, err := m.store.GetBookMetadata(ctx, parentPlan.ParentBookID)
	if err != nil {
		failAll(err)
		return
	}

	// Snapshot the parent before touching it. Without the backup a
	// half-written chapter map can not be rolled back by hand.
	metadataKey := identity.BookMetadataKey(parentAuthor, parentSlug)
	backupKey := identity.MigrationBackupKey(backupStamp, parentPlan.ParentBookID)
	if err := m.store.CopyObject(ctx, metadataKey, backupKey); err != nil {
		failAll(err)
		return
	}

	for _, d := range parentPlan.Derivatives {
		result := m.migrateDerivative(ctx, parent, parentAuthor, parentSlug, d, parentPlan.Renames[d.BookID])
		if result.Success {
			report.Succeeded = append(report.Succeeded, result)
		} else {
			report.Failed = append(report.Failed, result)
		}
	}
}

func (m *Manager) migrateDerivative(ctx context.Context, parent *model.Book, parentAuthor, parentSlug string, d model.MigrationCandidate, renames map[string]string) model.BookMigrationResult {
	result := model.BookMigrationResult{
		BookID:       d.BookID,
		ParentBookID: parent.ID,
	}

	// Copies are staged before touching the parent's chapter map so a
	// failure half way through leaves the in-memory parent untouched.
	// Already copied objects are harmless: a retry re-copies the same
	// content to the same keys.
	staged := map[string]string{}
	for _, key := range d.DerivativeChapters {
		final, ok := renames[key]
		if !ok {
			final = key
		}
		srcKey := identity.ChapterContentKey(d.AuthorAddress, d.Slug, key)
		dstKey := identity.ChapterContentKey(parentAuthor, parentSlug, final)

		if existing, present := parent.ChapterMap[final]; present && existing != dstKey {
			// The final key is taken by different content. The plan
			// only resolves conflicts between derivatives, so this
			// means the parent itself grew a chapter here since the
			// scan.
			result.Error = fmt.Sprintf("chapter key %s already present in parent %s", final, parent.ID)
			return result
		}

		if err := m.store.CopyObject(ctx, srcKey, dstKey); err != nil {
			result.Error = err.Error()
			return result
		}
		staged[final] = dstKey
	}

	for final, dstKey := range staged {
		parent.ChapterMap[final] = dstKey
		result.ChaptersMoved++
	}

	attribution := parent.OriginalAuthors[d.AuthorAddress]
	for _, key := range d.DerivativeChapters {
		final, ok := renames[key]
		if !ok {
			final = key
		}
		if !containsString(attribution.Chapters, final) {
			attribution.Chapters = append(attribution.Chapters, final)
		}
	}
	parent.OriginalAuthors[d.AuthorAddress] = attribution

	if !containsString(parent.DerivativeBooks, d.BookID) {
		parent.DerivativeBooks = append(parent.DerivativeBooks, d.BookID)
	}

	parent.AuditLog = append(parent.AuditLog, model.AuditNote{
		Source:    d.BookID,
		Chapters:  result.ChaptersMoved,
		Timestamp: m.now().UTC().Format(time.RFC3339),
		Note:      "derivative chapters merged",
	})

	// StoreBookMetadata normalizes, so totalChapters is recomputed from the
	// grown chapter map here.
	if _, err := m.store.StoreBookMetadata(ctx, parentAuthor, parentSlug, parent); err != nil {
		// The cached record no longer matches storage; force the next
		// reader to reload.
		m.store.InvalidateBook(parent.ID)
		result.Error = err.Error()
		return result
	}

	result.Success = true
	return result
}

// Cleanup deletes the storage objects of derivative chapters whose migration
// succeeded in this run. Opt-in, and idempotent: deleting an already absent
// object is not an error. Books whose migration failed are left untouched.
func (m *Manager) Cleanup(ctx context.Context, plan *model.MigrationPlan, report *model.MigrationReport) int {
	deleted := 0
	for _, parentPlan := range plan.Parents {
		for _, d := range parentPlan.Derivatives {
			result, ok := report.ResultFor(d.BookID)
			if !ok || !result.Success {
				continue
			}
			for _, key := range d.DerivativeChapters {
				srcKey := identity.ChapterContentKey(d.AuthorAddress, d.Slug, key)
				if err := m.store.DeleteObject(ctx, srcKey); err != nil {
					log.Warn("Failed to clean up migrated chapter",
						zap.String("book_id", d.BookID),
						zap.String("key", srcKey),
						zap.Error(err))
					continue
				}
				deleted++
			}
		}
	}
	return deleted
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
