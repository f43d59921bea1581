// Package branch models derivative books that fork from a chapter of a
// parent book, and migrates derivative-authored chapters back into the
// parent's canonical chapter map with collision-safe renaming.
package branch // import "github.com/storyhouse/storyhouse/branch"

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storyhouse/storyhouse/chain"
	"github.com/storyhouse/storyhouse/identity"
	"github.com/storyhouse/storyhouse/log"
	"github.com/storyhouse/storyhouse/model"
	"github.com/storyhouse/storyhouse/store"
)

// Manager runs the Scan -> Plan -> (DryRun | Execute) -> [Cleanup] state
// machine. One run mutates one parent at a time, sequentially; concurrent
// runs against the same parent need external mutual exclusion.
type Manager struct {
	store *store.Store
	chain chain.Client

	now      func() time.Time
	newRunID func() string
}

func NewManager(s *store.Store, client chain.Client) *Manager {
	return &Manager{
		store:    s,
		chain:    client,
		now:      time.Now,
		newRunID: func() string { return uuid.New().String() },
	}
}

// Scan enumerates every book, selects the derivatives and computes the
// chapters each one authored beyond its inherited branch point. Unreadable
// books are skipped, not fatal.
func (m *Manager) Scan(ctx context.Context) ([]model.MigrationCandidate, error) {
	books, err := m.store.ListBooks(ctx, &model.FindBook{DerivativesOnly: true})
	if err != nil {
		return nil, err
	}

	var candidates []model.MigrationCandidate
	for _, book := range books {
		author, slug, err := identity.ParseBookID(book.ID)
		if err != nil {
			log.Warn("Skipping derivative with malformed id",
				zap.String("book_id", book.ID), zap.Error(err))
			continue
		}

		inherited := book.InheritedChapters()
		var chapters []string
		for key := range book.ChapterMap {
			n, ok := identity.KeyNumber(key)
			if !ok {
				log.Warn("Skipping unparseable chapter key",
					zap.String("book_id", book.ID), zap.String("chapter_key", key))
				continue
			}
			if n > inherited {
				chapters = append(chapters, key)
			}
		}
		if len(chapters) == 0 {
			continue
		}
		sortChapterKeys(chapters)

		candidates = append(candidates, model.MigrationCandidate{
			BookID:             book.ID,
			ParentBookID:       book.ParentBook,
			AuthorAddress:      author,
			Slug:               slug,
			DerivativeChapters: chapters,
		})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].BookID < candidates[j].BookID })
	return candidates, nil
}

// Plan groups candidates by parent, detects chapter keys contested by two or
// more derivatives, and assigns every chapter its final key under the
// parent. Deterministic: the same candidates always produce the same plan.
func (m *Manager) Plan(candidates []model.MigrationCandidate) *model.MigrationPlan {
	plan := &model.MigrationPlan{
		RunID:       m.newRunID(),
		GeneratedAt: m.now().UTC().Format(time.RFC3339),
		Parents:     map[string]*model.ParentPlan{},
	}

	for _, candidate := range candidates {
		parent, ok := plan.Parents[candidate.ParentBookID]
		if !ok {
			parent = &model.ParentPlan{
				ParentBookID:        candidate.ParentBookID,
				ConflictingChapters: map[string][]string{},
				Renames:             map[string]map[string]string{},
			}
			plan.Parents[candidate.ParentBookID] = parent
		}
		parent.Derivatives = append(parent.Derivatives, candidate)
	}

	for _, parent := range plan.Parents {
		sort.Slice(parent.Derivatives, func(i, j int) bool {
			return parent.Derivatives[i].BookID < parent.Derivatives[j].BookID
		})

		// A chapter key is contested when two or more derivatives of
		// this parent used it independently.
		claims := map[string][]string{}
		for _, d := range parent.Derivatives {
			for _, key := range d.DerivativeChapters {
				claims[key] = append(claims[key], d.BookID)
			}
		}
		for key, books := range claims {
			if len(books) > 1 {
				parent.ConflictingChapters[key] = books
			}
		}

		used := map[string]bool{}
		for _, d := range parent.Derivatives {
			renames := map[string]string{}
			for _, key := range d.DerivativeChapters {
				final := key
				if len(parent.ConflictingChapters[key]) > 1 {
					final = key + "-" + identity.ConflictSuffix(d.AuthorAddress)
				}
				// Address suffixes are not collision-proof; fall
				// back to the derivative slug, then a counter.
				if used[final] {
					final = final + "-" + d.Slug
				}
				base := final
				for i := 2; used[final]; i++ {
					final = fmt.Sprintf("%s-%d", base, i)
				}
				used[final] = true
				renames[key] = final
			}
			parent.Renames[d.BookID] = renames
		}
	}

	return plan
}

// DryRun performs Scan and Plan and reports the result without any writes.
// Given the same storage snapshot it returns exactly the plan Execute would
// act on.
func (m *Manager) DryRun(ctx context.Context) (*model.MigrationPlan, error) {
	candidates, err := m.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return m.Plan(candidates), nil
}

func sortChapterKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		ni, _ := identity.KeyNumber(keys[i])
		nj, _ := identity.KeyNumber(keys[j])
		if ni != nj {
			return ni < nj
		}
		return keys[i] < keys[j]
	})
}
