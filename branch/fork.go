package branch // import "github.com/storyhouse/storyhouse/branch"

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/storyhouse/storyhouse/identity"
	"github.com/storyhouse/storyhouse/log"
	"github.com/storyhouse/storyhouse/model"
)

// ForkRequest creates a derivative book from a chapter of a parent book.
type ForkRequest struct {
	ParentBookID  string            `json:"parentBookId"`
	BranchPoint   string            `json:"branchPoint"`
	AuthorAddress string            `json:"authorAddress"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	Tier          model.LicenseTier `json:"tier,omitempty"`
}

// Fork registers a new derivative. The child inherits every parent chapter
// up to and including the branch point; its chapter map entries point at the
// parent's content objects, nothing is copied. When the parent is anchored
// on-chain a derivative license is minted against its IP asset; the child
// still never carries the parent's ipAssetId. The parent's derivative list
// is updated best-effort.
func (m *Manager) Fork(ctx context.Context, req ForkRequest) (*model.Book, error) {
	branchNumber, err := identity.ParseChapterKey(req.BranchPoint)
	if err != nil {
		return nil, err
	}

	parentAuthor, parentSlug, err := identity.ParseBookID(req.ParentBookID)
	if err != nil {
		return nil, err
	}
	parent, err := m.store.GetBookMetadata(ctx, req.ParentBookID)
	if err != nil {
		return nil, err
	}
	if _, ok := parent.ChapterMap[req.BranchPoint]; !ok {
		return nil, errors.Errorf("branch point %s does not exist in parent %s", req.BranchPoint, parent.ID)
	}

	slug := identity.Slugify(req.Title)
	if slug == "" {
		return nil, errors.Errorf("title %q yields an empty slug", req.Title)
	}

	now := m.now().UTC().Format(time.RFC3339)
	child := &model.Book{
		ID:             identity.BookID(req.AuthorAddress, slug),
		Title:          req.Title,
		Slug:           slug,
		AuthorAddress:  req.AuthorAddress,
		Description:    req.Description,
		ChapterMap:     map[string]string{},
		ParentBook:     parent.ID,
		BranchPoint:    req.BranchPoint,
		ParentChapters: branchNumber,
		OriginalAuthors: map[string]model.AuthorAttribution{
			parent.AuthorAddress: {},
		},
		SchemaVersion: model.BookSchemaVersion,
		CreatedAt:     now,
	}

	// Inherit the shared opening chapters by reference.
	attribution := child.OriginalAuthors[parent.AuthorAddress]
	for n := 1; n <= branchNumber; n++ {
		key, _ := identity.ChapterKey(n)
		locator, ok := parent.ChapterMap[key]
		if !ok {
			continue
		}
		child.ChapterMap[key] = locator
		attribution.Chapters = append(attribution.Chapters, key)
	}
	child.OriginalAuthors[parent.AuthorAddress] = attribution

	if parent.IPAssetID != "" {
		tier := req.Tier
		if tier == "" {
			tier = model.TierFree
		}
		receipt, err := m.chain.MintLicense(ctx, parent.IPAssetID, tier)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to mint derivative license from parent %s", parent.ID)
		}
		child.LicenseTermsID = receipt.LicenseTermsID
		child.TransactionHash = receipt.TransactionHash
	}

	author, childSlug, err := identity.ParseBookID(child.ID)
	if err != nil {
		return nil, err
	}
	if _, err := m.store.StoreBookMetadata(ctx, author, childSlug, child); err != nil {
		return nil, err
	}

	if !containsString(parent.DerivativeBooks, child.ID) {
		parent.DerivativeBooks = append(parent.DerivativeBooks, child.ID)
		if _, err := m.store.StoreBookMetadata(ctx, parentAuthor, parentSlug, parent); err != nil {
			// The link on the parent is best-effort; the child's
			// parentBook pointer is authoritative.
			log.Warn("Failed to link derivative on parent",
				zap.String("parent", parent.ID),
				zap.String("child", child.ID),
				zap.Error(err))
		}
	}

	return child, nil
}
