package store // import "github.com/storyhouse/storyhouse/store"

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/storyhouse/storyhouse/identity"
	"github.com/storyhouse/storyhouse/model"
	"github.com/storyhouse/storyhouse/storage"
)

// ErrChapterNotFound is returned when a chapter's content object is missing.
var ErrChapterNotFound = errors.New("store: chapter not found")

// GetChapterContent loads chapter n of a book.
func (s *Store) GetChapterContent(ctx context.Context, authorAddress, slug string, chapterNumber int) (*model.Chapter, error) {
	key, err := identity.ChapterKey(chapterNumber)
	if err != nil {
		return nil, err
	}
	return s.GetChapterByKey(ctx, authorAddress, slug, key)
}

// GetChapterByKey loads a chapter by its chapter map key, which may be a
// conflict-renamed key.
func (s *Store) GetChapterByKey(ctx context.Context, authorAddress, slug, chapterKey string) (*model.Chapter, error) {
	obj, err := s.objects.Get(ctx, identity.ChapterContentKey(authorAddress, slug, chapterKey))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, errors.Wrapf(ErrChapterNotFound, "chapter %s of %s/%s", chapterKey, authorAddress, slug)
		}
		return nil, errors.Wrapf(err, "failed to load chapter %s of %s/%s", chapterKey, authorAddress, slug)
	}

	chapter := &model.Chapter{}
	if err := json.Unmarshal(obj.Data, chapter); err != nil {
		return nil, errors.Wrapf(err, "corrupt chapter %s of %s/%s", chapterKey, authorAddress, slug)
	}
	return chapter, nil
}

// StoreChapterContent persists a chapter and returns the locator URL.
// Anchored chapters are immutable; overwriting one is rejected.
func (s *Store) StoreChapterContent(ctx context.Context, authorAddress, slug string, chapterNumber int, chapter *model.Chapter) (string, error) {
	key, err := identity.ChapterKey(chapterNumber)
	if err != nil {
		return "", err
	}

	existing, err := s.GetChapterByKey(ctx, authorAddress, slug, key)
	if err == nil && existing.IsAnchored() {
		return "", errors.Errorf("chapter %s of %s/%s is anchored on-chain and immutable", key, authorAddress, slug)
	}

	data, err := json.Marshal(chapter)
	if err != nil {
		return "", errors.Wrapf(err, "failed to marshal chapter %s of %s/%s", key, authorAddress, slug)
	}

	url, err := s.objects.Put(ctx, identity.ChapterContentKey(authorAddress, slug, key), data, jsonContentType, nil)
	if err != nil {
		return "", errors.Wrapf(err, "failed to store chapter %s of %s/%s", key, authorAddress, slug)
	}
	return url, nil
}

// UpdateChapterAnchors writes on-chain receipts onto an already stored
// chapter. This is the one permitted mutation of an anchored chapter since
// it is what anchors it.
func (s *Store) UpdateChapterAnchors(ctx context.Context, authorAddress, slug string, chapterNumber int, ipAssetID, licenseTermsID, txHash string) error {
	chapter, err := s.GetChapterContent(ctx, authorAddress, slug, chapterNumber)
	if err != nil {
		return err
	}
	chapter.IPAssetID = ipAssetID
	chapter.LicenseTermsID = licenseTermsID
	chapter.TransactionHash = txHash

	key, _ := identity.ChapterKey(chapterNumber)
	data, err := json.Marshal(chapter)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal chapter %s of %s/%s", key, authorAddress, slug)
	}
	_, err = s.objects.Put(ctx, identity.ChapterContentKey(authorAddress, slug, key), data, jsonContentType, nil)
	return err
}
