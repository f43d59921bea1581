package store // import "github.com/storyhouse/storyhouse/store"

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/storyhouse/storyhouse/identity"
	"github.com/storyhouse/storyhouse/log"
)

const coverQuality = 80

// StoreCover re-encodes an uploaded cover image (jpeg or png) to webp and
// stores it under the book's namespace.
func (s *Store) StoreCover(ctx context.Context, authorAddress, slug string, img []byte) (string, error) {
	decoded, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return "", errors.Wrapf(err, "failed to decode cover for %s/%s", authorAddress, slug)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, decoded, &webp.Options{Quality: coverQuality}); err != nil {
		return "", errors.Wrapf(err, "failed to encode cover for %s/%s", authorAddress, slug)
	}

	url, err := s.objects.Put(ctx, identity.CoverKey(authorAddress, slug, "webp"), buf.Bytes(), "image/webp", nil)
	if err != nil {
		return "", errors.Wrapf(err, "failed to store cover for %s/%s", authorAddress, slug)
	}
	return url, nil
}

// GetCover returns the stored webp cover bytes.
func (s *Store) GetCover(ctx context.Context, authorAddress, slug string) ([]byte, error) {
	obj, err := s.objects.Get(ctx, identity.CoverKey(authorAddress, slug, "webp"))
	if err != nil {
		return nil, err
	}
	return obj.Data, nil
}

// DeleteCover removes a book's cover, best-effort. Failures are logged and
// swallowed since a stale cover never blocks anything.
func (s *Store) DeleteCover(ctx context.Context, authorAddress, slug string) {
	if err := s.objects.Delete(ctx, identity.CoverKey(authorAddress, slug, "webp")); err != nil {
		log.Warn("Failed to delete cover",
			zap.String("author", authorAddress),
			zap.String("slug", slug),
			zap.Error(err))
	}
}
