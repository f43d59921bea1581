package worker // import "github.com/storyhouse/storyhouse/worker"

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"github.com/storyhouse/storyhouse/chain"
	"github.com/storyhouse/storyhouse/log"
	"github.com/storyhouse/storyhouse/model"
	"github.com/storyhouse/storyhouse/store"
)

// RegistrationWorker anchors published chapters on-chain and writes the
// receipts back onto the chapter record.
type RegistrationWorker struct {
	id     int
	store  *store.Store
	client chain.Client
}

func (w *RegistrationWorker) Run(c <-chan model.Job) {
	log.Debug("RegistrationWorker is running", zap.Int("worker_id", w.id))

	for job := range c {
		log.Debug("Job received by worker",
			zap.Int("worker_id", w.id),
			zap.String("book_id", job.BookID),
			zap.String("chapter_key", job.ChapterKey))

		payload, ok := job.Item.(*model.RegistrationPayload)
		if !ok {
			log.Error("Registration job without payload", zap.Int("job_id", job.ID))
			continue
		}

		hash := sha256.Sum256([]byte(payload.Chapter.Content))
		receipt, err := w.client.RegisterIPAsset(context.Background(), chain.RegisterRequest{
			BookID:        job.BookID,
			ChapterKey:    job.ChapterKey,
			AuthorAddress: payload.AuthorAddress,
			Tier:          payload.Tier,
			ContentHash:   hex.EncodeToString(hash[:]),
		})
		if err != nil {
			log.Error("Failed to register IP asset",
				zap.String("book_id", job.BookID),
				zap.String("chapter_key", job.ChapterKey),
				zap.Error(err))
			if err := w.store.UpdateJobStatus(job.ID, model.JobStatusFailed, err.Error()); err != nil {
				log.Error("Failed to update job status", zap.Error(err))
			}
			continue
		}

		if err := w.store.UpdateChapterAnchors(context.Background(),
			payload.AuthorAddress, payload.Slug, payload.Chapter.ChapterNumber,
			receipt.IPAssetID, receipt.LicenseTermsID, receipt.TransactionHash); err != nil {
			log.Error("Failed to persist chapter anchors",
				zap.String("book_id", job.BookID),
				zap.String("chapter_key", job.ChapterKey),
				zap.Error(err))
			if err := w.store.UpdateJobStatus(job.ID, model.JobStatusFailed, err.Error()); err != nil {
				log.Error("Failed to update job status", zap.Error(err))
			}
			continue
		}

		detail := fmt.Sprintf("ipAssetId=%s tx=%s", receipt.IPAssetID, receipt.TransactionHash)
		if err := w.store.UpdateJobStatus(job.ID, model.JobStatusDone, detail); err != nil {
			log.Error("Failed to update job status", zap.Error(err))
		}
	}
}
