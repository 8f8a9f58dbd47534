package tasks

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/openshelf/librarium/internal/entities"
	"github.com/openshelf/librarium/internal/imaging"
)

// ImageStore provides access to stored article images.
type ImageStore interface {
	FindAll() ([]entities.Article, error)
	Save(article *entities.Article) error
}

// RecompressImagesTask re-encodes every stored article image at the current
// compression level. Useful after importing data written by an older build.
type RecompressImagesTask struct{}

// Config returns the queue configuration for image recompression.
func (t RecompressImagesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "recompress_images",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RecompressImagesProcessor creates a processor function for RecompressImagesTask.
func RecompressImagesProcessor(store ImageStore) backlite.QueueProcessor[RecompressImagesTask] {
	return func(ctx context.Context, task RecompressImagesTask) error {
		if store == nil {
			return fmt.Errorf("image store not configured")
		}

		articles, err := store.FindAll()
		if err != nil {
			return fmt.Errorf("recompress images: %w", err)
		}

		var updated, skipped int
		for i := range articles {
			if err := ctx.Err(); err != nil {
				return err
			}

			article := &articles[i]
			if len(article.Image) == 0 {
				continue
			}

			raw, err := imaging.Decompress(article.Image)
			if err != nil {
				// Leave unreadable blobs in place for inspection
				log.Printf("[TASK] Skipping unreadable image for article %d: %v", article.ID, err)
				skipped++
				continue
			}

			recompressed, err := imaging.Compress(raw)
			if err != nil {
				return fmt.Errorf("recompress article %d: %w", article.ID, err)
			}
			if bytes.Equal(recompressed, article.Image) {
				continue
			}

			article.Image = recompressed
			if err := store.Save(article); err != nil {
				return fmt.Errorf("save article %d: %w", article.ID, err)
			}
			updated++
		}

		log.Printf("[TASK] Recompressed %d images (%d skipped)", updated, skipped)
		return nil
	}
}

// NewRecompressImagesQueue creates a backlite queue for image recompression,
// honoring the retry and timeout settings in cfg.
func NewRecompressImagesQueue(store ImageStore, cfg Config) backlite.Queue {
	return applyQueueSettings(backlite.NewQueue(RecompressImagesProcessor(store)), cfg)
}
