// Package pipecmd holds the curator subcommands. Each constructor returns a
// cobra command whose RunE delegates to an execute function, keeping the flag
// plumbing separate from the work.
package pipecmd

import (
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/sablewood-photography/curator/internal/cloudinary"
	"github.com/sablewood-photography/curator/internal/config"
	"github.com/sablewood-photography/curator/internal/gallery"
	"github.com/sablewood-photography/curator/internal/merge"
)

// acquireLock takes the single-process lock. Two concurrent runs would race
// on the store file and the ID sequences, so the second one is refused.
func acquireLock(cfg config.Config) (*flock.Flock, error) {
	lock := flock.New(cfg.LockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another curator run is already in progress (lock: %s)", cfg.LockPath)
	}
	return lock, nil
}

// openMerger loads the store and wires the merger, with the CDN uploader
// attached only when its credentials are configured.
func openMerger(cfg config.Config) (*gallery.Store, *merge.Merger, error) {
	store, err := gallery.LoadStore(cfg.StorePath)
	if err != nil {
		return nil, nil, err
	}

	var uploader *cloudinary.Client
	if client, ok := cloudinary.NewFromEnv(); ok {
		uploader = client
	}

	return store, merge.New(store, cfg.ImagesDir, cfg.ThumbsDir, uploader), nil
}

// pause throttles between model calls to stay under provider rate limits.
func pause(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
