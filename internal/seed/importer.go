package seed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Nasirkc/smart-bookmark/internal/domain"
	"github.com/Nasirkc/smart-bookmark/internal/logger"
)

// importStore is the subset of the store the importer needs.
type importStore interface {
	Import(ctx context.Context, b domain.Bookmark) (bool, error)
}

// Importer writes seed entries into the store without clobbering
// bookmarks that already exist.
type Importer struct {
	store importStore
	log   logger.Logger
}

// NewImporter creates a new seed importer
func NewImporter(store importStore, log logger.Logger) *Importer {
	return &Importer{
		store: store,
		log:   log,
	}
}

// Run imports every valid entry for ownerID and returns how many were
// newly created. Invalid entries are skipped with a warning, not fatal:
// a bad line in a seed file should not block startup.
func (i *Importer) Run(ctx context.Context, ownerID string, f File) (int, error) {
	if ownerID == "" {
		ownerID = f.Owner
	}
	if ownerID == "" {
		return 0, fmt.Errorf("seed import requires an owner id")
	}

	now := time.Now().UTC()
	created := 0

	for _, entry := range f.Bookmarks {
		title, url, verr := domain.ValidateCreate(entry.Title, entry.URL)
		if verr != nil {
			i.log.Warnf("skipping invalid seed entry %q: %v", entry.Title, verr)
			continue
		}

		b := domain.Bookmark{
			ID:        seedID(ownerID, url),
			OwnerID:   ownerID,
			Title:     title,
			URL:       url,
			CreatedAt: now,
		}

		ok, err := i.store.Import(ctx, b)
		if err != nil {
			return created, fmt.Errorf("failed to import %q: %w", title, err)
		}
		if ok {
			created++
		}
	}

	i.log.Infof("seed import done: %d created, %d entries", created, len(f.Bookmarks))
	return created, nil
}

// seedID derives a stable id from the owner and URL so repeated imports
// of the same file land on the same keys.
func seedID(ownerID, url string) string {
	hash := sha256.Sum256([]byte(ownerID + "|" + url))
	return hex.EncodeToString(hash[:])[:16]
}
