package moments

import (
	"context"
	"fmt"
	"time"

	"github.com/mxkvch/valentine/internal/logger"
)

// Migrator rewrites legacy images fields to the canonical flat []string form.
// It runs once at startup, before the service accepts requests, and blocks
// readiness until it finishes.
type Migrator struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewMigrator(repo Repository, log logger.Logger) *Migrator {
	return &Migrator{repo: repo, log: log, now: time.Now}
}

// Run normalizes every stored record in strict mode and persists the result
// when it differs from the stored value. A record that cannot be normalized
// aborts the whole pass: a dirty record must be fixed explicitly, not
// silently dropped. Rerunning over clean data performs zero writes.
func (m *Migrator) Run(ctx context.Context) (int, error) {
	migrated := 0

	err := m.repo.ForEach(ctx, func(doc Document) error {
		normalized, err := NormalizeStoredImages(doc.Images, doc.ID.Hex(), true, m.log)
		if err != nil {
			return fmt.Errorf("moment %q has invalid legacy images and cannot be migrated: %w", doc.ID.Hex(), err)
		}

		if imagesEqual(doc.Images, normalized) {
			return nil
		}

		if err := m.repo.SetImages(ctx, doc.ID, normalized, m.now().UTC()); err != nil {
			return err
		}
		migrated++
		return nil
	})
	if err != nil {
		return migrated, err
	}

	if migrated > 0 {
		m.log.Info("migrated moment documents to images=string[]",
			logger.Int("count", migrated))
	}
	return migrated, nil
}
