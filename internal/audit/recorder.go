// Package audit records who changed what in the directory. Entries land in the
// journal_audit table and, optionally, in a JSON-lines file for off-box
// retention. Audit writes are best-effort and asynchronous: a failed insert is
// counted and logged but never surfaces to the operation that triggered it.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
	"github.com/univ-annuaire/univ-annuaire/internal/telemetry"
)

// writeTimeout bounds each background audit write.
const writeTimeout = 5 * time.Second

// Store is the persistence side of the recorder.
type Store interface {
	Create(ctx context.Context, entry *models.JournalAudit) error
}

// Recorder writes audit entries in the background.
type Recorder struct {
	store   Store
	shipper Shipper
}

// NewRecorder creates a recorder over the given store. shipper may be nil.
func NewRecorder(store Store, shipper Shipper) *Recorder {
	return &Recorder{store: store, shipper: shipper}
}

// Record queues one audit entry. It returns immediately; the write happens in a
// detached goroutine with its own timeout so a slow audit table cannot hold up
// the request that caused the entry.
func (r *Recorder) Record(userID int64, action, cibleType string, cibleID *string, ancienne, nouvelle *string) {
	entry := &models.JournalAudit{
		UserAuteurID:   userID,
		TypeAction:     action,
		CibleType:      cibleType,
		CibleID:        cibleID,
		AncienneValeur: ancienne,
		NouvelleValeur: nouvelle,
		DateAction:     time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		if err := r.store.Create(ctx, entry); err != nil {
			telemetry.AuditWriteFailuresTotal.Inc()
			slog.Error("audit write failed",
				"action", action,
				"cible_type", cibleType,
				"error", err)
		}

		if r.shipper != nil {
			if err := r.shipper.Ship(ctx, entry); err != nil {
				slog.Error("audit ship failed", "action", action, "error", err)
			}
		}
	}()
}

// RecordChange is a convenience wrapper for mutations that have an id and a
// before/after pair.
func (r *Recorder) RecordChange(userID int64, action, cibleType string, cibleID int64, ancienne, nouvelle *string) {
	id := fmt.Sprintf("%d", cibleID)
	r.Record(userID, action, cibleType, &id, ancienne, nouvelle)
}
