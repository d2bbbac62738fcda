package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/driveatlas/drive-mirror/internal/models"
)

// CreateRun records the start of a sync run, keyed by its sync id.
func (s *Store) CreateRun(ctx context.Context, run models.SyncRun) error {
	now := time.Now().UTC()
	run.CreatedAt = now
	run.UpdatedAt = now

	if _, err := s.client.Collection(CollectionRuns).Doc(run.SyncID).Set(ctx, run); err != nil {
		return fmt.Errorf("recording run %s: %w", run.SyncID, err)
	}

	return nil
}

// UpdateRunProgress writes the current counters and error list of an
// in-flight run.
func (s *Store) UpdateRunProgress(ctx context.Context, syncID string, stats models.SyncStats) error {
	updates := []firestore.Update{
		{Path: "drives_count", Value: stats.DrivesCount},
		{Path: "folders_count", Value: stats.FoldersCount},
		{Path: "managers_count", Value: stats.ManagersCount},
		{Path: "errors", Value: stats.Errors},
		{Path: "updated_at", Value: time.Now().UTC()},
	}

	if _, err := s.client.Collection(CollectionRuns).Doc(syncID).Update(ctx, updates); err != nil {
		return fmt.Errorf("updating run %s: %w", syncID, err)
	}

	return nil
}

// CompleteRun finalizes the run record with its terminal state.
func (s *Store) CompleteRun(ctx context.Context, run models.SyncRun) error {
	now := time.Now().UTC()
	run.UpdatedAt = now
	run.CompletedAt = now

	if _, err := s.client.Collection(CollectionRuns).Doc(run.SyncID).Set(ctx, run); err != nil {
		return fmt.Errorf("completing run %s: %w", run.SyncID, err)
	}

	return nil
}

// GetStatus reads the singleton status document. A missing document
// reports idle rather than an error.
func (s *Store) GetStatus(ctx context.Context) (models.SyncStatus, error) {
	snap, err := s.client.Collection(CollectionStatus).Doc(statusDocID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return models.SyncStatus{Status: models.StatusIdle}, nil
	}

	if err != nil {
		return models.SyncStatus{}, fmt.Errorf("reading sync status: %w", err)
	}

	var st models.SyncStatus
	if err := snap.DataTo(&st); err != nil {
		return models.SyncStatus{}, fmt.Errorf("decoding sync status: %w", err)
	}

	return st, nil
}

// SetStatus overwrites the singleton status document with a merge so
// fields another writer may have added survive.
func (s *Store) SetStatus(ctx context.Context, st models.SyncStatus) error {
	st.UpdatedAt = time.Now().UTC()

	data := map[string]any{
		"status":          st.Status,
		"current_sync_id": st.CurrentSyncID,
		"updated_at":      st.UpdatedAt,
	}

	if st.LastSync != nil {
		data["last_sync"] = *st.LastSync
	}

	if _, err := s.client.Collection(CollectionStatus).Doc(statusDocID).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("writing sync status: %w", err)
	}

	return nil
}

// PruneRuns deletes all but the keepLast most-recent run records, ordered
// by start time descending. Returns the number deleted.
func (s *Store) PruneRuns(ctx context.Context, keepLast int) (int, error) {
	it := s.client.Collection(CollectionRuns).
		OrderBy("start_time", firestore.Desc).
		Offset(keepLast).
		Select().
		Documents(ctx)
	defer it.Stop()

	var refs []*firestore.DocumentRef

	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}

		if err != nil {
			return 0, fmt.Errorf("listing prunable runs: %w", err)
		}

		refs = append(refs, doc.Ref)
	}

	deleted := 0

	for _, part := range chunk(refs, maxBatchSize) {
		batch := s.client.Batch()
		for _, ref := range part {
			batch.Delete(ref)
		}

		if _, err := batch.Commit(ctx); err != nil {
			return deleted, fmt.Errorf("deleting old runs: %w", err)
		}

		deleted += len(part)
	}

	if deleted > 0 {
		s.logger.Info("pruned old sync runs",
			slog.Int("deleted", deleted),
			slog.Int("kept", keepLast),
		)
	}

	return deleted, nil
}
