// Package mirror persists the mirrored shared-drive state in Firestore.
package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/driveatlas/drive-mirror/internal/models"
)

// Logical collections of the mirror.
const (
	CollectionDrives   = "drives"
	CollectionFolders  = "folders"
	CollectionManagers = "managers"
	CollectionRuns     = "sync_runs"
	CollectionStatus   = "sync_status"

	statusDocID = "current"
)

// Store is the Firestore adapter for the mirror. All multi-record writes
// are issued in batches of at most maxBatchSize operations; each batch
// commits atomically, sequences of batches do not.
type Store struct {
	client *firestore.Client
	logger *slog.Logger
}

// NewStore connects to the Firestore database in the given project.
func NewStore(ctx context.Context, projectID, database string, logger *slog.Logger) (*Store, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, logger: logger}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// ListDrives returns every mirrored drive record.
func (s *Store) ListDrives(ctx context.Context) ([]models.Drive, error) {
	var drives []models.Drive

	it := s.client.Collection(CollectionDrives).Documents(ctx)
	defer it.Stop()

	for {
		doc, err := it.Next()
		if err == iterator.Done {
			return drives, nil
		}

		if err != nil {
			return nil, fmt.Errorf("listing mirrored drives: %w", err)
		}

		var d models.Drive
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decoding drive %s: %w", doc.Ref.ID, err)
		}

		drives = append(drives, d)
	}
}

// DriveIDs returns the ids of all mirrored drives without transferring
// full records.
func (s *Store) DriveIDs(ctx context.Context) ([]string, error) {
	var ids []string

	it := s.client.Collection(CollectionDrives).Select().Documents(ctx)
	defer it.Stop()

	for {
		doc, err := it.Next()
		if err == iterator.Done {
			return ids, nil
		}

		if err != nil {
			return nil, fmt.Errorf("listing mirrored drive ids: %w", err)
		}

		ids = append(ids, doc.Ref.ID)
	}
}

// UpsertDrives writes the records in bounded batches, carrying forward
// frontend-created origin metadata from any stored copies.
func (s *Store) UpsertDrives(ctx context.Context, drives []models.Drive) error {
	now := time.Now().UTC()
	col := s.client.Collection(CollectionDrives)

	for _, part := range chunk(drives, maxBatchSize) {
		refs := make([]*firestore.DocumentRef, len(part))
		for i, d := range part {
			refs[i] = col.Doc(d.ID)
		}

		existing, err := s.existingDrives(ctx, refs)
		if err != nil {
			return err
		}

		batch := s.client.Batch()
		for i, d := range part {
			batch.Set(refs[i], preserveDriveFields(d, existing[d.ID], now))
		}

		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("committing drive upsert batch: %w", err)
		}
	}

	return nil
}

// existingDrives fetches the stored copies of the given refs, keyed by id.
// Missing documents are simply absent from the result.
func (s *Store) existingDrives(ctx context.Context, refs []*firestore.DocumentRef) (map[string]*models.Drive, error) {
	snaps, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("reading existing drives: %w", err)
	}

	out := make(map[string]*models.Drive, len(snaps))

	for _, snap := range snaps {
		if snap == nil || !snap.Exists() {
			continue
		}

		var d models.Drive
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decoding existing drive %s: %w", snap.Ref.ID, err)
		}

		out[snap.Ref.ID] = &d
	}

	return out, nil
}

// DeleteDrives removes the given drive ids in bounded batches.
func (s *Store) DeleteDrives(ctx context.Context, ids []string) error {
	col := s.client.Collection(CollectionDrives)

	for _, part := range chunk(ids, maxBatchSize) {
		batch := s.client.Batch()
		for _, id := range part {
			batch.Delete(col.Doc(id))
		}

		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("committing drive delete batch: %w", err)
		}
	}

	return nil
}

// UpsertFolders writes folder records in bounded batches, preserving
// frontend-created origin metadata the same way UpsertDrives does.
// Folders missing from a later sync are not deleted; the folder
// lifecycle is additive.
func (s *Store) UpsertFolders(ctx context.Context, folders []models.Folder) error {
	now := time.Now().UTC()
	col := s.client.Collection(CollectionFolders)

	for _, part := range chunk(folders, maxBatchSize) {
		refs := make([]*firestore.DocumentRef, len(part))
		for i, f := range part {
			refs[i] = col.Doc(f.ID)
		}

		existing, err := s.existingFolders(ctx, refs)
		if err != nil {
			return err
		}

		batch := s.client.Batch()
		for i, f := range part {
			batch.Set(refs[i], preserveFolderFields(f, existing[f.ID], now))
		}

		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("committing folder upsert batch: %w", err)
		}
	}

	return nil
}

func (s *Store) existingFolders(ctx context.Context, refs []*firestore.DocumentRef) (map[string]*models.Folder, error) {
	snaps, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("reading existing folders: %w", err)
	}

	out := make(map[string]*models.Folder, len(snaps))

	for _, snap := range snaps {
		if snap == nil || !snap.Exists() {
			continue
		}

		var f models.Folder
		if err := snap.DataTo(&f); err != nil {
			return nil, fmt.Errorf("decoding existing folder %s: %w", snap.Ref.ID, err)
		}

		out[snap.Ref.ID] = &f
	}

	return out, nil
}

// ReplaceManagers deletes every backend-synced manager record for the
// drive, then inserts the new set. Delete batches commit before any
// insert batch begins: a failure in between can briefly leave the drive
// with no managers until the next sync, which is the accepted degradation;
// duplicate active managers are not.
func (s *Store) ReplaceManagers(ctx context.Context, driveID string, managers []models.Manager) error {
	col := s.client.Collection(CollectionManagers)

	it := col.Where("driveId", "==", driveID).
		Where("synced_by_backend", "==", true).
		Select().
		Documents(ctx)
	defer it.Stop()

	var stale []*firestore.DocumentRef

	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}

		if err != nil {
			return fmt.Errorf("listing managers for drive %s: %w", driveID, err)
		}

		stale = append(stale, doc.Ref)
	}

	for _, part := range chunk(stale, maxBatchSize) {
		batch := s.client.Batch()
		for _, ref := range part {
			batch.Delete(ref)
		}

		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("deleting stale managers for drive %s: %w", driveID, err)
		}
	}

	now := time.Now().UTC()

	for _, part := range chunk(managers, maxBatchSize) {
		batch := s.client.Batch()

		for _, m := range part {
			if m.ID == "" {
				m.ID = uuid.NewString()
			}

			m.SyncedByBackend = true
			m.UpdatedAt = now
			batch.Set(col.Doc(m.ID), m)
		}

		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("inserting managers for drive %s: %w", driveID, err)
		}
	}

	return nil
}

// Count returns the number of documents in a collection using a count
// aggregation, without transferring the documents.
func (s *Store) Count(ctx context.Context, collection string) (int64, error) {
	agg := s.client.Collection(collection).NewAggregationQuery().WithCount("all")

	res, err := agg.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", collection, err)
	}

	v, ok := res["all"]
	if !ok {
		return 0, fmt.Errorf("counting %s: aggregation result missing", collection)
	}

	value, ok := v.(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("counting %s: unexpected aggregation value %T", collection, v)
	}

	return value.GetIntegerValue(), nil
}
