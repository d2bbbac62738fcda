// Package engine reconciles remote shared-drive state into the mirror.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/driveatlas/drive-mirror/internal/mirror"
	"github.com/driveatlas/drive-mirror/internal/models"
	"github.com/driveatlas/drive-mirror/internal/paths"
)

// ErrSyncInProgress is returned when a sync is requested while another
// run is active. The caller gets an immediate rejection, never queuing.
var ErrSyncInProgress = errors.New("sync already in progress")

// HierarchyReader is the remote read surface the engine needs.
type HierarchyReader interface {
	ListDrives(ctx context.Context) ([]models.Drive, error)
	GetDrive(ctx context.Context, driveID string) (models.Drive, error)
	ListFolders(ctx context.Context, driveID string) ([]models.Folder, error)
	ListManagers(ctx context.Context, driveID string) ([]models.Manager, error)
	TestConnection(ctx context.Context) (string, error)
}

// MirrorStore is the mirror persistence surface the engine needs.
type MirrorStore interface {
	DriveIDs(ctx context.Context) ([]string, error)
	UpsertDrives(ctx context.Context, drives []models.Drive) error
	DeleteDrives(ctx context.Context, ids []string) error
	UpsertFolders(ctx context.Context, folders []models.Folder) error
	ReplaceManagers(ctx context.Context, driveID string, managers []models.Manager) error
	CreateRun(ctx context.Context, run models.SyncRun) error
	UpdateRunProgress(ctx context.Context, syncID string, stats models.SyncStats) error
	CompleteRun(ctx context.Context, run models.SyncRun) error
	SetStatus(ctx context.Context, st models.SyncStatus) error
	PruneRuns(ctx context.Context, keepLast int) (int, error)
	Count(ctx context.Context, collection string) (int64, error)
}

// Options tunes the engine.
type Options struct {
	// DriveDelay is the pause between drives during fetch and apply,
	// throttling remote calls and mirror batch writes.
	DriveDelay time.Duration

	// KeepRuns is the retention count used by Maintenance.
	KeepRuns int
}

// Engine orchestrates sync runs. At most one run is active at a time;
// concurrent requests fail fast with ErrSyncInProgress.
type Engine struct {
	remote     HierarchyReader
	store      MirrorStore
	logger     *slog.Logger
	driveDelay time.Duration
	keepRuns   int

	mu            sync.Mutex
	running       bool
	currentSyncID string
}

// New creates an engine over the given collaborators.
func New(remote HierarchyReader, store MirrorStore, logger *slog.Logger, opts Options) *Engine {
	if opts.KeepRuns <= 0 {
		opts.KeepRuns = 50
	}

	return &Engine{
		remote:     remote,
		store:      store,
		logger:     logger,
		driveDelay: opts.DriveDelay,
		keepRuns:   opts.KeepRuns,
	}
}

// driveBundle is the fetched remote state for one drive.
type driveBundle struct {
	drive    models.Drive
	folders  []models.Folder
	managers []models.Manager
}

// PerformSync runs a full reconciliation: every remote drive is fetched,
// mirror-only drives are deleted, and per-drive folders and managers are
// brought up to date.
func (e *Engine) PerformSync(ctx context.Context) (models.SyncResult, error) {
	return e.performRun(ctx, nil)
}

// PerformIncrementalSync re-fetches only the given drives. An empty id
// list falls back to the same full fetch as PerformSync. Incremental mode
// does not recompute the global drive set, so the deletion diff is
// skipped.
func (e *Engine) PerformIncrementalSync(ctx context.Context, driveIDs []string) (models.SyncResult, error) {
	return e.performRun(ctx, driveIDs)
}

func (e *Engine) performRun(ctx context.Context, driveIDs []string) (models.SyncResult, error) {
	syncID := uuid.NewString()

	if err := e.acquire(syncID); err != nil {
		return models.SyncResult{}, err
	}
	defer e.release()

	full := len(driveIDs) == 0
	start := time.Now().UTC()
	stats := models.SyncStats{}

	e.logger.Info("sync run starting",
		slog.String("sync_id", syncID),
		slog.Bool("full", full),
	)

	e.telemetry("record run start", e.store.CreateRun(ctx, models.SyncRun{
		SyncID:    syncID,
		Status:    models.StatusRunning,
		StartTime: start,
	}))
	e.telemetry("set status running", e.store.SetStatus(ctx, models.SyncStatus{
		Status:        models.StatusRunning,
		CurrentSyncID: syncID,
	}))

	fatal := e.runPipeline(ctx, syncID, driveIDs, full, &stats)

	return e.finalize(ctx, syncID, start, &stats, fatal), nil
}

// runPipeline is steps 3-5 of a run: probe, fetch, reconcile. A non-nil
// return is a run-fatal error; per-drive failures land in stats.Errors.
func (e *Engine) runPipeline(ctx context.Context, syncID string, driveIDs []string, full bool, stats *models.SyncStats) error {
	identity, err := e.remote.TestConnection(ctx)
	if err != nil {
		return fmt.Errorf("connectivity probe: %w", err)
	}

	e.logger.Debug("remote connection verified", slog.String("identity", identity))

	var bundles []driveBundle

	if full {
		drives, err := e.remote.ListDrives(ctx)
		if err != nil {
			return fmt.Errorf("listing remote drives: %w", err)
		}

		bundles = e.fetchBundles(ctx, drives, stats)
	} else {
		bundles = e.fetchBundlesByID(ctx, driveIDs, stats)
	}

	if full {
		if err := e.reconcileDrives(ctx, bundles, stats); err != nil {
			return err
		}
	} else if err := e.upsertDrives(ctx, bundles); err != nil {
		return err
	}

	for i, b := range bundles {
		if i > 0 {
			e.pause(ctx)
		}

		e.applyDrive(ctx, b, stats)
		e.telemetry("update run progress", e.store.UpdateRunProgress(ctx, syncID, *stats))
	}

	return nil
}

// fetchBundles collects folders and managers for each drive. Drives are
// walked sequentially as a rate-limit throttle; within one drive the two
// read paths run concurrently. A failing drive contributes an error entry
// and an empty bundle, never a run abort.
func (e *Engine) fetchBundles(ctx context.Context, drives []models.Drive, stats *models.SyncStats) []driveBundle {
	bundles := make([]driveBundle, 0, len(drives))

	for i, d := range drives {
		if i > 0 {
			e.pause(ctx)
		}

		bundles = append(bundles, e.fetchOne(ctx, d, stats))
	}

	stats.DrivesCount = len(bundles)

	return bundles
}

// fetchBundlesByID is the incremental fetch: drive info, folders, and
// managers per requested id, with the same per-drive error isolation.
func (e *Engine) fetchBundlesByID(ctx context.Context, driveIDs []string, stats *models.SyncStats) []driveBundle {
	bundles := make([]driveBundle, 0, len(driveIDs))

	for i, id := range driveIDs {
		if i > 0 {
			e.pause(ctx)
		}

		d, err := e.remote.GetDrive(ctx, id)
		if err != nil {
			e.recordDriveError(stats, id, id, err)
			continue
		}

		bundles = append(bundles, e.fetchOne(ctx, d, stats))
	}

	stats.DrivesCount = len(bundles)

	return bundles
}

func (e *Engine) fetchOne(ctx context.Context, d models.Drive, stats *models.SyncStats) driveBundle {
	b := driveBundle{drive: d}
	b.drive.SyncedByBackend = true

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		folders, err := e.remote.ListFolders(gctx, d.ID)
		if err != nil {
			return err
		}

		folders = paths.Resolve(folders, d.ID)
		for i := range folders {
			folders[i].SyncedByBackend = true
		}

		b.folders = folders

		return nil
	})

	g.Go(func() error {
		managers, err := e.remote.ListManagers(gctx, d.ID)
		if err != nil {
			return err
		}

		for i := range managers {
			managers[i].DriveName = d.Name
		}

		b.managers = managers

		return nil
	})

	if err := g.Wait(); err != nil {
		// The drive still gets mirrored, with empty folders and
		// managers for this cycle; the next run self-heals.
		b.folders = nil
		b.managers = nil
		e.recordDriveError(stats, d.Name, d.ID, err)

		return b
	}

	stats.FoldersCount += len(b.folders)
	stats.ManagersCount += len(b.managers)

	return b
}

// reconcileDrives applies the drive-level diff: every mirrored id absent
// from the fresh remote listing is deleted, and the full incoming set is
// upserted with frontend-created fields preserved.
func (e *Engine) reconcileDrives(ctx context.Context, bundles []driveBundle, stats *models.SyncStats) error {
	mirrorIDs, err := e.store.DriveIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing mirrored drive ids: %w", err)
	}

	remote := make([]models.Drive, len(bundles))
	for i, b := range bundles {
		remote[i] = b.drive
	}

	if toDelete := diffDrives(remote, mirrorIDs); len(toDelete) > 0 {
		e.logger.Info("deleting drives missing from remote", slog.Int("count", len(toDelete)))

		if err := e.store.DeleteDrives(ctx, toDelete); err != nil {
			return fmt.Errorf("deleting obsolete drives: %w", err)
		}
	}

	return e.upsertDrives(ctx, bundles)
}

func (e *Engine) upsertDrives(ctx context.Context, bundles []driveBundle) error {
	if len(bundles) == 0 {
		return nil
	}

	drives := make([]models.Drive, len(bundles))
	for i, b := range bundles {
		drives[i] = b.drive
	}

	if err := e.store.UpsertDrives(ctx, drives); err != nil {
		return fmt.Errorf("upserting drives: %w", err)
	}

	return nil
}

// applyDrive syncs one drive's folders and managers into the mirror. The
// two write paths are independent and run concurrently; a failure in
// either is recorded and does not stop the remaining drives.
func (e *Engine) applyDrive(ctx context.Context, b driveBundle, stats *models.SyncStats) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if len(b.folders) == 0 {
			return nil
		}

		if err := e.store.UpsertFolders(gctx, b.folders); err != nil {
			return fmt.Errorf("syncing folders: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		if err := e.store.ReplaceManagers(gctx, b.drive.ID, b.managers); err != nil {
			return fmt.Errorf("syncing managers: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		e.recordDriveError(stats, b.drive.Name, b.drive.ID, err)
	}
}

// finalize computes the terminal status, persists the run record and the
// singleton status, and builds the caller-facing result. Persistence here
// is best-effort; a failed status write never masks the run outcome.
func (e *Engine) finalize(ctx context.Context, syncID string, start time.Time, stats *models.SyncStats, fatal error) models.SyncResult {
	end := time.Now().UTC()
	duration := end.Sub(start)

	status := models.StatusCompleted

	switch {
	case fatal != nil:
		status = models.StatusFailed

		stats.Errors = append(stats.Errors, fatal.Error())
		e.logger.Error("sync run failed",
			slog.String("sync_id", syncID),
			slog.String("error", fatal.Error()),
		)
	case len(stats.Errors) > 0:
		status = models.StatusCompletedWithErrors
	}

	e.telemetry("complete run", e.store.CompleteRun(ctx, models.SyncRun{
		SyncID:          syncID,
		Status:          status,
		StartTime:       start,
		EndTime:         end,
		DurationMS:      duration.Milliseconds(),
		DurationMinutes: duration.Minutes(),
		DrivesCount:     stats.DrivesCount,
		FoldersCount:    stats.FoldersCount,
		ManagersCount:   stats.ManagersCount,
		Errors:          stats.Errors,
	}))

	lastSync := end
	e.telemetry("set terminal status", e.store.SetStatus(ctx, models.SyncStatus{
		Status:   status,
		LastSync: &lastSync,
	}))

	e.logger.Info("sync run finished",
		slog.String("sync_id", syncID),
		slog.String("status", status),
		slog.Int("drives", stats.DrivesCount),
		slog.Int("folders", stats.FoldersCount),
		slog.Int("managers", stats.ManagersCount),
		slog.Int("errors", len(stats.Errors)),
		slog.Duration("duration", duration),
	)

	return models.SyncResult{
		Success:    status != models.StatusFailed,
		SyncID:     syncID,
		Status:     status,
		Stats:      *stats,
		DurationMS: duration.Milliseconds(),
	}
}

// Maintenance prunes old run records. It reports failure in the result
// rather than returning an error.
func (e *Engine) Maintenance(ctx context.Context) models.MaintenanceResult {
	deleted, err := e.store.PruneRuns(ctx, e.keepRuns)
	if err != nil {
		e.logger.Warn("maintenance prune failed", slog.String("error", err.Error()))

		return models.MaintenanceResult{Deleted: deleted, Error: err.Error()}
	}

	return models.MaintenanceResult{Success: true, Deleted: deleted}
}

// Health probes remote connectivity and the mirror's drive count
// concurrently. Failures are captured in the returned structure; nothing
// is mutated and nothing is raised.
func (e *Engine) Health(ctx context.Context) models.HealthStatus {
	hs := models.HealthStatus{CheckedAt: time.Now().UTC()}

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		identity, err := e.remote.TestConnection(ctx)
		if err != nil {
			hs.RemoteError = err.Error()
			return
		}

		hs.RemoteOK = true
		hs.RemoteIdentity = identity
	}()

	go func() {
		defer wg.Done()

		count, err := e.store.Count(ctx, mirror.CollectionDrives)
		if err != nil {
			hs.MirrorError = err.Error()
			return
		}

		hs.MirrorOK = true
		hs.DriveCount = count
	}()

	wg.Wait()

	hs.Healthy = hs.RemoteOK && hs.MirrorOK

	return hs
}

// acquire takes the single-run guard, or fails fast when a run is active.
func (e *Engine) acquire(syncID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return ErrSyncInProgress
	}

	e.running = true
	e.currentSyncID = syncID

	return nil
}

func (e *Engine) release() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.running = false
	e.currentSyncID = ""
}

// recordDriveError appends a per-drive error entry and logs it. These
// entries make the run terminal status completed_with_errors but never
// abort the run.
func (e *Engine) recordDriveError(stats *models.SyncStats, name, id string, err error) {
	entry := fmt.Sprintf("drive %s (%s): %v", name, id, err)
	stats.Errors = append(stats.Errors, entry)

	e.logger.Warn("drive sync error",
		slog.String("drive", name),
		slog.String("drive_id", id),
		slog.String("error", err.Error()),
	)
}

// telemetry logs a best-effort bookkeeping failure. Run bookkeeping never
// aborts the reconciliation it describes.
func (e *Engine) telemetry(op string, err error) {
	if err == nil {
		return
	}

	e.logger.Warn("telemetry write failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
}

// pause sleeps the inter-drive delay, returning early on cancellation.
func (e *Engine) pause(ctx context.Context) {
	if e.driveDelay <= 0 {
		return
	}

	select {
	case <-time.After(e.driveDelay):
	case <-ctx.Done():
	}
}
