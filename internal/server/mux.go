// Package server exposes the mirror over HTTP: sync triggers, status,
// maintenance, drive listing and creation, and a health probe.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/driveatlas/drive-mirror/internal/models"
)

// Syncer is the engine surface the HTTP layer drives.
type Syncer interface {
	PerformSync(ctx context.Context) (models.SyncResult, error)
	PerformIncrementalSync(ctx context.Context, driveIDs []string) (models.SyncResult, error)
	Maintenance(ctx context.Context) models.MaintenanceResult
	Health(ctx context.Context) models.HealthStatus
}

// DriveCreator is the remote write surface used by drive creation.
type DriveCreator interface {
	CreateDrive(ctx context.Context, name string) (models.Drive, error)
	AddManager(ctx context.Context, driveID, email string) (models.Manager, error)
}

// DriveStore is the mirror read/write surface used by the drive and
// status endpoints.
type DriveStore interface {
	ListDrives(ctx context.Context) ([]models.Drive, error)
	UpsertDrives(ctx context.Context, drives []models.Drive) error
	GetStatus(ctx context.Context) (models.SyncStatus, error)
}

// MuxConfig holds dependencies for building the HTTP mux.
type MuxConfig struct {
	Engine Syncer
	Remote DriveCreator
	Store  DriveStore
	Logger *slog.Logger

	// SyncTimeout bounds a single sync run triggered over HTTP. Zero
	// means no bound beyond the request context.
	SyncTimeout time.Duration
}

// NewMux builds the HTTP mux. Sync triggers run synchronously and
// return the run result; a second trigger while one is active gets 409.
func NewMux(cfg MuxConfig) *http.ServeMux {
	h := &handlers{
		engine:      cfg.Engine,
		remote:      cfg.Remote,
		store:       cfg.Store,
		logger:      cfg.Logger,
		syncTimeout: cfg.SyncTimeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sync", h.handleSync)
	mux.HandleFunc("POST /api/sync/incremental", h.handleIncrementalSync)
	mux.HandleFunc("GET /api/sync/status", h.handleSyncStatus)
	mux.HandleFunc("POST /api/maintenance", h.handleMaintenance)
	mux.HandleFunc("GET /api/drives", h.handleListDrives)
	mux.HandleFunc("POST /api/drives", h.handleCreateDrive)
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	return mux
}
