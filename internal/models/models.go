// Package models defines types shared across internal packages.
package models

import "time"

// Sync run statuses. A run moves from running to exactly one terminal
// status; the singleton status document mirrors the latest transition.
const (
	StatusIdle                = "idle"
	StatusRunning             = "running"
	StatusCompleted           = "completed"
	StatusCompletedWithErrors = "completed_with_errors"
	StatusFailed              = "failed"
)

// Drive is a mirrored shared drive. The provider id is the document key.
type Drive struct {
	ID                  string          `json:"id" firestore:"id"`
	Name                string          `json:"name" firestore:"name"`
	Kind                string          `json:"kind,omitempty" firestore:"kind"`
	ColorRGB            string          `json:"colorRgb,omitempty" firestore:"colorRgb"`
	BackgroundImageFile string          `json:"backgroundImageFile,omitempty" firestore:"backgroundImageFile"`
	Capabilities        map[string]bool `json:"capabilities,omitempty" firestore:"capabilities"`
	Restrictions        map[string]bool `json:"restrictions,omitempty" firestore:"restrictions"`
	CreatedTime         time.Time       `json:"createdTime" firestore:"createdTime"`
	Hidden              bool            `json:"hidden" firestore:"hidden"`

	// Origin flags. A record discovered by sync carries SyncedByBackend;
	// a record written through the create-drive API carries
	// CreatedByFrontend and keeps its original CreatedAt across re-syncs.
	SyncedByBackend   bool      `json:"synced_by_backend" firestore:"synced_by_backend"`
	CreatedByFrontend bool      `json:"created_by_frontend" firestore:"created_by_frontend"`
	CreatedAt         time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" firestore:"updated_at"`
}

// Folder is a mirrored folder inside a drive. ParentID is empty when the
// parent is the drive root. FullPath is materialized by the path resolver
// and is a pure function of the parent chain and name.
type Folder struct {
	ID           string    `json:"id" firestore:"id"`
	Name         string    `json:"name" firestore:"name"`
	DriveID      string    `json:"driveId" firestore:"driveId"`
	ParentID     string    `json:"parent_id,omitempty" firestore:"parent_id"`
	FullPath     string    `json:"full_path" firestore:"full_path"`
	MimeType     string    `json:"mimeType" firestore:"mimeType"`
	CreatedTime  time.Time `json:"createdTime" firestore:"createdTime"`
	ModifiedTime time.Time `json:"modifiedTime" firestore:"modifiedTime"`

	SyncedByBackend   bool      `json:"synced_by_backend" firestore:"synced_by_backend"`
	CreatedByFrontend bool      `json:"created_by_frontend" firestore:"created_by_frontend"`
	CreatedAt         time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" firestore:"updated_at"`
}

// Manager is an organizer-class permission grant on a drive. ID is
// mirror-assigned; PermissionID is the provider's permission id.
type Manager struct {
	ID           string `json:"id" firestore:"id"`
	DriveID      string `json:"driveId" firestore:"driveId"`
	DriveName    string `json:"driveName" firestore:"driveName"`
	Email        string `json:"email" firestore:"email"`
	Role         string `json:"role" firestore:"role"`
	Type         string `json:"type" firestore:"type"`
	PermissionID string `json:"permissionId" firestore:"permissionId"`
	DisplayName  string `json:"displayName,omitempty" firestore:"displayName"`
	PhotoLink    string `json:"photoLink,omitempty" firestore:"photoLink"`

	SyncedByBackend bool      `json:"synced_by_backend" firestore:"synced_by_backend"`
	UpdatedAt       time.Time `json:"updated_at" firestore:"updated_at"`
}

// SyncRun records one execution of the reconciliation engine.
type SyncRun struct {
	SyncID          string    `json:"sync_id" firestore:"sync_id"`
	Status          string    `json:"status" firestore:"status"`
	StartTime       time.Time `json:"start_time" firestore:"start_time"`
	EndTime         time.Time `json:"end_time,omitempty" firestore:"end_time"`
	DurationMS      int64     `json:"duration_ms" firestore:"duration_ms"`
	DurationMinutes float64   `json:"duration_minutes" firestore:"duration_minutes"`
	DrivesCount     int       `json:"drives_count" firestore:"drives_count"`
	FoldersCount    int       `json:"folders_count" firestore:"folders_count"`
	ManagersCount   int       `json:"managers_count" firestore:"managers_count"`
	Errors          []string  `json:"errors,omitempty" firestore:"errors"`
	CreatedAt       time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" firestore:"updated_at"`
	CompletedAt     time.Time `json:"completed_at,omitempty" firestore:"completed_at"`
}

// SyncStatus is the singleton status document (key "current") consumed by
// external callers. LastSync is only set on terminal statuses.
type SyncStatus struct {
	Status        string     `json:"status" firestore:"status"`
	CurrentSyncID string     `json:"current_sync_id,omitempty" firestore:"current_sync_id"`
	LastSync      *time.Time `json:"last_sync,omitempty" firestore:"last_sync"`
	UpdatedAt     time.Time  `json:"updated_at" firestore:"updated_at"`
}

// SyncStats accumulates counts and non-fatal errors across one run.
type SyncStats struct {
	DrivesCount   int      `json:"drives_count"`
	FoldersCount  int      `json:"folders_count"`
	ManagersCount int      `json:"managers_count"`
	Errors        []string `json:"errors,omitempty"`
}

// SyncResult is returned by the engine after a run reaches a terminal state.
type SyncResult struct {
	Success    bool      `json:"success"`
	SyncID     string    `json:"sync_id"`
	Status     string    `json:"status"`
	Stats      SyncStats `json:"stats"`
	DurationMS int64     `json:"duration_ms"`
}

// MaintenanceResult reports the outcome of a prune pass.
type MaintenanceResult struct {
	Success bool   `json:"success"`
	Deleted int    `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// HealthStatus is the composite result of the health probe. It is always
// returned, never raised; failures are captured in the error fields.
type HealthStatus struct {
	Healthy        bool      `json:"healthy"`
	RemoteOK       bool      `json:"remote_ok"`
	RemoteIdentity string    `json:"remote_identity,omitempty"`
	RemoteError    string    `json:"remote_error,omitempty"`
	MirrorOK       bool      `json:"mirror_ok"`
	DriveCount     int64     `json:"drive_count"`
	MirrorError    string    `json:"mirror_error,omitempty"`
	CheckedAt      time.Time `json:"checked_at"`
}
