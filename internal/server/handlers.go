package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/driveatlas/drive-mirror/internal/engine"
	"github.com/driveatlas/drive-mirror/internal/models"
)

type handlers struct {
	engine      Syncer
	remote      DriveCreator
	store       DriveStore
	logger      *slog.Logger
	syncTimeout time.Duration
}

type incrementalSyncRequest struct {
	DriveIDs []string `json:"drive_ids"`
}

type createDriveRequest struct {
	Name         string `json:"name"`
	ManagerEmail string `json:"manager_email,omitempty"`
}

type createDriveResponse struct {
	Drive   models.Drive    `json:"drive"`
	Manager *models.Manager `json:"manager,omitempty"`
}

func (h *handlers) handleSync(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.syncContext(r.Context())
	defer cancel()

	result, err := h.engine.PerformSync(ctx)
	if err != nil {
		h.syncError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, result)
}

func (h *handlers) handleIncrementalSync(w http.ResponseWriter, r *http.Request) {
	var req incrementalSyncRequest

	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	ctx, cancel := h.syncContext(r.Context())
	defer cancel()

	result, err := h.engine.PerformIncrementalSync(ctx, req.DriveIDs)
	if err != nil {
		h.syncError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, result)
}

func (h *handlers) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.store.GetStatus(r.Context())
	if err != nil {
		h.logger.Error("reading sync status", slog.String("error", err.Error()))
		h.writeError(w, http.StatusInternalServerError, "failed to read sync status")

		return
	}

	h.writeSuccess(w, http.StatusOK, status)
}

func (h *handlers) handleMaintenance(w http.ResponseWriter, r *http.Request) {
	result := h.engine.Maintenance(r.Context())
	if !result.Success {
		h.writeError(w, http.StatusInternalServerError, result.Error)
		return
	}

	h.writeSuccess(w, http.StatusOK, result)
}

func (h *handlers) handleListDrives(w http.ResponseWriter, r *http.Request) {
	drives, err := h.store.ListDrives(r.Context())
	if err != nil {
		h.logger.Error("listing drives", slog.String("error", err.Error()))
		h.writeError(w, http.StatusInternalServerError, "failed to list drives")

		return
	}

	if drives == nil {
		drives = []models.Drive{}
	}

	h.writeSuccess(w, http.StatusOK, drives)
}

// handleCreateDrive creates the drive remotely, then mirrors it
// immediately with the frontend-created flag so later syncs preserve its
// origin. The optional manager grant is best-effort: a failure there
// still returns the created drive.
func (h *handlers) handleCreateDrive(w http.ResponseWriter, r *http.Request) {
	var req createDriveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	ctx := r.Context()

	d, err := h.remote.CreateDrive(ctx, req.Name)
	if err != nil {
		h.logger.Error("creating drive",
			slog.String("name", req.Name),
			slog.String("error", err.Error()),
		)
		h.writeError(w, http.StatusInternalServerError, "failed to create drive")

		return
	}

	now := time.Now().UTC()
	d.CreatedByFrontend = true
	d.CreatedAt = now
	d.UpdatedAt = now

	if err := h.store.UpsertDrives(ctx, []models.Drive{d}); err != nil {
		h.logger.Error("mirroring created drive",
			slog.String("drive_id", d.ID),
			slog.String("error", err.Error()),
		)
	}

	resp := createDriveResponse{Drive: d}

	if req.ManagerEmail != "" {
		m, err := h.remote.AddManager(ctx, d.ID, req.ManagerEmail)
		if err != nil {
			h.logger.Warn("granting manager on created drive",
				slog.String("drive_id", d.ID),
				slog.String("email", req.ManagerEmail),
				slog.String("error", err.Error()),
			)
		} else {
			resp.Manager = &m
		}
	}

	h.writeSuccess(w, http.StatusOK, resp)
}

func (h *handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	hs := h.engine.Health(r.Context())

	code := http.StatusOK
	if !hs.Healthy {
		code = http.StatusServiceUnavailable
	}

	h.writeSuccess(w, code, hs)
}

func (h *handlers) syncContext(parent context.Context) (context.Context, context.CancelFunc) {
	if h.syncTimeout > 0 {
		return context.WithTimeout(parent, h.syncTimeout)
	}

	return context.WithCancel(parent)
}

func (h *handlers) syncError(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrSyncInProgress) {
		h.writeError(w, http.StatusConflict, err.Error())
		return
	}

	h.logger.Error("sync request failed", slog.String("error", err.Error()))
	h.writeError(w, http.StatusInternalServerError, "sync failed to start")
}

func (h *handlers) writeSuccess(w http.ResponseWriter, code int, data any) {
	h.writeJSON(w, code, map[string]any{
		"success": true,
		"data":    data,
	})
}

func (h *handlers) writeError(w http.ResponseWriter, code int, msg string) {
	h.writeJSON(w, code, map[string]any{
		"success": false,
		"error":   msg,
	})
}

func (h *handlers) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("writing response", slog.String("error", err.Error()))
	}
}
