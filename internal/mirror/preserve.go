package mirror

import (
	"time"

	"github.com/driveatlas/drive-mirror/internal/models"
)

// preserveDriveFields merges origin metadata from the stored record into
// the incoming one. A record the frontend created is never demoted to
// backend-authored by a later sync: the flag is re-asserted and the
// original creation time carried forward.
func preserveDriveFields(incoming models.Drive, existing *models.Drive, now time.Time) models.Drive {
	incoming.UpdatedAt = now

	if existing != nil && existing.CreatedByFrontend {
		incoming.CreatedByFrontend = true
		incoming.CreatedAt = existing.CreatedAt

		return incoming
	}

	if existing != nil && !existing.CreatedAt.IsZero() {
		incoming.CreatedAt = existing.CreatedAt
	} else if incoming.CreatedAt.IsZero() {
		incoming.CreatedAt = now
	}

	return incoming
}

// preserveFolderFields is the folder counterpart of preserveDriveFields.
func preserveFolderFields(incoming models.Folder, existing *models.Folder, now time.Time) models.Folder {
	incoming.UpdatedAt = now

	if existing != nil && existing.CreatedByFrontend {
		incoming.CreatedByFrontend = true
		incoming.CreatedAt = existing.CreatedAt

		return incoming
	}

	if existing != nil && !existing.CreatedAt.IsZero() {
		incoming.CreatedAt = existing.CreatedAt
	} else if incoming.CreatedAt.IsZero() {
		incoming.CreatedAt = now
	}

	return incoming
}
