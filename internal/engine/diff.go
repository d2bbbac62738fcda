package engine

import (
	"sort"

	"github.com/driveatlas/drive-mirror/internal/models"
)

// diffDrives returns the mirrored drive ids that no longer appear in the
// remote listing. The remote is the sole source of truth for drives: any
// mirror-only id is a deletion candidate, and no id present remotely is
// ever returned. The result is sorted for deterministic batching.
func diffDrives(remote []models.Drive, mirrorIDs []string) []string {
	live := make(map[string]bool, len(remote))
	for _, d := range remote {
		live[d.ID] = true
	}

	var toDelete []string

	for _, id := range mirrorIDs {
		if !live[id] {
			toDelete = append(toDelete, id)
		}
	}

	sort.Strings(toDelete)

	return toDelete
}
