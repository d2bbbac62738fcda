// Package paths materializes full folder paths from flat parent pointers.
package paths

import "github.com/driveatlas/drive-mirror/internal/models"

// Resolve annotates every folder with its full slash-separated path,
// derived purely from the parent chain and folder names. The drive root
// is "/", so a root-level folder resolves to "/"+name.
//
// Every folder touched on the way up is memoized, not just the one being
// resolved, so the total cost stays linear in the number of folders no
// matter what order the listing arrives in. A parent pointer that leaves
// the set or cycles is truncated to the root rather than raised; the
// provider is expected to be acyclic, but a malformed listing must not
// loop or panic here.
func Resolve(folders []models.Folder, driveID string) []models.Folder {
	r := resolver{
		driveID: driveID,
		byID:    make(map[string]*models.Folder, len(folders)),
		memo:    make(map[string]string, len(folders)),
		onPath:  make(map[string]bool),
	}

	for i := range folders {
		r.byID[folders[i].ID] = &folders[i]
	}

	for i := range folders {
		folders[i].FullPath = r.path(folders[i].ID)
	}

	return folders
}

type resolver struct {
	driveID string
	byID    map[string]*models.Folder
	memo    map[string]string
	onPath  map[string]bool
}

// path resolves one folder by resolving its parent first. onPath tracks
// the ancestry of the walk in flight; re-entering it means the chain
// loops, and the folder where the loop closes is pinned to "/" before
// the walk unwinds.
func (r *resolver) path(id string) string {
	if p, ok := r.memo[id]; ok {
		return p
	}

	if r.onPath[id] {
		r.memo[id] = "/"
		return "/"
	}

	r.onPath[id] = true
	defer delete(r.onPath, id)

	f := r.byID[id]
	p := "/" + f.Name

	// A parent outside the listed set, or the drive itself, makes this a
	// root child.
	if parent, ok := r.byID[f.ParentID]; ok && f.ParentID != r.driveID {
		if pp := r.path(parent.ID); pp != "/" {
			p = pp + "/" + f.Name
		}
	}

	// Cycle detection further up may have pinned this id; the pin wins.
	if pinned, ok := r.memo[id]; ok {
		return pinned
	}

	r.memo[id] = p

	return p
}
