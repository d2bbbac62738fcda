package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/drive/v3"

	"github.com/driveatlas/drive-mirror/internal/models"
)

const (
	// folderMimeType marks a Drive file as a folder.
	folderMimeType = "application/vnd.google-apps.folder"

	// Organizer-class roles. Only these two denote drive-management
	// capability; reader/writer/commenter grants are not managers.
	RoleOrganizer     = "organizer"
	RoleFileOrganizer = "fileOrganizer"

	drivePageSize      = 100
	permissionPageSize = 100

	driveListFields  = "nextPageToken, drives(id,name,kind,colorRgb,backgroundImageFile,capabilities,createdTime,hidden,restrictions)"
	folderListFields = "nextPageToken, files(id,name,parents,mimeType,createdTime,modifiedTime)"
	permissionFields = "nextPageToken, permissions(id,type,role,emailAddress,displayName,photoLink)"
)

// ReaderOptions tunes pagination throttling.
type ReaderOptions struct {
	// PageDelay is the pause between result pages, and the base unit of
	// the linear backoff applied when a page is rate limited.
	PageDelay time.Duration

	// MaxRetries is how many times a rate-limited page is retried
	// before the error propagates.
	MaxRetries int
}

// Reader lists drives, folders, and permission grants from the Drive API.
// It retries rate-limited pages and paces page fetches, but otherwise
// propagates errors with context; continuation policy is the caller's.
type Reader struct {
	svc        *drive.Service
	logger     *slog.Logger
	pageDelay  time.Duration
	maxRetries int
}

// NewReader creates a Reader over an authenticated Drive service.
func NewReader(svc *drive.Service, logger *slog.Logger, opts ReaderOptions) *Reader {
	if opts.PageDelay <= 0 {
		opts.PageDelay = 100 * time.Millisecond
	}

	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}

	return &Reader{
		svc:        svc,
		logger:     logger,
		pageDelay:  opts.PageDelay,
		maxRetries: opts.MaxRetries,
	}
}

// ListDrives returns every shared drive visible to the impersonated admin,
// concatenating all result pages.
func (r *Reader) ListDrives(ctx context.Context) ([]models.Drive, error) {
	var drives []models.Drive

	pageToken := ""

	for {
		var page *drive.DriveList

		err := r.retryPage(ctx, "listing drives", func() error {
			call := r.svc.Drives.List().
				Context(ctx).
				UseDomainAdminAccess(true).
				PageSize(drivePageSize).
				Fields(driveListFields)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}

			var err error
			page, err = call.Do()

			return err
		})
		if err != nil {
			return nil, err
		}

		for _, d := range page.Drives {
			if d == nil {
				continue
			}

			drives = append(drives, convertDrive(d))
		}

		if page.NextPageToken == "" {
			return drives, nil
		}

		pageToken = page.NextPageToken

		if err := r.pause(ctx); err != nil {
			return nil, err
		}
	}
}

// GetDrive fetches a single shared drive by id.
func (r *Reader) GetDrive(ctx context.Context, driveID string) (models.Drive, error) {
	var d *drive.Drive

	err := r.retryPage(ctx, "getting drive", func() error {
		var err error
		d, err = r.svc.Drives.Get(driveID).
			Context(ctx).
			UseDomainAdminAccess(true).
			Fields("id,name,kind,colorRgb,backgroundImageFile,capabilities,createdTime,hidden,restrictions").
			Do()

		return err
	})
	if err != nil {
		return models.Drive{}, fmt.Errorf("drive %s: %w", driveID, err)
	}

	return convertDrive(d), nil
}

// ListFolders returns every reachable, non-trashed folder under the drive,
// each exactly once. The walk is an explicit worklist of parent ids with a
// visited set, so a reference cycle cannot loop.
func (r *Reader) ListFolders(ctx context.Context, driveID string) ([]models.Folder, error) {
	var folders []models.Folder

	visited := make(map[string]bool)
	queue := []string{driveID}

	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]

		children, err := r.listFolderChildren(ctx, driveID, parent)
		if err != nil {
			return nil, fmt.Errorf("listing folders under %s in drive %s: %w", parent, driveID, err)
		}

		for _, f := range children {
			if visited[f.ID] {
				continue
			}

			visited[f.ID] = true
			folders = append(folders, f)
			queue = append(queue, f.ID)
		}
	}

	return folders, nil
}

// listFolderChildren lists the direct folder children of one parent.
func (r *Reader) listFolderChildren(ctx context.Context, driveID, parentID string) ([]models.Folder, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType = '%s' and trashed = false", parentID, folderMimeType)

	var folders []models.Folder

	pageToken := ""

	for {
		var page *drive.FileList

		err := r.retryPage(ctx, "listing folder children", func() error {
			call := r.svc.Files.List().
				Context(ctx).
				Q(query).
				Corpora("drive").
				DriveId(driveID).
				SupportsAllDrives(true).
				IncludeItemsFromAllDrives(true).
				PageSize(drivePageSize).
				Fields(folderListFields)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}

			var err error
			page, err = call.Do()

			return err
		})
		if err != nil {
			return nil, err
		}

		for _, f := range page.Files {
			if f == nil {
				continue
			}

			folders = append(folders, convertFolder(f, driveID))
		}

		if page.NextPageToken == "" {
			return folders, nil
		}

		pageToken = page.NextPageToken

		if err := r.pause(ctx); err != nil {
			return nil, err
		}
	}
}

// ListManagers returns the organizer-class permission grants on a drive.
// All other roles are excluded from the manager concept entirely.
func (r *Reader) ListManagers(ctx context.Context, driveID string) ([]models.Manager, error) {
	var managers []models.Manager

	pageToken := ""

	for {
		var page *drive.PermissionList

		err := r.retryPage(ctx, "listing permissions", func() error {
			call := r.svc.Permissions.List(driveID).
				Context(ctx).
				SupportsAllDrives(true).
				UseDomainAdminAccess(true).
				PageSize(permissionPageSize).
				Fields(permissionFields)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}

			var err error
			page, err = call.Do()

			return err
		})
		if err != nil {
			return nil, fmt.Errorf("listing managers for drive %s: %w", driveID, err)
		}

		for _, p := range page.Permissions {
			if p == nil {
				continue
			}

			if p.Role != RoleOrganizer && p.Role != RoleFileOrganizer {
				continue
			}

			managers = append(managers, models.Manager{
				DriveID:      driveID,
				Email:        p.EmailAddress,
				Role:         p.Role,
				Type:         p.Type,
				PermissionID: p.Id,
				DisplayName:  p.DisplayName,
				PhotoLink:    p.PhotoLink,
			})
		}

		if page.NextPageToken == "" {
			return managers, nil
		}

		pageToken = page.NextPageToken

		if err := r.pause(ctx); err != nil {
			return nil, err
		}
	}
}

// CreateDrive creates a shared drive. The uuid request id makes the call
// safe to retry without creating duplicates.
func (r *Reader) CreateDrive(ctx context.Context, name string) (models.Drive, error) {
	created, err := r.svc.Drives.Create(uuid.NewString(), &drive.Drive{Name: name}).
		Context(ctx).
		Fields("id,name,kind,colorRgb,backgroundImageFile,capabilities,createdTime,hidden,restrictions").
		Do()
	if err != nil {
		return models.Drive{}, fmt.Errorf("creating drive %q: %w", name, err)
	}

	return convertDrive(created), nil
}

// AddManager grants the organizer role on a drive to a user.
func (r *Reader) AddManager(ctx context.Context, driveID, email string) (models.Manager, error) {
	perm, err := r.svc.Permissions.Create(driveID, &drive.Permission{
		Role:         RoleOrganizer,
		Type:         "user",
		EmailAddress: email,
	}).
		Context(ctx).
		SupportsAllDrives(true).
		UseDomainAdminAccess(true).
		SendNotificationEmail(false).
		Fields("id,type,role,emailAddress,displayName,photoLink").
		Do()
	if err != nil {
		return models.Manager{}, fmt.Errorf("adding manager %s to drive %s: %w", email, driveID, err)
	}

	return models.Manager{
		DriveID:      driveID,
		Email:        perm.EmailAddress,
		Role:         perm.Role,
		Type:         perm.Type,
		PermissionID: perm.Id,
		DisplayName:  perm.DisplayName,
		PhotoLink:    perm.PhotoLink,
	}, nil
}

// TestConnection probes the Drive API and returns the authenticated
// identity. Used as the cheap liveness check before a sync run.
func (r *Reader) TestConnection(ctx context.Context) (string, error) {
	about, err := r.svc.About.Get().Context(ctx).Fields("user").Do()
	if err != nil {
		return "", fmt.Errorf("drive connection probe: %w", err)
	}

	if about.User == nil {
		return "", nil
	}

	return about.User.EmailAddress, nil
}

// retryPage runs one page fetch, retrying rate-limited attempts with a
// capped linear backoff. Non-rate-limit errors propagate immediately.
func (r *Reader) retryPage(ctx context.Context, desc string, fetch func() error) error {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := r.pageDelay * time.Duration(attempt)

			r.logger.Warn("rate limited, backing off",
				slog.String("op", desc),
				slog.Int("attempt", attempt),
				slog.Duration("backoff", backoff),
			)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := fetch()
		if err == nil {
			return nil
		}

		if !IsRateLimit(err) {
			return fmt.Errorf("%s: %w", desc, err)
		}

		lastErr = err
	}

	return fmt.Errorf("%s: rate limit retries exhausted: %w", desc, lastErr)
}

// pause sleeps the inter-page delay, or returns early on cancellation.
func (r *Reader) pause(ctx context.Context) error {
	select {
	case <-time.After(r.pageDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func convertDrive(d *drive.Drive) models.Drive {
	return models.Drive{
		ID:       d.Id,
		Name:     d.Name,
		Kind:     d.Kind,
		ColorRGB: d.ColorRgb,
		// The API's backgroundImageFile is a placement struct; the
		// mirrored attribute keeps that name but stores the image URL
		// from backgroundImageLink.
		BackgroundImageFile: d.BackgroundImageLink,
		Capabilities:        boolFlags(d.Capabilities),
		Restrictions:        boolFlags(d.Restrictions),
		CreatedTime:         parseTime(d.CreatedTime),
		Hidden:              d.Hidden,
	}
}

func convertFolder(f *drive.File, driveID string) models.Folder {
	parentID := ""
	if len(f.Parents) > 0 && f.Parents[0] != driveID {
		parentID = f.Parents[0]
	}

	return models.Folder{
		ID:           f.Id,
		Name:         f.Name,
		DriveID:      driveID,
		ParentID:     parentID,
		MimeType:     f.MimeType,
		CreatedTime:  parseTime(f.CreatedTime),
		ModifiedTime: parseTime(f.ModifiedTime),
	}
}

// boolFlags flattens an API struct of boolean fields (drive capabilities,
// drive restrictions) into a map keyed by the JSON field names.
func boolFlags(v any) map[string]bool {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}

	var flags map[string]bool
	if err := json.Unmarshal(data, &flags); err != nil {
		return nil
	}

	if len(flags) == 0 {
		return nil
	}

	return flags
}

// parseTime parses an RFC 3339 timestamp from the API, returning the zero
// time for empty or malformed values.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}

	return ts
}
