// Package remote reads the shared-drive hierarchy from the Google Drive
// API on behalf of an impersonated admin principal.
package remote

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// NewService builds a Drive service authenticated as the service account
// in credsFile, impersonating subject via domain-wide delegation. Listing
// every shared drive in the organization requires an admin subject.
func NewService(ctx context.Context, credsFile, subject string) (*drive.Service, error) {
	data, err := os.ReadFile(credsFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	conf, err := google.JWTConfigFromJSON(data, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account key: %w", err)
	}

	conf.Subject = subject

	svc, err := drive.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}

	return svc, nil
}
