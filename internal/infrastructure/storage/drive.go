package storage

import (
	"bytes"
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveStorage uploads PDFs to a Google Drive folder shared by link
type DriveStorage struct {
	client   *drive.Service
	folderID string
}

// NewDriveStorage creates a Drive client from a Service Account JSON file
func NewDriveStorage(ctx context.Context, credentialsPath, folderID string, opts ...option.ClientOption) (*DriveStorage, error) {
	if len(opts) == 0 {
		opts = []option.ClientOption{option.WithCredentialsFile(credentialsPath)}
	}
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &DriveStorage{client: driveService, folderID: folderID}, nil
}

func (s *DriveStorage) Upload(ctx context.Context, name string, data []byte) (*File, error) {
	meta := &drive.File{Name: name, MimeType: "application/pdf"}
	if s.folderID != "" {
		meta.Parents = []string{s.folderID}
	}

	created, err := s.client.Files.Create(meta).
		Media(bytes.NewReader(data)).
		Fields("id, size").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s to drive: %w", name, err)
	}

	// Anyone with the link can download the receipt
	_, err = s.client.Permissions.Create(created.Id, &drive.Permission{Type: "anyone", Role: "reader"}).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to share %s: %w", name, err)
	}

	return &File{
		ID:   created.Id,
		URL:  fmt.Sprintf("https://drive.google.com/uc?id=%s", created.Id),
		Size: int64(len(data)),
	}, nil
}

func (s *DriveStorage) Delete(ctx context.Context, id string) error {
	if err := s.client.Files.Delete(id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete %s from drive: %w", id, err)
	}
	return nil
}
