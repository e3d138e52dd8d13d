package supabase

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	storage "github.com/supabase-community/storage-go"

	"artistic-unity-backend/internal/models"
)

const (
	// Supabase Storage has no real folders; this object marks an empty prefix.
	folderPlaceholder = ".emptyFolderPlaceholder"
	listPageSize      = 1000
)

// StorageProvider keeps each order folder as an object prefix inside a bucket:
// {prefix}/{folder name}/{file}.
type StorageProvider struct {
	client *Client
	bucket string
	prefix string
}

func NewStorageProvider(client *Client, bucket, prefix string) *StorageProvider {
	return &StorageProvider{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Ping fetches the bucket to prove the URL, key and bucket name.
func (s *StorageProvider) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.client.Supabase.Storage.GetBucket(s.bucket); err != nil {
		return fmt.Errorf("failed to get bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *StorageProvider) CreateFolder(ctx context.Context, name string) (string, error) {
	folderPath := name
	if s.prefix != "" {
		folderPath = s.prefix + "/" + name
	}
	if err := s.upload(ctx, folderPath+"/"+folderPlaceholder, "text/plain", nil, false); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}
	return folderPath, nil
}

func (s *StorageProvider) WriteFile(ctx context.Context, folderID string, file models.StoredFile) error {
	if err := s.upload(ctx, folderID+"/"+file.Name, file.MimeType, file.Data, true); err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

// upload uses a dedicated storage client per call: storage-go applies
// content type and upsert options to the client's shared headers.
func (s *StorageProvider) upload(ctx context.Context, storagePath, contentType string, data []byte, upsert bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	client := storage.NewClient(s.client.URL+"/storage/v1", s.client.Key, map[string]string{"apikey": s.client.Key})
	_, err := client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	return err
}

// FolderURL returns the public object URL of the folder prefix.
func (s *StorageProvider) FolderURL(folderID string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.client.URL, s.bucket, folderID)
}

func (s *StorageProvider) DeleteFolder(ctx context.Context, folderID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	files, err := s.client.Supabase.Storage.ListFiles(s.bucket, folderID, storage.FileSearchOptions{
		Limit: listPageSize,
	})
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}
	if len(files) == 0 {
		return nil
	}

	filePaths := make([]string, len(files))
	for i, file := range files {
		filePaths[i] = path.Join(folderID, file.Name)
	}
	if _, err := s.client.Supabase.Storage.RemoveFile(s.bucket, filePaths); err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	return nil
}
