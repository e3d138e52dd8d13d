// Package gdrive stores order folders in Google Drive using a service account.
package gdrive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"artistic-unity-backend/internal/models"
)

const (
	FolderMimeType = "application/vnd.google-apps.folder"
	folderURLBase  = "https://drive.google.com/drive/folders/"
)

type Provider struct {
	files          *drive.FilesService
	parentFolderID string
}

// JWTConfig builds the service-account configuration. Keys pasted into env
// files usually carry literal "\n" sequences; they are turned into newlines.
func JWTConfig(email, privateKey string) *jwt.Config {
	return &jwt.Config{
		Email:      email,
		PrivateKey: []byte(strings.ReplaceAll(privateKey, `\n`, "\n")),
		Scopes:     []string{drive.DriveScope},
		TokenURL:   google.JWTTokenURL,
	}
}

// NewProvider authenticates as the service account and returns a provider
// that creates order folders under parentFolderID.
func NewProvider(ctx context.Context, email, privateKey, parentFolderID string) (*Provider, error) {
	if email == "" || privateKey == "" {
		return nil, errors.New("google service account email and private key are required")
	}
	if parentFolderID == "" {
		return nil, errors.New("google drive parent folder id is required")
	}

	conf := JWTConfig(email, privateKey)
	srv, err := drive.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return NewProviderWithService(srv, parentFolderID), nil
}

func NewProviderWithService(srv *drive.Service, parentFolderID string) *Provider {
	return &Provider{files: srv.Files, parentFolderID: parentFolderID}
}

// Ping fetches the parent folder, proving both the credentials and the
// folder id.
func (p *Provider) Ping(ctx context.Context) error {
	f, err := p.files.Get(p.parentFolderID).
		Fields("id", "mimeType").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to get parent folder %s: %w", p.parentFolderID, err)
	}
	if f.MimeType != "" && f.MimeType != FolderMimeType {
		return fmt.Errorf("parent %s is not a folder (%s)", p.parentFolderID, f.MimeType)
	}
	return nil
}

func (p *Provider) CreateFolder(ctx context.Context, name string) (string, error) {
	f, err := p.files.Create(&drive.File{
		Name:     name,
		MimeType: FolderMimeType,
		Parents:  []string{p.parentFolderID},
	}).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}
	return f.Id, nil
}

func (p *Provider) WriteFile(ctx context.Context, folderID string, file models.StoredFile) error {
	var opts []googleapi.MediaOption
	if file.MimeType != "" {
		opts = append(opts, googleapi.ContentType(file.MimeType))
	}

	_, err := p.files.Create(&drive.File{
		Name:     file.Name,
		MimeType: file.MimeType,
		Parents:  []string{folderID},
	}).
		Media(bytes.NewReader(file.Data), opts...).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

func (p *Provider) FolderURL(folderID string) string {
	return folderURLBase + folderID
}

func (p *Provider) DeleteFolder(ctx context.Context, folderID string) error {
	err := p.files.Delete(folderID).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	return nil
}
