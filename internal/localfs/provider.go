// Package localfs stores order folders on the local disk. It is intended for
// development and testing.
package localfs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"artistic-unity-backend/internal/models"
)

const DefaultBaseDir = "data/orders"

type Provider struct {
	baseDir   string
	publicURL string
}

// NewProvider creates a provider rooted at baseDir. If publicURL is empty,
// folder URLs use the file:// scheme pointing at the absolute directory.
func NewProvider(baseDir, publicURL string) (*Provider, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve order dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create order dir: %w", err)
	}
	return &Provider{baseDir: abs, publicURL: publicURL}, nil
}

// Ping checks that the base directory accepts writes.
func (p *Provider) Ping(ctx context.Context) error {
	f, err := os.CreateTemp(p.baseDir, ".ping-*")
	if err != nil {
		return fmt.Errorf("order dir not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func (p *Provider) CreateFolder(ctx context.Context, name string) (string, error) {
	if !filepath.IsLocal(name) || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid folder name %q", name)
	}
	if err := os.Mkdir(filepath.Join(p.baseDir, name), 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}
	return name, nil
}

func (p *Provider) WriteFile(ctx context.Context, folderID string, file models.StoredFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Join(p.baseDir, folderID)
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(file.Data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(dir, file.Name)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename file: %w", err)
	}
	return nil
}

func (p *Provider) FolderURL(folderID string) string {
	if p.publicURL != "" {
		u, err := url.Parse(p.publicURL)
		if err == nil {
			u.Path = path.Join(u.Path, folderID)
			return u.String()
		}
	}
	abs := filepath.Join(p.baseDir, folderID)
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

func (p *Provider) DeleteFolder(ctx context.Context, folderID string) error {
	if folderID == "" {
		return nil
	}
	if err := os.RemoveAll(filepath.Join(p.baseDir, folderID)); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	return nil
}
