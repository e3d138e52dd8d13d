package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"artistic-unity-backend/internal/models"
)

var errProviderDown = errors.New("provider unavailable")

// fakeProvider keeps folders in memory and fails on request.
type fakeProvider struct {
	mu         sync.Mutex
	folders    map[string]string
	files      map[string][]models.StoredFile
	deleted    []string
	failCreate bool
	failFile   string
	nextID     int

	// afterCreate runs once a folder has been created.
	afterCreate func()
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		folders: make(map[string]string),
		files:   make(map[string][]models.StoredFile),
	}
}

func (p *fakeProvider) Ping(context.Context) error { return nil }

func (p *fakeProvider) CreateFolder(ctx context.Context, name string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.failCreate {
		return "", errProviderDown
	}
	p.nextID++
	id := fmt.Sprintf("folder-%d", p.nextID)
	p.folders[id] = name
	if p.afterCreate != nil {
		p.afterCreate()
	}
	return id, nil
}

func (p *fakeProvider) WriteFile(ctx context.Context, folderID string, file models.StoredFile) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.failFile != "" && file.Name == p.failFile {
		return errProviderDown
	}
	if _, ok := p.folders[folderID]; !ok {
		return fmt.Errorf("folder %s does not exist", folderID)
	}
	data := append([]byte(nil), file.Data...)
	p.files[folderID] = append(p.files[folderID], models.StoredFile{Name: file.Name, MimeType: file.MimeType, Data: data})
	return nil
}

func (p *fakeProvider) FolderURL(folderID string) string {
	return "https://drive.google.com/drive/folders/" + folderID
}

func (p *fakeProvider) DeleteFolder(_ context.Context, folderID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.folders, folderID)
	delete(p.files, folderID)
	p.deleted = append(p.deleted, folderID)
	return nil
}

func (p *fakeProvider) file(folderID, name string) (models.StoredFile, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, f := range p.files[folderID] {
		if f.Name == name {
			return f, true
		}
	}
	return models.StoredFile{}, false
}

func (p *fakeProvider) fileNames(folderID string) map[string]bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make(map[string]bool)
	for _, f := range p.files[folderID] {
		names[f.Name] = true
	}
	return names
}
