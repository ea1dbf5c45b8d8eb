package drivefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/martinHW299/crewai/internal/core/domain"
)

// Store serves a local directory tree through the hierarchical document
// store boundary: container and item ids are paths relative to the base
// directory, stable across calls. A production deployment swaps in a remote
// drive client behind the same port.
type Store struct {
	basePath string
}

func New(basePath string) (*Store, error) {
	if basePath == "" {
		return nil, fmt.Errorf("drivefs: base path is required")
	}
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorageAccess, "stat base path", err)
	}
	if !info.IsDir() {
		return nil, domain.WrapError(domain.ErrStorageAccess, "stat base path",
			fmt.Errorf("%s is not a directory", basePath))
	}
	return &Store{basePath: basePath}, nil
}

func (s *Store) ListChildren(ctx context.Context, containerID string) ([]domain.StoreItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := s.resolve(containerID)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorageAccess, "list children", err)
	}

	items := make([]domain.StoreItem, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		id := filepath.ToSlash(filepath.Join(containerID, entry.Name()))
		if entry.IsDir() {
			items = append(items, domain.StoreItem{
				ID:          id,
				Name:        entry.Name(),
				FileType:    "folder",
				IsContainer: true,
			})
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		items = append(items, domain.StoreItem{
			ID:       id,
			Name:     entry.Name(),
			FileType: fileType(entry.Name()),
			Size:     info.Size(),
		})
	}
	return items, nil
}

func (s *Store) GetContent(ctx context.Context, itemID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.resolve(itemID)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorageAccess, "get content", err)
	}
	return content, nil
}

// resolve maps an item id to an absolute path, rejecting escapes from the
// base directory.
func (s *Store) resolve(id string) (string, error) {
	cleaned := filepath.Clean("/" + filepath.FromSlash(id))
	path := filepath.Join(s.basePath, cleaned)
	if !strings.HasPrefix(path, filepath.Clean(s.basePath)) {
		return "", domain.WrapError(domain.ErrInvalidInput, "resolve item id",
			fmt.Errorf("id %q escapes store root", id))
	}
	return path, nil
}

func fileType(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}
