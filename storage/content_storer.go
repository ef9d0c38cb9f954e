// Package storage abstracts the object store holding uploaded documents
// and pre-rendered flipbook pages: a local filesystem store for
// development and an S3 store for deployment.
package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const defaultLocalBasePath = "_output"

// ContentStorer is the interface for storing and retrieving content by
// relative path.
type ContentStorer interface {
	// Store saves the content and returns the path it was stored under.
	Store(ctx context.Context, path string, content []byte) (string, error)
	Fetch(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
	// List returns the paths under the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// LocalFileStorer implements ContentStorer on the local file system.
type LocalFileStorer struct {
	basePath string
}

// NewLocalFileStorer creates a new LocalFileStorer. If basePath is empty,
// it defaults to defaultLocalBasePath.
func NewLocalFileStorer(basePath string) *LocalFileStorer {
	if basePath == "" {
		basePath = defaultLocalBasePath
	}
	return &LocalFileStorer{basePath: basePath}
}

// fullPath resolves a relative storage path under the base directory and
// refuses paths that would escape it.
func (lfs *LocalFileStorer) fullPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("storage path cannot be empty")
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("storage path %q escapes the storage root", path)
	}
	return filepath.Join(lfs.basePath, clean), nil
}

func (lfs *LocalFileStorer) Store(_ context.Context, path string, content []byte) (string, error) {
	full, err := lfs.fullPath(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}
	if err := os.WriteFile(full, content, 0644); err != nil {
		return "", fmt.Errorf("failed to save content: %w", err)
	}
	log.Printf("INFO (LocalFileStorer): Saved content to: %s", full)
	return path, nil
}

func (lfs *LocalFileStorer) Fetch(_ context.Context, path string) ([]byte, error) {
	full, err := lfs.fullPath(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return content, nil
}

func (lfs *LocalFileStorer) Exists(_ context.Context, path string) (bool, error) {
	full, err := lfs.fullPath(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return true, nil
}

func (lfs *LocalFileStorer) List(_ context.Context, prefix string) ([]string, error) {
	full, err := lfs.fullPath(prefix)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.Walk(full, func(p string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(lfs.basePath, p)
		if relErr != nil {
			return relErr
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}

	sort.Strings(paths)
	if paths == nil {
		paths = []string{}
	}
	return paths, nil
}
