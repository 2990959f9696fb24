package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskStore keeps uploaded image assets as files under a single directory.
// References handed out are relative paths ("images/<id>.png") that double as
// the URL path the files are served from.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes the uploaded bytes under a generated name and returns the
// asset reference.
func (s *DiskStore) Save(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("creating asset file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing asset file: %w", err)
	}

	return filepath.ToSlash(filepath.Join(s.dir, name)), nil
}

// Delete removes the asset behind a previously returned reference. A missing
// file is not an error; the asset is already gone.
func (s *DiskStore) Delete(ref string) error {
	// Refuse references that escape the image directory.
	clean := filepath.Clean(filepath.FromSlash(ref))
	if !strings.HasPrefix(clean, filepath.Clean(s.dir)+string(filepath.Separator)) {
		return fmt.Errorf("asset reference %q outside image directory", ref)
	}

	err := os.Remove(clean)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
