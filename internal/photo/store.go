package photo

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store keeps at most one photo file per listing, named
// {listingID}.{extension}. Replacement goes through a temporary file in the
// same directory followed by a rename, so the previous photo stays fully
// intact and reachable until the new one is durably in place. Concurrent
// re-uploads of the same listing resolve to the last completed rename; no
// partial file is ever visible under the public name.
type Store struct {
	dir string
}

// NewStore creates the photo directory if needed and returns the store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create photo directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory served as the public photo root.
func (s *Store) Dir() string { return s.dir }

// Save atomically replaces the photo for a listing and returns the stored
// filename. On any failure before the rename the previous file is untouched.
func (s *Store) Save(listingID, ext string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temporary photo file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write photo: %w", err)
	}
	// The rename only publishes bytes that are durably on disk.
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("sync photo: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close photo: %w", err)
	}

	filename := listingID + "." + ext
	if err := os.Rename(tmpName, filepath.Join(s.dir, filename)); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("publish photo: %w", err)
	}

	// A re-upload with a different sniffed type changes the extension;
	// drop any stale sibling so exactly one file per listing remains.
	for _, other := range extensionsByMIME {
		if other == ext {
			continue
		}
		_ = os.Remove(filepath.Join(s.dir, listingID+"."+other))
	}

	return filename, nil
}

// Remove deletes whatever photo variant exists for a listing. Used by the
// privileged maintenance path; a missing file is not an error.
func (s *Store) Remove(listingID string) error {
	for _, ext := range extensionsByMIME {
		err := os.Remove(filepath.Join(s.dir, listingID+"."+ext))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove photo: %w", err)
		}
	}
	return nil
}
