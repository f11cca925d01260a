package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dom/blitzadex/internal/domain"
)

// Disk stores JSON documents as individual files under a single directory.
// Writes replace the whole file; a reader never sees a half-written document.
// It assumes a single writer per directory.
type Disk struct {
	dir string
}

func NewDisk(dir string) *Disk {
	return &Disk{dir: dir}
}

func (d *Disk) Dir() string {
	return d.dir
}

// Path returns the on-disk location for name.
func (d *Disk) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid cache file name %q", name)
	}
	return filepath.Join(d.dir, name), nil
}

// Save serializes v as indented JSON into name, creating the cache directory
// if needed.
func (d *Disk) Save(name string, v any) error {
	path, err := d.Path(name)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	if err := os.MkdirAll(d.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to open temp file for %s: %w", name, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// Load decodes name into v. A missing file yields domain.ErrNotFound and
// content that does not decode into v yields domain.ErrDecode.
func (d *Disk) Load(name string, v any) error {
	path, err := d.Path(name)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: cache file %s", domain.ErrNotFound, name)
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: cache file %s: %w", domain.ErrDecode, name, err)
	}
	return nil
}

// Remove deletes name from the cache. Removing a missing file is not an error.
func (d *Disk) Remove(name string) error {
	path, err := d.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}
