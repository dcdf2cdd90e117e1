package scanner

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// SymlinkFs extends afero.Fs with symlink support.
type SymlinkFs interface {
	afero.Fs
	ReadlinkIfPossible(name string) (string, error)
}

// BasicSymlinkFs wraps a filesystem without symlink support.
type BasicSymlinkFs struct {
	afero.Fs
}

// ReadlinkIfPossible implements SymlinkFs for BasicSymlinkFs.
func (fs *BasicSymlinkFs) ReadlinkIfPossible(name string) (string, error) {
	return "", fmt.Errorf("symlinks not supported")
}

// canonicalPath resolves a directory path to a stable identity used by the
// walker's visited set to break symlink cycles. Only the real OS filesystem
// can resolve links; other filesystems fall back to the cleaned path.
func canonicalPath(fs afero.Fs, path string) string {
	base := fs
	if wrapped, ok := fs.(*BasicSymlinkFs); ok {
		base = wrapped.Fs
	}
	if _, ok := base.(*afero.OsFs); ok {
		if resolved, err := filepath.EvalSymlinks(path); err == nil {
			return resolved
		}
	}
	return filepath.Clean(path)
}

// TestSymlinkFs implements SymlinkFs for testing.
type TestSymlinkFs struct {
	afero.Fs
	symlinks map[string]string
	mu       sync.RWMutex
}

// NewTestSymlinkFs creates a new TestSymlinkFs over the given filesystem.
func NewTestSymlinkFs(fs afero.Fs) *TestSymlinkFs {
	return &TestSymlinkFs{
		Fs:       fs,
		symlinks: make(map[string]string),
	}
}

// ReadlinkIfPossible implements SymlinkFs for TestSymlinkFs.
func (fs *TestSymlinkFs) ReadlinkIfPossible(name string) (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if target, ok := fs.symlinks[name]; ok {
		return target, nil
	}
	return "", fmt.Errorf("not a symlink")
}

// CreateSymlink registers a symlink and mirrors the source content so the
// link is readable through the in-memory filesystem.
func (fs *TestSymlinkFs) CreateSymlink(source, target string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.symlinks[target] = source

	content, err := afero.ReadFile(fs.Fs, source)
	if err != nil {
		return err
	}
	return afero.WriteFile(fs.Fs, target, content, 0644)
}
