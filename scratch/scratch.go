package scratch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// Prefix starts every scratch file name.
	Prefix = "whisper-gateway-"
	// DefaultExt is used when the upload name has no usable extension.
	DefaultExt = ".wav"

	maxExtLen = 10
)

// Dir creates scratch files under a single directory.
type Dir struct {
	path string
}

// NewDir returns a Dir rooted at path, creating it if needed. An empty
// path means the OS temp dir.
func NewDir(path string) (*Dir, error) {
	if path == "" {
		path = os.TempDir()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("scratch: resolve dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("scratch: create dir: %w", err)
	}
	return &Dir{path: abs}, nil
}

// Path returns the absolute directory.
func (d *Dir) Path() string { return d.path }

// File is one upload on disk.
type File struct {
	path string
	size int64
}

// Write copies src into a new uniquely named file. The extension comes from
// filename. On error nothing is left behind.
func (d *Dir) Write(filename string, src io.Reader) (*File, error) {
	f, err := os.CreateTemp(d.path, Prefix+"*"+Ext(filename))
	if err != nil {
		return nil, fmt.Errorf("scratch: create file: %w", err)
	}

	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(f.Name())
		if copyErr != nil {
			return nil, fmt.Errorf("scratch: write file: %w", copyErr)
		}
		return nil, fmt.Errorf("scratch: close file: %w", closeErr)
	}
	return &File{path: f.Name(), size: n}, nil
}

// Path returns the file's absolute path.
func (f *File) Path() string { return f.path }

// Size returns the number of bytes written.
func (f *File) Size() int64 { return f.size }

// Release removes the file. A file that is already gone is not an error.
func (f *File) Release() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("scratch: delete file: %w", err)
	}
	return nil
}

// Ext returns the lowercased extension of filename, or DefaultExt when it
// has none or it contains anything but letters and digits.
func Ext(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) < 2 || len(ext) > maxExtLen {
		return DefaultExt
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return DefaultExt
		}
	}
	return ext
}
