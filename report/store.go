package report

import (
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/jmgilman/go/errors"
)

// Store persists rendered artifacts.
type Store interface {
	// Write replaces the artifact at name with data.
	Write(name string, data []byte) error
}

// FSStore writes artifacts to a go-billy filesystem.
//
// Each write goes to a temporary file in the target directory which is then
// renamed over the artifact, so readers see either the old or the new file.
type FSStore struct {
	fs billy.Filesystem
}

// NewFSStore creates a store rooted at fs.
//
// Example:
//
//	store := report.NewFSStore(osfs.New("reports"))
func NewFSStore(fs billy.Filesystem) *FSStore {
	return &FSStore{fs: fs}
}

// Filesystem returns the underlying filesystem.
func (s *FSStore) Filesystem() billy.Filesystem {
	return s.fs
}

// Write implements Store.
func (s *FSStore) Write(name string, data []byte) error {
	dir := path.Dir(name)
	if dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return pathError(err, "failed to create directory", dir)
		}
	}

	tmp, err := s.fs.TempFile(dir, "."+path.Base(name)+".tmp-")
	if err != nil {
		return pathError(err, "failed to create temporary file", name)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return pathError(err, "failed to write temporary file", tmpName)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return pathError(err, "failed to close temporary file", tmpName)
	}

	if err := s.fs.Rename(tmpName, name); err != nil {
		// Some backends refuse to rename over an existing file.
		_ = s.fs.Remove(name)
		if err := s.fs.Rename(tmpName, name); err != nil {
			_ = s.fs.Remove(tmpName)
			return pathError(err, "failed to replace artifact", name)
		}
	}

	return nil
}

func pathError(err error, message, p string) error {
	return errors.WithContext(errors.Wrap(err, errors.CodeInternal, message), "path", p)
}
