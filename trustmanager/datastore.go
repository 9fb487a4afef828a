// Package trustmanager persists trusted metadata and samples the local
// clock, generalizing notary's trustmanager.FileStore (see
// trustmanager/filestore.go in the teacher tree) to a client that only
// ever holds public, already-verified documents — never private key
// material, so the AES/scrypt encrypted-store half of that file has no
// role to play here.
package trustmanager

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirPerms  os.FileMode = 0755
	filePerms os.FileMode = 0644
)

// Datastore reads and atomically writes named files beneath a single
// base directory, the way notary's fileStore scopes every file name to
// baseDir, but with the write path hardened against a crash between
// write and close: Create always writes to a temp file in the same
// directory and renames it into place, so a reader never observes a
// partially written metadata file (spec.md §4.3).
type Datastore struct {
	baseDir string
}

// NewDatastore creates baseDir (and any missing parents) if needed and
// returns a Datastore rooted there.
func NewDatastore(baseDir string) (*Datastore, error) {
	if err := os.MkdirAll(baseDir, dirPerms); err != nil {
		return nil, &DatastoreUnwritable{Path: baseDir, Cause: err}
	}
	return &Datastore{baseDir: baseDir}, nil
}

// Reader returns the bytes stored under name, or an error satisfying
// os.IsNotExist if nothing has been stored yet. Any other read failure
// (permissions, I/O error) is wrapped in DatastoreUnreadable so callers
// can tell "absent" from "present but unreadable" with errors.As
// instead of re-deriving it from the raw os error.
func (d *Datastore) Reader(name string) ([]byte, error) {
	target := filepath.Join(d.baseDir, name)
	b, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, &DatastoreUnreadable{Path: target, Cause: err}
	}
	return b, nil
}

// Create atomically writes value under name: it writes to a temporary
// file in the same directory, then renames it over any existing file,
// so a concurrent reader always sees either the old or the new content,
// never a truncated mix of both.
func (d *Datastore) Create(name string, value []byte) error {
	target := filepath.Join(d.baseDir, name)
	tmp, err := os.CreateTemp(d.baseDir, ".tmp-"+name+"-*")
	if err != nil {
		return &DatastoreUnwritable{Path: target, Cause: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &DatastoreUnwritable{Path: target, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &DatastoreUnwritable{Path: target, Cause: err}
	}
	if err := os.Chmod(tmpName, filePerms); err != nil {
		os.Remove(tmpName)
		return &DatastoreUnwritable{Path: target, Cause: err}
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return &DatastoreUnwritable{Path: target, Cause: err}
	}
	return nil
}

// Remove deletes name if present; removing an already-absent file is
// not an error.
func (d *Datastore) Remove(name string) error {
	err := os.Remove(filepath.Join(d.baseDir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("trustmanager: remove %s: %w", name, err)
	}
	return nil
}

// Path returns the absolute path name would be stored at, without
// touching the filesystem — used by callers that need to hand a
// filename to something outside this package (e.g. a log line).
func (d *Datastore) Path(name string) string {
	return filepath.Join(d.baseDir, name)
}
