package file

import (
	"context"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/smartminutes/pkg/domain/interfaces"
	"github.com/secmon-lab/smartminutes/pkg/utils/safe"
)

// File is a key-value namespace backed by a directory. Each key is one
// file; writes go to a temporary file first and are renamed into place so
// a crash never leaves a half-written value behind.
type File struct {
	mu  sync.Mutex
	dir string
}

var _ interfaces.KVStore = &File{}

// New creates the directory if needed and returns a store rooted there
func New(dir string) (*File, error) {
	if dir == "" {
		return nil, goerr.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, goerr.Wrap(err, "failed to create storage directory", goerr.V("dir", dir))
	}
	return &File{dir: dir}, nil
}

// Dir returns the root directory
func (f *File) Dir() string {
	return f.dir
}

// path maps key to a file name. Keys are hex encoded so any key is a
// safe single path element.
func (f *File) path(key string) string {
	return filepath.Join(f.dir, hex.EncodeToString([]byte(key))+".json")
}

func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read value", goerr.V("key", key))
	}
	return data, nil
}

func (f *File) Put(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, ".put-*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary file", goerr.V("key", key))
	}
	tmpName := tmp.Name()
	// no-op after a successful rename
	defer safe.Remove(ctx, tmpName)

	if _, err := tmp.Write(value); err != nil {
		safe.Close(ctx, tmp)
		return goerr.Wrap(err, "failed to write value", goerr.V("key", key))
	}
	if err := tmp.Sync(); err != nil {
		safe.Close(ctx, tmp)
		return goerr.Wrap(err, "failed to sync value", goerr.V("key", key))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close temporary file", goerr.V("key", key))
	}

	if err := os.Rename(tmpName, f.path(key)); err != nil {
		return goerr.Wrap(err, "failed to replace value", goerr.V("key", key))
	}
	return nil
}

func (f *File) Close() error {
	return nil
}
