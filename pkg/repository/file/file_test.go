package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/smartminutes/pkg/repository/file"
)

func TestNew(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "store")
		store, err := file.New(dir)
		gt.NoError(t, err).Required()
		gt.Value(t, store.Dir()).Equal(dir)

		info, err := os.Stat(dir)
		gt.NoError(t, err).Required()
		gt.Bool(t, info.IsDir()).True()
	})

	t.Run("rejects empty directory", func(t *testing.T) {
		_, err := file.New("")
		gt.Error(t, err)
	})
}

func TestFile_PutLeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := file.New(dir)
	gt.NoError(t, err).Required()

	ctx := context.Background()
	gt.NoError(t, store.Put(ctx, "smartminutes_data_v1", []byte("[]"))).Required()
	gt.NoError(t, store.Put(ctx, "smartminutes_data_v1", []byte("[1]"))).Required()

	entries, err := os.ReadDir(dir)
	gt.NoError(t, err).Required()
	gt.Array(t, entries).Length(1)
}

func TestFile_KeysWithPathSeparators(t *testing.T) {
	store, err := file.New(t.TempDir())
	gt.NoError(t, err).Required()

	ctx := context.Background()
	gt.NoError(t, store.Put(ctx, "../escape/key", []byte("v"))).Required()

	value, err := store.Get(ctx, "../escape/key")
	gt.NoError(t, err).Required()
	gt.Value(t, string(value)).Equal("v")
}
