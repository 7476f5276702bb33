package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/smartminutes/pkg/cli/config"
)

func TestStorage_Configure(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		kv, err := config.NewStorageForTest(config.BackendMemory, "").Configure(t.Context())
		gt.NoError(t, err).Required()
		defer func() { gt.NoError(t, kv.Close()) }()

		gt.NoError(t, kv.Put(t.Context(), "k", []byte("v"))).Required()
		value, err := kv.Get(t.Context(), "k")
		gt.NoError(t, err).Required()
		gt.Value(t, string(value)).Equal("v")
	})

	t.Run("file backend", func(t *testing.T) {
		kv, err := config.NewStorageForTest(config.BackendFile, t.TempDir()).Configure(t.Context())
		gt.NoError(t, err).Required()
		defer func() { gt.NoError(t, kv.Close()) }()

		value, err := kv.Get(t.Context(), "missing")
		gt.NoError(t, err).Required()
		gt.Value(t, value).Nil()
	})

	t.Run("firestore requires a project", func(t *testing.T) {
		_, err := config.NewStorageForTest(config.BackendFirestore, "").Configure(t.Context())
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("cloudstorage requires a bucket", func(t *testing.T) {
		_, err := config.NewStorageForTest(config.BackendCloudStorage, "").Configure(t.Context())
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.NewStorageForTest("sqlite", "").Configure(t.Context())
		gt.Error(t, err).Is(config.ErrInvalidBackend)
	})
}
