package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/smartminutes/pkg/domain/interfaces"
	"github.com/secmon-lab/smartminutes/pkg/repository/cloudstorage"
	"github.com/secmon-lab/smartminutes/pkg/repository/file"
	"github.com/secmon-lab/smartminutes/pkg/repository/firestore"
	"github.com/secmon-lab/smartminutes/pkg/repository/memory"
	"github.com/secmon-lab/smartminutes/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const (
	BackendFile         = "file"
	BackendMemory       = "memory"
	BackendFirestore    = "firestore"
	BackendCloudStorage = "cloudstorage"
)

// Storage holds CLI flags for the key-value backend of the record store
type Storage struct {
	backend    string
	path       string
	projectID  string
	databaseID string
	collection string
	bucket     string
	prefix     string
}

// Flags returns CLI flags for storage configuration
func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Storage backend (file, memory, firestore, cloudstorage)",
			Value:       BackendFile,
			Category:    "Storage",
			Sources:     cli.EnvVars("SMARTMINUTES_STORAGE_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "storage-path",
			Usage:       "Directory for the file backend (default: user config dir)",
			Category:    "Storage",
			Sources:     cli.EnvVars("SMARTMINUTES_STORAGE_PATH"),
			Destination: &x.path,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Storage",
			Sources:     cli.EnvVars("SMARTMINUTES_FIRESTORE_PROJECT_ID"),
			Destination: &x.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Storage",
			Sources:     cli.EnvVars("SMARTMINUTES_FIRESTORE_DATABASE_ID"),
			Destination: &x.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection holding the meeting data",
			Category:    "Storage",
			Sources:     cli.EnvVars("SMARTMINUTES_FIRESTORE_COLLECTION"),
			Destination: &x.collection,
		},
		&cli.StringFlag{
			Name:        "cloudstorage-bucket",
			Usage:       "Cloud Storage bucket (required when using cloudstorage backend)",
			Category:    "Storage",
			Sources:     cli.EnvVars("SMARTMINUTES_CLOUDSTORAGE_BUCKET"),
			Destination: &x.bucket,
		},
		&cli.StringFlag{
			Name:        "cloudstorage-prefix",
			Usage:       "Object name prefix in the Cloud Storage bucket",
			Category:    "Storage",
			Sources:     cli.EnvVars("SMARTMINUTES_CLOUDSTORAGE_PREFIX"),
			Destination: &x.prefix,
		},
	}
}

// Backend returns the configured backend type
func (x *Storage) Backend() string {
	return x.backend
}

func defaultStoragePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve user config directory")
	}
	return filepath.Join(dir, "smartminutes"), nil
}

// Configure initializes and returns the key-value store for the configured
// backend. The caller is responsible for calling Close() on it.
func (x *Storage) Configure(ctx context.Context) (interfaces.KVStore, error) {
	switch x.backend {
	case "", BackendFile:
		path := x.path
		if path == "" {
			p, err := defaultStoragePath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		kv, err := file.New(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize file storage")
		}
		logging.Default().Info("Using file storage", "path", kv.Dir())
		return kv, nil

	case BackendMemory:
		logging.Default().Info("Using in-memory storage (data is lost on exit)")
		return memory.New(), nil

	case BackendFirestore:
		if x.projectID == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "firestore-project-id is required when using firestore backend")
		}
		var opts []firestore.Option
		if x.collection != "" {
			opts = append(opts, firestore.WithCollection(x.collection))
		}
		kv, err := firestore.New(ctx, x.projectID, x.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore storage")
		}
		logging.Default().Info("Using Firestore storage",
			"project_id", x.projectID,
			"database_id", x.databaseID,
		)
		return kv, nil

	case BackendCloudStorage:
		if x.bucket == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "cloudstorage-bucket is required when using cloudstorage backend")
		}
		kv, err := cloudstorage.New(ctx, x.bucket, cloudstorage.WithPrefix(x.prefix))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize cloud storage")
		}
		logging.Default().Info("Using Cloud Storage", "bucket", x.bucket, "prefix", x.prefix)
		return kv, nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "unknown storage backend", goerr.V(BackendKey, x.backend))
	}
}
