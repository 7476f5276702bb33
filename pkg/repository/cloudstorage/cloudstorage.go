package cloudstorage

import (
	"context"
	"errors"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/smartminutes/pkg/domain/interfaces"
	"github.com/secmon-lab/smartminutes/pkg/utils/safe"
)

// CloudStorage stores each key as one object in a bucket
type CloudStorage struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.KVStore = &CloudStorage{}

type Option func(*CloudStorage)

// WithPrefix places all objects under prefix
func WithPrefix(prefix string) Option {
	return func(c *CloudStorage) {
		c.prefix = prefix
	}
}

func New(ctx context.Context, bucket string, opts ...Option) (*CloudStorage, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create cloud storage client", goerr.V("bucket", bucket))
	}

	c := &CloudStorage{
		client: client,
		bucket: bucket,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *CloudStorage) objectName(key string) string {
	return path.Join(c.prefix, key+".json")
}

func (c *CloudStorage) Get(ctx context.Context, key string) ([]byte, error) {
	name := c.objectName(key)
	r, err := c.client.Bucket(c.bucket).Object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to open object", goerr.V("bucket", c.bucket), goerr.V("object", name))
	}
	defer safe.Close(ctx, r)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read object", goerr.V("bucket", c.bucket), goerr.V("object", name))
	}
	return data, nil
}

func (c *CloudStorage) Put(ctx context.Context, key string, value []byte) error {
	name := c.objectName(key)
	w := c.client.Bucket(c.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(value); err != nil {
		safe.Close(ctx, w)
		return goerr.Wrap(err, "failed to write object", goerr.V("bucket", c.bucket), goerr.V("object", name))
	}
	// the upload is committed by Close
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to commit object", goerr.V("bucket", c.bucket), goerr.V("object", name))
	}
	return nil
}

func (c *CloudStorage) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
