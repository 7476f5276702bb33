package firestore

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/smartminutes/pkg/domain/interfaces"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultCollection = "smartminutes"

// Firestore stores each key as one document holding the raw value.
// Firestore limits documents to 1 MiB, which bounds the collection size.
type Firestore struct {
	client     *firestore.Client
	collection string
}

var _ interfaces.KVStore = &Firestore{}

type Option func(*Firestore)

// WithCollection sets the collection that holds the key documents
func WithCollection(name string) Option {
	return func(f *Firestore) {
		if name != "" {
			f.collection = name
		}
	}
}

// valueDoc is the document layout of a stored value
type valueDoc struct {
	Value     []byte    `firestore:"Value"`
	UpdatedAt time.Time `firestore:"UpdatedAt"`
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var (
		client *firestore.Client
		err    error
	)
	if databaseID == "" || databaseID == firestore.DefaultDatabaseID {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:     client,
		collection: defaultCollection,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) docRef(key string) (*firestore.DocumentRef, error) {
	if key == "" || strings.Contains(key, "/") {
		return nil, goerr.New("invalid document key", goerr.V("key", key))
	}
	return f.client.Collection(f.collection).Doc(key), nil
}

func (f *Firestore) Get(ctx context.Context, key string) ([]byte, error) {
	ref, err := f.docRef(key)
	if err != nil {
		return nil, err
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get value", goerr.V("key", key))
	}

	var doc valueDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode value", goerr.V("key", key))
	}

	return doc.Value, nil
}

func (f *Firestore) Put(ctx context.Context, key string, value []byte) error {
	ref, err := f.docRef(key)
	if err != nil {
		return err
	}

	doc := &valueDoc{
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := ref.Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put value", goerr.V("key", key))
	}
	return nil
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
