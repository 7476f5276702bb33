package record

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/smartminutes/pkg/domain/interfaces"
	"github.com/secmon-lab/smartminutes/pkg/domain/model"
	"github.com/secmon-lab/smartminutes/pkg/utils/logging"
)

// DefaultKey is the KV key of the meeting collection blob
const DefaultKey = "smartminutes_data_v1"

// Store keeps the whole meeting collection as one versioned blob in a
// KVStore. Newest meetings come first.
type Store struct {
	kv    interfaces.KVStore
	key   string
	clock func() time.Time
	mu    sync.Mutex
}

var _ interfaces.MeetingRepository = (*Store)(nil)

// Option configures Store
type Option func(*Store)

// WithKey overrides DefaultKey
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock overrides the time source used to stamp UpdatedAt
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// New creates a Store on top of kv
func New(kv interfaces.KVStore, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		key:   DefaultKey,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the KV key used by the store
func (s *Store) Key() string {
	return s.key
}

// collection is the decoded state of the blob
type collection struct {
	meetings []*model.Meeting
	// readOnly is set when the blob was written by a newer version
	readOnly bool
}

// load reads the blob. A missing blob is an empty collection. A corrupt
// blob is backed up under another key and treated as empty so that the
// next write starts over. Transport errors are returned.
func (s *Store) load(ctx context.Context) (*collection, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read meeting collection", goerr.V(KeyKey, s.key))
	}
	if data == nil {
		return &collection{}, nil
	}

	meetings, version, err := decode(data)
	if err != nil {
		if errors.Is(err, ErrUnsupportedVersion) {
			logging.From(ctx).Warn("meeting collection was written by a newer version",
				slog.String("key", s.key),
				slog.Int("version", version),
			)
			return &collection{readOnly: true}, nil
		}

		backup := fmt.Sprintf("%s.corrupt-%d", s.key, s.clock().Unix())
		logging.From(ctx).Warn("meeting collection is corrupt, starting empty",
			slog.String("key", s.key),
			slog.String("backup", backup),
			slog.Any("error", err),
		)
		if putErr := s.kv.Put(ctx, backup, data); putErr != nil {
			logging.From(ctx).Error("failed to back up corrupt meeting collection",
				slog.String("backup", backup),
				slog.Any("error", putErr),
			)
		}
		return &collection{}, nil
	}

	if version < CurrentVersion {
		logging.From(ctx).Info("migrated meeting collection",
			slog.String("key", s.key),
			slog.Int("from", version),
			slog.Int("to", CurrentVersion),
			slog.Int("count", len(meetings)),
		)
	}

	return &collection{meetings: meetings}, nil
}

func (s *Store) store(ctx context.Context, c *collection) error {
	if c.readOnly {
		return goerr.Wrap(ErrUnsupportedVersion, "refusing to overwrite newer meeting collection",
			goerr.V(KeyKey, s.key))
	}

	data, err := encode(c.meetings)
	if err != nil {
		return err
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		return goerr.Wrap(err, "failed to write meeting collection", goerr.V(KeyKey, s.key))
	}
	return nil
}

// List returns all meetings, newest first. Read failures never surface:
// they are logged and an empty list is returned.
func (s *Store) List(ctx context.Context) ([]*model.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx)
	if err != nil {
		logging.From(ctx).Error("failed to load meetings", slog.Any("error", err))
		return []*model.Meeting{}, nil
	}
	if c.meetings == nil {
		return []*model.Meeting{}, nil
	}
	return c.meetings, nil
}

// Get returns the meeting with id or ErrNotFound
func (s *Store) Get(ctx context.Context, id model.MeetingID) (*model.Meeting, error) {
	meetings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range meetings {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, goerr.Wrap(ErrNotFound, "meeting not found", goerr.V(MeetingIDKey, id))
}

// Save upserts m keyed by ID. UpdatedAt is stamped with the store clock.
// A meeting with a known ID is replaced in place; otherwise it is put
// at the front. The stored copy is returned.
func (s *Store) Save(ctx context.Context, m *model.Meeting) (*model.Meeting, error) {
	if m == nil {
		return nil, goerr.Wrap(model.ErrInvalidMeeting, "meeting is nil")
	}

	saved := m.Clone()
	saved.UpdatedAt = s.clock()
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = saved.UpdatedAt
	}
	if err := saved.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	replaced := false
	for i, existing := range c.meetings {
		if existing.ID == saved.ID {
			c.meetings[i] = saved
			replaced = true
			break
		}
	}
	if !replaced {
		c.meetings = append([]*model.Meeting{saved}, c.meetings...)
	}

	if err := s.store(ctx, c); err != nil {
		return nil, goerr.Wrap(err, "failed to save meeting", goerr.V(MeetingIDKey, saved.ID))
	}

	return saved.Clone(), nil
}

// Delete removes the meeting with id. Deleting an absent id succeeds
// without writing.
func (s *Store) Delete(ctx context.Context, id model.MeetingID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := make([]*model.Meeting, 0, len(c.meetings))
	for _, m := range c.meetings {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(c.meetings) {
		return nil
	}

	c.meetings = kept
	if err := s.store(ctx, c); err != nil {
		return goerr.Wrap(err, "failed to delete meeting", goerr.V(MeetingIDKey, id))
	}
	return nil
}
