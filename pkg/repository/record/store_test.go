package record_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/smartminutes/pkg/domain/model"
	"github.com/secmon-lab/smartminutes/pkg/domain/types"
	"github.com/secmon-lab/smartminutes/pkg/repository/memory"
	"github.com/secmon-lab/smartminutes/pkg/repository/record"
)

type failingKV struct {
	*memory.Memory
	getErr error
	putErr error
}

func (f *failingKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Memory.Get(ctx, key)
}

func (f *failingKV) Put(ctx context.Context, key string, value []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.Memory.Put(ctx, key, value)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newMeeting(title string) *model.Meeting {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	m := model.NewMeeting(now)
	m.Title = title
	return m
}

func TestStoreSaveAndList(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 2, 10, 30, 0, 0, time.UTC)
	store := record.New(memory.New(), record.WithClock(fixedClock(now)))

	m := newMeeting("Weekly Sync")
	m.Participants = []string{"Alice", "Bob"}
	m.RawNotes = "discussed the roadmap"
	m.Tags = []string{"planning"}
	m.ActionItems = []model.ActionItem{model.NewActionItem("Draft plan", "Alice", "2024-05-10")}

	saved, err := store.Save(ctx, m)
	gt.NoError(t, err).Required()
	gt.Value(t, saved.UpdatedAt).Equal(now)

	meetings, err := store.List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, meetings).Length(1).Required()

	got := meetings[0]
	gt.Value(t, got.ID).Equal(m.ID)
	gt.Value(t, got.Title).Equal("Weekly Sync")
	gt.Value(t, got.Date).Equal("2024-05-01")
	gt.Value(t, got.Participants).Equal([]string{"Alice", "Bob"})
	gt.Value(t, got.RawNotes).Equal("discussed the roadmap")
	gt.Value(t, got.Tags).Equal([]string{"planning"})
	gt.Array(t, got.ActionItems).Length(1).Required()
	gt.Value(t, got.ActionItems[0]).Equal(m.ActionItems[0])
	gt.Value(t, got.CreatedAt).Equal(m.CreatedAt)
	gt.Value(t, got.UpdatedAt).Equal(now)
}

func TestStoreSaveDoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	store := record.New(memory.New(), record.WithClock(fixedClock(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))))

	m := newMeeting("original")
	before := m.UpdatedAt

	_, err := store.Save(ctx, m)
	gt.NoError(t, err).Required()
	gt.Value(t, m.UpdatedAt).Equal(before)
}

func TestStoreSaveIsIdempotentOnID(t *testing.T) {
	ctx := context.Background()
	store := record.New(memory.New())

	m := newMeeting("Retro")
	_, err := store.Save(ctx, m)
	gt.NoError(t, err).Required()
	_, err = store.Save(ctx, m)
	gt.NoError(t, err).Required()

	meetings, err := store.List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, meetings).Length(1)
}

func TestStoreOrdering(t *testing.T) {
	ctx := context.Background()
	store := record.New(memory.New())

	first := newMeeting("first")
	second := newMeeting("second")
	third := newMeeting("third")

	for _, m := range []*model.Meeting{first, second, third} {
		_, err := store.Save(ctx, m)
		gt.NoError(t, err).Required()
	}

	t.Run("new meetings are placed at the front", func(t *testing.T) {
		meetings, err := store.List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, meetings).Length(3).Required()
		gt.Value(t, meetings[0].ID).Equal(third.ID)
		gt.Value(t, meetings[1].ID).Equal(second.ID)
		gt.Value(t, meetings[2].ID).Equal(first.ID)
	})

	t.Run("existing meetings are replaced in place", func(t *testing.T) {
		updated := first.Clone()
		updated.Title = "first (edited)"
		_, err := store.Save(ctx, updated)
		gt.NoError(t, err).Required()

		meetings, err := store.List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, meetings).Length(3).Required()
		gt.Value(t, meetings[2].ID).Equal(first.ID)
		gt.Value(t, meetings[2].Title).Equal("first (edited)")
	})
}

func TestStoreGet(t *testing.T) {
	ctx := context.Background()
	store := record.New(memory.New())

	m := newMeeting("Budget Review")
	_, err := store.Save(ctx, m)
	gt.NoError(t, err).Required()

	got, err := store.Get(ctx, m.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Title).Equal("Budget Review")

	_, err = store.Get(ctx, model.NewMeetingID())
	gt.Error(t, err).Is(record.ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := record.New(memory.New())

	a := newMeeting("a")
	b := newMeeting("b")
	for _, m := range []*model.Meeting{a, b} {
		_, err := store.Save(ctx, m)
		gt.NoError(t, err).Required()
	}

	gt.NoError(t, store.Delete(ctx, a.ID)).Required()

	meetings, err := store.List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, meetings).Length(1).Required()
	gt.Value(t, meetings[0].ID).Equal(b.ID)

	t.Run("absent id is a no-op", func(t *testing.T) {
		gt.NoError(t, store.Delete(ctx, model.NewMeetingID()))

		meetings, err := store.List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, meetings).Length(1)
	})
}

func TestStoreListEmpty(t *testing.T) {
	meetings, err := record.New(memory.New()).List(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, meetings).NotNil()
	gt.Array(t, meetings).Length(0)
}

func TestStoreCorruptBlob(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	store := record.New(kv, record.WithClock(fixedClock(now)))

	gt.NoError(t, kv.Put(ctx, record.DefaultKey, []byte("{not json"))).Required()

	meetings, err := store.List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, meetings).Length(0)

	t.Run("corrupt blob is backed up", func(t *testing.T) {
		backup, err := kv.Get(ctx, record.DefaultKey+".corrupt-1717200000")
		gt.NoError(t, err).Required()
		gt.Value(t, string(backup)).Equal("{not json")
	})

	t.Run("next save starts a fresh collection", func(t *testing.T) {
		_, err := store.Save(ctx, newMeeting("fresh"))
		gt.NoError(t, err).Required()

		meetings, err := store.List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, meetings).Length(1)
	})
}

func TestStoreLegacyArray(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	store := record.New(kv)

	legacy := `[
		{
			"id": "1714550400000",
			"title": "Kickoff",
			"date": "2024-05-01",
			"participants": ["Alice"],
			"rawNotes": "notes",
			"summary": "",
			"actionItems": [{"id": "a1", "task": "Book room", "assignee": "Bob"}],
			"tags": ["launch"],
			"createdAt": 1714550400000,
			"updatedAt": 1714550400000
		}
	]`
	gt.NoError(t, kv.Put(ctx, record.DefaultKey, []byte(legacy))).Required()

	meetings, err := store.List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, meetings).Length(1).Required()

	m := meetings[0]
	gt.Value(t, m.ID).Equal(model.MeetingID("1714550400000"))
	gt.Value(t, m.Title).Equal("Kickoff")
	gt.Value(t, m.CreatedAt).Equal(time.UnixMilli(1714550400000).UTC())
	gt.Array(t, m.ActionItems).Length(1).Required()
	gt.Value(t, m.ActionItems[0].Status).Equal(types.ActionItemStatusPending)

	t.Run("saving rewrites the blob in the current format", func(t *testing.T) {
		_, err := store.Save(ctx, m)
		gt.NoError(t, err).Required()

		data, err := kv.Get(ctx, record.DefaultKey)
		gt.NoError(t, err).Required()
		gt.Bool(t, strings.HasPrefix(string(data), `{"version":1,`)).True()
	})
}

func TestStoreNewerVersion(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	store := record.New(kv)

	blob := `{"version":99,"meetings":[{"id":"x","title":"future"}]}`
	gt.NoError(t, kv.Put(ctx, record.DefaultKey, []byte(blob))).Required()

	meetings, err := store.List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, meetings).Length(0)

	_, err = store.Save(ctx, newMeeting("now"))
	gt.Error(t, err).Is(record.ErrUnsupportedVersion)

	data, err := kv.Get(ctx, record.DefaultKey)
	gt.NoError(t, err).Required()
	gt.Value(t, string(data)).Equal(blob)
}

func TestStoreWriteFailure(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{Memory: memory.New(), putErr: errors.New("disk full")}
	store := record.New(kv)

	_, err := store.Save(ctx, newMeeting("lost"))
	gt.Error(t, err)

	kv.putErr = nil
	meetings, err := store.List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, meetings).Length(0)
}

func TestStoreReadFailure(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{Memory: memory.New(), getErr: errors.New("unreachable")}
	store := record.New(kv)

	t.Run("list degrades to empty", func(t *testing.T) {
		meetings, err := store.List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, meetings).Length(0)
	})

	t.Run("save fails instead of overwriting", func(t *testing.T) {
		_, err := store.Save(ctx, newMeeting("x"))
		gt.Error(t, err)
	})
}

func TestStoreRejectsInvalidMeeting(t *testing.T) {
	store := record.New(memory.New())

	m := newMeeting("bad date")
	m.Date = "05/01/2024"
	_, err := store.Save(context.Background(), m)
	gt.Error(t, err).Is(model.ErrInvalidMeeting)
}

func TestStoreCustomKey(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	store := record.New(kv, record.WithKey("custom"))
	gt.Value(t, store.Key()).Equal("custom")

	_, err := store.Save(ctx, newMeeting("x"))
	gt.NoError(t, err).Required()

	data, err := kv.Get(ctx, "custom")
	gt.NoError(t, err).Required()
	gt.Value(t, data).NotNil()
}
