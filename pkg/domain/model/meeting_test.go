package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/smartminutes/pkg/domain/model"
	"github.com/secmon-lab/smartminutes/pkg/domain/types"
)

func TestNewMeeting(t *testing.T) {
	now := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	m := model.NewMeeting(now)

	gt.String(t, m.ID.String()).NotEqual("")
	gt.Value(t, m.Date).Equal("2026-03-04")
	gt.Value(t, m.Title).Equal("")
	gt.Value(t, m.RawNotes).Equal("")
	gt.Value(t, m.Summary).Equal("")
	gt.Array(t, m.Participants).Length(0)
	gt.Array(t, m.Tags).Length(0)
	gt.Array(t, m.ActionItems).Length(0)
	gt.Value(t, m.CreatedAt).Equal(now)
	gt.Value(t, m.UpdatedAt).Equal(now)
}

func TestNewMeetingID_Unique(t *testing.T) {
	const n = 100000
	seen := make(map[model.MeetingID]bool, n)
	for i := 0; i < n; i++ {
		id := model.NewMeeting(time.Now()).ID
		gt.Bool(t, seen[id]).False()
		seen[id] = true
	}
	gt.Number(t, len(seen)).Equal(n)
}

func TestMeeting_Clone(t *testing.T) {
	orig := &model.Meeting{
		ID:           model.NewMeetingID(),
		Title:        "Weekly Sync",
		Participants: []string{"alice", "bob"},
		Tags:         []string{"ops"},
		ActionItems:  []model.ActionItem{model.NewActionItem("write doc", "alice", "")},
	}

	cloned := orig.Clone()
	gt.Value(t, cloned).Equal(orig)

	cloned.Title = "changed"
	cloned.Participants[0] = "carol"
	cloned.Tags[0] = "finance"
	cloned.ActionItems[0].Status = types.ActionItemStatusCompleted

	gt.Value(t, orig.Title).Equal("Weekly Sync")
	gt.Value(t, orig.Participants[0]).Equal("alice")
	gt.Value(t, orig.Tags[0]).Equal("ops")
	gt.Value(t, orig.ActionItems[0].Status).Equal(types.ActionItemStatusPending)

	t.Run("nil meeting clones to nil", func(t *testing.T) {
		var m *model.Meeting
		gt.Value(t, m.Clone()).Nil()
	})
}

func TestMeeting_Validate(t *testing.T) {
	valid := func() *model.Meeting {
		m := model.NewMeeting(time.Now())
		m.ActionItems = []model.ActionItem{
			model.NewActionItem("a", "", ""),
			model.NewActionItem("b", "", "next week"),
		}
		return m
	}

	t.Run("valid meeting", func(t *testing.T) {
		gt.NoError(t, valid().Validate())
	})

	t.Run("empty date is allowed", func(t *testing.T) {
		m := valid()
		m.Date = ""
		gt.NoError(t, m.Validate())
	})

	t.Run("missing ID", func(t *testing.T) {
		m := valid()
		m.ID = ""
		gt.Error(t, m.Validate()).Is(model.ErrInvalidMeeting)
	})

	t.Run("malformed date", func(t *testing.T) {
		m := valid()
		m.Date = "03/04/2026"
		gt.Error(t, m.Validate()).Is(model.ErrInvalidMeeting)
	})

	t.Run("duplicate action item ID", func(t *testing.T) {
		m := valid()
		m.ActionItems[1].ID = m.ActionItems[0].ID
		gt.Error(t, m.Validate()).Is(model.ErrInvalidMeeting)
	})

	t.Run("invalid action item status", func(t *testing.T) {
		m := valid()
		m.ActionItems[0].Status = "done"
		gt.Error(t, m.Validate()).Is(model.ErrInvalidMeeting)
	})
}
