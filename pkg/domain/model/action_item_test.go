package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/smartminutes/pkg/domain/model"
	"github.com/secmon-lab/smartminutes/pkg/domain/types"
)

func sampleItems() []model.ActionItem {
	return []model.ActionItem{
		model.NewActionItem("draft agenda", "alice", "2026-01-10"),
		model.NewActionItem("book room", "bob", ""),
		model.NewActionItem("send notes", "carol", ""),
	}
}

func TestNewActionItem(t *testing.T) {
	item := model.NewActionItem("task", "alice", "2026-01-10")
	gt.String(t, item.ID.String()).NotEqual("")
	gt.Value(t, item.Task).Equal("task")
	gt.Value(t, item.Assignee).Equal("alice")
	gt.Value(t, item.DueDate).Equal("2026-01-10")
	gt.Value(t, item.Status).Equal(types.ActionItemStatusPending)
}

func TestAppendActionItems(t *testing.T) {
	items := sampleItems()
	before := append([]model.ActionItem{}, items...)

	added := []model.ActionItem{
		model.NewActionItem("x", "", ""),
		model.NewActionItem("y", "", ""),
	}
	result := model.AppendActionItems(items, added...)

	gt.Array(t, result).Length(len(items) + len(added))
	for i := range items {
		gt.Value(t, result[i]).Equal(before[i])
	}
	gt.Value(t, result[3]).Equal(added[0])
	gt.Value(t, result[4]).Equal(added[1])

	t.Run("does not write into the backing array of the input", func(t *testing.T) {
		base := make([]model.ActionItem, 1, 4)
		base[0] = model.NewActionItem("base", "", "")
		r1 := model.AppendActionItems(base, model.NewActionItem("one", "", ""))
		r2 := model.AppendActionItems(base, model.NewActionItem("two", "", ""))
		gt.Value(t, r1[1].Task).Equal("one")
		gt.Value(t, r2[1].Task).Equal("two")
	})
}

func TestToggleActionItem(t *testing.T) {
	items := sampleItems()
	target := items[1].ID

	once, found := model.ToggleActionItem(items, target)
	gt.Bool(t, found).True()
	gt.Value(t, once[1].Status).Equal(types.ActionItemStatusCompleted)
	gt.Value(t, once[0]).Equal(items[0])
	gt.Value(t, once[2]).Equal(items[2])
	gt.Value(t, items[1].Status).Equal(types.ActionItemStatusPending)

	twice, found := model.ToggleActionItem(once, target)
	gt.Bool(t, found).True()
	gt.Value(t, twice).Equal(items)

	t.Run("unknown id", func(t *testing.T) {
		result, found := model.ToggleActionItem(items, "missing")
		gt.Bool(t, found).False()
		gt.Value(t, result).Equal(items)
	})
}

func TestRemoveActionItem(t *testing.T) {
	items := sampleItems()

	result, found := model.RemoveActionItem(items, items[1].ID)
	gt.Bool(t, found).True()
	gt.Array(t, result).Length(2)
	gt.Value(t, result[0]).Equal(items[0])
	gt.Value(t, result[1]).Equal(items[2])
	gt.Array(t, items).Length(3)

	t.Run("unknown id is a no-op", func(t *testing.T) {
		result, found := model.RemoveActionItem(items, "missing")
		gt.Bool(t, found).False()
		gt.Value(t, result).Equal(items)
	})
}
