package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/smartminutes/pkg/domain/interfaces"
	"github.com/secmon-lab/smartminutes/pkg/domain/model"
	"github.com/secmon-lab/smartminutes/pkg/domain/types"
	"github.com/secmon-lab/smartminutes/pkg/repository/record"
	"github.com/secmon-lab/smartminutes/pkg/service/enrich"
	"github.com/secmon-lab/smartminutes/pkg/utils/errutil"
	"github.com/secmon-lab/smartminutes/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// View is the screen the session is on
type View string

const (
	ViewList View = "list"
	ViewEdit View = "edit"
)

// Session is the state of the single editing session
type Session struct {
	View View
	// Current is the scratch copy under edit. Nil in ViewList.
	Current *model.Meeting
	// Persisted reports whether Current has been stored before
	Persisted bool
	// Meetings is the cached collection, newest first
	Meetings []*model.Meeting
	// Busy is set while an AI request is outstanding
	Busy bool
}

func (s Session) clone() Session {
	cloned := s
	cloned.Current = s.Current.Clone()
	cloned.Meetings = make([]*model.Meeting, len(s.Meetings))
	for i, m := range s.Meetings {
		cloned.Meetings[i] = m.Clone()
	}
	return cloned
}

// DetailsPatch carries user-edited fields. Nil fields are left unchanged.
type DetailsPatch struct {
	Title        *string
	Date         *string
	Participants []string
	RawNotes     *string
}

// SessionUseCase mediates every mutation of the meeting under edit and of
// the cached collection.
type SessionUseCase struct {
	repo     interfaces.MeetingRepository
	enricher enrich.Service
	clock    func() time.Time

	mu    sync.Mutex
	state Session
}

func NewSessionUseCase(repo interfaces.MeetingRepository, enricher enrich.Service, clock func() time.Time) *SessionUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &SessionUseCase{
		repo:     repo,
		enricher: enricher,
		clock:    clock,
		state: Session{
			View:     ViewList,
			Meetings: []*model.Meeting{},
		},
	}
}

// Snapshot returns a deep copy of the session state
func (uc *SessionUseCase) Snapshot() Session {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.state.clone()
}

// Refresh reloads the cached collection from the repository
func (uc *SessionUseCase) Refresh(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.refreshLocked(ctx)
}

func (uc *SessionUseCase) refreshLocked(ctx context.Context) error {
	meetings, err := uc.repo.List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list meetings")
	}
	uc.state.Meetings = meetings
	return nil
}

// ListMeetings filters the cached collection by title or tag
func (uc *SessionUseCase) ListMeetings(ctx context.Context, query string) []*model.Meeting {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	matched := model.FilterMeetings(uc.state.Meetings, query)
	result := make([]*model.Meeting, len(matched))
	for i, m := range matched {
		result[i] = m.Clone()
	}
	return result
}

// CreateNew starts editing a fresh meeting dated today
func (uc *SessionUseCase) CreateNew(ctx context.Context) *model.Meeting {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.state.View = ViewEdit
	uc.state.Current = model.NewMeeting(uc.clock())
	uc.state.Persisted = false

	return uc.state.Current.Clone()
}

// Open starts editing a copy of a stored meeting
func (uc *SessionUseCase) Open(ctx context.Context, id model.MeetingID) (*model.Meeting, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var found *model.Meeting
	for _, m := range uc.state.Meetings {
		if m.ID == id {
			found = m
			break
		}
	}

	if found == nil {
		m, err := uc.repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, record.ErrNotFound) {
				return nil, goerr.Wrap(ErrMeetingNotFound, "meeting not found", goerr.V(MeetingIDKey, id))
			}
			return nil, goerr.Wrap(err, "failed to get meeting", goerr.V(MeetingIDKey, id))
		}
		found = m
	}

	uc.state.View = ViewEdit
	uc.state.Current = found.Clone()
	uc.state.Persisted = true

	return uc.state.Current.Clone(), nil
}

func (uc *SessionUseCase) currentLocked() (*model.Meeting, error) {
	if uc.state.View != ViewEdit || uc.state.Current == nil {
		return nil, goerr.Wrap(ErrNoActiveMeeting, "no meeting under edit")
	}
	return uc.state.Current, nil
}

// UpdateDetails applies user edits to the scratch copy
func (uc *SessionUseCase) UpdateDetails(ctx context.Context, patch DetailsPatch) (*model.Meeting, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	current, err := uc.currentLocked()
	if err != nil {
		return nil, err
	}

	if patch.Date != nil && *patch.Date != "" {
		if _, err := time.Parse(model.DateLayout, *patch.Date); err != nil {
			return nil, goerr.Wrap(model.ErrInvalidMeeting, "invalid meeting date",
				goerr.V(model.DateKey, *patch.Date))
		}
	}

	if patch.Title != nil {
		current.Title = *patch.Title
	}
	if patch.Date != nil {
		current.Date = *patch.Date
	}
	if patch.Participants != nil {
		participants := make([]string, 0, len(patch.Participants))
		for _, p := range patch.Participants {
			if p = strings.TrimSpace(p); p != "" {
				participants = append(participants, p)
			}
		}
		current.Participants = participants
	}
	if patch.RawNotes != nil {
		current.RawNotes = *patch.RawNotes
	}

	return current.Clone(), nil
}

// Save persists the scratch copy and returns to the list. On failure the
// session stays in edit with the scratch copy intact.
func (uc *SessionUseCase) Save(ctx context.Context) (*model.Meeting, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	current, err := uc.currentLocked()
	if err != nil {
		return nil, err
	}

	saved, err := uc.repo.Save(ctx, current.Clone())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save meeting", goerr.V(MeetingIDKey, current.ID))
	}

	uc.toListLocked()
	if err := uc.refreshLocked(ctx); err != nil {
		errutil.Handle(ctx, err, "failed to refresh meetings after save")
	}

	return saved, nil
}

// Delete removes the meeting under edit and returns to the list. The
// store is only touched if the meeting was persisted before.
func (uc *SessionUseCase) Delete(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return goerr.Wrap(ErrConfirmationRequired, "delete was not confirmed")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	current, err := uc.currentLocked()
	if err != nil {
		return err
	}

	if uc.state.Persisted {
		if err := uc.repo.Delete(ctx, current.ID); err != nil {
			return goerr.Wrap(err, "failed to delete meeting", goerr.V(MeetingIDKey, current.ID))
		}
	}

	uc.toListLocked()
	if err := uc.refreshLocked(ctx); err != nil {
		errutil.Handle(ctx, err, "failed to refresh meetings after delete")
	}

	return nil
}

// Cancel discards the scratch copy
func (uc *SessionUseCase) Cancel(ctx context.Context) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.toListLocked()
}

func (uc *SessionUseCase) toListLocked() {
	uc.state.View = ViewList
	uc.state.Current = nil
	uc.state.Persisted = false
}

// AddActionItem appends one placeholder action item
func (uc *SessionUseCase) AddActionItem(ctx context.Context) (*model.Meeting, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	current, err := uc.currentLocked()
	if err != nil {
		return nil, err
	}

	current.ActionItems = model.AppendActionItems(current.ActionItems,
		model.NewActionItem(types.PlaceholderNewTask, "", ""))

	return current.Clone(), nil
}

// ToggleActionItem flips the status of one action item
func (uc *SessionUseCase) ToggleActionItem(ctx context.Context, id model.ActionItemID) (*model.Meeting, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	current, err := uc.currentLocked()
	if err != nil {
		return nil, err
	}

	items, ok := model.ToggleActionItem(current.ActionItems, id)
	if !ok {
		return nil, goerr.Wrap(ErrActionItemNotFound, "action item not found", goerr.V(ActionItemIDKey, id))
	}
	current.ActionItems = items

	return current.Clone(), nil
}

// DeleteActionItem removes one action item
func (uc *SessionUseCase) DeleteActionItem(ctx context.Context, id model.ActionItemID) (*model.Meeting, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	current, err := uc.currentLocked()
	if err != nil {
		return nil, err
	}

	items, ok := model.RemoveActionItem(current.ActionItems, id)
	if !ok {
		return nil, goerr.Wrap(ErrActionItemNotFound, "action item not found", goerr.V(ActionItemIDKey, id))
	}
	current.ActionItems = items

	return current.Clone(), nil
}

// beginEnrichment validates that an AI request may start and marks the
// session busy. It returns the notes and the id of the meeting they
// belong to.
func (uc *SessionUseCase) beginEnrichment() (string, model.MeetingID, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	current, err := uc.currentLocked()
	if err != nil {
		return "", "", err
	}
	if uc.enricher == nil {
		return "", "", goerr.Wrap(enrich.ErrNotConfigured, "AI operations are disabled")
	}
	if strings.TrimSpace(current.RawNotes) == "" {
		return "", "", goerr.Wrap(enrich.ErrEmptyNotes, "nothing to enrich", goerr.V(MeetingIDKey, current.ID))
	}
	if uc.state.Busy {
		return "", "", goerr.Wrap(ErrBusy, "AI request already outstanding", goerr.V(MeetingIDKey, current.ID))
	}

	uc.state.Busy = true
	return current.RawNotes, current.ID, nil
}

func (uc *SessionUseCase) endEnrichment() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.state.Busy = false
}

// mergeLocked applies fn to the scratch copy if it is still the meeting
// the request was issued for
func (uc *SessionUseCase) mergeLocked(ctx context.Context, id model.MeetingID, fn func(m *model.Meeting)) (*model.Meeting, error) {
	current, err := uc.currentLocked()
	if err != nil || current.ID != id {
		logging.From(ctx).Info("dropping AI result for meeting no longer under edit",
			slog.String("meeting_id", id.String()))
		return nil, goerr.Wrap(ErrNoActiveMeeting, "meeting is no longer under edit", goerr.V(MeetingIDKey, id))
	}

	fn(current)
	return current.Clone(), nil
}

// SummarizeAndTag replaces the summary and unions suggested tags into the
// scratch copy. Summary and tags are requested concurrently. If the
// summary fails neither field changes.
func (uc *SessionUseCase) SummarizeAndTag(ctx context.Context) (*model.Meeting, error) {
	notes, id, err := uc.beginEnrichment()
	if err != nil {
		return nil, err
	}
	defer uc.endEnrichment()

	var (
		summary string
		tags    []string
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		s, err := uc.enricher.Summarize(egCtx, notes)
		if err != nil {
			return err
		}
		summary = s
		return nil
	})
	eg.Go(func() error {
		t, err := uc.enricher.SuggestTags(egCtx, notes)
		if err != nil {
			return err
		}
		tags = t
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrEnrichmentFailed, err), "failed to summarize meeting",
			goerr.V(MeetingIDKey, id))
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.mergeLocked(ctx, id, func(m *model.Meeting) {
		m.Summary = summary
		m.Tags = model.UnionTags(m.Tags, tags)
	})
}

// ExtractTasks appends AI-extracted action items to the scratch copy.
// Existing items are never replaced.
func (uc *SessionUseCase) ExtractTasks(ctx context.Context) (*model.Meeting, error) {
	notes, id, err := uc.beginEnrichment()
	if err != nil {
		return nil, err
	}
	defer uc.endEnrichment()

	extracted, err := uc.enricher.ExtractActionItems(ctx, notes)
	if err != nil {
		return nil, goerr.Wrap(errors.Join(ErrEnrichmentFailed, err), "failed to extract action items",
			goerr.V(MeetingIDKey, id))
	}

	added := make([]model.ActionItem, 0, len(extracted))
	for _, item := range extracted {
		task := item.Task
		if task == "" {
			task = types.PlaceholderTask
		}
		assignee := item.Assignee
		if assignee == "" {
			assignee = types.PlaceholderAssignee
		}
		added = append(added, model.NewActionItem(task, assignee, item.DueDate))
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.mergeLocked(ctx, id, func(m *model.Meeting) {
		m.ActionItems = model.AppendActionItems(m.ActionItems, added...)
	})
}
