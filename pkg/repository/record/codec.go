package record

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/smartminutes/pkg/domain/model"
	"github.com/secmon-lab/smartminutes/pkg/domain/types"
)

// CurrentVersion is the blob format written by this package.
// Version 0 is the legacy bare JSON array without an envelope.
const CurrentVersion = 1

// envelope is the persisted blob
type envelope struct {
	Version  int          `json:"version"`
	Meetings []meetingDoc `json:"meetings"`
}

// meetingDoc is the JSON representation of model.Meeting.
// Timestamps are Unix milliseconds.
type meetingDoc struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Date         string          `json:"date"`
	Participants []string        `json:"participants"`
	RawNotes     string          `json:"rawNotes"`
	Summary      string          `json:"summary"`
	ActionItems  []actionItemDoc `json:"actionItems"`
	Tags         []string        `json:"tags"`
	CreatedAt    int64           `json:"createdAt"`
	UpdatedAt    int64           `json:"updatedAt"`
}

type actionItemDoc struct {
	ID       string `json:"id"`
	Task     string `json:"task"`
	Assignee string `json:"assignee"`
	DueDate  string `json:"dueDate,omitempty"`
	Status   string `json:"status"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toMeetingDoc(m *model.Meeting) meetingDoc {
	items := make([]actionItemDoc, len(m.ActionItems))
	for i, item := range m.ActionItems {
		items[i] = actionItemDoc{
			ID:       item.ID.String(),
			Task:     item.Task,
			Assignee: item.Assignee,
			DueDate:  item.DueDate,
			Status:   item.Status.String(),
		}
	}

	return meetingDoc{
		ID:           m.ID.String(),
		Title:        m.Title,
		Date:         m.Date,
		Participants: nonNil(m.Participants),
		RawNotes:     m.RawNotes,
		Summary:      m.Summary,
		ActionItems:  items,
		Tags:         nonNil(m.Tags),
		CreatedAt:    m.CreatedAt.UnixMilli(),
		UpdatedAt:    m.UpdatedAt.UnixMilli(),
	}
}

func fromMeetingDoc(d meetingDoc) *model.Meeting {
	items := make([]model.ActionItem, len(d.ActionItems))
	for i, item := range d.ActionItems {
		items[i] = model.ActionItem{
			ID:       model.ActionItemID(item.ID),
			Task:     item.Task,
			Assignee: item.Assignee,
			DueDate:  item.DueDate,
			Status:   types.ActionItemStatus(item.Status).Normalize(),
		}
	}

	return &model.Meeting{
		ID:           model.MeetingID(d.ID),
		Title:        d.Title,
		Date:         d.Date,
		Participants: append([]string{}, d.Participants...),
		RawNotes:     d.RawNotes,
		Summary:      d.Summary,
		Tags:         append([]string{}, d.Tags...),
		ActionItems:  items,
		CreatedAt:    time.UnixMilli(d.CreatedAt).UTC(),
		UpdatedAt:    time.UnixMilli(d.UpdatedAt).UTC(),
	}
}

// migration upgrades documents from version n to n+1
type migration func(docs []meetingDoc) []meetingDoc

// migrations is indexed by source version
var migrations = []migration{
	// 0 -> 1: the legacy array gains an envelope. Records written
	// before IDs were mandatory get fresh ones; missing statuses are
	// filled in on decode.
	func(docs []meetingDoc) []meetingDoc {
		for i := range docs {
			if docs[i].ID == "" {
				docs[i].ID = model.NewMeetingID().String()
			}
			for j := range docs[i].ActionItems {
				if docs[i].ActionItems[j].ID == "" {
					docs[i].ActionItems[j].ID = model.NewActionItemID().String()
				}
			}
		}
		return docs
	},
}

// decode parses a stored blob of any known version into meetings and
// reports the version it was written with
func decode(data []byte) ([]*model.Meeting, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, 0, goerr.New("empty blob")
	}

	var (
		docs    []meetingDoc
		version int
	)

	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, 0, goerr.Wrap(err, "failed to parse legacy meeting array")
		}
		version = 0

	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, 0, goerr.Wrap(err, "failed to parse meeting envelope")
		}
		if env.Version < 1 {
			return nil, env.Version, goerr.New("invalid blob version", goerr.V(VersionKey, env.Version))
		}
		if env.Version > CurrentVersion {
			return nil, env.Version, goerr.Wrap(ErrUnsupportedVersion, "blob is newer than supported",
				goerr.V(VersionKey, env.Version))
		}
		docs = env.Meetings
		version = env.Version

	default:
		return nil, 0, goerr.New("unexpected blob format")
	}

	for v := version; v < CurrentVersion; v++ {
		docs = migrations[v](docs)
	}

	meetings := make([]*model.Meeting, len(docs))
	for i, d := range docs {
		meetings[i] = fromMeetingDoc(d)
	}
	return meetings, version, nil
}

// encode serializes meetings as a CurrentVersion blob
func encode(meetings []*model.Meeting) ([]byte, error) {
	env := envelope{
		Version:  CurrentVersion,
		Meetings: make([]meetingDoc, len(meetings)),
	}
	for i, m := range meetings {
		env.Meetings[i] = toMeetingDoc(m)
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode meetings")
	}
	return data, nil
}
