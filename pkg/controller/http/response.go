package http

import (
	"github.com/secmon-lab/smartminutes/pkg/domain/model"
	"github.com/secmon-lab/smartminutes/pkg/usecase"
)

type actionItemResponse struct {
	ID       string `json:"id"`
	Task     string `json:"task"`
	Assignee string `json:"assignee"`
	DueDate  string `json:"dueDate,omitempty"`
	Status   string `json:"status"`
}

// meetingResponse mirrors the stored JSON shape. Timestamps are Unix
// milliseconds.
type meetingResponse struct {
	ID           string               `json:"id"`
	Title        string               `json:"title"`
	Date         string               `json:"date"`
	Participants []string             `json:"participants"`
	RawNotes     string               `json:"rawNotes"`
	Summary      string               `json:"summary"`
	Tags         []string             `json:"tags"`
	ActionItems  []actionItemResponse `json:"actionItems"`
	CreatedAt    int64                `json:"createdAt"`
	UpdatedAt    int64                `json:"updatedAt"`
}

type sessionResponse struct {
	View      string           `json:"view"`
	Current   *meetingResponse `json:"current"`
	Persisted bool             `json:"persisted"`
	Busy      bool             `json:"busy"`
}

type meetingsResponse struct {
	Meetings []*meetingResponse `json:"meetings"`
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toMeetingResponse(m *model.Meeting) *meetingResponse {
	if m == nil {
		return nil
	}

	items := make([]actionItemResponse, len(m.ActionItems))
	for i, item := range m.ActionItems {
		items[i] = actionItemResponse{
			ID:       item.ID.String(),
			Task:     item.Task,
			Assignee: item.Assignee,
			DueDate:  item.DueDate,
			Status:   item.Status.String(),
		}
	}

	return &meetingResponse{
		ID:           m.ID.String(),
		Title:        m.Title,
		Date:         m.Date,
		Participants: orEmpty(m.Participants),
		RawNotes:     m.RawNotes,
		Summary:      m.Summary,
		Tags:         orEmpty(m.Tags),
		ActionItems:  items,
		CreatedAt:    m.CreatedAt.UnixMilli(),
		UpdatedAt:    m.UpdatedAt.UnixMilli(),
	}
}

func toSessionResponse(s usecase.Session) *sessionResponse {
	return &sessionResponse{
		View:      string(s.View),
		Current:   toMeetingResponse(s.Current),
		Persisted: s.Persisted,
		Busy:      s.Busy,
	}
}
