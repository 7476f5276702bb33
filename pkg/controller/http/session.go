package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/smartminutes/pkg/domain/model"
	"github.com/secmon-lab/smartminutes/pkg/repository/record"
	"github.com/secmon-lab/smartminutes/pkg/service/enrich"
	"github.com/secmon-lab/smartminutes/pkg/usecase"
	"github.com/secmon-lab/smartminutes/pkg/utils/errutil"
)

// ErrBadRequest marks request bodies that cannot be decoded
var ErrBadRequest = goerr.New("bad request")

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, usecase.ErrNoActiveMeeting),
		errors.Is(err, usecase.ErrConfirmationRequired),
		errors.Is(err, model.ErrInvalidMeeting),
		errors.Is(err, enrich.ErrEmptyNotes):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrMeetingNotFound),
		errors.Is(err, usecase.ErrActionItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, record.ErrUnsupportedVersion):
		return http.StatusConflict
	case errors.Is(err, enrich.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, usecase.ErrEnrichmentFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
}

// decodeBody decodes an optional JSON body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return goerr.Wrap(ErrBadRequest, "invalid JSON body", goerr.V("cause", err.Error()))
	}
	return nil
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, toSessionResponse(s.session.Snapshot()))
}

func (s *Server) listMeetingsHandler(w http.ResponseWriter, r *http.Request) {
	meetings := s.session.ListMeetings(r.Context(), r.URL.Query().Get("q"))

	resp := meetingsResponse{
		Meetings: make([]*meetingResponse, len(meetings)),
	}
	for i, m := range meetings {
		resp.Meetings[i] = toMeetingResponse(m)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	s.writeSession(w, r)
}

func (s *Server) createNewHandler(w http.ResponseWriter, r *http.Request) {
	s.session.CreateNew(r.Context())
	s.writeSession(w, r)
}

func (s *Server) openHandler(w http.ResponseWriter, r *http.Request) {
	id := model.MeetingID(chi.URLParam(r, "id"))
	if _, err := s.session.Open(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeSession(w, r)
}

type updateDetailsRequest struct {
	Title        *string  `json:"title"`
	Date         *string  `json:"date"`
	Participants []string `json:"participants"`
	RawNotes     *string  `json:"rawNotes"`
}

func (s *Server) updateDetailsHandler(w http.ResponseWriter, r *http.Request) {
	var req updateDetailsRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	patch := usecase.DetailsPatch{
		Title:        req.Title,
		Date:         req.Date,
		Participants: req.Participants,
		RawNotes:     req.RawNotes,
	}
	if _, err := s.session.UpdateDetails(r.Context(), patch); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeSession(w, r)
}

func (s *Server) saveHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.Save(r.Context()); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeSession(w, r)
}

type deleteRequest struct {
	Confirm bool `json:"confirm"`
}

func (s *Server) deleteHandler(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	if err := s.session.Delete(r.Context(), req.Confirm); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeSession(w, r)
}

func (s *Server) cancelHandler(w http.ResponseWriter, r *http.Request) {
	s.session.Cancel(r.Context())
	s.writeSession(w, r)
}

func (s *Server) summarizeHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.SummarizeAndTag(r.Context()); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeSession(w, r)
}

func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.ExtractTasks(r.Context()); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeSession(w, r)
}

func (s *Server) addActionItemHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.AddActionItem(r.Context()); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeSession(w, r)
}

func (s *Server) toggleActionItemHandler(w http.ResponseWriter, r *http.Request) {
	id := model.ActionItemID(chi.URLParam(r, "id"))
	if _, err := s.session.ToggleActionItem(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeSession(w, r)
}

func (s *Server) deleteActionItemHandler(w http.ResponseWriter, r *http.Request) {
	id := model.ActionItemID(chi.URLParam(r, "id"))
	if _, err := s.session.DeleteActionItem(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeSession(w, r)
}
