package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/smartminutes/pkg/domain/model"
	"github.com/secmon-lab/smartminutes/pkg/usecase"
	"github.com/secmon-lab/smartminutes/pkg/utils/errutil"
	"github.com/secmon-lab/smartminutes/pkg/utils/logging"
	"github.com/secmon-lab/smartminutes/pkg/utils/safe"
)

// SessionUseCase is the editing session driven by the HTTP surface
type SessionUseCase interface {
	Snapshot() usecase.Session
	Refresh(ctx context.Context) error
	ListMeetings(ctx context.Context, query string) []*model.Meeting
	CreateNew(ctx context.Context) *model.Meeting
	Open(ctx context.Context, id model.MeetingID) (*model.Meeting, error)
	UpdateDetails(ctx context.Context, patch usecase.DetailsPatch) (*model.Meeting, error)
	Save(ctx context.Context) (*model.Meeting, error)
	Delete(ctx context.Context, confirmed bool) error
	Cancel(ctx context.Context)
	SummarizeAndTag(ctx context.Context) (*model.Meeting, error)
	ExtractTasks(ctx context.Context) (*model.Meeting, error)
	AddActionItem(ctx context.Context) (*model.Meeting, error)
	ToggleActionItem(ctx context.Context, id model.ActionItemID) (*model.Meeting, error)
	DeleteActionItem(ctx context.Context, id model.ActionItemID) (*model.Meeting, error)
}

var _ SessionUseCase = (*usecase.SessionUseCase)(nil)

type Server struct {
	router  *chi.Mux
	session SessionUseCase
	logger  *slog.Logger
}

type Options func(*Server)

// WithLogger sets the logger attached to every request context
func WithLogger(logger *slog.Logger) Options {
	return func(s *Server) {
		s.logger = logger
	}
}

func New(session SessionUseCase, opts ...Options) (*Server, error) {
	if session == nil {
		return nil, goerr.New("session use case is required")
	}

	r := chi.NewRouter()

	s := &Server{
		router:  r,
		session: session,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/meetings", s.listMeetingsHandler)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.getSessionHandler)
			r.Patch("/", s.updateDetailsHandler)
			r.Post("/new", s.createNewHandler)
			r.Post("/open/{id}", s.openHandler)
			r.Post("/save", s.saveHandler)
			r.Post("/delete", s.deleteHandler)
			r.Post("/cancel", s.cancelHandler)
			r.Post("/summarize", s.summarizeHandler)
			r.Post("/extract", s.extractHandler)
			r.Post("/actions", s.addActionItemHandler)
			r.Post("/actions/{id}/toggle", s.toggleActionItemHandler)
			r.Delete("/actions/{id}", s.deleteActionItemHandler)
		})
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger attaches a logger tagged with the request ID to the context
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := s.logger
		if logger == nil {
			logger = logging.Default()
		}
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			logger = logger.With("request_id", reqID)
		}
		next.ServeHTTP(w, r.WithContext(logging.With(r.Context(), logger)))
	})
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}
