package usecase

import (
	"time"

	"github.com/secmon-lab/smartminutes/pkg/domain/interfaces"
	"github.com/secmon-lab/smartminutes/pkg/service/enrich"
)

type UseCases struct {
	repo     interfaces.MeetingRepository
	enricher enrich.Service
	clock    func() time.Time
	Session  *SessionUseCase
}

type Option func(*UseCases)

// WithEnricher enables AI operations. Without it every AI operation fails
// with enrich.ErrNotConfigured.
func WithEnricher(svc enrich.Service) Option {
	return func(uc *UseCases) {
		uc.enricher = svc
	}
}

func WithClock(clock func() time.Time) Option {
	return func(uc *UseCases) {
		uc.clock = clock
	}
}

func New(repo interfaces.MeetingRepository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:  repo,
		clock: time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Session = NewSessionUseCase(repo, uc.enricher, uc.clock)

	return uc
}
