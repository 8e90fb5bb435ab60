package service

import (
	"context"
	"sync"
	"time"

	"asset-exchange/internal/core/domain"
	"asset-exchange/internal/core/ports"

	"github.com/rs/zerolog"
)

const (
	auditPersistTimeout = 5 * time.Second
	auditQueueSize      = 1024
)

// AuditService writes audit entries to the log immediately and to the
// repository through a single background writer. Entries that do not fit in
// the queue are logged but not persisted.
type AuditService struct {
	repo    ports.AuditRepository
	log     zerolog.Logger
	entries chan *domain.AuditLog
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAuditService starts the writer. A nil repo makes the service log-only.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return newAuditService(repo, log, auditQueueSize)
}

func newAuditService(repo ports.AuditRepository, log zerolog.Logger, queueSize int) *AuditService {
	s := &AuditService{
		repo:    repo,
		log:     log,
		entries: make(chan *domain.AuditLog, queueSize),
		done:    make(chan struct{}),
	}
	go s.drain()
	return s
}

// Log never blocks the request that produced entry.
func (s *AuditService) Log(_ context.Context, entry *domain.AuditLog) {
	ev := s.log.Info().
		Str("action", string(entry.Action)).
		Str("resource_type", entry.ResourceType).
		Str("resource_id", entry.ResourceID).
		Str("ip", entry.IPAddress)
	if entry.Actor != nil {
		ev = ev.Stringer("actor", entry.Actor)
	}
	ev.Msg("audit")

	if s.repo == nil {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.entries <- entry:
	default:
		s.log.Warn().Str("action", string(entry.Action)).Msg("audit queue full, entry not persisted")
	}
}

// Close stops accepting entries and waits until the queued ones are written.
func (s *AuditService) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.entries)
	}
	s.mu.Unlock()
	<-s.done
}

func (s *AuditService) drain() {
	defer close(s.done)
	for entry := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), auditPersistTimeout)
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Warn().Err(err).Str("action", string(entry.Action)).Msg("failed to persist audit log")
		}
		cancel()
	}
}
