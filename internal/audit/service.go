// Package audit records who changed what. Events land in the audit_events
// table and are written asynchronously so request latency is unaffected.
package audit

import (
	"log"
	"sync"

	dbaudit "github.com/openshelf/librarium/internal/database/audit"
	"github.com/openshelf/librarium/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *dbaudit.Repository
	wg   sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *dbaudit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Flush blocks until every in-flight asynchronous write has completed. Call
// during shutdown, before the database handle is closed.
func (s *Service) Flush() {
	s.wg.Wait()
}

// LogArticleCreate records an article creation.
func (s *Service) LogArticleCreate(actorID string, articleID uint, title string) {
	s.LogAsync(&entities.AuditEvent{
		ActorID:     actorID,
		EventType:   entities.AuditEventCreate,
		Action:      "article_create",
		Description: truncate(title, 500),
		EntityType:  "article",
		EntityID:    &articleID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogArticleEdit records an article edit. Edit is not authorization checked,
// so actorID may be empty when authentication is disabled.
func (s *Service) LogArticleEdit(actorID string, articleID uint, title string) {
	s.LogAsync(&entities.AuditEvent{
		ActorID:     actorID,
		EventType:   entities.AuditEventEdit,
		Action:      "article_edit",
		Description: truncate(title, 500),
		EntityType:  "article",
		EntityID:    &articleID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogArticleDelete records an article deletion, successful or refused.
func (s *Service) LogArticleDelete(actorID string, articleID uint, title string, err error) {
	event := &entities.AuditEvent{
		ActorID:     actorID,
		EventType:   entities.AuditEventDelete,
		Action:      "article_delete",
		Description: truncate(title, 500),
		EntityType:  "article",
		EntityID:    &articleID,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogSweep records an integrity sweep run.
func (s *Service) LogSweep(deleted int64, err error) {
	event := &entities.AuditEvent{
		EventType:  entities.AuditEventSweep,
		Action:     "integrity_sweep",
		EntityType: "engagement",
		Status:     entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	} else if deleted > 0 {
		event.Description = "removed orphaned engagement rows"
	}

	s.LogAsync(event)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
