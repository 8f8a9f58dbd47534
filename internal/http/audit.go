package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/entities"
)

// AuditStore defines read access to recorded audit events.
type AuditStore interface {
	GetEvents(actorID string, limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsByType(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// AuditController exposes the audit trail.
type AuditController struct {
	store AuditStore
}

// NewAuditController creates a new audit controller.
func NewAuditController(store AuditStore) *AuditController {
	return &AuditController{store: store}
}

// GetEvents lists recorded audit events, newest first.
// GET /admin/audit?actor_id=&type=&limit=&offset=
func (ac *AuditController) GetEvents(c *gin.Context) {
	limit := parseQueryInt(c, "limit", 50)
	offset := parseQueryInt(c, "offset", 0)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var (
		events []entities.AuditEvent
		total  int64
		err    error
	)
	if eventType := c.Query("type"); eventType != "" {
		events, total, err = ac.store.GetEventsByType(entities.AuditEventType(eventType), limit, offset)
	} else {
		events, total, err = ac.store.GetEvents(c.Query("actor_id"), limit, offset)
	}
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// parseQueryInt reads an integer query parameter, falling back to a default.
func parseQueryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
