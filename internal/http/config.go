package http

import (
	"github.com/openshelf/librarium/internal/auth"
	"github.com/openshelf/librarium/internal/config"
	"github.com/openshelf/librarium/internal/database"
	"github.com/openshelf/librarium/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router. This replaces a long parameter list in NewRouter.
type RouterConfig struct {
	// Core dependencies
	ArticleService  ArticleService
	UserStore       UserStore
	EngagementStore EngagementStore
	ResourceStore   ResourceStore
	AuditStore      AuditStore
	Database        *database.Database

	// Upload limits
	MaxImageBytes int64

	// Authentication
	AuthConfig     config.Auth
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Application info
	Version string
	Commit  string
}
