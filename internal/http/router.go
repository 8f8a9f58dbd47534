package http

import (
	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// Apply CSRF protection if auth is enabled
	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Apply auth middleware if enabled
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth - inject the anonymous identity
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.AnonymousUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	// Register auth routes if auth is enabled
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager)
		authController.RegisterRoutes(router)
	}

	health := NewHealthController(cfg.Database, cfg.Version, cfg.Commit)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Article endpoints
	if cfg.ArticleService != nil {
		articlesController := NewArticlesController(cfg.ArticleService, cfg.MaxImageBytes)
		router.POST("/article/add", articlesController.Add)
		router.POST("/article/addArticle", articlesController.AddMultipart)
		router.GET("/article/all", articlesController.GetAll)
		router.GET("/article/search", articlesController.Search)
		router.GET("/article/getByUserID/:userID", articlesController.GetByAuthor)
		router.GET("/article/:articleID", articlesController.GetByID)
		router.PUT("/article/editArticle/:articleID", articlesController.Edit)
		// Both DELETE routes share the first wildcard, which gin requires
		// to carry one name; ":id" is the article id on the short route and
		// the requesting user id on the long one.
		router.DELETE("/article/:id", articlesController.Delete)
		router.DELETE("/article/:id/delete/:articleID", articlesController.DeleteAuthorized)

		// Engagement endpoints
		if cfg.EngagementStore != nil {
			engagementController := NewEngagementController(cfg.EngagementStore, cfg.ArticleService)
			router.POST("/article/:articleID/comment", engagementController.AddComment)
			router.GET("/article/:articleID/comment", engagementController.GetComments)
			router.POST("/article/:articleID/rating", engagementController.AddRating)
			router.GET("/article/:articleID/rating", engagementController.GetRatings)
		}
	}

	// User endpoints
	if cfg.UserStore != nil {
		usersController := NewUsersController(cfg.UserStore)
		router.POST("/user/add", usersController.Create)
		router.GET("/user/all", usersController.GetAll)
		router.GET("/user/:userID", usersController.GetByUserID)
		router.DELETE("/user/:userID", usersController.Delete)
	}

	// Resource endpoints
	if cfg.ResourceStore != nil {
		resourcesController := NewResourcesController(cfg.ResourceStore)
		router.POST("/resource/add", resourcesController.Create)
		router.GET("/resource/all", resourcesController.GetAll)
		router.GET("/resource/:rID", resourcesController.GetByID)
		router.PUT("/resource/:rID", resourcesController.Update)
		router.DELETE("/resource/:rID", resourcesController.Delete)

		router.POST("/user/:userID/resource/:rID/comment", resourcesController.AddComment)
		router.GET("/user/:userID/resource/:rID/comment", resourcesController.GetComments)
		router.GET("/user/:userID/resource/:rID/comment/:rcmID", resourcesController.GetComment)
		router.DELETE("/user/:userID/resource/:rID/comment/:rcmID", resourcesController.DeleteComment)
	}

	// Audit trail
	if cfg.AuditStore != nil {
		auditController := NewAuditController(cfg.AuditStore)
		router.GET("/admin/audit", auditController.GetEvents)
	}

	// Maintenance task endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		router.GET("/admin/tasks/types", tasksController.ListTaskTypes)
		router.GET("/admin/tasks/:id", tasksController.GetTaskStatus)
		router.POST("/admin/tasks/:type/run", tasksController.RunTask)
	}

	return router
}
