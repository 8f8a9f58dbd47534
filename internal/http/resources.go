package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/database/resources"
	"github.com/openshelf/librarium/internal/entities"
)

// ResourceStore defines database operations for resources and their member
// comments.
type ResourceStore interface {
	Create(resource *entities.Resource) error
	FindByID(id uint) (*entities.Resource, error)
	FindAll() ([]entities.Resource, error)
	Update(resource *entities.Resource) error
	DeleteByID(id uint) error
	AddComment(comment *entities.ResourceComment) error
	FindCommentsByResourceID(resourceID uint) ([]entities.ResourceComment, error)
	FindCommentByID(resourceID, commentID uint) (*entities.ResourceComment, error)
	DeleteComment(resourceID, commentID uint) error
}

// ResourcesController handles library resource and resource comment
// endpoints.
type ResourcesController struct {
	store ResourceStore
}

// NewResourcesController creates a new resources controller.
func NewResourcesController(store ResourceStore) *ResourcesController {
	return &ResourcesController{store: store}
}

type createResourceRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
	ISBN   string `json:"isbn"`
	Copies int    `json:"copies"`
}

// Create registers a new resource.
// POST /resource/add
func (rc *ResourcesController) Create(c *gin.Context) {
	var req createResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and author are required")
		return
	}

	resource := &entities.Resource{
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
		Copies: req.Copies,
	}
	if err := rc.store.Create(resource); err != nil {
		respondInternalError(c, err, "create resource")
		return
	}

	respondCreated(c, resource)
}

// GetAll lists every resource.
// GET /resource/all
func (rc *ResourcesController) GetAll(c *gin.Context) {
	all, err := rc.store.FindAll()
	if err != nil {
		respondInternalError(c, err, "list resources")
		return
	}
	c.JSON(http.StatusOK, all)
}

// GetByID returns a single resource.
// GET /resource/:rID
func (rc *ResourcesController) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "rID")
	if !ok {
		return
	}

	resource, err := rc.store.FindByID(id)
	if errors.Is(err, resources.ErrNotFound) {
		respondNotFound(c, "resource")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get resource")
		return
	}
	c.JSON(http.StatusOK, resource)
}

// Update replaces a resource's title, author, ISBN, and copy count.
// PUT /resource/:rID
func (rc *ResourcesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "rID")
	if !ok {
		return
	}

	var req createResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and author are required")
		return
	}

	resource, err := rc.store.FindByID(id)
	if errors.Is(err, resources.ErrNotFound) {
		respondNotFound(c, "resource")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get resource")
		return
	}

	resource.Title = req.Title
	resource.Author = req.Author
	resource.ISBN = req.ISBN
	resource.Copies = req.Copies

	if err := rc.store.Update(resource); err != nil {
		respondInternalError(c, err, "update resource")
		return
	}
	c.JSON(http.StatusOK, resource)
}

// Delete removes a resource and its comments.
// DELETE /resource/:rID
func (rc *ResourcesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "rID")
	if !ok {
		return
	}

	if _, err := rc.store.FindByID(id); errors.Is(err, resources.ErrNotFound) {
		respondNotFound(c, "resource")
		return
	} else if err != nil {
		respondInternalError(c, err, "get resource")
		return
	}

	if err := rc.store.DeleteByID(id); err != nil {
		respondInternalError(c, err, "delete resource")
		return
	}
	respondSuccess(c, "Resource deleted successfully")
}

type resourceCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// AddComment attaches a member comment to a resource.
// POST /user/:userID/resource/:rID/comment
func (rc *ResourcesController) AddComment(c *gin.Context) {
	resourceID, ok := parseIDParam(c, "rID")
	if !ok {
		return
	}

	var req resourceCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "body is required")
		return
	}

	if _, err := rc.store.FindByID(resourceID); errors.Is(err, resources.ErrNotFound) {
		respondNotFound(c, "resource")
		return
	} else if err != nil {
		respondInternalError(c, err, "get resource")
		return
	}

	comment := &entities.ResourceComment{
		ResourceID: resourceID,
		MemberID:   c.Param("userID"),
		Body:       req.Body,
	}
	if err := rc.store.AddComment(comment); err != nil {
		respondInternalError(c, err, "create resource comment")
		return
	}

	respondCreated(c, comment)
}

// GetComments lists the comments attached to a resource.
// GET /user/:userID/resource/:rID/comment
func (rc *ResourcesController) GetComments(c *gin.Context) {
	resourceID, ok := parseIDParam(c, "rID")
	if !ok {
		return
	}

	comments, err := rc.store.FindCommentsByResourceID(resourceID)
	if err != nil {
		respondInternalError(c, err, "list resource comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

// GetComment returns a single comment scoped to its resource.
// GET /user/:userID/resource/:rID/comment/:rcmID
func (rc *ResourcesController) GetComment(c *gin.Context) {
	resourceID, ok := parseIDParam(c, "rID")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "rcmID")
	if !ok {
		return
	}

	comment, err := rc.store.FindCommentByID(resourceID, commentID)
	if errors.Is(err, resources.ErrCommentNotFound) {
		respondNotFound(c, "resource comment")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get resource comment")
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a single comment scoped to its resource.
// DELETE /user/:userID/resource/:rID/comment/:rcmID
func (rc *ResourcesController) DeleteComment(c *gin.Context) {
	resourceID, ok := parseIDParam(c, "rID")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "rcmID")
	if !ok {
		return
	}

	if _, err := rc.store.FindCommentByID(resourceID, commentID); errors.Is(err, resources.ErrCommentNotFound) {
		respondNotFound(c, "resource comment")
		return
	} else if err != nil {
		respondInternalError(c, err, "get resource comment")
		return
	}

	if err := rc.store.DeleteComment(resourceID, commentID); err != nil {
		respondInternalError(c, err, "delete resource comment")
		return
	}
	respondSuccess(c, "Comment deleted successfully")
}
