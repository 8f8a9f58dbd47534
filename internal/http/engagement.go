package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/entities"
)

// EngagementStore defines database operations for article comments and
// ratings.
type EngagementStore interface {
	CreateComment(comment *entities.ArticleComment) error
	CreateRating(rating *entities.ArticleRating) error
	FindCommentsByArticleID(articleID uint) ([]entities.ArticleComment, error)
	FindRatingsByArticleID(articleID uint) ([]entities.ArticleRating, error)
}

// EngagementController handles comment and rating endpoints for articles.
// The article service is consulted first so engagement rows never attach to
// a missing article.
type EngagementController struct {
	store    EngagementStore
	articles ArticleService
}

// NewEngagementController creates a new engagement controller.
func NewEngagementController(store EngagementStore, articles ArticleService) *EngagementController {
	return &EngagementController{store: store, articles: articles}
}

type addCommentRequest struct {
	CommenterID string `json:"commenter_id" binding:"required"`
	Body        string `json:"body" binding:"required"`
}

// AddComment attaches a comment to an article.
// POST /article/:articleID/comment
func (ec *EngagementController) AddComment(c *gin.Context) {
	articleID, ok := parseIDParam(c, "articleID")
	if !ok {
		return
	}

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "commenter_id and body are required")
		return
	}

	if _, err := ec.articles.GetByID(articleID); err != nil {
		respondServiceError(c, err, "get article")
		return
	}

	comment := &entities.ArticleComment{
		ArticleID:   articleID,
		CommenterID: req.CommenterID,
		Body:        req.Body,
	}
	if err := ec.store.CreateComment(comment); err != nil {
		respondInternalError(c, err, "create comment")
		return
	}

	respondCreated(c, comment)
}

// GetComments lists the comments attached to an article.
// GET /article/:articleID/comment
func (ec *EngagementController) GetComments(c *gin.Context) {
	articleID, ok := parseIDParam(c, "articleID")
	if !ok {
		return
	}

	comments, err := ec.store.FindCommentsByArticleID(articleID)
	if err != nil {
		respondInternalError(c, err, "list comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

type addRatingRequest struct {
	RaterID string `json:"rater_id" binding:"required"`
	Score   int    `json:"score" binding:"required"`
}

// AddRating attaches a 1-5 score to an article.
// POST /article/:articleID/rating
func (ec *EngagementController) AddRating(c *gin.Context) {
	articleID, ok := parseIDParam(c, "articleID")
	if !ok {
		return
	}

	var req addRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "rater_id and score are required")
		return
	}
	if req.Score < 1 || req.Score > 5 {
		respondBadRequest(c, "score must be between 1 and 5")
		return
	}

	if _, err := ec.articles.GetByID(articleID); err != nil {
		respondServiceError(c, err, "get article")
		return
	}

	rating := &entities.ArticleRating{
		ArticleID: articleID,
		RaterID:   req.RaterID,
		Score:     req.Score,
	}
	if err := ec.store.CreateRating(rating); err != nil {
		respondInternalError(c, err, "create rating")
		return
	}

	respondCreated(c, rating)
}

// GetRatings lists the ratings attached to an article.
// GET /article/:articleID/rating
func (ec *EngagementController) GetRatings(c *gin.Context) {
	articleID, ok := parseIDParam(c, "articleID")
	if !ok {
		return
	}

	ratings, err := ec.store.FindRatingsByArticleID(articleID)
	if err != nil {
		respondInternalError(c, err, "list ratings")
		return
	}
	c.JSON(http.StatusOK, ratings)
}
