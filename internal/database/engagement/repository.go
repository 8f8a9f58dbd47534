// Package engagement provides database operations for article comments and
// ratings. Both entity types back-reference an article by id; the article
// service removes them before deleting their parent, and the integrity sweep
// removes any rows a crashed cascade left behind.
package engagement

import (
	"gorm.io/gorm"

	"github.com/openshelf/librarium/internal/entities"
)

// Repository handles comment and rating database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new engagement repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateComment persists a new article comment.
func (r *Repository) CreateComment(comment *entities.ArticleComment) error {
	return r.db.Create(comment).Error
}

// CreateRating persists a new article rating.
func (r *Repository) CreateRating(rating *entities.ArticleRating) error {
	return r.db.Create(rating).Error
}

// FindCommentsByArticleID returns all comments referencing an article.
func (r *Repository) FindCommentsByArticleID(articleID uint) ([]entities.ArticleComment, error) {
	var comments []entities.ArticleComment
	err := r.db.Where("article_id = ?", articleID).Find(&comments).Error
	return comments, err
}

// FindRatingsByArticleID returns all ratings referencing an article.
func (r *Repository) FindRatingsByArticleID(articleID uint) ([]entities.ArticleRating, error) {
	var ratings []entities.ArticleRating
	err := r.db.Where("article_id = ?", articleID).Find(&ratings).Error
	return ratings, err
}

// DeleteComment removes a single comment row.
func (r *Repository) DeleteComment(comment *entities.ArticleComment) error {
	return r.db.Delete(comment).Error
}

// DeleteRating removes a single rating row.
func (r *Repository) DeleteRating(rating *entities.ArticleRating) error {
	return r.db.Delete(rating).Error
}

// CountForArticle returns the number of comments and ratings referencing an
// article.
func (r *Repository) CountForArticle(articleID uint) (comments int64, ratings int64, err error) {
	err = r.db.Model(&entities.ArticleComment{}).Where("article_id = ?", articleID).Count(&comments).Error
	if err != nil {
		return
	}
	err = r.db.Model(&entities.ArticleRating{}).Where("article_id = ?", articleID).Count(&ratings).Error
	return
}

// DeleteOrphans removes comments and ratings whose article no longer exists.
// Returns the number of rows deleted. The store enforces no cascade, so rows
// can survive a crash between the service cascade and the article delete.
func (r *Repository) DeleteOrphans() (int64, error) {
	comments := r.db.Where(
		"article_id NOT IN (?)",
		r.db.Model(&entities.Article{}).Select("id"),
	).Delete(&entities.ArticleComment{})
	if comments.Error != nil {
		return 0, comments.Error
	}

	ratings := r.db.Where(
		"article_id NOT IN (?)",
		r.db.Model(&entities.Article{}).Select("id"),
	).Delete(&entities.ArticleRating{})
	if ratings.Error != nil {
		return comments.RowsAffected, ratings.Error
	}

	return comments.RowsAffected + ratings.RowsAffected, nil
}
