// Package articles provides database operations for article persistence.
//
// # Usage
//
//	repo := articles.NewRepository(db)
//	article, err := repo.FindByID(id)
package articles

import (
	"errors"

	"gorm.io/gorm"

	"github.com/openshelf/librarium/internal/entities"
)

// ErrNotFound is returned when no article matches the given id.
var ErrNotFound = errors.New("article not found")

// Repository handles all article database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new articles repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID retrieves an article by its primary key.
func (r *Repository) FindByID(id uint) (*entities.Article, error) {
	var article entities.Article
	err := r.db.First(&article, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// FindAll returns every article in store order.
func (r *Repository) FindAll() ([]entities.Article, error) {
	var articles []entities.Article
	err := r.db.Find(&articles).Error
	return articles, err
}

// FindByAuthorID returns all articles whose author id matches exactly.
func (r *Repository) FindByAuthorID(userID string) ([]entities.Article, error) {
	var articles []entities.Article
	err := r.db.Where("author_id = ?", userID).Find(&articles).Error
	return articles, err
}

// Save inserts a new article or updates an existing one.
func (r *Repository) Save(article *entities.Article) error {
	return r.db.Save(article).Error
}

// DeleteByID removes an article row. Deleting a missing id is not an error
// at this layer; the service checks existence first.
func (r *Repository) DeleteByID(id uint) error {
	return r.db.Delete(&entities.Article{}, id).Error
}

// SearchByTitle returns articles whose title contains the fragment.
func (r *Repository) SearchByTitle(fragment string) ([]entities.Article, error) {
	var articles []entities.Article
	err := r.db.Where("title LIKE ?", "%"+fragment+"%").Find(&articles).Error
	return articles, err
}

// SearchByBody returns articles whose body contains the fragment.
func (r *Repository) SearchByBody(fragment string) ([]entities.Article, error) {
	var articles []entities.Article
	err := r.db.Where("body LIKE ?", "%"+fragment+"%").Find(&articles).Error
	return articles, err
}

// Count returns the number of stored articles.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Article{}).Count(&count).Error
	return count, err
}
