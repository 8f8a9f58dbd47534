// Package resources provides database operations for library resources
// (books) and the member comments attached to them.
package resources

import (
	"errors"

	"gorm.io/gorm"

	"github.com/openshelf/librarium/internal/entities"
)

var (
	// ErrNotFound is returned when no resource matches the given id.
	ErrNotFound = errors.New("resource not found")
	// ErrCommentNotFound is returned when no comment matches the given id.
	ErrCommentNotFound = errors.New("resource comment not found")
)

// Repository handles resource and resource comment database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new resources repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new resource.
func (r *Repository) Create(resource *entities.Resource) error {
	return r.db.Create(resource).Error
}

// FindByID retrieves a resource by its primary key.
func (r *Repository) FindByID(id uint) (*entities.Resource, error) {
	var resource entities.Resource
	err := r.db.First(&resource, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

// FindAll returns every resource.
func (r *Repository) FindAll() ([]entities.Resource, error) {
	var list []entities.Resource
	err := r.db.Find(&list).Error
	return list, err
}

// Update persists changes to an existing resource.
func (r *Repository) Update(resource *entities.Resource) error {
	return r.db.Save(resource).Error
}

// DeleteByID removes a resource and its comments, dependents first.
func (r *Repository) DeleteByID(id uint) error {
	if err := r.db.Where("resource_id = ?", id).Delete(&entities.ResourceComment{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&entities.Resource{}, id).Error
}

// AddComment persists a member comment on a resource.
func (r *Repository) AddComment(comment *entities.ResourceComment) error {
	return r.db.Create(comment).Error
}

// FindCommentsByResourceID returns all comments for a resource.
func (r *Repository) FindCommentsByResourceID(resourceID uint) ([]entities.ResourceComment, error) {
	var comments []entities.ResourceComment
	err := r.db.Where("resource_id = ?", resourceID).Find(&comments).Error
	return comments, err
}

// FindCommentByID retrieves a single comment scoped to a resource.
func (r *Repository) FindCommentByID(resourceID, commentID uint) (*entities.ResourceComment, error) {
	var comment entities.ResourceComment
	err := r.db.Where("resource_id = ? AND id = ?", resourceID, commentID).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a single comment scoped to a resource.
func (r *Repository) DeleteComment(resourceID, commentID uint) error {
	result := r.db.Where("resource_id = ? AND id = ?", resourceID, commentID).
		Delete(&entities.ResourceComment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}
