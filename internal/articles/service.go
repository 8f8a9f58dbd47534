// Package articles implements the article management flow: transfer mapping,
// create/read/update/delete orchestration, author-or-librarian authorization
// on delete, and the cascade that keeps comments and ratings from outliving
// their article.
package articles

import (
	"errors"
	"fmt"

	"github.com/openshelf/librarium/internal/audit"
	dbarticles "github.com/openshelf/librarium/internal/database/articles"
	"github.com/openshelf/librarium/internal/database/users"
	"github.com/openshelf/librarium/internal/entities"
)

var (
	// ErrArticleNotFound is returned when an article id does not resolve.
	ErrArticleNotFound = errors.New("article not found")
	// ErrAuthorNotFound is returned when a transfer's user id does not
	// resolve to a registered user.
	ErrAuthorNotFound = errors.New("author not found")
	// ErrNotAuthorized is returned when a delete is attempted by someone
	// who is neither the author nor a librarian.
	ErrNotAuthorized = errors.New("not authorized to delete this article")
	// ErrInvalidTransfer is returned for transfers missing required fields.
	ErrInvalidTransfer = errors.New("invalid article transfer")
)

// Transfer is the externally visible shape of an article. Image carries the
// compressed thumbnail bytes; JSON encoding renders them as base64.
type Transfer struct {
	ArticleID uint   `json:"article_id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Image     []byte `json:"image,omitempty"`
}

// ArticleStore is the persistence surface the service needs for articles.
type ArticleStore interface {
	FindByID(id uint) (*entities.Article, error)
	FindAll() ([]entities.Article, error)
	FindByAuthorID(userID string) ([]entities.Article, error)
	Save(article *entities.Article) error
	DeleteByID(id uint) error
	SearchByTitle(fragment string) ([]entities.Article, error)
	SearchByBody(fragment string) ([]entities.Article, error)
}

// UserStore resolves author references.
type UserStore interface {
	FindByUserID(userID string) (*entities.User, error)
}

// EngagementStore exposes the dependent rows the delete cascade removes.
type EngagementStore interface {
	FindCommentsByArticleID(articleID uint) ([]entities.ArticleComment, error)
	FindRatingsByArticleID(articleID uint) ([]entities.ArticleRating, error)
	DeleteComment(comment *entities.ArticleComment) error
	DeleteRating(rating *entities.ArticleRating) error
}

// Service orchestrates article operations over the record stores.
type Service struct {
	articles   ArticleStore
	users      UserStore
	engagement EngagementStore
	auditor    *audit.Service
}

// NewService creates an article management service. The auditor may be nil.
func NewService(articles ArticleStore, users UserStore, engagement EngagementStore, auditor *audit.Service) *Service {
	return &Service{
		articles:   articles,
		users:      users,
		engagement: engagement,
		auditor:    auditor,
	}
}

// Add persists a new article. The author must resolve to a registered user;
// an unresolved author fails with ErrAuthorNotFound rather than persisting a
// dangling reference. The image bytes are stored as received: the HTTP
// boundary has already compressed them.
func (s *Service) Add(t Transfer) (Transfer, error) {
	if t.Title == "" || t.Body == "" {
		return Transfer{}, fmt.Errorf("%w: title and body are required", ErrInvalidTransfer)
	}

	author, err := s.users.FindByUserID(t.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Transfer{}, fmt.Errorf("%w: %q", ErrAuthorNotFound, t.UserID)
		}
		return Transfer{}, fmt.Errorf("resolve author %q: %w", t.UserID, err)
	}

	article := &entities.Article{
		AuthorID: author.UserID,
		Title:    t.Title,
		Body:     t.Body,
		Image:    t.Image,
	}
	if err := s.articles.Save(article); err != nil {
		return Transfer{}, fmt.Errorf("save article: %w", err)
	}

	if s.auditor != nil {
		s.auditor.LogArticleCreate(author.UserID, article.ID, article.Title)
	}

	return toTransfer(article), nil
}

// GetByID returns the transfer shape of a single article.
func (s *Service) GetByID(id uint) (Transfer, error) {
	article, err := s.findArticle(id)
	if err != nil {
		return Transfer{}, err
	}
	return toTransfer(article), nil
}

// GetAll returns every article, transfer-mapped, in store order.
func (s *Service) GetAll() ([]Transfer, error) {
	articles, err := s.articles.FindAll()
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return toTransfers(articles), nil
}

// GetByAuthor returns the articles whose author id equals userID.
func (s *Service) GetByAuthor(userID string) ([]Transfer, error) {
	articles, err := s.articles.FindByAuthorID(userID)
	if err != nil {
		return nil, fmt.Errorf("list articles by author: %w", err)
	}
	return toTransfers(articles), nil
}

// SearchByTitle returns articles whose title contains the fragment.
func (s *Service) SearchByTitle(fragment string) ([]Transfer, error) {
	articles, err := s.articles.SearchByTitle(fragment)
	if err != nil {
		return nil, fmt.Errorf("search articles by title: %w", err)
	}
	return toTransfers(articles), nil
}

// SearchByBody returns articles whose body contains the fragment.
func (s *Service) SearchByBody(fragment string) ([]Transfer, error) {
	articles, err := s.articles.SearchByBody(fragment)
	if err != nil {
		return nil, fmt.Errorf("search articles by body: %w", err)
	}
	return toTransfers(articles), nil
}

// Edit overwrites title, body, and image of an existing article. The image is
// replaced wholesale: a nil transfer image clears any stored one. Authorship
// is not checked here; edit authorization is intentionally open (see the
// behavior notes in DESIGN.md). editorID identifies the caller for the audit
// trail and may be empty when authentication is disabled.
func (s *Service) Edit(t Transfer, id uint, editorID string) (Transfer, error) {
	if t.Title == "" || t.Body == "" {
		return Transfer{}, fmt.Errorf("%w: title and body are required", ErrInvalidTransfer)
	}

	article, err := s.findArticle(id)
	if err != nil {
		return Transfer{}, err
	}

	article.Title = t.Title
	article.Body = t.Body
	article.Image = t.Image

	if err := s.articles.Save(article); err != nil {
		return Transfer{}, fmt.Errorf("save article: %w", err)
	}

	if s.auditor != nil {
		s.auditor.LogArticleEdit(editorID, article.ID, article.Title)
	}

	return toTransfer(article), nil
}

// Delete removes an article on behalf of requestingUserID. Allowed when the
// requester is the author, or resolves to a user with the LIBRARIAN role.
// Dependent comments and ratings are removed first; the store performs no
// cascade of its own, so order matters.
func (s *Service) Delete(id uint, requestingUserID string) (string, error) {
	article, err := s.findArticle(id)
	if err != nil {
		return "", err
	}

	byLibrarian := false
	if article.AuthorID != requestingUserID {
		user, err := s.users.FindByUserID(requestingUserID)
		if err != nil && !errors.Is(err, users.ErrNotFound) {
			return "", fmt.Errorf("resolve requester %q: %w", requestingUserID, err)
		}
		if err != nil || user.Role != entities.UserRoleLibrarian {
			if s.auditor != nil {
				s.auditor.LogArticleDelete(requestingUserID, id, article.Title, ErrNotAuthorized)
			}
			return "", ErrNotAuthorized
		}
		byLibrarian = true
	}

	if err := s.cascadeDelete(article); err != nil {
		return "", err
	}

	if s.auditor != nil {
		s.auditor.LogArticleDelete(requestingUserID, id, article.Title, nil)
	}

	if byLibrarian {
		return "Article deleted successfully by librarian", nil
	}
	return "Article deleted successfully", nil
}

// DeleteByID removes an article unconditionally, cascade included. Deleting
// an id that does not exist fails with ErrArticleNotFound.
func (s *Service) DeleteByID(id uint) (string, error) {
	article, err := s.findArticle(id)
	if err != nil {
		return "", err
	}

	if err := s.cascadeDelete(article); err != nil {
		return "", err
	}

	return "Article deleted successfully", nil
}

// cascadeDelete removes dependents first, then the article itself. A crash
// mid-way can only leave the article alive with fewer dependents, never
// dependents pointing at a deleted article.
func (s *Service) cascadeDelete(article *entities.Article) error {
	comments, err := s.engagement.FindCommentsByArticleID(article.ID)
	if err != nil {
		return fmt.Errorf("find comments: %w", err)
	}
	for i := range comments {
		if err := s.engagement.DeleteComment(&comments[i]); err != nil {
			return fmt.Errorf("delete comment %d: %w", comments[i].ID, err)
		}
	}

	ratings, err := s.engagement.FindRatingsByArticleID(article.ID)
	if err != nil {
		return fmt.Errorf("find ratings: %w", err)
	}
	for i := range ratings {
		if err := s.engagement.DeleteRating(&ratings[i]); err != nil {
			return fmt.Errorf("delete rating %d: %w", ratings[i].ID, err)
		}
	}

	if err := s.articles.DeleteByID(article.ID); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

func (s *Service) findArticle(id uint) (*entities.Article, error) {
	article, err := s.articles.FindByID(id)
	if err != nil {
		if errors.Is(err, dbarticles.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrArticleNotFound, id)
		}
		return nil, fmt.Errorf("find article %d: %w", id, err)
	}
	return article, nil
}

func toTransfer(article *entities.Article) Transfer {
	return Transfer{
		ArticleID: article.ID,
		UserID:    article.AuthorID,
		Title:     article.Title,
		Body:      article.Body,
		Image:     article.Image,
	}
}

func toTransfers(articles []entities.Article) []Transfer {
	transfers := make([]Transfer, 0, len(articles))
	for i := range articles {
		transfers = append(transfers, toTransfer(&articles[i]))
	}
	return transfers
}
