package articles

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/librarium/internal/audit"
	dbarticles "github.com/openshelf/librarium/internal/database/articles"
	dbaudit "github.com/openshelf/librarium/internal/database/audit"
	"github.com/openshelf/librarium/internal/database/engagement"
	"github.com/openshelf/librarium/internal/database/users"
	"github.com/openshelf/librarium/internal/entities"
	"github.com/openshelf/librarium/internal/imaging"
)

type testEnv struct {
	service    *Service
	users      *users.Repository
	engagement *engagement.Repository
}

func setupTestService(t *testing.T) (*testEnv, func()) {
	dbPath := "./test_articles_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Article{},
		&entities.ArticleComment{},
		&entities.ArticleRating{},
	)
	require.NoError(t, err)

	env := &testEnv{
		users:      users.NewRepository(db),
		engagement: engagement.NewRepository(db),
	}
	env.service = NewService(dbarticles.NewRepository(db), env.users, env.engagement, nil)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return env, cleanup
}

func seedUser(t *testing.T, env *testEnv, userID string, role entities.UserRole) {
	t.Helper()
	err := env.users.Create(&entities.User{
		UserID:       userID,
		EmailAddress: userID + "@example.com",
		Role:         role,
	})
	require.NoError(t, err)
}

func TestService_Add(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	seedUser(t, env, "u1", entities.UserRoleMember)

	image, err := imaging.Compress([]byte{0, 1, 2, 3, 4, 5})
	require.NoError(t, err)

	created, err := env.service.Add(Transfer{
		UserID: "u1",
		Title:  "Intro",
		Body:   "Hello",
		Image:  image,
	})

	require.NoError(t, err)
	assert.NotZero(t, created.ArticleID)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, "Intro", created.Title)
	assert.Equal(t, image, created.Image)
}

func TestService_Add_AuthorNotFound(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()

	_, err := env.service.Add(Transfer{UserID: "ghost", Title: "T", Body: "B"})

	assert.ErrorIs(t, err, ErrAuthorNotFound)
}

func TestService_Add_MissingFields(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	seedUser(t, env, "u1", entities.UserRoleMember)

	_, err := env.service.Add(Transfer{UserID: "u1", Title: "", Body: "B"})
	assert.ErrorIs(t, err, ErrInvalidTransfer)

	_, err = env.service.Add(Transfer{UserID: "u1", Title: "T", Body: ""})
	assert.ErrorIs(t, err, ErrInvalidTransfer)
}

func TestService_GetByID(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	seedUser(t, env, "u1", entities.UserRoleMember)

	created, err := env.service.Add(Transfer{UserID: "u1", Title: "Intro", Body: "Hello"})
	require.NoError(t, err)

	got, err := env.service.GetByID(created.ArticleID)

	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestService_GetByID_NotFound(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()

	_, err := env.service.GetByID(999)

	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestService_GetByAuthor_Filtering(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	seedUser(t, env, "u1", entities.UserRoleMember)
	seedUser(t, env, "u2", entities.UserRoleMember)

	for _, tr := range []Transfer{
		{UserID: "u1", Title: "A", Body: "a"},
		{UserID: "u1", Title: "B", Body: "b"},
		{UserID: "u2", Title: "C", Body: "c"},
	} {
		_, err := env.service.Add(tr)
		require.NoError(t, err)
	}

	got, err := env.service.GetByAuthor("u1")

	require.NoError(t, err)
	require.Len(t, got, 2)
	seen := map[uint]bool{}
	for _, tr := range got {
		assert.Equal(t, "u1", tr.UserID)
		assert.False(t, seen[tr.ArticleID], "duplicate article in result")
		seen[tr.ArticleID] = true
	}
}

func TestService_Edit_ReplacesImageWholesale(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	seedUser(t, env, "u1", entities.UserRoleMember)

	image, err := imaging.Compress([]byte("original thumbnail"))
	require.NoError(t, err)

	created, err := env.service.Add(Transfer{UserID: "u1", Title: "T1", Body: "B1", Image: image})
	require.NoError(t, err)

	edited, err := env.service.Edit(Transfer{Title: "T2", Body: "B2", Image: nil}, created.ArticleID, "u1")

	require.NoError(t, err)
	assert.Equal(t, "T2", edited.Title)
	assert.Equal(t, "B2", edited.Body)
	assert.Nil(t, edited.Image, "edit must replace the image, not retain the old one")

	// The cleared image persists
	got, err := env.service.GetByID(created.ArticleID)
	require.NoError(t, err)
	assert.Nil(t, got.Image)
}

func TestService_Edit_NotFound(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()

	_, err := env.service.Edit(Transfer{Title: "T", Body: "B"}, 42, "u1")

	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestService_Delete_Authorization(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	seedUser(t, env, "author", entities.UserRoleMember)
	seedUser(t, env, "member", entities.UserRoleMember)
	seedUser(t, env, "staff", entities.UserRoleLibrarian)

	created, err := env.service.Add(Transfer{UserID: "author", Title: "T", Body: "B"})
	require.NoError(t, err)

	// Unrelated member may not delete
	_, err = env.service.Delete(created.ArticleID, "member")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// Author may
	msg, err := env.service.Delete(created.ArticleID, "author")
	require.NoError(t, err)
	assert.Equal(t, "Article deleted successfully", msg)

	// Librarian may delete someone else's article
	second, err := env.service.Add(Transfer{UserID: "author", Title: "T2", Body: "B2"})
	require.NoError(t, err)
	msg, err = env.service.Delete(second.ArticleID, "staff")
	require.NoError(t, err)
	assert.Equal(t, "Article deleted successfully by librarian", msg)
}

func TestService_Delete_CascadeCompleteness(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	seedUser(t, env, "u1", entities.UserRoleMember)

	created, err := env.service.Add(Transfer{UserID: "u1", Title: "T", Body: "B"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, env.engagement.CreateComment(&entities.ArticleComment{
			ArticleID:   created.ArticleID,
			CommenterID: "u1",
			Body:        "nice",
		}))
	}
	require.NoError(t, env.engagement.CreateRating(&entities.ArticleRating{
		ArticleID: created.ArticleID,
		RaterID:   "u1",
		Score:     5,
	}))

	_, err = env.service.Delete(created.ArticleID, "u1")
	require.NoError(t, err)

	comments, err := env.engagement.FindCommentsByArticleID(created.ArticleID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	ratings, err := env.engagement.FindRatingsByArticleID(created.ArticleID)
	require.NoError(t, err)
	assert.Empty(t, ratings)
}

func TestService_Delete_NotIdempotent(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	seedUser(t, env, "u1", entities.UserRoleMember)

	created, err := env.service.Add(Transfer{UserID: "u1", Title: "T", Body: "B"})
	require.NoError(t, err)

	_, err = env.service.Delete(created.ArticleID, "u1")
	require.NoError(t, err)

	_, err = env.service.Delete(created.ArticleID, "u1")
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestService_DeleteByID(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	seedUser(t, env, "u1", entities.UserRoleMember)

	created, err := env.service.Add(Transfer{UserID: "u1", Title: "T", Body: "B"})
	require.NoError(t, err)

	msg, err := env.service.DeleteByID(created.ArticleID)
	require.NoError(t, err)
	assert.Equal(t, "Article deleted successfully", msg)

	_, err = env.service.DeleteByID(created.ArticleID)
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestService_Lifecycle(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	seedUser(t, env, "u1", entities.UserRoleMember)
	seedUser(t, env, "u2", entities.UserRoleMember)

	raw := make([]byte, 101)
	for i := range raw {
		raw[i] = byte(i)
	}
	image, err := imaging.Compress(raw)
	require.NoError(t, err)

	created, err := env.service.Add(Transfer{UserID: "u1", Title: "Intro", Body: "Hello", Image: image})
	require.NoError(t, err)

	got, err := env.service.GetByID(created.ArticleID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	require.NotNil(t, got.Image)

	restored, err := imaging.Decompress(got.Image)
	require.NoError(t, err)
	assert.Equal(t, raw, restored)

	// Non-author MEMBER cannot delete
	_, err = env.service.Delete(created.ArticleID, "u2")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// Author can
	_, err = env.service.Delete(created.ArticleID, "u1")
	require.NoError(t, err)

	_, err = env.service.GetByID(created.ArticleID)
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestService_Search(t *testing.T) {
	env, cleanup := setupTestService(t)
	defer cleanup()
	seedUser(t, env, "u1", entities.UserRoleMember)

	for _, tr := range []Transfer{
		{UserID: "u1", Title: "Gardening basics", Body: "soil and water"},
		{UserID: "u1", Title: "Advanced gardening", Body: "pruning"},
		{UserID: "u1", Title: "Cooking", Body: "soil-free recipes"},
	} {
		_, err := env.service.Add(tr)
		require.NoError(t, err)
	}

	byTitle, err := env.service.SearchByTitle("ardening")
	require.NoError(t, err)
	assert.Len(t, byTitle, 2)

	byBody, err := env.service.SearchByBody("soil")
	require.NoError(t, err)
	assert.Len(t, byBody, 2)
}

// faultyArticleStore fails every lookup with a fixed error.
type faultyArticleStore struct {
	ArticleStore
	err error
}

func (f faultyArticleStore) FindByID(id uint) (*entities.Article, error) {
	return nil, f.err
}

// staticArticleStore always resolves to the same article.
type staticArticleStore struct {
	ArticleStore
	article *entities.Article
}

func (s staticArticleStore) FindByID(id uint) (*entities.Article, error) {
	return s.article, nil
}

type faultyUserStore struct {
	err error
}

func (f faultyUserStore) FindByUserID(userID string) (*entities.User, error) {
	return nil, f.err
}

func TestService_StoreFailureIsNotMaskedAsNotFound(t *testing.T) {
	storeErr := errors.New("disk I/O error")
	svc := NewService(faultyArticleStore{err: storeErr}, faultyUserStore{err: storeErr}, nil, nil)

	_, err := svc.GetByID(7)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrArticleNotFound)

	_, err = svc.Add(Transfer{UserID: "u1", Title: "T", Body: "B"})
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrAuthorNotFound)

	_, err = svc.Delete(7, "u1")
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrArticleNotFound)
}

func TestService_Delete_RequesterLookupFailureIsNotUnauthorized(t *testing.T) {
	storeErr := errors.New("disk I/O error")
	store := staticArticleStore{article: &entities.Article{ID: 1, AuthorID: "author", Title: "T", Body: "B"}}
	svc := NewService(store, faultyUserStore{err: storeErr}, nil, nil)

	_, err := svc.Delete(1, "someone-else")
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrNotAuthorized)
}

func TestService_Edit_Audited(t *testing.T) {
	dbPath := "./test_articles_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	})

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Article{},
		&entities.ArticleComment{},
		&entities.ArticleRating{},
		&entities.AuditEvent{},
	)
	require.NoError(t, err)

	usersRepo := users.NewRepository(db)
	auditRepo := dbaudit.NewRepository(db)
	auditor := audit.NewService(auditRepo)
	svc := NewService(dbarticles.NewRepository(db), usersRepo, engagement.NewRepository(db), auditor)

	require.NoError(t, usersRepo.Create(&entities.User{
		UserID:       "u1",
		EmailAddress: "u1@example.com",
		Role:         entities.UserRoleMember,
	}))

	created, err := svc.Add(Transfer{UserID: "u1", Title: "T1", Body: "B1"})
	require.NoError(t, err)

	_, err = svc.Edit(Transfer{Title: "T2", Body: "B2"}, created.ArticleID, "editor-1")
	require.NoError(t, err)
	auditor.Flush()

	events, total, err := auditRepo.GetEventsByType(entities.AuditEventEdit, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, events, 1)
	assert.Equal(t, "editor-1", events[0].ActorID)
	assert.Equal(t, "article_edit", events[0].Action)
	assert.Equal(t, "T2", events[0].Description)
}
