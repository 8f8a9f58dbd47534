package resources

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/librarium/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_resources_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Resource{}, &entities.ResourceComment{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_ResourceCRUD(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	resource := &entities.Resource{Title: "The Go Programming Language", Author: "Donovan & Kernighan", ISBN: "9780134190440", Copies: 2}
	require.NoError(t, repo.Create(resource))

	got, err := repo.FindByID(resource.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Go Programming Language", got.Title)

	got.Copies = 3
	require.NoError(t, repo.Update(got))

	all, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 3, all[0].Copies)

	require.NoError(t, repo.DeleteByID(resource.ID))
	_, err = repo.FindByID(resource.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Comments(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	resource := &entities.Resource{Title: "Dune", Author: "Frank Herbert"}
	require.NoError(t, repo.Create(resource))

	comment := &entities.ResourceComment{ResourceID: resource.ID, MemberID: "u1", Body: "great read"}
	require.NoError(t, repo.AddComment(comment))

	comments, err := repo.FindCommentsByResourceID(resource.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	got, err := repo.FindCommentByID(resource.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "great read", got.Body)

	// Comment ids are scoped to their resource
	_, err = repo.FindCommentByID(resource.ID+1, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	require.NoError(t, repo.DeleteComment(resource.ID, comment.ID))
	assert.ErrorIs(t, repo.DeleteComment(resource.ID, comment.ID), ErrCommentNotFound)
}

func TestRepository_DeleteByID_RemovesCommentsFirst(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	resource := &entities.Resource{Title: "Dune", Author: "Frank Herbert"}
	require.NoError(t, repo.Create(resource))
	require.NoError(t, repo.AddComment(&entities.ResourceComment{ResourceID: resource.ID, MemberID: "u1", Body: "a"}))
	require.NoError(t, repo.AddComment(&entities.ResourceComment{ResourceID: resource.ID, MemberID: "u2", Body: "b"}))

	require.NoError(t, repo.DeleteByID(resource.ID))

	comments, err := repo.FindCommentsByResourceID(resource.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
