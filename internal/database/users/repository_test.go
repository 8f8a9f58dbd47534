package users

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
	dbPath := "./test_users_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_Create_DefaultsToMember(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := &entities.User{UserID: "u1", EmailAddress: "u1@example.com"}
	require.NoError(t, repo.Create(user))

	assert.NotZero(t, user.ID)
	assert.Equal(t, entities.UserRoleMember, user.Role)
}

func TestRepository_FindByUserID(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.User{
		UserID:       "staff1",
		EmailAddress: "staff1@example.com",
		Role:         entities.UserRoleLibrarian,
	}))

	user, err := repo.FindByUserID("staff1")

	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleLibrarian, user.Role)
}

func TestRepository_FindByUserID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.FindByUserID("nope")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_FindByEmailAddress(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.User{UserID: "u1", EmailAddress: "u1@example.com"}))

	user, err := repo.FindByEmailAddress("u1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserID)

	_, err = repo.FindByEmailAddress("missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_DeleteByUserID(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.User{UserID: "u1", EmailAddress: "u1@example.com"}))
	require.NoError(t, repo.DeleteByUserID("u1"))

	_, err := repo.FindByUserID("u1")
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepository_UniqueConstraints(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.User{UserID: "u1", EmailAddress: "u1@example.com"}))

	err := repo.Create(&entities.User{UserID: "u1", EmailAddress: "other@example.com"})
	assert.Error(t, err)

	err = repo.Create(&entities.User{UserID: "u2", EmailAddress: "u1@example.com"})
	assert.Error(t, err)
}
