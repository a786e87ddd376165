package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/marisolvega/skinroutine-backend/pkg/db"
	"github.com/marisolvega/skinroutine-backend/pkg/db/models"
)

func setupAccountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A plain in-memory database exists per connection; pin the pool to one.
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	accounts := `
CREATE TABLE IF NOT EXISTS accounts (
  username TEXT PRIMARY KEY,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL CONSTRAINT accounts_email_key UNIQUE,
  profile_img_url TEXT,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(accounts).Error)
	return conn
}

func newAccount(username string) *models.Account {
	return &models.Account{
		Username:     username,
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Email:        username + "@example.com",
	}
}

func TestAccountRepositoryCreateAndFind(t *testing.T) {
	conn := setupAccountsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	_, err := repo.Create(ctx, newAccount("mia"))
	require.NoError(t, err)

	byUsername, err := repo.FindByUsername(ctx, "mia")
	require.NoError(t, err)
	assert.Equal(t, "mia@example.com", byUsername.Email)

	byEmail, err := repo.FindByEmail(ctx, "mia@example.com")
	require.NoError(t, err)
	assert.Equal(t, "mia", byEmail.Username)

	_, err = repo.FindByUsername(ctx, "ghost")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestAccountRepositoryUniqueEmail(t *testing.T) {
	conn := setupAccountsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	_, err := repo.Create(ctx, newAccount("mia"))
	require.NoError(t, err)

	duplicate := newAccount("noor")
	duplicate.Email = "mia@example.com"
	_, err = repo.Create(ctx, duplicate)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestAccountRepositoryFindAllOrdersByUsername(t *testing.T) {
	conn := setupAccountsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for _, username := range []string{"noor", "mia", "zed"} {
		_, err := repo.Create(ctx, newAccount(username))
		require.NoError(t, err)
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "mia", all[0].Username)
	assert.Equal(t, "noor", all[1].Username)
	assert.Equal(t, "zed", all[2].Username)
}

func TestAccountRepositoryUpdateLastLogin(t *testing.T) {
	conn := setupAccountsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	_, err := repo.Create(ctx, newAccount("mia"))
	require.NoError(t, err)

	at := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, "mia", at))

	found, err := repo.FindByUsername(ctx, "mia")
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)
	assert.True(t, found.LastLoginAt.Equal(at))
}

func TestAccountRepositoryDelete(t *testing.T) {
	conn := setupAccountsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	_, err := repo.Create(ctx, newAccount("mia"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "mia"))

	_, err = repo.FindByUsername(ctx, "mia")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	err = repo.Delete(ctx, "mia")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
