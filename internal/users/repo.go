package users

import (
	"context"
	"time"

	"github.com/marisolvega/skinroutine-backend/internal/repo"
	"github.com/marisolvega/skinroutine-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes account persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs an accounts repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new account and returns the persisted model.
func (r *Repository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := r.DB(ctx).Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// FindByUsername loads an account by its username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	if err := r.DB(ctx).First(&account, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByEmail retrieves the account matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.DB(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindAll lists every account ordered by username.
func (r *Repository) FindAll(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.DB(ctx).Order("username ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// UpdateLastLogin refreshes the account's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	return r.DB(ctx).
		Model(&models.Account{}).
		Where("username = ?", username).
		UpdateColumn("last_login_at", at).Error
}

// Update persists changed columns of an existing account.
func (r *Repository) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := r.DB(ctx).Save(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// Delete removes the account row; the schema cascades to the account's steps.
// Returns gorm.ErrRecordNotFound when nothing matched.
func (r *Repository) Delete(ctx context.Context, username string) error {
	result := r.DB(ctx).Delete(&models.Account{}, "username = ?", username)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
