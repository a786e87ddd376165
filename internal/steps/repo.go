package steps

import (
	"context"

	"github.com/marisolvega/skinroutine-backend/internal/repo"
	"github.com/marisolvega/skinroutine-backend/pkg/db/models"
	"github.com/marisolvega/skinroutine-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes step persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a steps repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new step and returns the persisted model.
func (r *Repository) Create(ctx context.Context, step *models.Step) (*models.Step, error) {
	if err := r.DB(ctx).Create(step).Error; err != nil {
		return nil, err
	}
	return step, nil
}

// FindByID loads a step by its numeric identifier.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Step, error) {
	var step models.Step
	if err := r.DB(ctx).First(&step, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &step, nil
}

// FindByOwner returns every step saved by the given username, oldest first.
func (r *Repository) FindByOwner(ctx context.Context, username string) ([]models.Step, error) {
	var steps []models.Step
	err := r.DB(ctx).
		Where("username = ?", username).
		Order("id ASC").
		Find(&steps).Error
	if err != nil {
		return nil, err
	}
	return steps, nil
}

// FindBySlot returns the owner's step occupying the given template slot.
func (r *Repository) FindBySlot(ctx context.Context, username, routineStep string, timeOfDay enums.TimeOfDay) (*models.Step, error) {
	var step models.Step
	err := r.DB(ctx).
		Where("username = ? AND routine_step = ? AND time_of_day = ?", username, routineStep, timeOfDay).
		First(&step).Error
	if err != nil {
		return nil, err
	}
	return &step, nil
}

// Update persists changed columns of an existing step.
func (r *Repository) Update(ctx context.Context, step *models.Step) (*models.Step, error) {
	if err := r.DB(ctx).Save(step).Error; err != nil {
		return nil, err
	}
	return step, nil
}

// Delete removes the step row. Returns gorm.ErrRecordNotFound when nothing
// matched so callers can translate it.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result := r.DB(ctx).Delete(&models.Step{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
