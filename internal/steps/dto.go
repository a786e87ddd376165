package steps

import (
	"time"

	"github.com/marisolvega/skinroutine-backend/pkg/db/models"
	"github.com/marisolvega/skinroutine-backend/pkg/enums"
)

// CreateStepRequest is the payload for saving a routine step.
type CreateStepRequest struct {
	RoutineStep string `json:"routine_step" validate:"required"`
	TimeOfDay   string `json:"time_of_day" validate:"required,oneof=morning night"`
	ProductID   *int64 `json:"product_id" validate:"omitempty,gt=0"`
}

// UpdateStepRequest carries a partial update. Nil fields are left untouched;
// at least one field must be present.
type UpdateStepRequest struct {
	RoutineStep *string `json:"routine_step" validate:"omitempty,min=1"`
	TimeOfDay   *string `json:"time_of_day" validate:"omitempty,oneof=morning night"`
	ProductID   *int64  `json:"product_id" validate:"omitempty,gt=0"`
}

func (r UpdateStepRequest) isEmpty() bool {
	return r.RoutineStep == nil && r.TimeOfDay == nil && r.ProductID == nil
}

// StepDTO is the API shape of a saved routine step.
type StepDTO struct {
	ID          int64           `json:"id"`
	Username    string          `json:"username"`
	RoutineStep string          `json:"routine_step"`
	TimeOfDay   enums.TimeOfDay `json:"time_of_day"`
	ProductID   *int64          `json:"product_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FromModel converts a persisted step into its API shape.
func FromModel(step *models.Step) *StepDTO {
	if step == nil {
		return nil
	}
	dto := &StepDTO{
		ID:          step.ID,
		Username:    step.Username,
		RoutineStep: step.RoutineStep,
		TimeOfDay:   step.TimeOfDay,
		CreatedAt:   step.CreatedAt,
		UpdatedAt:   step.UpdatedAt,
	}
	if step.ProductID != nil {
		productID := *step.ProductID
		dto.ProductID = &productID
	}
	return dto
}
