package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/marisolvega/skinroutine-backend/internal/routine"
	"github.com/marisolvega/skinroutine-backend/pkg/db"
	"github.com/marisolvega/skinroutine-backend/pkg/db/models"
	"github.com/marisolvega/skinroutine-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/skinroutine-backend/pkg/errors"
	"gorm.io/gorm"
)

// ownerSlotConstraint matches the unique constraint in the steps migration.
const ownerSlotConstraint = "steps_owner_slot_unique"

// Service defines the behavior needed by the steps controllers.
type Service interface {
	Create(ctx context.Context, username string, req CreateStepRequest) (*StepDTO, error)
	RoutineView(ctx context.Context, username string) (routine.View, error)
	GetByID(ctx context.Context, username string, stepID int64) (*StepDTO, error)
	Update(ctx context.Context, username string, stepID int64, req UpdateStepRequest) (*StepDTO, error)
	Delete(ctx context.Context, username string, stepID int64) error
}

type stepRepository interface {
	Create(ctx context.Context, step *models.Step) (*models.Step, error)
	FindByID(ctx context.Context, id int64) (*models.Step, error)
	FindByOwner(ctx context.Context, username string) ([]models.Step, error)
	FindBySlot(ctx context.Context, username, routineStep string, timeOfDay enums.TimeOfDay) (*models.Step, error)
	Update(ctx context.Context, step *models.Step) (*models.Step, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	steps stepRepository
}

// NewService constructs a steps service with the provided repository.
func NewService(steps stepRepository) (Service, error) {
	if steps == nil {
		return nil, fmt.Errorf("steps repository is required")
	}
	return &service{steps: steps}, nil
}

func (s *service) Create(ctx context.Context, username string, req CreateStepRequest) (*StepDTO, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	timeOfDay, err := enums.ParseTimeOfDay(req.TimeOfDay)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid time of day")
	}

	stepName := strings.TrimSpace(req.RoutineStep)
	if !routine.Contains(stepName, timeOfDay) {
		return nil, pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("%q is not a %s routine step", stepName, timeOfDay),
		)
	}

	if err := s.ensureSlotFree(ctx, username, stepName, timeOfDay); err != nil {
		return nil, err
	}

	step := &models.Step{
		Username:    username,
		RoutineStep: stepName,
		TimeOfDay:   timeOfDay,
		ProductID:   req.ProductID,
	}

	created, err := s.steps.Create(ctx, step)
	if err != nil {
		// The database constraint backstops the pre-check under concurrency.
		if db.IsUniqueViolation(err, ownerSlotConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, slotTakenMessage(stepName, timeOfDay))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create step")
	}
	return FromModel(created), nil
}

func (s *service) RoutineView(ctx context.Context, username string) (routine.View, error) {
	saved, err := s.savedSteps(ctx, username)
	if err != nil {
		return routine.View{}, err
	}
	return routine.ReconcileView(saved)
}

func (s *service) GetByID(ctx context.Context, username string, stepID int64) (*StepDTO, error) {
	step, err := s.ownedStep(ctx, username, stepID)
	if err != nil {
		return nil, err
	}
	return FromModel(step), nil
}

func (s *service) Update(ctx context.Context, username string, stepID int64, req UpdateStepRequest) (*StepDTO, error) {
	if req.isEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one field must be provided")
	}

	step, err := s.ownedStep(ctx, username, stepID)
	if err != nil {
		return nil, err
	}

	stepName := step.RoutineStep
	if req.RoutineStep != nil {
		stepName = strings.TrimSpace(*req.RoutineStep)
	}
	timeOfDay := step.TimeOfDay
	if req.TimeOfDay != nil {
		parsed, err := enums.ParseTimeOfDay(*req.TimeOfDay)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid time of day")
		}
		timeOfDay = parsed
	}

	if !routine.Contains(stepName, timeOfDay) {
		return nil, pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("%q is not a %s routine step", stepName, timeOfDay),
		)
	}

	slotChanged := stepName != step.RoutineStep || timeOfDay != step.TimeOfDay
	if slotChanged {
		if err := s.ensureSlotFree(ctx, username, stepName, timeOfDay); err != nil {
			return nil, err
		}
	}

	step.RoutineStep = stepName
	step.TimeOfDay = timeOfDay
	if req.ProductID != nil {
		productID := *req.ProductID
		step.ProductID = &productID
	}

	updated, err := s.steps.Update(ctx, step)
	if err != nil {
		if db.IsUniqueViolation(err, ownerSlotConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, slotTakenMessage(stepName, timeOfDay))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update step")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, username string, stepID int64) error {
	if _, err := s.ownedStep(ctx, username, stepID); err != nil {
		return err
	}
	if err := s.steps.Delete(ctx, stepID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "step not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete step")
	}
	return nil
}

// ownedStep loads a step and confirms it belongs to username. A step owned by
// someone else is reported as not found so step identifiers do not leak across
// accounts.
func (s *service) ownedStep(ctx context.Context, username string, stepID int64) (*models.Step, error) {
	if stepID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "step id must be positive")
	}
	step, err := s.steps.FindByID(ctx, stepID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "step not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup step")
	}
	if step.Username != username {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "step not found")
	}
	return step, nil
}

func (s *service) ensureSlotFree(ctx context.Context, username, stepName string, timeOfDay enums.TimeOfDay) error {
	_, err := s.steps.FindBySlot(ctx, username, stepName, timeOfDay)
	if err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, slotTakenMessage(stepName, timeOfDay))
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slot")
}

func (s *service) savedSteps(ctx context.Context, username string) ([]routine.SavedStep, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	records, err := s.steps.FindByOwner(ctx, username)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list steps")
	}

	saved := make([]routine.SavedStep, 0, len(records))
	for _, record := range records {
		entry := routine.SavedStep{
			ID:        record.ID,
			Username:  record.Username,
			StepName:  record.RoutineStep,
			TimeOfDay: record.TimeOfDay,
		}
		if record.ProductID != nil {
			productID := *record.ProductID
			entry.ProductID = &productID
		}
		saved = append(saved, entry)
	}
	return saved, nil
}

func slotTakenMessage(stepName string, timeOfDay enums.TimeOfDay) string {
	return fmt.Sprintf("a %s step for %q already exists", timeOfDay, stepName)
}
