package steps

import (
	"context"
	"errors"
	"testing"

	"github.com/marisolvega/skinroutine-backend/pkg/db/models"
	"github.com/marisolvega/skinroutine-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/skinroutine-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubStepRepo struct {
	byID      map[int64]*models.Step
	bySlot    *models.Step
	owned     []models.Step
	createErr error
	updateErr error
	findErr   error
	nextID    int64

	created *models.Step
	updated *models.Step
	deleted []int64
}

func (s *stubStepRepo) Create(_ context.Context, step *models.Step) (*models.Step, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextID++
	step.ID = s.nextID
	s.created = step
	return step, nil
}

func (s *stubStepRepo) FindByID(_ context.Context, id int64) (*models.Step, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if step, ok := s.byID[id]; ok {
		copied := *step
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStepRepo) FindByOwner(_ context.Context, username string) ([]models.Step, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	out := make([]models.Step, 0, len(s.owned))
	for _, step := range s.owned {
		if step.Username == username {
			out = append(out, step)
		}
	}
	return out, nil
}

func (s *stubStepRepo) FindBySlot(_ context.Context, username, routineStep string, timeOfDay enums.TimeOfDay) (*models.Step, error) {
	if s.bySlot != nil &&
		s.bySlot.Username == username &&
		s.bySlot.RoutineStep == routineStep &&
		s.bySlot.TimeOfDay == timeOfDay {
		copied := *s.bySlot
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStepRepo) Update(_ context.Context, step *models.Step) (*models.Step, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.updated = step
	return step, nil
}

func (s *stubStepRepo) Delete(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func newTestService(t *testing.T, repo *stubStepRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestCreateStepSuccess(t *testing.T) {
	repo := &stubStepRepo{}
	svc := newTestService(t, repo)

	productID := int64(14)
	dto, err := svc.Create(context.Background(), "mia", CreateStepRequest{
		RoutineStep: "Toner",
		TimeOfDay:   "morning",
		ProductID:   &productID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if dto.Username != "mia" || dto.RoutineStep != "Toner" || dto.TimeOfDay != enums.TimeOfDayMorning {
		t.Fatalf("unexpected dto %+v", dto)
	}
	if dto.ProductID == nil || *dto.ProductID != 14 {
		t.Fatalf("expected product 14, got %v", dto.ProductID)
	}
}

func TestCreateStepNormalizesTimeOfDay(t *testing.T) {
	repo := &stubStepRepo{}
	svc := newTestService(t, repo)

	dto, err := svc.Create(context.Background(), "mia", CreateStepRequest{
		RoutineStep: "Toner",
		TimeOfDay:   " Night ",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.TimeOfDay != enums.TimeOfDayNight {
		t.Fatalf("expected night, got %q", dto.TimeOfDay)
	}
}

func TestCreateStepRejectsUnknownSlot(t *testing.T) {
	svc := newTestService(t, &stubStepRepo{})

	_, err := svc.Create(context.Background(), "mia", CreateStepRequest{
		RoutineStep: "Snail Mucin",
		TimeOfDay:   "morning",
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateStepRejectsMorningOnlyStepAtNight(t *testing.T) {
	svc := newTestService(t, &stubStepRepo{})

	_, err := svc.Create(context.Background(), "mia", CreateStepRequest{
		RoutineStep: "Sun Protection",
		TimeOfDay:   "night",
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateStepRejectsBadTimeOfDay(t *testing.T) {
	svc := newTestService(t, &stubStepRepo{})

	_, err := svc.Create(context.Background(), "mia", CreateStepRequest{
		RoutineStep: "Toner",
		TimeOfDay:   "afternoon",
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateStepDuplicateSlotConflicts(t *testing.T) {
	repo := &stubStepRepo{
		bySlot: &models.Step{ID: 2, Username: "mia", RoutineStep: "Toner", TimeOfDay: enums.TimeOfDayMorning},
	}
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), "mia", CreateStepRequest{
		RoutineStep: "Toner",
		TimeOfDay:   "morning",
	})
	expectCode(t, err, pkgerrors.CodeConflict)
	if repo.created != nil {
		t.Fatal("create should not reach the repo on duplicate slot")
	}
}

func TestCreateStepUniqueViolationConflicts(t *testing.T) {
	repo := &stubStepRepo{
		createErr: errors.New(`duplicate key value violates unique constraint "steps_owner_slot_unique"`),
	}
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), "mia", CreateStepRequest{
		RoutineStep: "Toner",
		TimeOfDay:   "morning",
	})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestRoutineViewMergesSavedSteps(t *testing.T) {
	productID := int64(1)
	repo := &stubStepRepo{
		owned: []models.Step{
			{ID: 7, Username: "mia", RoutineStep: "Makeup Remover and Oil Cleanser", TimeOfDay: enums.TimeOfDayMorning, ProductID: &productID},
			{ID: 8, Username: "mia", RoutineStep: "Moisturizer", TimeOfDay: enums.TimeOfDayNight},
		},
	}
	svc := newTestService(t, repo)

	view, err := svc.RoutineView(context.Background(), "mia")
	if err != nil {
		t.Fatalf("routine view: %v", err)
	}
	if len(view.Morning) != 10 || len(view.Night) != 9 {
		t.Fatalf("unexpected view shape: %d morning, %d night", len(view.Morning), len(view.Night))
	}

	first := view.Morning[0]
	if first.SavedStepID == nil || *first.SavedStepID != 7 {
		t.Fatalf("expected saved step 7, got %v", first.SavedStepID)
	}
	if first.ProductID == nil || *first.ProductID != 1 {
		t.Fatalf("expected product 1, got %v", first.ProductID)
	}

	nightMoisturizer := view.Night[8]
	if nightMoisturizer.SavedStepID == nil || *nightMoisturizer.SavedStepID != 8 {
		t.Fatalf("expected saved step 8, got %v", nightMoisturizer.SavedStepID)
	}
	if nightMoisturizer.ProductID != nil {
		t.Fatal("expected nil product for night moisturizer")
	}
}

func TestRoutineViewDuplicateRowsSurfaceConsistencyError(t *testing.T) {
	repo := &stubStepRepo{
		owned: []models.Step{
			{ID: 1, Username: "mia", RoutineStep: "Toner", TimeOfDay: enums.TimeOfDayMorning},
			{ID: 2, Username: "mia", RoutineStep: "Toner", TimeOfDay: enums.TimeOfDayMorning},
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.RoutineView(context.Background(), "mia")
	expectCode(t, err, pkgerrors.CodeConsistency)
}

func TestGetByIDOwnedByAnotherUserIsNotFound(t *testing.T) {
	repo := &stubStepRepo{
		byID: map[int64]*models.Step{
			5: {ID: 5, Username: "noor", RoutineStep: "Toner", TimeOfDay: enums.TimeOfDayMorning},
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.GetByID(context.Background(), "mia", 5)
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetByIDMissingIsNotFound(t *testing.T) {
	svc := newTestService(t, &stubStepRepo{byID: map[int64]*models.Step{}})

	_, err := svc.GetByID(context.Background(), "mia", 99)
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateStepEmptyPatchRejected(t *testing.T) {
	svc := newTestService(t, &stubStepRepo{})

	_, err := svc.Update(context.Background(), "mia", 5, UpdateStepRequest{})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateStepChangesProduct(t *testing.T) {
	repo := &stubStepRepo{
		byID: map[int64]*models.Step{
			5: {ID: 5, Username: "mia", RoutineStep: "Toner", TimeOfDay: enums.TimeOfDayMorning},
		},
	}
	svc := newTestService(t, repo)

	productID := int64(21)
	dto, err := svc.Update(context.Background(), "mia", 5, UpdateStepRequest{ProductID: &productID})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.ProductID == nil || *dto.ProductID != 21 {
		t.Fatalf("expected product 21, got %v", dto.ProductID)
	}
	if dto.RoutineStep != "Toner" || dto.TimeOfDay != enums.TimeOfDayMorning {
		t.Fatalf("slot fields must be unchanged, got %+v", dto)
	}
}

func TestUpdateStepMoveToTakenSlotConflicts(t *testing.T) {
	repo := &stubStepRepo{
		byID: map[int64]*models.Step{
			5: {ID: 5, Username: "mia", RoutineStep: "Toner", TimeOfDay: enums.TimeOfDayMorning},
		},
		bySlot: &models.Step{ID: 6, Username: "mia", RoutineStep: "Essence", TimeOfDay: enums.TimeOfDayMorning},
	}
	svc := newTestService(t, repo)

	newStep := "Essence"
	_, err := svc.Update(context.Background(), "mia", 5, UpdateStepRequest{RoutineStep: &newStep})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestUpdateStepMoveToInvalidSlotRejected(t *testing.T) {
	repo := &stubStepRepo{
		byID: map[int64]*models.Step{
			5: {ID: 5, Username: "mia", RoutineStep: "Sun Protection", TimeOfDay: enums.TimeOfDayMorning},
		},
	}
	svc := newTestService(t, repo)

	night := "night"
	// Sun Protection has no night slot, so flipping only the time of day must fail.
	_, err := svc.Update(context.Background(), "mia", 5, UpdateStepRequest{TimeOfDay: &night})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestDeleteStepSuccess(t *testing.T) {
	repo := &stubStepRepo{
		byID: map[int64]*models.Step{
			5: {ID: 5, Username: "mia", RoutineStep: "Toner", TimeOfDay: enums.TimeOfDayMorning},
		},
	}
	svc := newTestService(t, repo)

	if err := svc.Delete(context.Background(), "mia", 5); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != 5 {
		t.Fatalf("expected delete of 5, got %v", repo.deleted)
	}
}

func TestDeleteStepOwnedByAnotherUserIsNotFound(t *testing.T) {
	repo := &stubStepRepo{
		byID: map[int64]*models.Step{
			5: {ID: 5, Username: "noor", RoutineStep: "Toner", TimeOfDay: enums.TimeOfDayMorning},
		},
	}
	svc := newTestService(t, repo)

	err := svc.Delete(context.Background(), "mia", 5)
	expectCode(t, err, pkgerrors.CodeNotFound)
	if len(repo.deleted) != 0 {
		t.Fatalf("delete must not reach repo, got %v", repo.deleted)
	}
}

func TestRepoErrorIsDependency(t *testing.T) {
	repo := &stubStepRepo{findErr: errors.New("boom")}
	svc := newTestService(t, repo)

	_, err := svc.RoutineView(context.Background(), "mia")
	expectCode(t, err, pkgerrors.CodeDependency)
}
