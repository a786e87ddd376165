package routine

import (
	"fmt"

	"github.com/marisolvega/skinroutine-backend/pkg/enums"
	pkgerrors "github.com/marisolvega/skinroutine-backend/pkg/errors"
)

// SavedStep is the boundary shape the engine consumes: one persisted routine
// step already fetched for a single owner.
type SavedStep struct {
	ID        int64
	Username  string
	StepName  string
	TimeOfDay enums.TimeOfDay
	ProductID *int64
}

// ReconciledSlot is a template slot annotated with the owner's saved data.
// ProductID and SavedStepID stay nil for slots the owner has not personalized.
type ReconciledSlot struct {
	SlotNumber  int             `json:"step_number"`
	StepName    string          `json:"routine_step"`
	TimeOfDay   enums.TimeOfDay `json:"time_of_day"`
	ProductID   *int64          `json:"product_id"`
	SavedStepID *int64          `json:"step_id"`
}

// View is the complete reconciled routine for one owner.
type View struct {
	Morning []ReconciledSlot `json:"morning"`
	Night   []ReconciledSlot `json:"night"`
}

// Reconcile merges an ordered template list with an owner's saved steps. It is
// a pure function: the output is always a brand-new slice covering every
// template slot in template order, and neither input is mutated.
//
// Finding more than one saved step for a single slot means the storage
// uniqueness invariant was violated upstream; that is reported as a
// consistency error instead of silently picking a winner.
func Reconcile(slots []Slot, saved []SavedStep) ([]ReconciledSlot, error) {
	out := make([]ReconciledSlot, 0, len(slots))
	for _, slot := range slots {
		view := ReconciledSlot{
			SlotNumber: slot.SlotNumber,
			StepName:   slot.StepName,
			TimeOfDay:  slot.TimeOfDay,
		}

		matched := false
		for _, record := range saved {
			if record.StepName != slot.StepName || record.TimeOfDay != slot.TimeOfDay {
				continue
			}
			if matched {
				return nil, pkgerrors.New(
					pkgerrors.CodeConsistency,
					fmt.Sprintf("multiple saved steps for %s slot %q", slot.TimeOfDay, slot.StepName),
				)
			}
			matched = true
			id := record.ID
			view.SavedStepID = &id
			if record.ProductID != nil {
				productID := *record.ProductID
				view.ProductID = &productID
			}
		}

		out = append(out, view)
	}
	return out, nil
}

// ReconcileView runs Reconcile against both catalog lists.
func ReconcileView(saved []SavedStep) (View, error) {
	morning, err := Reconcile(MorningSlots(), saved)
	if err != nil {
		return View{}, err
	}
	night, err := Reconcile(NightSlots(), saved)
	if err != nil {
		return View{}, err
	}
	return View{Morning: morning, Night: night}, nil
}
