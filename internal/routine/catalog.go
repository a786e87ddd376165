package routine

import "github.com/marisolvega/skinroutine-backend/pkg/enums"

// Slot is one canonical position in the routine template: a step name, the
// time of day it belongs to, and its display order number.
type Slot struct {
	SlotNumber int             `json:"step_number"`
	StepName   string          `json:"routine_step"`
	TimeOfDay  enums.TimeOfDay `json:"time_of_day"`
}

// The catalog is fixed process-wide data. Accessors hand out copies so no
// caller can write into the shared backing arrays.
var morningSlots = []Slot{
	{SlotNumber: 0, StepName: "Makeup Remover and Oil Cleanser", TimeOfDay: enums.TimeOfDayMorning},
	{SlotNumber: 1, StepName: "Water Based Cleanser", TimeOfDay: enums.TimeOfDayMorning},
	{SlotNumber: 2, StepName: "Exfoliator", TimeOfDay: enums.TimeOfDayMorning},
	{SlotNumber: 3, StepName: "Toner", TimeOfDay: enums.TimeOfDayMorning},
	{SlotNumber: 4, StepName: "Essence", TimeOfDay: enums.TimeOfDayMorning},
	{SlotNumber: 5, StepName: "Treatments", TimeOfDay: enums.TimeOfDayMorning},
	{SlotNumber: 6, StepName: "Sheet Masks", TimeOfDay: enums.TimeOfDayMorning},
	{SlotNumber: 7, StepName: "Eye Cream", TimeOfDay: enums.TimeOfDayMorning},
	{SlotNumber: 8, StepName: "Moisturizer", TimeOfDay: enums.TimeOfDayMorning},
	{SlotNumber: 9, StepName: "Sun Protection", TimeOfDay: enums.TimeOfDayMorning},
}

// Night slot numbers start at 11; the numbers are display identifiers carried
// over from the product catalog, not slice indexes.
var nightSlots = []Slot{
	{SlotNumber: 11, StepName: "Makeup Remover and Oil Cleanser", TimeOfDay: enums.TimeOfDayNight},
	{SlotNumber: 12, StepName: "Water Based Cleanser", TimeOfDay: enums.TimeOfDayNight},
	{SlotNumber: 13, StepName: "Exfoliator", TimeOfDay: enums.TimeOfDayNight},
	{SlotNumber: 14, StepName: "Toner", TimeOfDay: enums.TimeOfDayNight},
	{SlotNumber: 15, StepName: "Essence", TimeOfDay: enums.TimeOfDayNight},
	{SlotNumber: 16, StepName: "Treatments", TimeOfDay: enums.TimeOfDayNight},
	{SlotNumber: 17, StepName: "Sheet Masks", TimeOfDay: enums.TimeOfDayNight},
	{SlotNumber: 18, StepName: "Eye Cream", TimeOfDay: enums.TimeOfDayNight},
	{SlotNumber: 19, StepName: "Moisturizer", TimeOfDay: enums.TimeOfDayNight},
}

type slotKey struct {
	stepName  string
	timeOfDay enums.TimeOfDay
}

var slotIndex = buildSlotIndex()

func buildSlotIndex() map[slotKey]Slot {
	index := make(map[slotKey]Slot, len(morningSlots)+len(nightSlots))
	for _, slot := range append(MorningSlots(), NightSlots()...) {
		key := slotKey{stepName: slot.StepName, timeOfDay: slot.TimeOfDay}
		if _, exists := index[key]; exists {
			panic("routine: duplicate (stepName, timeOfDay) in template catalog")
		}
		index[key] = slot
	}
	return index
}

// MorningSlots returns a fresh copy of the morning template in display order.
func MorningSlots() []Slot {
	return append([]Slot(nil), morningSlots...)
}

// NightSlots returns a fresh copy of the night template in display order.
func NightSlots() []Slot {
	return append([]Slot(nil), nightSlots...)
}

// Contains reports whether (stepName, timeOfDay) names a template slot.
func Contains(stepName string, timeOfDay enums.TimeOfDay) bool {
	_, ok := slotIndex[slotKey{stepName: stepName, timeOfDay: timeOfDay}]
	return ok
}
