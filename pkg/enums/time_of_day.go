package enums

import (
	"fmt"
	"strings"
)

// TimeOfDay partitions the routine template and saved steps.
type TimeOfDay string

const (
	TimeOfDayMorning TimeOfDay = "morning"
	TimeOfDayNight   TimeOfDay = "night"
)

// IsValid reports whether the value is one of the known times of day.
func (t TimeOfDay) IsValid() bool {
	switch t {
	case TimeOfDayMorning, TimeOfDayNight:
		return true
	}
	return false
}

func (t TimeOfDay) String() string {
	return string(t)
}

// ParseTimeOfDay normalizes and validates a raw string.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	value := TimeOfDay(strings.ToLower(strings.TrimSpace(raw)))
	if !value.IsValid() {
		return "", fmt.Errorf("invalid time of day %q", raw)
	}
	return value, nil
}
