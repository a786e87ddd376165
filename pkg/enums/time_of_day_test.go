package enums

import "testing"

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		raw     string
		want    TimeOfDay
		wantErr bool
	}{
		{raw: "morning", want: TimeOfDayMorning},
		{raw: "night", want: TimeOfDayNight},
		{raw: " Morning ", want: TimeOfDayMorning},
		{raw: "NIGHT", want: TimeOfDayNight},
		{raw: "", wantErr: true},
		{raw: "noon", wantErr: true},
		{raw: "mornings", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseTimeOfDay(%q) expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseTimeOfDay(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestTimeOfDayIsValid(t *testing.T) {
	if !TimeOfDayMorning.IsValid() || !TimeOfDayNight.IsValid() {
		t.Fatalf("known values must be valid")
	}
	if TimeOfDay("dawn").IsValid() {
		t.Fatalf("unknown value must be invalid")
	}
}
