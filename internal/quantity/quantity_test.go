package quantity

import (
	"errors"
	"math"
	"testing"

	"firewoodbank/internal/fault"
)

func TestResolveDeliverySize_Presets(t *testing.T) {
	cases := []struct {
		choice string
		cords  float64
		label  string
	}{
		{ChoiceF250, 1.0, "Ford F-250"},
		{ChoiceF250Half, 0.5, "Ford F-250 1/2"},
		{ChoiceToyota, 0.33, "Toyota"},
	}
	for _, tc := range cases {
		got, err := ResolveDeliverySize(tc.choice, "", 0)
		if err != nil {
			t.Fatalf("ResolveDeliverySize(%q): %v", tc.choice, err)
		}
		if got.Cords != tc.cords || got.Label != tc.label {
			t.Errorf("ResolveDeliverySize(%q) = %+v, want {%v %q}", tc.choice, got, tc.cords, tc.label)
		}
	}
}

func TestResolveDeliverySize_Other(t *testing.T) {
	got, err := ResolveDeliverySize(ChoiceOther, "Neighbor's trailer", 0.75)
	if err != nil {
		t.Fatalf("valid other size rejected: %v", err)
	}
	if got.Cords != 0.75 || got.Label != "Neighbor's trailer" {
		t.Errorf("got %+v", got)
	}

	for _, tc := range []struct {
		name  string
		label string
		cords float64
	}{
		{"empty label", "", 2},
		{"blank label", "   ", 1},
		{"zero cords", "Trailer", 0},
		{"negative cords", "Trailer", -1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveDeliverySize(ChoiceOther, tc.label, tc.cords)
			var ve *fault.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("want ValidationError, got %v", err)
			}
		})
	}
}

func TestResolveDeliverySize_UnknownChoice(t *testing.T) {
	if _, err := ResolveDeliverySize("dump_truck", "", 0); err == nil {
		t.Fatal("unknown choice should be rejected")
	}
}

func TestResolvePickupDimensions(t *testing.T) {
	// A standard cord stack: 8 x 4 x 4 ft = 128 cubic ft = exactly 1 cord.
	got, err := ResolvePickupDimensions(8, 4, 4, UnitFeet)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1.0 {
		t.Errorf("feet stack = %v cords, want exactly 1.0", got)
	}

	// The same stack measured in inches.
	got, err = ResolvePickupDimensions(96, 48, 48, UnitInches)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-1.0) > 1e-12 {
		t.Errorf("inch stack = %v cords, want 1.0", got)
	}

	if _, err := ResolvePickupDimensions(8, 0, 4, UnitFeet); err == nil {
		t.Error("zero dimension should be rejected")
	}
	if _, err := ResolvePickupDimensions(8, 4, 4, "m"); err == nil {
		t.Error("unknown unit should be rejected")
	}
}

func TestResolvePickupCords(t *testing.T) {
	if got, err := ResolvePickupCords(0.5); err != nil || got != 0.5 {
		t.Errorf("ResolvePickupCords(0.5) = %v, %v", got, err)
	}
	if _, err := ResolvePickupCords(0); err == nil {
		t.Error("zero cords should be rejected")
	}
	if _, err := ResolvePickupCords(-2); err == nil {
		t.Error("negative cords should be rejected")
	}
}

func TestResolveDeliverySize_Idempotent(t *testing.T) {
	a, errA := ResolveDeliverySize(ChoiceF250Half, "", 0)
	b, errB := ResolveDeliverySize(ChoiceF250Half, "", 0)
	if errA != nil || errB != nil || a != b {
		t.Fatalf("repeated resolution differs: %+v vs %+v", a, b)
	}
}
