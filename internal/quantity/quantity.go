// Package quantity converts delivery vehicle choices and pickup measurements
// into cord-equivalent quantities. Resolution happens once, at work-order
// submission time; the resolved numbers are the values persisted.
package quantity

import (
	"strings"

	"firewoodbank/internal/fault"
)

// CubicFeetPerCord is the standard cord volume: a 4x4x8 ft stack.
const CubicFeetPerCord = 128.0

// Delivery vehicle choice keys.
const (
	ChoiceF250     = "f250"
	ChoiceF250Half = "f250_half"
	ChoiceToyota   = "toyota"
	ChoiceOther    = "other"
)

// HalfLoadLabel identifies a half-load delivery; pairing candidates are
// matched on this exact label (see internal/pairing).
const HalfLoadLabel = "Ford F-250 1/2"

// DeliverySize is a resolved delivery quantity with its human label.
type DeliverySize struct {
	Cords float64
	Label string
}

// ResolveDeliverySize maps a vehicle choice to its cord amount and label.
// For ChoiceOther the caller supplies both; the label must be non-empty and
// the cord amount positive.
func ResolveDeliverySize(choice, otherLabel string, otherCords float64) (DeliverySize, error) {
	switch choice {
	case ChoiceF250:
		return DeliverySize{Cords: 1.0, Label: "Ford F-250"}, nil
	case ChoiceF250Half:
		return DeliverySize{Cords: 0.5, Label: HalfLoadLabel}, nil
	case ChoiceToyota:
		return DeliverySize{Cords: 0.33, Label: "Toyota"}, nil
	case ChoiceOther:
		if strings.TrimSpace(otherLabel) == "" {
			return DeliverySize{}, fault.Invalid("describe the delivery vehicle or load for an 'other' delivery size")
		}
		if otherCords <= 0 {
			return DeliverySize{}, fault.Invalid("enter a positive cord amount for an 'other' delivery size")
		}
		return DeliverySize{Cords: otherCords, Label: otherLabel}, nil
	}
	return DeliverySize{}, fault.Invalid("unknown delivery size choice %q", choice)
}

// Pickup measurement units.
const (
	UnitFeet   = "ft"
	UnitInches = "in"
)

// ResolvePickupCords converts a direct cord entry into the persisted pickup
// quantity. The value must be positive.
func ResolvePickupCords(cords float64) (float64, error) {
	if cords <= 0 {
		return 0, fault.Invalid("pickup quantity must be a positive number of cords")
	}
	return cords, nil
}

// ResolvePickupDimensions converts stacked-wood measurements to cords:
// length x width x height in feet, divided by 128. Inches are converted to
// feet first. All three dimensions must be positive.
func ResolvePickupDimensions(length, width, height float64, units string) (float64, error) {
	if length <= 0 || width <= 0 || height <= 0 {
		return 0, fault.Invalid("pickup dimensions must all be positive")
	}
	switch units {
	case UnitFeet:
	case UnitInches:
		length /= 12
		width /= 12
		height /= 12
	default:
		return 0, fault.Invalid("unknown measurement unit %q", units)
	}
	return (length * width * height) / CubicFeetPerCord, nil
}
