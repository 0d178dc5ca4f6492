package assignment

import (
	"errors"
	"strings"
	"testing"
	"time"

	"firewoodbank/internal/fault"
	"firewoodbank/models"
)

func driver(name, notes string) *models.User {
	return &models.User{Username: strings.ToLower(name), DisplayName: name, IsDriver: true, AvailabilityNotes: notes}
}

// 2026-09-01 is a Tuesday, 2026-09-02 a Wednesday.
var (
	tuesday   = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	wednesday = time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
)

func TestValidate_RequiresDriver(t *testing.T) {
	for _, target := range []models.WorkOrderStatus{
		models.WorkOrderScheduled,
		models.WorkOrderRescheduled,
		models.WorkOrderInProgress,
		models.WorkOrderCompleted,
	} {
		err := Validate(target, &tuesday, nil, nil, nil)
		var ve *fault.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("target %s with no assignees: want ValidationError, got %v", target, err)
		}
		if !strings.Contains(ve.Reason, "Assign at least one available driver") {
			t.Errorf("target %s: unexpected reason %q", target, ve.Reason)
		}
	}
}

func TestValidate_RequiresDate(t *testing.T) {
	err := Validate(models.WorkOrderScheduled, nil, []string{"Pat"}, nil, nil)
	var ve *fault.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if !strings.Contains(ve.Reason, "scheduled date/time") {
		t.Errorf("unexpected reason %q", ve.Reason)
	}
}

func TestValidate_ReceivedNeedsNothing(t *testing.T) {
	if err := Validate(models.WorkOrderReceived, nil, nil, nil, nil); err != nil {
		t.Fatalf("received target should not require drivers: %v", err)
	}
}

func TestValidate_AvailabilityNotes(t *testing.T) {
	pool := []*models.User{
		driver("Pat", "off on tue"),
		driver("Sam", "usually around, unavailable any weekday mornings"),
		driver("Lee", "prefers tuesdays"),
	}

	// Pat is off on Tuesdays.
	err := Validate(models.WorkOrderScheduled, &tuesday, []string{"Pat"}, nil, pool)
	if err == nil || !strings.Contains(err.Error(), "Pat") {
		t.Fatalf("Pat on a Tuesday should be rejected by name, got %v", err)
	}

	// Same driver on a Wednesday is fine.
	if err := Validate(models.WorkOrderScheduled, &wednesday, []string{"Pat"}, nil, pool); err != nil {
		t.Fatalf("Pat on a Wednesday should pass: %v", err)
	}

	// "any" plus "unavailable" flags every day.
	if err := Validate(models.WorkOrderScheduled, &wednesday, []string{"Sam"}, nil, pool); err == nil {
		t.Fatal("Sam's 'unavailable any' notes should flag Wednesday too")
	}

	// Mentioning the day without an off-word is not a conflict.
	if err := Validate(models.WorkOrderScheduled, &tuesday, []string{"Lee"}, nil, pool); err != nil {
		t.Fatalf("Lee prefers Tuesdays, should pass: %v", err)
	}

	// All offenders are named.
	err = Validate(models.WorkOrderScheduled, &tuesday, []string{"Pat", "Sam", "Lee"}, nil, pool)
	if err == nil || !strings.Contains(err.Error(), "Pat") || !strings.Contains(err.Error(), "Sam") {
		t.Fatalf("want both Pat and Sam named, got %v", err)
	}
	if strings.Contains(err.Error(), "Lee") {
		t.Fatalf("Lee should not be named: %v", err)
	}
}

func TestValidate_UnknownDriverIgnored(t *testing.T) {
	// Assignees absent from the pool cannot be checked; advisory pass.
	if err := Validate(models.WorkOrderScheduled, &tuesday, []string{"Ghost"}, nil, nil); err != nil {
		t.Fatalf("unknown driver should not fail availability: %v", err)
	}
}

func TestValidate_HelperCap(t *testing.T) {
	four := []string{"a", "b", "c", "d"}
	if err := Validate(models.WorkOrderScheduled, &wednesday, []string{"Pat"}, four, nil); err != nil {
		t.Fatalf("four helpers should pass: %v", err)
	}
	five := append(four, "e")
	if err := Validate(models.WorkOrderScheduled, &wednesday, []string{"Pat"}, five, nil); err == nil {
		t.Fatal("five helpers should be rejected")
	}
}

func TestValidate_MatchesDisplayNameCaseInsensitive(t *testing.T) {
	pool := []*models.User{driver("Pat Jones", "Off Tuesdays")}
	err := Validate(models.WorkOrderScheduled, &tuesday, []string{"pat jones"}, nil, pool)
	if err == nil {
		t.Fatal("case-insensitive name match should still flag the conflict")
	}
}
