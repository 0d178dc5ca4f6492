// Package assignment validates driver/helper assignment against the target
// status, the scheduled date, and each driver's free-text availability notes.
//
// The availability check is a substring heuristic over unstructured notes, not
// a calendar lookup. It approximates availability and must keep doing exactly
// that: callers depend on its observable behavior. A structured per-day
// schedule exists on the User model and could replace the heuristic, but that
// would change which assignments are rejected.
package assignment

import (
	"strings"
	"time"

	"firewoodbank/internal/fault"
	"firewoodbank/models"
)

// MaxHelpers is the hard cap on helper names accompanying the drivers.
const MaxHelpers = 4

// driverRequired is the set of target statuses that demand at least one
// assignee and a scheduled date.
var driverRequired = map[models.WorkOrderStatus]bool{
	models.WorkOrderScheduled:   true,
	models.WorkOrderRescheduled: true,
	models.WorkOrderInProgress:  true,
	models.WorkOrderCompleted:   true,
}

// RequiresDriver reports whether the target status needs a driver assigned.
func RequiresDriver(target models.WorkOrderStatus) bool {
	return driverRequired[target]
}

// Validate checks a candidate assignment. Rules run in order and the first
// failure wins; a nil return means the assignment is acceptable. The driver
// pool is matched against assignee names case-insensitively.
func Validate(target models.WorkOrderStatus, scheduled *time.Time, assignees, helpers []string, pool []*models.User) error {
	if RequiresDriver(target) && len(assignees) == 0 {
		return fault.Invalid("Assign at least one available driver for scheduled or in-progress work.")
	}
	if RequiresDriver(target) && scheduled == nil {
		return fault.Invalid("Pick a scheduled date/time when assigning a driver.")
	}
	if scheduled != nil && len(assignees) > 0 {
		if conflicted := unavailableOn(*scheduled, assignees, pool); len(conflicted) > 0 {
			return fault.Invalid("These drivers look unavailable on %s: %s. Check their availability notes.",
				weekdayToken(*scheduled), strings.Join(conflicted, ", "))
		}
	}
	if len(helpers) > MaxHelpers {
		return fault.Invalid("At most %d helpers can ride along on a work order.", MaxHelpers)
	}
	return nil
}

// unavailableOn returns the assignees whose availability notes flag the
// scheduled weekday. A driver is flagged when their notes mention the weekday
// token (or "any") together with "unavailable" or "off".
func unavailableOn(scheduled time.Time, assignees []string, pool []*models.User) []string {
	day := strings.ToLower(weekdayToken(scheduled))
	var conflicted []string
	for _, name := range assignees {
		u := findByName(pool, name)
		if u == nil || u.AvailabilityNotes == "" {
			continue
		}
		notes := strings.ToLower(u.AvailabilityNotes)
		mentionsDay := strings.Contains(notes, day) || strings.Contains(notes, "any")
		mentionsOff := strings.Contains(notes, "unavailable") || strings.Contains(notes, "off")
		if mentionsDay && mentionsOff {
			conflicted = append(conflicted, name)
		}
	}
	return conflicted
}

// weekdayToken returns the locale-independent three-letter weekday
// abbreviation (Sun..Sat) for t.
func weekdayToken(t time.Time) string {
	return t.Weekday().String()[:3]
}

func findByName(pool []*models.User, name string) *models.User {
	for _, u := range pool {
		if strings.EqualFold(u.DisplayName, name) || strings.EqualFold(u.Username, name) {
			return u
		}
	}
	return nil
}
