package settlement

import (
	"time"

	"charterdesk/models"
)

// Owner payments are expected one week ahead of the trip.
const ownerPaymentLeadDays = 7

// mediumWindow is how far ahead of today a due date still counts as MEDIUM.
const mediumWindow = 7 * 24 * time.Hour

// DueDate returns tripDate minus the owner payment lead, or nil for an
// unscheduled booking.
func DueDate(b models.Booking) *time.Time {
	if b.TripDate == nil {
		return nil
	}
	d := b.TripDate.AddDate(0, 0, -ownerPaymentLeadDays)
	return &d
}

// Classify derives the urgency tier of a booking's owner payment. Pure and
// deterministic: identical inputs always yield the identical tier.
//
// A transfer slot on a non-transfer booking is vacuously complete (see
// Booking.OwnerComplete), and a booking whose client has not finished paying
// is never urgent.
func Classify(b models.Booking, today time.Time) models.Priority {
	if b.TripDate == nil {
		return models.PriorityLow
	}

	clientComplete := b.ClientComplete()
	ownerComplete := b.OwnerComplete()

	switch {
	case clientComplete && ownerComplete:
		return models.PriorityComplete
	case clientComplete:
		trip := *b.TripDate
		due := trip.AddDate(0, 0, -ownerPaymentLeadDays)
		switch {
		case trip.Before(today):
			// Trip already sailed, owner still unpaid.
			return models.PriorityCritical
		case due.Before(today):
			// Due date passed, trip still upcoming.
			return models.PriorityHigh
		case due.Sub(today) <= mediumWindow:
			// Due date within the week, inclusive.
			return models.PriorityMedium
		default:
			return models.PriorityLow
		}
	default:
		return models.PriorityLow
	}
}
