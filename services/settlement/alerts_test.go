package settlement

import (
	"testing"

	"charterdesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAlertsCriticalEmitsError(t *testing.T) {
	// Scenario: trip yesterday, client fully paid, owner slots unsigned.
	b := testBooking(func(b *models.Booking) {
		yesterday := testToday.AddDate(0, 0, -1)
		b.TripDate = &yesterday
	})
	require.Equal(t, models.PriorityCritical, Classify(b, testToday))

	alerts := GenerateAlerts([]models.Booking{b}, testToday)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertError, alerts[0].Severity)
	assert.Equal(t, b.ID, alerts[0].BookingID)
	assert.NotEmpty(t, alerts[0].ID)
}

func TestGenerateAlertsErrorIffCritical(t *testing.T) {
	yesterday := testToday.AddDate(0, 0, -1)
	farOut := testToday.AddDate(0, 0, 60)

	critical := testBooking(func(b *models.Booking) { b.ID = "bk-crit"; b.TripDate = &yesterday })
	low := testBooking(func(b *models.Booking) { b.ID = "bk-low"; b.TripDate = &farOut })
	complete := testBooking(func(b *models.Booking) {
		b.ID = "bk-done"
		b.TripDate = &yesterday
		signSlotForTest(&b.OwnerPayments.First, "marta")
		signSlotForTest(&b.OwnerPayments.Second, "marta")
	})

	alerts := GenerateAlerts([]models.Booking{critical, low, complete}, testToday)

	var errorIDs []string
	for _, a := range alerts {
		if a.Severity == models.AlertError {
			errorIDs = append(errorIDs, a.BookingID)
		}
	}
	assert.Equal(t, []string{"bk-crit"}, errorIDs)
}

func TestGenerateAlertsHighEmitsWarning(t *testing.T) {
	b := testBooking(func(b *models.Booking) {
		trip := testToday.AddDate(0, 0, 3)
		b.TripDate = &trip
	})
	require.Equal(t, models.PriorityHigh, Classify(b, testToday))

	alerts := GenerateAlerts([]models.Booking{b}, testToday)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertWarning, alerts[0].Severity)
}

func TestGenerateAlertsClientPaymentWindow(t *testing.T) {
	inWindow := testBooking(func(b *models.Booking) {
		b.ID = "bk-window"
		trip := testToday.AddDate(0, 0, 3)
		b.TripDate = &trip
		b.ClientPayments.Second.Received = false
	})
	boundary := testBooking(func(b *models.Booking) {
		b.ID = "bk-boundary"
		trip := testToday.AddDate(0, 0, 7)
		b.TripDate = &trip
		b.ClientPayments.Second.Received = false
	})
	outOfWindow := testBooking(func(b *models.Booking) {
		b.ID = "bk-far"
		trip := testToday.AddDate(0, 0, 8)
		b.TripDate = &trip
		b.ClientPayments.Second.Received = false
	})
	sailed := testBooking(func(b *models.Booking) {
		b.ID = "bk-sailed"
		yesterday := testToday.AddDate(0, 0, -1)
		b.TripDate = &yesterday
		b.ClientPayments.Second.Received = false
	})

	alerts := GenerateAlerts([]models.Booking{inWindow, boundary, outOfWindow, sailed}, testToday)

	var ids []string
	for _, a := range alerts {
		require.Equal(t, models.AlertWarning, a.Severity)
		ids = append(ids, a.BookingID)
	}
	assert.Equal(t, []string{"bk-window", "bk-boundary"}, ids)
	assert.Contains(t, alerts[0].Message, "3 day(s)")
}

func TestGenerateAlertsEmptyInput(t *testing.T) {
	alerts := GenerateAlerts(nil, testToday)
	assert.Empty(t, alerts)
	assert.NotNil(t, alerts)
}
