package settlement

import (
	"fmt"
	"math"
	"time"

	"charterdesk/models"

	"github.com/google/uuid"
)

// clientReminderWindowDays bounds the independent client-payment warning:
// 0 < days-until-trip <= 7.
const clientReminderWindowDays = 7

// GenerateAlerts re-derives the whole alert feed from scratch. A single
// booking may contribute more than one alert; ordering is booking iteration
// order, callers sort or group for display.
func GenerateAlerts(bookings []models.Booking, today time.Time) []models.Alert {
	alerts := make([]models.Alert, 0)

	for _, b := range bookings {
		switch Classify(b, today) {
		case models.PriorityCritical:
			alerts = append(alerts, models.Alert{
				ID:       uuid.NewString(),
				Severity: models.AlertError,
				Message: fmt.Sprintf("Owner payment overdue for %s (%s): trip on %s already sailed",
					b.BoatName, b.ClientName, b.TripDate.Format("2006-01-02")),
				BookingID: b.ID,
			})
		case models.PriorityHigh:
			alerts = append(alerts, models.Alert{
				ID:       uuid.NewString(),
				Severity: models.AlertWarning,
				Message: fmt.Sprintf("Owner payment due for %s (%s): trip upcoming on %s",
					b.BoatName, b.ClientName, b.TripDate.Format("2006-01-02")),
				BookingID: b.ID,
			})
		}

		if b.TripDate != nil && !b.ClientComplete() {
			days := daysUntil(today, *b.TripDate)
			if days > 0 && days <= clientReminderWindowDays {
				alerts = append(alerts, models.Alert{
					ID:       uuid.NewString(),
					Severity: models.AlertWarning,
					Message: fmt.Sprintf("Client payment incomplete for %s: %d day(s) until trip",
						b.ClientName, days),
					BookingID: b.ID,
				})
			}
		}
	}
	return alerts
}

func daysUntil(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}
