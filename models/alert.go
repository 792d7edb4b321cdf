package models

// AlertSeverity mirrors the dashboard's notice levels.
type AlertSeverity string

const (
	AlertError   AlertSeverity = "error"
	AlertWarning AlertSeverity = "warning"
)

// Alert is an ephemeral, derived notice. The whole feed is regenerated from
// scratch on every booking-set change; alerts are never persisted.
type Alert struct {
	ID        string        `json:"id"`
	Severity  AlertSeverity `json:"severity"`
	Message   string        `json:"message"`
	BookingID string        `json:"booking_id"`
}
