package settlement

import (
	"context"

	"charterdesk/models"
)

// SettlementService is the owner-payment settlement and signoff engine.
// It consumes booking snapshots through the store's change feed and emits
// narrow owner/client payment field updates; it owns no persistence.
type SettlementService interface {
	// Resync loads the whole collection into the snapshot store. Called once
	// at startup before the change stream takes over.
	Resync() error
	// WatchLoop consumes the change feed until ctx is cancelled. Every
	// delivered document replaces the local snapshot wholesale; locally
	// initiated mutations are provisional until the feed reflects them.
	WatchLoop(ctx context.Context) error

	QueryBookings(params QueryParams) QueryResult
	GetBooking(id string) (*BookingView, error)
	Alerts() []models.Alert
	ExportRows() []ExportRow

	SetAmount(bookingID string, slot models.SlotKey, amount models.Money) error
	Sign(bookingID string, slot models.SlotKey, signature, paidBy string) error
	SetClientPaymentReceived(bookingID string, slot models.ClientSlotKey, received bool) error
}
