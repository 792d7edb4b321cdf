package bookingRepo

import (
	"context"
	"errors"
	"time"

	"charterdesk/models"
)

// ErrNotFound signals that no booking document matched the given id.
var ErrNotFound = errors.New("booking not found")

// ErrSignConflict signals that the conditional sign update matched nothing
// because the slot already carries a signature. This is the store-level
// outcome of two concurrent sign attempts on the same slot.
var ErrSignConflict = errors.New("slot already signed")

// BookingRepository defines the data access surface of the settlement engine.
// The engine only ever updates owner/client payment fields of existing
// documents; it creates and deletes nothing.
type BookingRepository interface {
	GetByID(id string) (*models.Booking, error)
	GetAll() ([]models.Booking, error)

	// SetSlotAmount writes amount, last-modified date and the paid flag of
	// one owner payment slot as a partial dotted-path update.
	SetSlotAmount(id string, slot models.SlotKey, amount models.Money, at time.Time) error

	// SignSlot attaches signature and attester to a slot with a single
	// atomic conditional update: the write only matches while the stored
	// signature is still empty. Returns ErrSignConflict when the document
	// exists but the slot is already signed.
	SignSlot(id string, slot models.SlotKey, signature, paidBy string, at time.Time) error

	// SetClientPaymentReceived toggles the received flag of a client
	// installment. Client slots carry no signoff lock.
	SetClientPaymentReceived(id string, slot models.ClientSlotKey, received bool, at time.Time) error

	// Watch streams full-document snapshots of every booking change until
	// ctx is cancelled. Each delivered document is the new authoritative
	// state of that booking.
	Watch(ctx context.Context, out chan<- models.Booking) error
}
