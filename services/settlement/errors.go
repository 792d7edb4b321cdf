package settlement

import (
	"fmt"

	"charterdesk/models"
)

// LockedSlotError rejects a mutation of an already-signed slot. The check
// runs before any write is attempted.
type LockedSlotError struct {
	BookingID string
	Slot      models.SlotKey
}

func (e *LockedSlotError) Error() string {
	return fmt.Sprintf("slot %s of booking %s is signed and locked", e.Slot, e.BookingID)
}

// ValidationError rejects a mutation with bad input; no write is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// WriteFailureError wraps a store-side failure of a mutation. The slot state
// remains whatever the last confirmed snapshot showed; the operation is never
// retried automatically.
type WriteFailureError struct {
	Op  string
	Err error
}

func (e *WriteFailureError) Error() string {
	return fmt.Sprintf("%s write failed: %v", e.Op, e.Err)
}

func (e *WriteFailureError) Unwrap() error {
	return e.Err
}

// StaleSnapshotError reports a sign attempt that lost the race against a
// concurrent signer: the conditional update matched nothing because the slot
// was signed between the local check and the write.
type StaleSnapshotError struct {
	BookingID string
	Slot      models.SlotKey
}

func (e *StaleSnapshotError) Error() string {
	return fmt.Sprintf("slot %s of booking %s was signed concurrently", e.Slot, e.BookingID)
}
