package settlement

import (
	"errors"

	bookingRepo "charterdesk/database/repository/booking"
	"charterdesk/models"

	"go.uber.org/zap"
)

// SetAmount records an owner payment amount. Legal only while the slot is
// unsigned; a signed slot rejects the mutation before any write is attempted.
// On success the store stamps the slot date and the paid flag; the slot stays
// pending.
func (s *DefaultSettlementService) SetAmount(bookingID string, slot models.SlotKey, amount models.Money) error {
	b, err := s.currentBooking(bookingID)
	if err != nil {
		return err
	}
	target, err := s.ownerSlot(b, slot)
	if err != nil {
		return err
	}
	if amount.IsNegative() {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if target.Signed() {
		return &LockedSlotError{BookingID: bookingID, Slot: slot}
	}

	if err := s.Repo.SetSlotAmount(bookingID, slot, amount, s.now()); err != nil {
		return &WriteFailureError{Op: "set amount", Err: err}
	}
	return nil
}

// Sign irreversibly locks a slot by attaching the signature reference and
// the attester name. Requires a previously recorded positive amount; signing
// a zero-amount slot is rejected rather than silently allowed.
//
// The write is a single atomic conditional update at the store: it matches
// only while the stored signature is empty, so the local check losing a race
// against a concurrent signer cannot double-sign. A failed write leaves the
// slot pending and is never retried automatically.
func (s *DefaultSettlementService) Sign(bookingID string, slot models.SlotKey, signature, paidBy string) error {
	if signature == "" {
		return &ValidationError{Field: "signature", Reason: "signature image reference is required"}
	}
	if paidBy == "" {
		return &ValidationError{Field: "paid_by", Reason: "attester name is required"}
	}

	b, err := s.currentBooking(bookingID)
	if err != nil {
		return err
	}
	target, err := s.ownerSlot(b, slot)
	if err != nil {
		return err
	}
	if target.Signed() {
		return &LockedSlotError{BookingID: bookingID, Slot: slot}
	}
	if !target.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Reason: "slot has no recorded amount"}
	}

	if err := s.Repo.SignSlot(bookingID, slot, signature, paidBy, s.now()); err != nil {
		if errors.Is(err, bookingRepo.ErrSignConflict) {
			// A genuine double-attempt, not a network issue; log it apart.
			s.Logger.Warn("concurrent sign attempt lost the conditional update",
				zap.String("booking_id", bookingID),
				zap.String("slot", string(slot)))
			return &StaleSnapshotError{BookingID: bookingID, Slot: slot}
		}
		return &WriteFailureError{Op: "sign", Err: err}
	}

	s.Logger.Info("owner payment slot signed",
		zap.String("booking_id", bookingID),
		zap.String("slot", string(slot)),
		zap.String("paid_by", paidBy))
	return nil
}

// SetClientPaymentReceived toggles a client installment. Client slots are
// operations-editable and carry no signoff lock.
func (s *DefaultSettlementService) SetClientPaymentReceived(bookingID string, slot models.ClientSlotKey, received bool) error {
	if _, err := s.currentBooking(bookingID); err != nil {
		return err
	}
	if err := s.Repo.SetClientPaymentReceived(bookingID, slot, received, s.now()); err != nil {
		return &WriteFailureError{Op: "set client payment", Err: err}
	}
	return nil
}

// ownerSlot resolves a slot key against a booking, rejecting the transfer
// slot when the booking has no transfer installment.
func (s *DefaultSettlementService) ownerSlot(b models.Booking, slot models.SlotKey) (models.PaymentSlot, error) {
	target := b.OwnerSlot(slot)
	if target == nil {
		return models.PaymentSlot{}, &ValidationError{Field: "slot", Reason: "unknown slot key"}
	}
	if slot == models.SlotTransfer && !b.HasTransfer {
		return models.PaymentSlot{}, &ValidationError{Field: "slot", Reason: "booking has no transfer installment"}
	}
	return *target, nil
}
