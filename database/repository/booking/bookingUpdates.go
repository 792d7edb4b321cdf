package bookingRepo

import (
	"fmt"
	"time"

	"charterdesk/models"

	"go.mongodb.org/mongo-driver/bson"
)

func (r *MongoBookingRepo) SetSlotAmount(id string, slot models.SlotKey, amount models.Money, at time.Time) error {
	prefix := "owner_payments." + string(slot)
	updateDoc := bson.M{
		prefix + ".amount": amount,
		prefix + ".date":   at,
		prefix + ".paid":   !amount.IsZero(),
	}
	return r.updateSet(id, bson.M{"id": id}, updateDoc)
}

func (r *MongoBookingRepo) SignSlot(id string, slot models.SlotKey, signature, paidBy string, at time.Time) error {
	prefix := "owner_payments." + string(slot)
	// The filter is the lock: the update only matches while the stored
	// signature is still empty, so a second concurrent signer cannot win.
	filter := bson.M{
		"id":                  id,
		prefix + ".signature": "",
	}
	updateDoc := bson.M{
		prefix + ".signature": signature,
		prefix + ".paid_by":   paidBy,
		prefix + ".paid":      true,
		prefix + ".date":      at,
	}
	err := r.updateSet(id, filter, updateDoc)
	if err == ErrNotFound {
		// Distinguish a missing document from a lost sign race.
		if _, lookupErr := r.GetByID(id); lookupErr == nil {
			return ErrSignConflict
		}
		return ErrNotFound
	}
	return err
}

func (r *MongoBookingRepo) SetClientPaymentReceived(id string, slot models.ClientSlotKey, received bool, at time.Time) error {
	prefix := "client_payments." + string(slot)
	updateDoc := bson.M{
		prefix + ".received": received,
		prefix + ".date":     at,
	}
	return r.updateSet(id, bson.M{"id": id}, updateDoc)
}

func (r *MongoBookingRepo) updateSet(id string, filter, updateDoc bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": updateDoc})
	if err != nil {
		return fmt.Errorf("failed to update booking with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
