package models

import "time"

// SlotKey identifies one of the up-to-three owner payment installments.
type SlotKey string

const (
	SlotFirst    SlotKey = "first"
	SlotSecond   SlotKey = "second"
	SlotTransfer SlotKey = "transfer"
)

// ParseSlotKey validates a slot key from an external source (URL param, task payload).
func ParseSlotKey(s string) (SlotKey, bool) {
	switch SlotKey(s) {
	case SlotFirst, SlotSecond, SlotTransfer:
		return SlotKey(s), true
	}
	return "", false
}

// SlotState is the derived lifecycle state of an owner payment slot.
type SlotState int

const (
	SlotUnset   SlotState = iota // no amount recorded yet
	SlotPending                  // amount recorded, not signed
	SlotSigned                   // terminal; no field may change
)

func (s SlotState) String() string {
	switch s {
	case SlotPending:
		return "pending"
	case SlotSigned:
		return "signed"
	default:
		return "unset"
	}
}

// PaymentSlot is one owner payment installment.
//
// Invariant: once Signature is non-empty the slot is frozen; Amount, Date,
// PaidBy and Signature must never change again. Presence of the signature is
// the sole lock predicate; the payload itself is opaque to the engine.
type PaymentSlot struct {
	Amount    Money      `bson:"amount" json:"amount"`
	Date      *time.Time `bson:"date,omitempty" json:"date,omitempty"`
	Paid      bool       `bson:"paid" json:"paid"`
	Signature string     `bson:"signature" json:"signature"`
	PaidBy    string     `bson:"paid_by" json:"paid_by"`
	Invoice   string     `bson:"invoice,omitempty" json:"invoice,omitempty"`
}

func (s PaymentSlot) Signed() bool {
	return s.Signature != ""
}

func (s PaymentSlot) State() SlotState {
	switch {
	case s.Signed():
		return SlotSigned
	case !s.Amount.IsZero():
		return SlotPending
	default:
		return SlotUnset
	}
}

// ClientSlotKey identifies one of the two client payment installments.
type ClientSlotKey string

const (
	ClientFirst  ClientSlotKey = "first"
	ClientSecond ClientSlotKey = "second"
)

func ParseClientSlotKey(s string) (ClientSlotKey, bool) {
	switch ClientSlotKey(s) {
	case ClientFirst, ClientSecond:
		return ClientSlotKey(s), true
	}
	return "", false
}

// ClientPaymentSlot tracks money owed to the business by the charter client.
// Client slots are freely editable by operations and carry no signoff lock.
type ClientPaymentSlot struct {
	Amount   Money      `bson:"amount" json:"amount"`
	Method   string     `bson:"method" json:"method"`
	Date     *time.Time `bson:"date,omitempty" json:"date,omitempty"`
	Received bool       `bson:"received" json:"received"`
}
