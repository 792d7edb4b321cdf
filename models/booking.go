package models

import "time"

// partySizeTransferThreshold: a contracted private transfer only becomes a
// payable installment when the party is larger than this.
const partySizeTransferThreshold = 4

// DeriveHasTransfer applies the transfer rule: contracted AND party size
// above the fixed threshold.
func DeriveHasTransfer(contracted bool, partySize int) bool {
	return contracted && partySize > partySizeTransferThreshold
}

// ClientPayments holds the two installments owed to the business.
type ClientPayments struct {
	First  ClientPaymentSlot `bson:"first" json:"first"`
	Second ClientPaymentSlot `bson:"second" json:"second"`
}

// OwnerPayments holds the 2-3 installments owed to the boat owner. The
// transfer slot is only payable when the booking has a transfer.
type OwnerPayments struct {
	First    PaymentSlot `bson:"first" json:"first"`
	Second   PaymentSlot `bson:"second" json:"second"`
	Transfer PaymentSlot `bson:"transfer" json:"transfer"`
}

// Booking is the normalized view-model of one chartered trip. The engine
// reads bookings from the store and updates owner payment slot fields; it
// never creates or deletes booking documents.
type Booking struct {
	ID          string     `bson:"id" json:"id"`
	BoatName    string     `bson:"boat_name" json:"boat_name"`
	BoatCompany string     `bson:"boat_company" json:"boat_company"`
	ClientName  string     `bson:"client_name" json:"client_name"`
	Location    string     `bson:"location" json:"location"`
	TourType    string     `bson:"tour_type" json:"tour_type"`
	PartySize   int        `bson:"party_size" json:"party_size"`
	TripDate    *time.Time `bson:"trip_date,omitempty" json:"trip_date,omitempty"` // nil until scheduled
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	TotalAmount Money      `bson:"total_amount" json:"total_amount"`

	TransferContracted bool `bson:"transfer_contracted" json:"transfer_contracted"`
	// HasTransfer is derived at normalization: contracted AND party size
	// above the threshold.
	HasTransfer bool `bson:"-" json:"has_transfer"`

	ClientPayments ClientPayments `bson:"client_payments" json:"client_payments"`
	OwnerPayments  OwnerPayments  `bson:"owner_payments" json:"owner_payments"`

	// SpecialCategory is the explicit store-side tag; nil means untagged and
	// the marker heuristic decides.
	SpecialCategory *bool `bson:"special_category,omitempty" json:"special_category,omitempty"`
	// IsSpecialTourCategory is the resolved flag, derived at normalization.
	IsSpecialTourCategory bool `bson:"-" json:"is_special_tour_category"`
}

// OwnerSlot returns the addressed owner payment slot, or nil for an unknown key.
func (b *Booking) OwnerSlot(k SlotKey) *PaymentSlot {
	switch k {
	case SlotFirst:
		return &b.OwnerPayments.First
	case SlotSecond:
		return &b.OwnerPayments.Second
	case SlotTransfer:
		return &b.OwnerPayments.Transfer
	}
	return nil
}

// ClientSlot returns the addressed client payment slot, or nil for an unknown key.
func (b *Booking) ClientSlot(k ClientSlotKey) *ClientPaymentSlot {
	switch k {
	case ClientFirst:
		return &b.ClientPayments.First
	case ClientSecond:
		return &b.ClientPayments.Second
	}
	return nil
}

// ClientComplete reports whether both client installments have been received.
func (b Booking) ClientComplete() bool {
	return b.ClientPayments.First.Received && b.ClientPayments.Second.Received
}

// OwnerComplete reports whether every applicable owner slot is signed. The
// transfer slot on a non-transfer booking is vacuously complete.
func (b Booking) OwnerComplete() bool {
	return b.OwnerPayments.First.Signed() &&
		b.OwnerPayments.Second.Signed() &&
		(!b.HasTransfer || b.OwnerPayments.Transfer.Signed())
}
