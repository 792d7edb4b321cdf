package settlement

import (
	"strings"

	"charterdesk/models"
)

// Normalizer turns raw store documents into the strict Booking shape the
// engine computes on. Missing fields become defined defaults (zero amount,
// empty signature, unset dates) so no downstream code branches on absence.
type Normalizer struct {
	markers []string
}

// NewNormalizer takes the marker substrings for the special tour category
// fallback heuristic.
func NewNormalizer(markers []string) *Normalizer {
	lowered := make([]string, 0, len(markers))
	for _, m := range markers {
		m = strings.TrimSpace(strings.ToLower(m))
		if m != "" {
			lowered = append(lowered, m)
		}
	}
	return &Normalizer{markers: lowered}
}

// Normalize validates and derives the view-model fields of one booking.
func (n *Normalizer) Normalize(b models.Booking) models.Booking {
	b.BoatName = strings.TrimSpace(b.BoatName)
	b.BoatCompany = strings.TrimSpace(b.BoatCompany)
	b.ClientName = strings.TrimSpace(b.ClientName)
	b.Location = strings.TrimSpace(b.Location)
	b.TourType = strings.TrimSpace(b.TourType)

	if b.PartySize < 0 {
		b.PartySize = 0
	}
	if b.TripDate != nil && b.TripDate.IsZero() {
		b.TripDate = nil
	}

	normalizeSlotDates(&b.OwnerPayments.First)
	normalizeSlotDates(&b.OwnerPayments.Second)
	normalizeSlotDates(&b.OwnerPayments.Transfer)
	if b.ClientPayments.First.Date != nil && b.ClientPayments.First.Date.IsZero() {
		b.ClientPayments.First.Date = nil
	}
	if b.ClientPayments.Second.Date != nil && b.ClientPayments.Second.Date.IsZero() {
		b.ClientPayments.Second.Date = nil
	}

	b.HasTransfer = models.DeriveHasTransfer(b.TransferContracted, b.PartySize)
	b.IsSpecialTourCategory = n.isSpecialTour(b)
	return b
}

// isSpecialTour resolves the special tour category. An explicit store-side
// tag wins; otherwise the marker heuristic scans location, boat name and
// tour type.
func (n *Normalizer) isSpecialTour(b models.Booking) bool {
	if b.SpecialCategory != nil {
		return *b.SpecialCategory
	}
	haystacks := []string{
		strings.ToLower(b.Location),
		strings.ToLower(b.BoatName),
		strings.ToLower(b.TourType),
	}
	for _, h := range haystacks {
		if h == "" {
			continue
		}
		for _, marker := range n.markers {
			if strings.Contains(h, marker) {
				return true
			}
		}
	}
	return false
}

func normalizeSlotDates(s *models.PaymentSlot) {
	if s.Date != nil && s.Date.IsZero() {
		s.Date = nil
	}
}
