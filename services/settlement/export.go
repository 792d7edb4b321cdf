package settlement

import (
	"time"

	"charterdesk/models"
)

// ExportRow is the flat, one-row-per-booking shape the external spreadsheet
// dump reads. The engine exposes these accessors but owns no formatting.
type ExportRow struct {
	BookingID   string       `json:"booking_id"`
	BoatName    string       `json:"boat_name"`
	BoatCompany string       `json:"boat_company"`
	ClientName  string       `json:"client_name"`
	TripDate    *time.Time   `json:"trip_date,omitempty"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	TotalAmount models.Money `json:"total_amount"`
	Priority    string       `json:"priority"`
	HasTransfer bool         `json:"has_transfer"`

	ClientFirstAmount    models.Money `json:"client_first_amount"`
	ClientFirstReceived  bool         `json:"client_first_received"`
	ClientSecondAmount   models.Money `json:"client_second_amount"`
	ClientSecondReceived bool         `json:"client_second_received"`

	OwnerFirstAmount    models.Money `json:"owner_first_amount"`
	OwnerFirstDate      *time.Time   `json:"owner_first_date,omitempty"`
	OwnerFirstStatus    string       `json:"owner_first_status"`
	OwnerFirstPaidBy    string       `json:"owner_first_paid_by"`
	OwnerSecondAmount   models.Money `json:"owner_second_amount"`
	OwnerSecondDate     *time.Time   `json:"owner_second_date,omitempty"`
	OwnerSecondStatus   string       `json:"owner_second_status"`
	OwnerSecondPaidBy   string       `json:"owner_second_paid_by"`
	OwnerTransferAmount models.Money `json:"owner_transfer_amount"`
	OwnerTransferDate   *time.Time   `json:"owner_transfer_date,omitempty"`
	OwnerTransferStatus string       `json:"owner_transfer_status"`
	OwnerTransferPaidBy string       `json:"owner_transfer_paid_by"`

	CompletionPct int `json:"completion_pct"`
}

func buildExportRow(b models.Booking, today time.Time) ExportRow {
	return ExportRow{
		BookingID:   b.ID,
		BoatName:    b.BoatName,
		BoatCompany: b.BoatCompany,
		ClientName:  b.ClientName,
		TripDate:    b.TripDate,
		DueDate:     DueDate(b),
		TotalAmount: b.TotalAmount,
		Priority:    Classify(b, today).String(),
		HasTransfer: b.HasTransfer,

		ClientFirstAmount:    b.ClientPayments.First.Amount,
		ClientFirstReceived:  b.ClientPayments.First.Received,
		ClientSecondAmount:   b.ClientPayments.Second.Amount,
		ClientSecondReceived: b.ClientPayments.Second.Received,

		OwnerFirstAmount:    b.OwnerPayments.First.Amount,
		OwnerFirstDate:      b.OwnerPayments.First.Date,
		OwnerFirstStatus:    b.OwnerPayments.First.State().String(),
		OwnerFirstPaidBy:    b.OwnerPayments.First.PaidBy,
		OwnerSecondAmount:   b.OwnerPayments.Second.Amount,
		OwnerSecondDate:     b.OwnerPayments.Second.Date,
		OwnerSecondStatus:   b.OwnerPayments.Second.State().String(),
		OwnerSecondPaidBy:   b.OwnerPayments.Second.PaidBy,
		OwnerTransferAmount: b.OwnerPayments.Transfer.Amount,
		OwnerTransferDate:   b.OwnerPayments.Transfer.Date,
		OwnerTransferStatus: b.OwnerPayments.Transfer.State().String(),
		OwnerTransferPaidBy: b.OwnerPayments.Transfer.PaidBy,

		CompletionPct: completionPct(b),
	}
}

// ExportRows flattens the current snapshot in snapshot order (creation date,
// then id).
func (s *DefaultSettlementService) ExportRows() []ExportRow {
	list, _ := s.snapshotList()
	today := s.now()

	rows := make([]ExportRow, 0, len(list))
	for _, b := range list {
		rows = append(rows, buildExportRow(b, today))
	}
	return rows
}
