package settlement

import (
	"context"
	"testing"
	"time"

	bookingRepo "charterdesk/database/repository/booking"
	"charterdesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRepo implements BookingRepository in memory. Writes mutate the fake
// store only; the service snapshot stays stale until apply is called, which
// mirrors the feed-authoritative model.
type fakeRepo struct {
	bookings map[string]*models.Booking
	failNext error
}

func newFakeRepo(bookings ...models.Booking) *fakeRepo {
	r := &fakeRepo{bookings: make(map[string]*models.Booking)}
	for i := range bookings {
		b := bookings[i]
		r.bookings[b.ID] = &b
	}
	return r
}

func (r *fakeRepo) GetByID(id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeRepo) GetAll() ([]models.Booking, error) {
	out := make([]models.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeRepo) SetSlotAmount(id string, slot models.SlotKey, amount models.Money, at time.Time) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	s := b.OwnerSlot(slot)
	s.Amount = amount
	s.Date = &at
	s.Paid = !amount.IsZero()
	return nil
}

func (r *fakeRepo) SignSlot(id string, slot models.SlotKey, signature, paidBy string, at time.Time) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	s := b.OwnerSlot(slot)
	if s.Signature != "" {
		return bookingRepo.ErrSignConflict
	}
	s.Signature = signature
	s.PaidBy = paidBy
	s.Paid = true
	s.Date = &at
	return nil
}

func (r *fakeRepo) SetClientPaymentReceived(id string, slot models.ClientSlotKey, received bool, at time.Time) error {
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	s := b.ClientSlot(slot)
	s.Received = received
	s.Date = &at
	return nil
}

func (r *fakeRepo) Watch(ctx context.Context, out chan<- models.Booking) error {
	<-ctx.Done()
	return ctx.Err()
}

func newTestService(repo *fakeRepo, seed ...models.Booking) *DefaultSettlementService {
	svc := NewDefaultSettlementService(repo, nil, nil, zap.NewNop(), NewNormalizer([]string{"espiritu"}), 20)
	svc.Now = func() time.Time { return testToday }
	for _, b := range seed {
		svc.apply(b)
	}
	return svc
}

func TestSetAmountOnPendingSlot(t *testing.T) {
	b := testBooking(nil)
	repo := newFakeRepo(b)
	svc := newTestService(repo, b)

	require.NoError(t, svc.SetAmount(b.ID, models.SlotFirst, models.MoneyFromInt(950)))

	stored, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	assert.True(t, stored.OwnerPayments.First.Amount.Equal(models.MoneyFromInt(950)))
	assert.True(t, stored.OwnerPayments.First.Paid)
	assert.Equal(t, models.SlotPending, stored.OwnerPayments.First.State())
}

func TestSetAmountOnSignedSlotIsLocked(t *testing.T) {
	// Scenario: attempt setAmount(signedSlot, 500).
	b := testBooking(func(b *models.Booking) {
		signSlotForTest(&b.OwnerPayments.First, "marta")
	})
	repo := newFakeRepo(b)
	svc := newTestService(repo, b)

	err := svc.SetAmount(b.ID, models.SlotFirst, models.MoneyFromInt(500))

	var locked *LockedSlotError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, models.SlotFirst, locked.Slot)

	// Rejected before any write: the stored amount is unchanged.
	stored, _ := repo.GetByID(b.ID)
	assert.True(t, stored.OwnerPayments.First.Amount.Equal(models.MoneyFromInt(800)))
}

func TestSignHappyPath(t *testing.T) {
	b := testBooking(nil)
	repo := newFakeRepo(b)
	svc := newTestService(repo, b)

	require.NoError(t, svc.Sign(b.ID, models.SlotSecond, "https://img.example/sig.png", "marta"))

	stored, _ := repo.GetByID(b.ID)
	slot := stored.OwnerPayments.Second
	assert.Equal(t, models.SlotSigned, slot.State())
	assert.Equal(t, "marta", slot.PaidBy)
	assert.True(t, slot.Paid)
}

func TestSignValidation(t *testing.T) {
	b := testBooking(nil)
	svc := newTestService(newFakeRepo(b), b)

	var validation *ValidationError

	err := svc.Sign(b.ID, models.SlotFirst, "", "marta")
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "signature", validation.Field)

	err = svc.Sign(b.ID, models.SlotFirst, "https://img.example/sig.png", "")
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "paid_by", validation.Field)
}

func TestSignRequiresRecordedAmount(t *testing.T) {
	b := testBooking(func(b *models.Booking) {
		b.OwnerPayments.First.Amount = models.ZeroMoney()
	})
	svc := newTestService(newFakeRepo(b), b)

	err := svc.Sign(b.ID, models.SlotFirst, "https://img.example/sig.png", "marta")

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "amount", validation.Field)
}

func TestSignTransferSlotOnNonTransferBooking(t *testing.T) {
	b := testBooking(nil)
	require.False(t, b.HasTransfer)
	svc := newTestService(newFakeRepo(b), b)

	err := svc.Sign(b.ID, models.SlotTransfer, "https://img.example/sig.png", "marta")

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestSignRaceLosesToConditionalUpdate(t *testing.T) {
	// Two signers race: the second one's local snapshot is still unsigned,
	// so only the store-level conditional update can reject it.
	b := testBooking(nil)
	repo := newFakeRepo(b)
	svc := newTestService(repo, b)

	require.NoError(t, svc.Sign(b.ID, models.SlotFirst, "https://img.example/one.png", "marta"))

	// The snapshot has not seen the feed update yet; the local check passes
	// and the conditional write loses.
	err := svc.Sign(b.ID, models.SlotFirst, "https://img.example/two.png", "jo")

	var stale *StaleSnapshotError
	require.ErrorAs(t, err, &stale)

	// The first signature survives untouched.
	stored, _ := repo.GetByID(b.ID)
	assert.Equal(t, "https://img.example/one.png", stored.OwnerPayments.First.Signature)
	assert.Equal(t, "marta", stored.OwnerPayments.First.PaidBy)
}

func TestSignedSlotStaysLockedAfterFeedCatchesUp(t *testing.T) {
	b := testBooking(nil)
	repo := newFakeRepo(b)
	svc := newTestService(repo, b)

	require.NoError(t, svc.Sign(b.ID, models.SlotFirst, "https://img.example/sig.png", "marta"))

	// Feed delivers the authoritative post-sign document.
	stored, _ := repo.GetByID(b.ID)
	svc.apply(*stored)

	// From here on every mutation fails with the lock error, repeatedly.
	for i := 0; i < 3; i++ {
		var locked *LockedSlotError
		err := svc.SetAmount(b.ID, models.SlotFirst, models.MoneyFromInt(500))
		require.ErrorAs(t, err, &locked)

		err = svc.Sign(b.ID, models.SlotFirst, "https://img.example/again.png", "jo")
		require.ErrorAs(t, err, &locked)
	}
}

func TestSignWriteFailureLeavesSlotPending(t *testing.T) {
	b := testBooking(nil)
	repo := newFakeRepo(b)
	repo.failNext = assert.AnError
	svc := newTestService(repo, b)

	err := svc.Sign(b.ID, models.SlotFirst, "https://img.example/sig.png", "marta")

	var writeFailure *WriteFailureError
	require.ErrorAs(t, err, &writeFailure)

	stored, _ := repo.GetByID(b.ID)
	assert.Equal(t, models.SlotPending, stored.OwnerPayments.First.State())
}

func TestSetClientPaymentReceived(t *testing.T) {
	b := testBooking(func(b *models.Booking) {
		b.ClientPayments.Second.Received = false
	})
	repo := newFakeRepo(b)
	svc := newTestService(repo, b)

	require.NoError(t, svc.SetClientPaymentReceived(b.ID, models.ClientSecond, true))

	stored, _ := repo.GetByID(b.ID)
	assert.True(t, stored.ClientPayments.Second.Received)
}

func TestMutationOnUnknownBooking(t *testing.T) {
	svc := newTestService(newFakeRepo())

	err := svc.SetAmount("missing", models.SlotFirst, models.MoneyFromInt(100))
	assert.ErrorIs(t, err, bookingRepo.ErrNotFound)
}

func TestAlertsRegenerateFromSnapshot(t *testing.T) {
	yesterday := testToday.AddDate(0, 0, -1)
	b := testBooking(func(b *models.Booking) { b.TripDate = &yesterday })
	repo := newFakeRepo(b)
	svc := newTestService(repo, b)

	alerts := svc.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertError, alerts[0].Severity)

	// Signing both slots and delivering the snapshot clears the feed.
	require.NoError(t, svc.Sign(b.ID, models.SlotFirst, "https://img.example/a.png", "marta"))
	require.NoError(t, svc.Sign(b.ID, models.SlotSecond, "https://img.example/b.png", "marta"))
	stored, _ := repo.GetByID(b.ID)
	svc.apply(*stored)

	assert.Empty(t, svc.Alerts())
}

func TestExportRowsExposeSlotColumns(t *testing.T) {
	b := testBooking(func(b *models.Booking) {
		signSlotForTest(&b.OwnerPayments.First, "marta")
	})
	svc := newTestService(newFakeRepo(b), b)

	rows := svc.ExportRows()
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, b.ID, row.BookingID)
	assert.Equal(t, "signed", row.OwnerFirstStatus)
	assert.Equal(t, "marta", row.OwnerFirstPaidBy)
	assert.Equal(t, "pending", row.OwnerSecondStatus)
	assert.Equal(t, 50, row.CompletionPct)
	require.NotNil(t, row.DueDate)
}
