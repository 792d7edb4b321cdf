package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	bookingRepo "charterdesk/database/repository/booking"
	"charterdesk/models"
	"charterdesk/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const alertCacheTTL = 5 * time.Minute

// DefaultSettlementService keeps an in-memory snapshot of the booking
// collection, fed exclusively by the store's change feed. Mutations go
// straight to the store and never patch the snapshot; the next feed event is
// the only state update.
type DefaultSettlementService struct {
	Repo       bookingRepo.BookingRepository
	Cache      *redis.Client // alert feed cache, keyed by snapshot revision
	Reminders  *asynq.Client // optional; nil disables due reminders
	Logger     *zap.Logger
	Normalizer *Normalizer
	PageSize   int
	Now        func() time.Time

	mu       sync.RWMutex
	bookings map[string]models.Booking
	revision uint64
}

func NewDefaultSettlementService(repo bookingRepo.BookingRepository, cache *redis.Client, reminders *asynq.Client, logger *zap.Logger, normalizer *Normalizer, pageSize int) *DefaultSettlementService {
	return &DefaultSettlementService{
		Repo:       repo,
		Cache:      cache,
		Reminders:  reminders,
		Logger:     logger,
		Normalizer: normalizer,
		PageSize:   pageSize,
		bookings:   make(map[string]models.Booking),
	}
}

func (s *DefaultSettlementService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Resync replaces the whole snapshot store from a full collection read.
func (s *DefaultSettlementService) Resync() error {
	all, err := s.Repo.GetAll()
	if err != nil {
		return fmt.Errorf("resync failed: %w", err)
	}

	fresh := make(map[string]models.Booking, len(all))
	for _, raw := range all {
		b := s.Normalizer.Normalize(raw)
		if b.ID == "" {
			continue
		}
		fresh[b.ID] = b
	}

	s.mu.Lock()
	s.bookings = fresh
	s.revision++
	s.mu.Unlock()

	s.Logger.Info("booking snapshot resynced", zap.Int("count", len(fresh)))
	return nil
}

// WatchLoop applies change feed deliveries until ctx is cancelled.
func (s *DefaultSettlementService) WatchLoop(ctx context.Context) error {
	ch := make(chan models.Booking, 64)

	go func() {
		defer close(ch)
		if err := s.Repo.Watch(ctx, ch); err != nil && ctx.Err() == nil {
			s.Logger.Error("booking change stream terminated", zap.Error(err))
		}
	}()

	for raw := range ch {
		s.apply(raw)
	}
	return ctx.Err()
}

// apply stores one authoritative snapshot and bumps the revision.
func (s *DefaultSettlementService) apply(raw models.Booking) {
	b := s.Normalizer.Normalize(raw)
	if b.ID == "" {
		return
	}

	s.mu.Lock()
	s.bookings[b.ID] = b
	s.revision++
	s.mu.Unlock()

	s.Logger.Debug("booking snapshot applied", zap.String("booking_id", b.ID))
	s.enqueueDueReminder(b)
}

// enqueueDueReminder schedules an operations reminder for urgent bookings.
// Task IDs deduplicate per booking and tier, so repeated snapshots of the
// same urgent booking are a no-op.
func (s *DefaultSettlementService) enqueueDueReminder(b models.Booking) {
	if s.Reminders == nil {
		return
	}
	tier := Classify(b, s.now())
	if tier != models.PriorityCritical && tier != models.PriorityHigh {
		return
	}

	task, opts, err := tasks.NewDueReminderTask(tasks.DueReminderPayload{
		BookingID: b.ID,
		BoatName:  b.BoatName,
		Client:    b.ClientName,
		Tier:      tier.String(),
		DueDate:   DueDate(b),
	})
	if err != nil {
		s.Logger.Error("failed to build due reminder task", zap.Error(err))
		return
	}
	if _, err := s.Reminders.Enqueue(task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		s.Logger.Warn("failed to enqueue due reminder", zap.String("booking_id", b.ID), zap.Error(err))
	}
}

// snapshotList returns the bookings in deterministic order plus the revision.
func (s *DefaultSettlementService) snapshotList() ([]models.Booking, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, s.revision
}

// currentBooking reads the last-known snapshot, falling back to a direct
// store read when the booking has not been seen on the feed yet.
func (s *DefaultSettlementService) currentBooking(id string) (models.Booking, error) {
	s.mu.RLock()
	b, ok := s.bookings[id]
	s.mu.RUnlock()
	if ok {
		return b, nil
	}

	fetched, err := s.Repo.GetByID(id)
	if err != nil {
		return models.Booking{}, &WriteFailureError{Op: "load booking", Err: err}
	}
	return s.Normalizer.Normalize(*fetched), nil
}

func (s *DefaultSettlementService) QueryBookings(params QueryParams) QueryResult {
	if params.PageSize <= 0 {
		params.PageSize = s.PageSize
	}
	list, _ := s.snapshotList()
	return Query(list, params, s.now())
}

func (s *DefaultSettlementService) GetBooking(id string) (*BookingView, error) {
	b, err := s.currentBooking(id)
	if err != nil {
		return nil, err
	}
	v := NewBookingView(b, s.now())
	return &v, nil
}

// Alerts regenerates the feed for the current snapshot revision. The redis
// cache is keyed by that revision, so a stale entry can never be served for
// a newer booking set; cache failures degrade to a fresh computation.
func (s *DefaultSettlementService) Alerts() []models.Alert {
	list, rev := s.snapshotList()
	key := fmt.Sprintf("settlement:alerts:v%d", rev)

	if s.Cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if raw, err := s.Cache.Get(ctx, key).Result(); err == nil {
			var cached []models.Alert
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached
			}
		}
	}

	alerts := GenerateAlerts(list, s.now())

	if s.Cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if raw, err := json.Marshal(alerts); err == nil {
			if err := s.Cache.Set(ctx, key, raw, alertCacheTTL).Err(); err != nil {
				s.Logger.Debug("alert cache write failed", zap.Error(err))
			}
		}
	}
	return alerts
}
