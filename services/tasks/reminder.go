package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeDueReminder = "settlement:due_reminder"

// DueReminderPayload carries everything the worker needs to notify the
// operations team about an owner payment that wants attention.
type DueReminderPayload struct {
	BookingID string     `json:"booking_id"`
	BoatName  string     `json:"boat_name"`
	Client    string     `json:"client"`
	Tier      string     `json:"tier"`
	DueDate   *time.Time `json:"due_date,omitempty"`
}

// NewDueReminderTask builds a reminder task deduplicated by booking and tier,
// so re-deriving the same urgency on every snapshot does not pile up tasks.
func NewDueReminderTask(p DueReminderPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeDueReminder, b)
	opts := []asynq.Option{
		asynq.TaskID("due-reminder:" + p.BookingID + ":" + p.Tier),
		asynq.Retention(24 * time.Hour),
	}
	return task, opts, nil
}
