package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"charterdesk/config"
	"charterdesk/services/tasks"
	"charterdesk/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// notificationList is the redis list the dashboard's notification drawer reads.
const notificationList = "settlement:notifications"

// InitReminderWorker runs the async reminder worker in the background.
func InitReminderWorker() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDueReminder, handleDueReminder)

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleDueReminder pushes an owner-payment reminder onto the notification
// list where the operations dashboard picks it up.
func handleDueReminder(ctx context.Context, task *asynq.Task) error {
	logger := utils.GetLogger()

	var p tasks.DueReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("invalid due reminder payload", zap.Error(err))
		return err
	}

	logger.Info("owner payment reminder",
		zap.String("booking_id", p.BookingID),
		zap.String("boat", p.BoatName),
		zap.String("tier", p.Tier))

	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := utils.GetNotifyClient().LPush(ctx, notificationList, raw).Err(); err != nil {
		logger.Warn("failed to push reminder notification", zap.Error(err))
		return err
	}
	// Keep the drawer bounded.
	return utils.GetNotifyClient().LTrim(ctx, notificationList, 0, 199).Err()
}
