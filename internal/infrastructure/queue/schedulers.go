package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"pujaseva-backend/internal/shared"
	"pujaseva-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress string) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
	}
}

func (s *Scheduler) RegisterSweepJobs() error {
	if err := s.registerExpirePendingPaymentsJob(); err != nil {
		return err
	}

	if err := s.registerAbandonStaleCartsJob(); err != nil {
		return err
	}

	return nil
}

// ================================================
// JOB 1: Expire Pending Payments (Every 10 minutes)
// ================================================
// Payment orders the gateway never resolved stay pending forever unless
// swept. The sweep only touches rows still in pending state, so it can
// never overwrite a terminal status written by the webhook or verifier.
func (s *Scheduler) registerExpirePendingPaymentsJob() error {
	payload, err := json.Marshal(shared.ExpirePendingPaymentsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeExpirePendingPayments, payload)

	_, err = s.scheduler.Register(
		"*/10 * * * *", // Every 10 minutes
		task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register ExpirePendingPayments job", err)
		return err
	}

	logger.Info("Registered ExpirePendingPayments: every 10 minutes", map[string]interface{}{})
	return nil
}

// ================================================
// JOB 2: Abandon Stale Carts (Daily at 3 AM)
// ================================================
func (s *Scheduler) registerAbandonStaleCartsJob() error {
	payload, err := json.Marshal(shared.AbandonStaleCartsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeAbandonStaleCarts, payload)

	_, err = s.scheduler.Register(
		"0 3 * * *", // Daily at 3 AM
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register AbandonStaleCarts job", err)
		return err
	}

	logger.Info("Registered AbandonStaleCarts: daily at 3 AM", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
