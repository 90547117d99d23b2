package cron

import (
	"context"
	"encoding/json"
	"fmt"

	"flightbot/models"
	"flightbot/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// BookingRecorder stores a confirmed booking.
type BookingRecorder interface {
	Record(ctx context.Context, b models.ConfirmedBooking) error
}

// BookingWorker consumes booking:confirmed tasks from the Redis queue.
type BookingWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// NewBookingWorker prepares the async worker; call Start to begin processing.
func NewBookingWorker(redisOpts asynq.RedisClientOpt, recorder BookingRecorder, logger *zap.Logger) *BookingWorker {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingConfirmed, handleBookingConfirmed(recorder, logger))

	return &BookingWorker{srv: srv, mux: mux, logger: logger}
}

func (w *BookingWorker) Start() error {
	w.logger.Info("[BookingWorker] Starting async worker")
	if err := w.srv.Start(w.mux); err != nil {
		return fmt.Errorf("start booking worker: %w", err)
	}
	return nil
}

func (w *BookingWorker) Shutdown() {
	w.srv.Shutdown()
	w.logger.Info("[BookingWorker] Stopped")
}

func handleBookingConfirmed(recorder BookingRecorder, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var b models.ConfirmedBooking
		if err := json.Unmarshal(task.Payload(), &b); err != nil {
			logger.Error("[BookingHandler] Invalid payload", zap.Error(err))
			// A malformed payload never succeeds on retry.
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}

		logger.Info("[BookingHandler] Recording booking",
			zap.String("session", b.SessionID),
			zap.String("route", b.Origin+" → "+b.Destination),
			zap.String("passengers", b.Passengers),
			zap.String("class", b.Class),
		)

		if err := recorder.Record(ctx, b); err != nil {
			logger.Error("[BookingHandler] Failed to record booking", zap.Error(err))
			return err
		}
		return nil
	}
}
