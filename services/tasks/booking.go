package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"flightbot/models"

	"github.com/hibiken/asynq"
)

const TypeBookingConfirmed = "booking:confirmed"

const bookingMaxRetry = 5

func NewBookingConfirmedTask(payload models.ConfirmedBooking) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingConfirmed, b)
	opts := []asynq.Option{asynq.MaxRetry(bookingMaxRetry)}

	return task, opts, nil
}

// Enqueuer is the part of asynq.Client the publisher needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// BookingPublisher queues confirmed bookings for the background worker.
type BookingPublisher struct {
	Client Enqueuer
}

func NewBookingPublisher(client Enqueuer) *BookingPublisher {
	return &BookingPublisher{Client: client}
}

func (p *BookingPublisher) Publish(ctx context.Context, b models.ConfirmedBooking) error {
	task, opts, err := NewBookingConfirmedTask(b)
	if err != nil {
		return err
	}
	if _, err := p.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeBookingConfirmed, err)
	}
	return nil
}
