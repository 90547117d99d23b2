package tasks

import (
	"context"
	"encoding/json"

	"flightbot/models"

	"github.com/go-redis/redis/v8"
)

const ledgerKey = "flightbot:bookings"

// BookingLedger keeps the most recent confirmed bookings in a Redis list,
// newest first.
type BookingLedger struct {
	client *redis.Client
	limit  int64
}

func NewBookingLedger(client *redis.Client, limit int64) *BookingLedger {
	return &BookingLedger{client: client, limit: limit}
}

func (l *BookingLedger) Record(ctx context.Context, b models.ConfirmedBooking) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	pipe := l.client.TxPipeline()
	pipe.LPush(ctx, ledgerKey, data)
	if l.limit > 0 {
		pipe.LTrim(ctx, ledgerKey, 0, l.limit-1)
	}
	_, err = pipe.Exec(ctx)
	return err
}
