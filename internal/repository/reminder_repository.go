package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type reminderLog struct {
	redis *redis.Client
}

func NewReminderLog(client *redis.Client) ReminderLog {
	return &reminderLog{redis: client}
}

func reminderKey(loanID string, dueDate time.Time) string {
	return fmt.Sprintf("reminder:%s:%s", loanID, dueDate.Format("2006-01-02"))
}

func (r *reminderLog) MarkSent(ctx context.Context, loanID string, dueDate time.Time, ttl time.Duration) (bool, error) {
	return r.redis.SetNX(ctx, reminderKey(loanID, dueDate), time.Now().Unix(), ttl).Result()
}

type transportLog struct {
	redis *redis.Client
}

func NewTransportLog(client *redis.Client) TransportLog {
	return &transportLog{redis: client}
}

func transportKey(officer string, day time.Time) string {
	return fmt.Sprintf("transport:%s:%s", officer, day.Format("2006-01-02"))
}

func (t *transportLog) Claim(ctx context.Context, officer string, day time.Time, ttl time.Duration) (bool, error) {
	return t.redis.SetNX(ctx, transportKey(officer, day), time.Now().Unix(), ttl).Result()
}

func (t *transportLog) Release(ctx context.Context, officer string, day time.Time) error {
	return t.redis.Del(ctx, transportKey(officer, day)).Err()
}
