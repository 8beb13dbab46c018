package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

// RefreshRegisteredUsers sets the registered_users gauge from the store.
func RefreshRegisteredUsers(ctx context.Context, counter UserCounter) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := counter.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	RegisteredUsers.Set(float64(n))
	return nil
}

// StartUserGauge refreshes the registered_users gauge on the cron schedule
// spec until ctx is cancelled. The returned cron is already running.
func StartUserGauge(ctx context.Context, spec string, counter UserCounter, logger *slog.Logger) (*cron.Cron, error) {
	logger = logger.With("component", "user_gauge")

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := RefreshRegisteredUsers(ctx, counter); err != nil {
			logger.Warn("refresh registered users", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule %q: %w", spec, err)
	}

	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return c, nil
}
