package middleware

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns middleware that logs each delivery at debug level and
// failed deliveries at error level.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, d *Delivery, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("delivery failed",
				slog.String("key", d.Key),
				slog.String("subscription_id", d.SubscriptionID),
				slog.String("priority", d.Priority),
				slog.Bool("deferred", d.Deferred),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Debug("delivered",
				slog.String("key", d.Key),
				slog.String("subscription_id", d.SubscriptionID),
				slog.String("priority", d.Priority),
				slog.Bool("deferred", d.Deferred),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}
