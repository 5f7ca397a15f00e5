package obs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const (
	RequestIDKey ctxKey = "req_id"
	loggerKey    ctxKey = "logger"
)

// WithLogger attaches logger to ctx for Time and Logger.
func WithLogger(ctx context.Context, logger logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithDefaultLogger attaches logger to ctx unless ctx already carries one.
func WithDefaultLogger(ctx context.Context, logger logrus.FieldLogger) context.Context {
	if _, ok := ctx.Value(loggerKey).(logrus.FieldLogger); ok || logger == nil {
		return ctx
	}
	return WithLogger(ctx, logger)
}

// Logger returns the logger carried by ctx, or the logrus standard logger.
func Logger(ctx context.Context) logrus.FieldLogger {
	if l, ok := ctx.Value(loggerKey).(logrus.FieldLogger); ok && l != nil {
		return l
	}
	return logrus.StandardLogger()
}

// Time logs the duration of an operation when the returned func is deferred.
//
//	defer obs.Time(ctx, "store.Insert")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		entry := Logger(ctx).WithFields(logrus.Fields{
			"req_id": reqID,
			"op":     name,
			"dur_ms": time.Since(start).Milliseconds(),
		})

		if errp != nil && *errp != nil {
			entry.WithError(*errp).Warn("operation failed")
			return
		}
		entry.Debug("operation finished")
	}
}
