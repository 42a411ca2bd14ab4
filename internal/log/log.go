// Package log provides the context-scoped structured logger used across the
// payment processor, in the same shape the rest of the corpus expects:
// attach fields to a context, then fetch a *logrus.Entry from it anywhere
// downstream without threading a logger through every function signature.
package log

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxLogKey struct{}

var root = logrus.NewEntry(logrus.StandardLogger())

// Init configures the package-level logrus logger. Call once from main.
func Init(level logrus.Level) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	logrus.SetLevel(level)
	root = logrus.NewEntry(logrus.StandardLogger())
}

// L returns the logger attached to ctx, or the package root logger if none
// has been attached yet.
func L(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(ctxLogKey{}).(*logrus.Entry); ok {
		return entry
	}
	return root
}

// WithLogField returns a context carrying a logger with an additional field,
// derived from whatever logger is already attached to ctx.
func WithLogField(ctx context.Context, key string, value interface{}) context.Context {
	entry := L(ctx).WithField(key, value)
	return context.WithValue(ctx, ctxLogKey{}, entry)
}
