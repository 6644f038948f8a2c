package store

import (
	"context"
	"log/slog"
	"time"
)

// QueryEvent describes one statement execution as seen by hooks.
type QueryEvent struct {
	Query    string
	Args     []interface{}
	Duration time.Duration
	Error    error
	Start    time.Time
	End      time.Time
}

// Hook intercepts statement execution. It must call next exactly once to
// run the statement (or the next hook) and should return its error.
type Hook func(ctx context.Context, event *QueryEvent, next func() error) error

// Use appends a hook. Hooks run in the order they were added.
func (h *Handle) Use(hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// intercept runs exec through the hook chain, after checking that the
// handle is ready.
func (h *Handle) intercept(ctx context.Context, query string, args []interface{}, exec func() error) error {
	if _, err := h.ready(); err != nil {
		return err
	}

	h.mu.RLock()
	hooks := h.hooks
	h.mu.RUnlock()

	if len(hooks) == 0 {
		return exec()
	}

	event := &QueryEvent{
		Query: query,
		Args:  args,
		Start: time.Now(),
	}

	var next func() error
	index := 0

	next = func() error {
		if index >= len(hooks) {
			err := exec()
			event.End = time.Now()
			event.Duration = event.End.Sub(event.Start)
			event.Error = err
			return err
		}

		hook := hooks[index]
		index++
		return hook(ctx, event, next)
	}

	return next()
}

// LoggingHook logs every statement at debug level, and failures at error level.
func LoggingHook(logger *slog.Logger) Hook {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if err != nil {
			logger.ErrorContext(ctx, "statement failed",
				"sql", event.Query, "params", event.Args, "duration", event.Duration, "error", err)
			return err
		}
		logger.DebugContext(ctx, "statement executed",
			"sql", event.Query, "params", event.Args, "duration", event.Duration)
		return nil
	}
}

// TimingHook reports the duration of every statement.
func TimingHook(onTiming func(query string, duration time.Duration)) Hook {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if onTiming != nil {
			onTiming(event.Query, event.Duration)
		}
		return err
	}
}
