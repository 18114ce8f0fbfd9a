package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sony/gobreaker/v2"
)

// Executor runs an operation up to Config.Attempts times and returns the
// error of the last attempt unchanged.
type Executor struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

// NewExecutor creates an executor. A nil logger uses slog.Default().
func NewExecutor(cfg Config, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		cfg:      cfg.normalize(),
		logger:   logger,
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

// Attempts returns the configured attempt budget
func (e *Executor) Attempts() int {
	return e.cfg.Attempts
}

// Execute calls fn until it succeeds or the attempt budget is spent
func (e *Executor) Execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	_, err := e.run(ctx, operation, fn)
	return err
}

// Run is Execute for operations that produce a value. It also reports how
// many attempts were made.
func Run[T any](ctx context.Context, e *Executor, operation string, fn func(context.Context) (T, error)) (T, int, error) {
	var result T
	attempts, err := e.run(ctx, operation, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, attempts, err
}

func (e *Executor) run(ctx context.Context, operation string, fn func(context.Context) error) (int, error) {
	if fn == nil {
		return 0, fmt.Errorf("resilience: operation callback is nil")
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		op = "unknown"
	}

	if !e.cfg.BreakerEnabled {
		return e.executeWithRetry(ctx, op, fn)
	}

	var attempts int
	breaker := e.circuitBreaker(op)
	_, err := breaker.Execute(func() (any, error) {
		var err error
		attempts, err = e.executeWithRetry(ctx, op, fn)
		return nil, err
	})
	return attempts, err
}

func (e *Executor) executeWithRetry(ctx context.Context, operation string, fn func(context.Context) error) (int, error) {
	var lastErr error

	for attempt := 1; attempt <= e.cfg.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return attempt - 1, lastErr
			}
			return attempt - 1, err
		}

		err := fn(ctx)
		if err == nil {
			return attempt, nil
		}
		lastErr = err

		if attempt < e.cfg.Attempts {
			e.logger.Warn("retry_attempt",
				"operation", operation,
				"attempt", attempt,
				"max_attempts", e.cfg.Attempts,
				"error", err,
			)
		}
	}

	return e.cfg.Attempts, lastErr
}

func (e *Executor) circuitBreaker(operation string) *gobreaker.CircuitBreaker[any] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if breaker, ok := e.breakers[operation]; ok {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:    operation,
		Timeout: e.cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < e.cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= e.cfg.BreakerFailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			e.logger.Warn("circuit_breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
		},
	}

	breaker := gobreaker.NewCircuitBreaker[any](settings)
	e.breakers[operation] = breaker
	return breaker
}

// IsCircuitOpen reports whether err was produced by an open breaker rather than the operation
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
