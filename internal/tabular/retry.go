package tabular

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

type RetryPolicy struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	MaxRetries int
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{BaseDelay: 2 * time.Second, MaxDelay: 10 * time.Second, MaxRetries: 3}
}

// Retrying retries rate-limited calls with exponential backoff. Appends are
// retried too, so a write may land twice when the backend applied it before
// failing (at-least-once).
type Retrying struct {
	next   Store
	policy RetryPolicy
	log    *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewRetrying(next Store, policy RetryPolicy, log *slog.Logger) *Retrying {
	return &Retrying{next: next, policy: policy, log: log, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Retrying) do(ctx context.Context, op, sheet string, fn func() error) error {
	delay := r.policy.BaseDelay
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !errors.Is(err, ErrRateLimited) || attempt >= r.policy.MaxRetries {
			return err
		}

		r.log.Warn("storage rate limited, retrying",
			slog.String("op", op),
			slog.String("sheet", sheet),
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
		)

		if err := r.sleep(ctx, delay); err != nil {
			return err
		}

		delay *= 2
		if delay > r.policy.MaxDelay {
			delay = r.policy.MaxDelay
		}
	}
}

func (r *Retrying) Read(ctx context.Context, sheet string) ([][]string, error) {
	var rows [][]string
	err := r.do(ctx, "tabular.Read", sheet, func() error {
		var err error
		rows, err = r.next.Read(ctx, sheet)
		return err
	})
	return rows, err
}

func (r *Retrying) Append(ctx context.Context, sheet string, row []string) (int, error) {
	var rowNum int
	err := r.do(ctx, "tabular.Append", sheet, func() error {
		var err error
		rowNum, err = r.next.Append(ctx, sheet, row)
		return err
	})
	return rowNum, err
}

func (r *Retrying) Update(ctx context.Context, sheet string, rowNum int, row []string) error {
	return r.do(ctx, "tabular.Update", sheet, func() error {
		return r.next.Update(ctx, sheet, rowNum, row)
	})
}

func (r *Retrying) Delete(ctx context.Context, sheet string, rowNum int) error {
	return r.do(ctx, "tabular.Delete", sheet, func() error {
		return r.next.Delete(ctx, sheet, rowNum)
	})
}

func (r *Retrying) CreateSheet(ctx context.Context, sheet string) error {
	return r.do(ctx, "tabular.CreateSheet", sheet, func() error {
		return r.next.CreateSheet(ctx, sheet)
	})
}
