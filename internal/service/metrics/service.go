package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"agency-dashboard/internal/cache"
	"agency-dashboard/internal/finance"
	"agency-dashboard/internal/storage"
)

// CachePrefix is the key prefix of cached reports; writes invalidate it.
const CachePrefix = cache.MetricsPrefix

type MetricsStorage interface {
	ListUsers(ctx context.Context) ([]storage.User, error)
	ListProjects(ctx context.Context, f storage.Filter) ([]storage.Project, error)
	ListTasks(ctx context.Context, f storage.Filter) ([]storage.Task, error)
	ListSalaries(ctx context.Context, f storage.Filter) ([]storage.SalaryRecord, error)
	ListClientBillings(ctx context.Context, f storage.Filter) ([]storage.ClientBillingRecord, error)
	ListPayments(ctx context.Context, f storage.Filter) ([]storage.PaymentRecord, error)
	ListWorklogs(ctx context.Context, f storage.Filter) ([]storage.WorklogRecord, error)
	ListExpenses(ctx context.Context, f storage.Filter) ([]storage.ExpenseRecord, error)
	ListIncomes(ctx context.Context, f storage.Filter) ([]storage.IncomeRecord, error)
}

type MetricsService struct {
	storage MetricsStorage
	cache   *cache.Cache
	ttl     time.Duration
	opts    Options
	log     *slog.Logger
}

func NewMetricsService(storage MetricsStorage, c *cache.Cache, ttl time.Duration, opts Options, log *slog.Logger) *MetricsService {
	return &MetricsService{storage: storage, cache: c, ttl: ttl, opts: opts, log: log}
}

func reportKey(workspaceID string, month finance.Month) string {
	return fmt.Sprintf("%s%s:%s", CachePrefix, workspaceID, month)
}

// Report returns the metrics report for the workspace and month, served from
// cache while fresh.
func (s *MetricsService) Report(ctx context.Context, workspaceID string, month finance.Month) (Report, error) {
	const op = "service.metrics.Report"

	report, err := cache.Load(s.cache, reportKey(workspaceID, month), s.ttl, func() (Report, error) {
		in, err := s.snapshot(ctx, workspaceID, month)
		if err != nil {
			return Report{}, err
		}

		start := time.Now()
		r := BuildReport(in, s.opts)
		s.log.Debug("metrics report built",
			slog.String("op", op),
			slog.String("workspace_id", workspaceID),
			slog.String("month", month.String()),
			slog.Int("clients", len(r.Clients)),
			slog.Int("employees", len(r.Employees)),
			slog.Duration("took", time.Since(start)),
		)
		return r, nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", op, err)
	}

	return report, nil
}

// snapshot reads every table in parallel. Worklogs and tasks are read
// unfiltered because the averages span all history.
func (s *MetricsService) snapshot(ctx context.Context, workspaceID string, month finance.Month) (Input, error) {
	in := Input{Month: month, WorkspaceID: workspaceID}
	scoped := storage.Filter{WorkspaceID: workspaceID}
	all := storage.Filter{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.Users, err = s.storage.ListUsers(gCtx)
		if err != nil {
			return fmt.Errorf("users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.Projects, err = s.storage.ListProjects(gCtx, scoped)
		if err != nil {
			return fmt.Errorf("projects: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.Tasks, err = s.storage.ListTasks(gCtx, all)
		if err != nil {
			return fmt.Errorf("tasks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.Salaries, err = s.storage.ListSalaries(gCtx, scoped)
		if err != nil {
			return fmt.Errorf("salaries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.Billings, err = s.storage.ListClientBillings(gCtx, scoped)
		if err != nil {
			return fmt.Errorf("client billing: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.Payments, err = s.storage.ListPayments(gCtx, scoped)
		if err != nil {
			return fmt.Errorf("payments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.Worklogs, err = s.storage.ListWorklogs(gCtx, all)
		if err != nil {
			return fmt.Errorf("worklogs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.Expenses, err = s.storage.ListExpenses(gCtx, scoped)
		if err != nil {
			return fmt.Errorf("expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.Incomes, err = s.storage.ListIncomes(gCtx, scoped)
		if err != nil {
			return fmt.Errorf("incomes: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Input{}, err
	}

	return in, nil
}
