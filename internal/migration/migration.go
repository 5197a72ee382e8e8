// Package migration holds the one-off data tools run through menuctl. Every
// command is best effort: a failing item is logged and counted, and the rest
// of the run carries on.
package migration

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fekuna/omnipos-menu-service/internal/category"
	"github.com/fekuna/omnipos-menu-service/internal/categorykey"
	"github.com/fekuna/omnipos-menu-service/internal/menuitem"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
)

// DefaultBatchSize matches the largest write batch the menu store accepts in
// one request.
const DefaultBatchSize = 500

// Origin tags the events menuctl publishes.
const Origin = "menuctl"

type Migrator struct {
	categories category.Repository
	items      menuitem.Repository
	publisher  broker.Publisher
	batchSize  int
	now        func() time.Time
	logger     logger.ZapLogger
}

type Option func(*Migrator)

func WithClock(now func() time.Time) Option {
	return func(m *Migrator) { m.now = now }
}

func WithBatchSize(n int) Option {
	return func(m *Migrator) {
		if n > 0 {
			m.batchSize = n
		}
	}
}

// WithPublisher announces finished runs so running servers drop their cached
// item lists instead of waiting out the TTL.
func WithPublisher(p broker.Publisher) Option {
	return func(m *Migrator) { m.publisher = p }
}

func New(categories category.Repository, items menuitem.Repository, log logger.ZapLogger, opts ...Option) *Migrator {
	m := &Migrator{
		categories: categories,
		items:      items,
		batchSize:  DefaultBatchSize,
		now:        time.Now,
		logger:     log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Change describes one record a run wrote.
type Change struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Report sums up a run.
type Report struct {
	Processed int      `json:"processed"`
	Changed   int      `json:"changed"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Changes   []Change `json:"changes"`
}

type recorder struct {
	mu     sync.Mutex
	report Report
}

func (r *recorder) changed(c Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.Processed++
	r.report.Changed++
	r.report.Changes = append(r.report.Changes, c)
}

func (r *recorder) skipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.Processed++
	r.report.Skipped++
}

func (r *recorder) failed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.Processed++
	r.report.Failed++
}

// errSkip marks an item that needed no write.
var errSkip = errors.New("skipped")

// inBatches splits n items into batches, runs the batches concurrently and
// waits for all of them. apply is called once per index and returns errSkip
// for items it left alone.
func (m *Migrator) inBatches(ctx context.Context, op string, n int, apply func(ctx context.Context, i int) (Change, error)) (Report, error) {
	rec := &recorder{report: Report{Changes: []Change{}}}

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += m.batchSize {
		end := min(start+m.batchSize, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				change, err := apply(gctx, i)
				switch {
				case errors.Is(err, errSkip):
					rec.skipped()
				case err != nil:
					m.logger.Error(op+" failed", zap.Int("index", i), zap.String("id", change.ID), zap.Error(err))
					rec.failed()
				default:
					rec.changed(change)
				}
			}
			return nil
		})
	}
	err := g.Wait()

	m.logger.Info(op+" finished",
		zap.Int("processed", rec.report.Processed),
		zap.Int("changed", rec.report.Changed),
		zap.Int("skipped", rec.report.Skipped),
		zap.Int("failed", rec.report.Failed),
	)
	if rec.report.Changed > 0 {
		m.announce(ctx)
	}
	return rec.report, err
}

func (m *Migrator) announce(ctx context.Context) {
	if m.publisher == nil {
		return
	}
	event := menuitem.Event{
		EventID:   uuid.New().String(),
		EventType: menuitem.EventItemUpdated,
		Origin:    Origin,
		Timestamp: m.timestamp(),
	}
	if err := m.publisher.Publish(ctx, event.EventID, event); err != nil {
		m.logger.Warn("failed to announce migration", zap.Error(err))
	}
}

func (m *Migrator) timestamp() time.Time {
	return m.now().UTC().Truncate(time.Microsecond)
}

func (m *Migrator) touch(prev time.Time) time.Time {
	now := m.timestamp()
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}

// options lists every category key in display order.
func (m *Migrator) options(ctx context.Context) ([]categorykey.Option, error) {
	cats, err := m.categories.FindAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	model.SortCategories(cats)
	return categorykey.ToOptions(cats), nil
}
