package cache

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/skinsight/aiguard/observe"
)

// SweepableStore is a Store whose keys can be enumerated for cleanup.
type SweepableStore interface {
	Store
	KeyScanner
}

// ErrNoNamespaces is returned when a janitor is created with nothing to sweep.
var ErrNoNamespaces = errors.New("cache: janitor has no namespaces to sweep")

// Janitor deletes keys under configured namespaces on a cron schedule.
// It exists for cleanup of short-lived test entries; production analysis
// entries expire via their own TTL and are never swept.
type Janitor struct {
	store      SweepableStore
	namespaces []string
	logger     observe.Logger
	cron       *cron.Cron
}

// NewJanitor creates a janitor sweeping the given namespaces on the given
// cron schedule (standard 5-field spec, e.g. "*/10 * * * *").
func NewJanitor(store SweepableStore, schedule string, namespaces []string, logger observe.Logger) (*Janitor, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if len(namespaces) == 0 {
		return nil, ErrNoNamespaces
	}
	if logger == nil {
		logger = observe.NopLogger()
	}

	j := &Janitor{
		store:      store,
		namespaces: namespaces,
		logger:     logger,
		cron:       cron.New(),
	}

	if _, err := j.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if _, err := j.Sweep(ctx); err != nil {
			j.logger.Warn(ctx, "janitor sweep failed",
				observe.Field{Key: "error", Value: err.Error()},
			)
		}
	}); err != nil {
		return nil, err
	}

	return j, nil
}

// Start begins scheduled sweeps.
func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop halts scheduling. Running sweeps are allowed to finish.
func (j *Janitor) Stop() {
	j.cron.Stop()
}

// Sweep deletes all keys under the janitor's namespaces and returns how
// many were removed. Individual delete failures are logged and skipped so
// one bad key does not abort the sweep.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	removed := 0

	for _, ns := range j.namespaces {
		keys, err := j.store.ScanKeys(ctx, ns+":*")
		if err != nil {
			return removed, err
		}

		for _, key := range keys {
			if err := j.store.Delete(ctx, key); err != nil {
				j.logger.Warn(ctx, "janitor delete failed",
					observe.Field{Key: "key", Value: key},
					observe.Field{Key: "error", Value: err.Error()},
				)
				continue
			}
			removed++
		}
	}

	j.logger.Debug(ctx, "janitor sweep completed",
		observe.Field{Key: "removed", Value: removed},
	)

	return removed, nil
}
