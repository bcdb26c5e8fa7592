package rtree

import (
	"fmt"
	"time"

	"github.com/tormol/rstartree/rlog"
)

// Option configures ambient, non-algorithmic behavior of a Tree:
// self-consistency checking and diagnostics logging. Neither is a
// required construction parameter, so both are kept out of
// NewWithOptions's positional arguments in favor of functional options,
// the same pattern the pack's config/CLI-builder code uses repeatedly.
type Option func(*Tree)

// WithConsistencyCheck makes every public mutation run a full
// self-consistency check afterward, reporting any violation through the
// tree's logger (see WithLogger) instead of returning an error. This is
// a diagnostics aid, not something production code should leave on by
// default: it walks every reachable node on every mutation.
func WithConsistencyCheck() Option {
	return func(t *Tree) {
		t.consistencyCheckEnabled = true
	}
}

// WithLogger attaches a diagnostics logger used for InvariantViolation
// reports and, if WithPeriodicStats is also given, periodic tree-shape
// statistics. Without this option the tree logs to rlog.Discard().
func WithLogger(l *rlog.Logger) Option {
	return func(t *Tree) {
		t.logger = l
	}
}

// WithPeriodicStats registers a periodic logger (see rlog.AddPeriodic)
// that reports size/height/node-count at an interval growing from
// minInterval to maxInterval. Has no effect unless combined with
// WithLogger.
func WithPeriodicStats(minInterval, maxInterval time.Duration) Option {
	return func(t *Tree) {
		t.periodicStatsMin = minInterval
		t.periodicStatsMax = maxInterval
		t.wantPeriodicStats = true
	}
}

func (t *Tree) registerPeriodicStats() {
	if !t.wantPeriodicStats || t.logger == nil {
		return
	}
	id := fmt.Sprintf("rtree-stats-%p", t)
	t.logger.AddPeriodic(id, t.periodicStatsMin, t.periodicStatsMax, func(c *rlog.Composer, sinceLast time.Duration) {
		c.Writeln("rtree stats: size=%d height=%d nodes=%s (last reported %s ago)",
			t.Size(), t.Height(), rlog.SiMultiple(t.NumNodes(), 1000, 'Y'), rlog.RoundDuration(sinceLast, time.Second))
	})
}
