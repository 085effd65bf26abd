package report

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/highway-sim/highway-sim/sim"
)

// Dispatcher fans each snapshot out to its reporters in order. A failing
// reporter is logged and skipped; it never stops the simulation or the other
// reporters. The first failure and the recovery are logged as warnings, the
// failures in between at debug level.
type Dispatcher struct {
	reporters []Reporter
	failing   map[string]bool
}

// NewDispatcher creates a Dispatcher over the given reporters.
func NewDispatcher(reporters ...Reporter) *Dispatcher {
	return &Dispatcher{reporters: reporters, failing: make(map[string]bool)}
}

// Len returns the number of reporters.
func (d *Dispatcher) Len() int { return len(d.reporters) }

// Observe implements sim.Observer.
func (d *Dispatcher) Observe(ctx context.Context, snap *sim.Snapshot) {
	for _, r := range d.reporters {
		name := r.Name()
		if err := r.Report(ctx, snap); err != nil {
			if d.failing[name] {
				logrus.Debugf("[cycle %07d] %s still failing: %v", snap.Cycle, name, err)
			} else {
				logrus.Warnf("[cycle %07d] %s failed: %v", snap.Cycle, name, err)
				d.failing[name] = true
			}
			continue
		}
		if d.failing[name] {
			logrus.Warnf("[cycle %07d] %s recovered", snap.Cycle, name)
			delete(d.failing, name)
		}
	}
}

// Failing reports whether the named reporter failed on its last snapshot.
func (d *Dispatcher) Failing(name string) bool { return d.failing[name] }

// Close closes every reporter that holds resources.
func (d *Dispatcher) Close() error {
	var errs []error
	for _, r := range d.reporters {
		if c, ok := r.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
