package coordinatorsvc

import (
	"context"
	"time"
)

// RunLivenessMonitor implements spec.md §4.5: every LivenessPeriod, any
// worker whose last heartbeat is older than LivenessTimeout is logged as
// dead. No task reassignment happens here — the straggler monitor subsumes
// recovery for the common slow-not-silent case (spec.md §4.5, §7).
func (c *Coordinator) RunLivenessMonitor(ctx context.Context) error {
	ticker := time.NewTicker(c.tuning.LivenessPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.scanForDeadWorkers()
		}
	}
}

func (c *Coordinator) scanForDeadWorkers() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for workerID, last := range c.heartbeats {
		if now.Sub(last) > c.tuning.LivenessTimeout {
			c.log.WithField("worker_id", workerID).Warn("worker appears to be dead (no reassignment performed)")
		}
	}
}
