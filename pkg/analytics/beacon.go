// Package analytics sends fire-and-forget visit beacons
package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/reelhouse/cli/pkg/api"
	"github.com/reelhouse/cli/pkg/logger"
)

// Recorder is the analytics endpoint
type Recorder interface {
	RecordVisit(ctx context.Context, visit api.VisitRequest) error
}

// Beacon posts visits in the background. Failures are logged and dropped.
type Beacon struct {
	rec     Recorder
	enabled bool
	timeout time.Duration
	wg      sync.WaitGroup
}

// New returns a beacon; a disabled beacon or a nil recorder sends nothing
func New(rec Recorder, enabled bool) *Beacon {
	return &Beacon{rec: rec, enabled: enabled && rec != nil, timeout: 5 * time.Second}
}

// Visit records that userID spent duration on page
func (b *Beacon) Visit(userID, page string, duration time.Duration) {
	if b == nil || !b.enabled {
		return
	}
	visit := api.VisitRequest{UserID: userID, Page: page, Duration: duration.Milliseconds()}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()

		if err := b.rec.RecordVisit(ctx, visit); err != nil {
			logger.Debug("Visit beacon failed", "page", page, "error", err)
		}
	}()
}

// Flush waits up to timeout for in-flight beacons and reports whether they
// all finished
func (b *Beacon) Flush(timeout time.Duration) bool {
	if b == nil {
		return true
	}
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
