package extract

import (
	"math"
	"runtime"
	"time"

	"github.com/caseforge/pagevault/internal/domain"
)

// Checkpoint percentages for the phases before page iteration. The remaining
// 85% is spread across the page loop.
const (
	checkpointStart     = 0
	checkpointValidated = 5
	checkpointLoading   = 10
	checkpointLoaded    = 15
	pagePhaseSpan       = 100 - checkpointLoaded
)

// tracker accumulates per-page timings and guarantees monotonic progress
// emissions. It lives on the orchestrator instance and is cleared by Reset.
type tracker struct {
	durations []time.Duration
	lastPct   int
	lastPage  int
}

func newTracker() *tracker {
	return &tracker{}
}

func (t *tracker) reset() {
	t.durations = nil
	t.lastPct = 0
	t.lastPage = 0
}

// record pushes one completed page duration.
func (t *tracker) record(d time.Duration) {
	t.durations = append(t.durations, d)
}

// eta estimates seconds remaining from the mean page duration. Available only
// once two or more pages have completed.
func (t *tracker) eta(pagesRemaining int) (float64, bool) {
	if len(t.durations) < 2 {
		return 0, false
	}
	var total time.Duration
	for _, d := range t.durations {
		total += d
	}
	mean := total.Seconds() / float64(len(t.durations))
	return mean * float64(pagesRemaining), true
}

// pagePercentage maps completed/total onto the page-iteration span.
func pagePercentage(completed, total int) int {
	if total <= 0 {
		return checkpointLoaded
	}
	return int(math.Round(float64(checkpointLoaded) + float64(completed)/float64(total)*pagePhaseSpan))
}

// clampPct enforces the non-decreasing percentage invariant for one run.
func (t *tracker) clampPct(pct int) int {
	if pct < t.lastPct {
		pct = t.lastPct
	}
	t.lastPct = pct
	return pct
}

// RuntimeSampler reports Go heap usage as the memory telemetry source.
type RuntimeSampler struct{}

// SampleMB returns the current heap allocation in MB
func (RuntimeSampler) SampleMB() (float64, bool) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return float64(ms.HeapAlloc) / (1024 * 1024), true
}

var _ domain.MemorySampler = RuntimeSampler{}
