package session

import (
	"time"

	"github.com/chronohq/attendance-engine-go/internal/domain/session"
)

// Durations holds the derived time figures for a session.
type Durations struct {
	Total    time.Duration
	Break    time.Duration
	Net      time.Duration
	Overtime time.Duration

	// NeedsReview is set when the punch pair is inconsistent (punch-out
	// before punch-in, usually a device clock bug); the figures are zeroed
	// and the session should be flagged for manual review instead of
	// failing the punch-out.
	NeedsReview bool
}

// DurationCalculator derives total/break/net/overtime durations from punch
// and break timestamps. Pure and deterministic.
type DurationCalculator struct{}

func NewDurationCalculator() *DurationCalculator {
	return &DurationCalculator{}
}

// ComputeDurations derives the session figures. Open breaks contribute zero
// until closed; net is floored at zero; overtime is the net time beyond the
// standard day.
func (c *DurationCalculator) ComputeDurations(punchIn time.Time, punchOut *time.Time, breaks []session.Break, standardDay time.Duration) Durations {
	var d Durations

	if punchOut == nil {
		return d
	}

	if punchOut.Before(punchIn) {
		d.NeedsReview = true
		return d
	}

	d.Total = punchOut.Sub(punchIn)

	for _, b := range breaks {
		if b.EndedAt == nil {
			continue
		}
		d.Break += b.EndedAt.Sub(b.StartedAt)
	}

	d.Net = d.Total - d.Break
	if d.Net < 0 {
		d.Net = 0
	}

	if d.Net > standardDay {
		d.Overtime = d.Net - standardDay
	}

	return d
}

// Minutes rounds a duration down to whole minutes for persistence.
func Minutes(d time.Duration) int {
	return int(d / time.Minute)
}
