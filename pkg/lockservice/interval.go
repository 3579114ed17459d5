package lockservice

import (
	"fmt"
	"time"
)

// Interval is a half-open span of time [Start, End). All timeline math in
// this package treats intervals as half-open so adjacent buckets never
// overlap at the boundary instant.
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	iv := Interval{Start: start.UTC(), End: end.UTC()}
	if !iv.Start.Before(iv.End) {
		return Interval{}, lockserviceErrorf(ErrGranularityMismatch, "interval start %s is not before end %s", iv.Start, iv.End)
	}
	return iv, nil
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s/%s", iv.Start.Format(time.RFC3339Nano), iv.End.Format(time.RFC3339Nano))
}

// Contains reports whether other lies entirely within iv.
func (iv Interval) Contains(other Interval) bool {
	return !other.Start.Before(iv.Start) && !other.End.After(iv.End)
}

// Overlaps reports whether iv and other share any instant.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Equal reports whether iv and other denote the same half-open span.
func (iv Interval) Equal(other Interval) bool {
	return iv.Start.Equal(other.Start) && iv.End.Equal(other.End)
}

// Abuts reports whether iv's end coincides with other's start, or vice
// versa, i.e. the two are adjacent with no gap and no overlap.
func (iv Interval) Abuts(other Interval) bool {
	return iv.End.Equal(other.Start) || other.End.Equal(iv.Start)
}

// Empty reports whether iv spans zero or negative duration. NewInterval
// already rejects this shape, but Empty lets callers building an Interval
// by hand (e.g. assembling a Lease before validating it) check the same
// invariant.
func (iv Interval) Empty() bool {
	return !iv.End.After(iv.Start)
}
