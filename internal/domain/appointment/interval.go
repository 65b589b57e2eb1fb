package appointment

import "time"

// Interval é meio-aberto: [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start time.Time, durationMinutes int) Interval {
	return Interval{
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}
}

// Overlaps: [a,b) e [c,d) se cruzam sse a < d && c < b.
// Encostar (fim == início) não é conflito.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}
