package booking

import "time"

// ETAWindowMinutes is the assumed service duration used for every ETA
// window.
const ETAWindowMinutes = 30

// ETAWindow returns the estimated service window starting at start.
func ETAWindow(start time.Time) (time.Time, time.Time) {
	return start, start.Add(ETAWindowMinutes * time.Minute)
}
