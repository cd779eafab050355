package timezone

import "time"

const DefaultTimezone = "Asia/Jakarta"

// WallClockLayout is the format the booking form submits: a local
// datetime with no timezone offset.
const WallClockLayout = "2006-01-02T15:04:05"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

// ParseWallClock interprets a submitted service_time in the shop's
// timezone.
func ParseWallClock(value string) (time.Time, error) {
	return time.ParseInLocation(WallClockLayout, value, Location(DefaultTimezone))
}
