package sqlite

import "time"

// LocalToEpoch reads the wall clock of t as a wall clock in zone and
// returns its epoch seconds. The location carried by t is ignored, only
// year, month, day, hour, minute and second count.
func LocalToEpoch(t time.Time, zone *time.Location) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, zone).Unix()
}

// EpochToLocal is the inverse of LocalToEpoch.
func EpochToLocal(sec int64, zone *time.Location) time.Time {
	return time.Unix(sec, 0).In(zone)
}
