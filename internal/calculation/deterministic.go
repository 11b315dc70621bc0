package calculation

import "time"

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
// Passing nil restores time.Now.
func SetNowFunc(f func() time.Time) {
	if f == nil {
		nowFunc = time.Now
		return
	}
	nowFunc = f
}

// seedFunc returns a pseudo-random seed (override for deterministic simulation tests).
var seedFunc = func() int64 { return time.Now().UnixNano() }

// SetSeedFunc overrides the seed provider (use only in tests).
// Passing nil restores the clock-based seed.
func SetSeedFunc(f func() int64) {
	if f == nil {
		seedFunc = func() int64 { return time.Now().UnixNano() }
		return
	}
	seedFunc = f
}
