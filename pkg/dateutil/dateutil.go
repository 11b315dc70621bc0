package dateutil

import (
	"math"
	"time"
)

// DaysPerYear is the average Gregorian year length used for horizons.
const DaysPerYear = 365.25

// YearsUntilDate returns the signed number of 365.25-day years between two instants
func YearsUntilDate(fromDate, toDate time.Time) float64 {
	return toDate.Sub(fromDate).Hours() / 24 / DaysPerYear
}

// HorizonYears is YearsUntilDate clamped at zero; a past or present target has no horizon.
func HorizonYears(now, target time.Time) float64 {
	years := YearsUntilDate(now, target)
	if years < 0 || math.IsNaN(years) {
		return 0
	}
	return years
}

// SplitYears breaks a fractional year count into whole years and rounded months.
// A month count that rounds up to 12 rolls over into the next year.
func SplitYears(years float64) (int, int) {
	if years <= 0 || math.IsNaN(years) || math.IsInf(years, 0) {
		return 0, 0
	}
	whole := math.Floor(years)
	months := int(math.Round((years - whole) * 12))
	y := int(whole)
	if months >= 12 {
		y += months / 12
		months %= 12
	}
	return y, months
}

// TotalMonths converts a years/months breakdown into a month count
func TotalMonths(years, months int) int {
	return years*12 + months
}

// AddMonths adds a (possibly negative) number of months to a date
func AddMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}

// ClampInt bounds v to [lo, hi]
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
