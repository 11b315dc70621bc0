package calculation

import "math"

// Time-value-of-money solvers. All rates are annual percentages (6 means 6%).
// Results are plain float64: degenerate inputs return NaN or Inf and callers
// check domain.Figure.Finite before display.

// periodicRate converts an annual percent into a per-period fraction.
func periodicRate(ratePercent float64, periodsPerYear int) float64 {
	return ratePercent / 100 / float64(periodsPerYear)
}

// growthFactor returns (1+i)^n, or NaN when the rate wipes out the balance.
func growthFactor(ratePercent float64, periodsPerYear int, periods float64) float64 {
	if ratePercent <= -100 || periodsPerYear <= 0 {
		return math.NaN()
	}
	return math.Pow(1+periodicRate(ratePercent, periodsPerYear), periods)
}

// NetTargetAfterExisting grows existing savings to the target date and returns
// what new money still has to produce, floored at zero.
func NetTargetAfterExisting(target, existing, ratePercent float64, compoundingPerYear int, years float64) float64 {
	if years < 0 {
		years = 0
	}
	grown := existing * growthFactor(ratePercent, compoundingPerYear, float64(compoundingPerYear)*years)
	if math.IsNaN(grown) {
		return math.NaN()
	}
	return math.Max(target-grown, 0)
}

// RequiredPaymentForFutureValue solves P*((1+i)^n-1)/i = netTarget for the
// ordinary-annuity payment P. A zero rate is a straight division; a horizon
// of zero periods means the whole net target is due now.
func RequiredPaymentForFutureValue(netTarget, ratePercent float64, periodsPerYear int, years float64) float64 {
	if netTarget <= 0 {
		return 0
	}
	if ratePercent <= -100 || periodsPerYear <= 0 {
		return math.NaN()
	}
	n := float64(periodsPerYear) * years
	if n <= 0 {
		return netTarget
	}
	i := periodicRate(ratePercent, periodsPerYear)
	if i == 0 {
		return netTarget / n
	}
	return netTarget * i / (math.Pow(1+i, n) - 1)
}

// RequiredLumpSumForFutureValue solves L*(1+i)^n = netTarget. It is an
// alternative to the periodic payment for the same net target, not a part of it.
func RequiredLumpSumForFutureValue(netTarget, ratePercent float64, compoundingPerYear int, years float64) float64 {
	if netTarget <= 0 {
		return 0
	}
	n := float64(compoundingPerYear) * years
	if n <= 0 {
		return netTarget
	}
	return netTarget / growthFactor(ratePercent, compoundingPerYear, n)
}

// FutureValueOfPayments compounds an ordinary annuity: the inverse of
// RequiredPaymentForFutureValue.
func FutureValueOfPayments(payment, ratePercent float64, periodsPerYear int, periods float64) float64 {
	if periods <= 0 {
		return 0
	}
	if ratePercent <= -100 || periodsPerYear <= 0 {
		return math.NaN()
	}
	i := periodicRate(ratePercent, periodsPerYear)
	if i == 0 {
		return payment * periods
	}
	return payment * (math.Pow(1+i, periods) - 1) / i
}
