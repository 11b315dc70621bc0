package calculation

import (
	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// AllocationEpsilon absorbs rounding noise in allocation arithmetic.
// It is not the user-facing tolerance; see PercentWarningTolerance.
var AllocationEpsilon = decimal.New(1, -6)

// PercentWarningTolerance is how far (in percentage points) stored split
// percents may drift from 100 before a plan warns about them.
var PercentWarningTolerance = decimal.NewFromFloat(0.5)

var hundred = decimal.NewFromInt(100)

// MemberAllocation is one member's live share of the periodic requirement
type MemberAllocation struct {
	UserID    string
	PerPeriod decimal.Decimal
}

// AllocationResult is the best-effort split of a periodic requirement.
// Nothing here is an error: callers decide whether Overflow or
// ZeroPercentSum should block a write.
type AllocationResult struct {
	Allocations    []MemberAllocation // same order as the input members
	FixedTotal     decimal.Decimal
	Remaining      decimal.Decimal // requirement left for percent members, clamped at zero
	Overflow       bool            // fixed commitments exceed the requirement
	Shortfall      decimal.Decimal // how far the requirement falls short of fixed commitments
	PercentSum     decimal.Decimal
	PercentMembers int
	ZeroPercentSum bool            // percent members exist but their percents sum to ~0
	Unallocated    decimal.Decimal // remaining that no member picked up
}

// Summary converts the result into the plan's allocation echo
func (r AllocationResult) Summary() domain.AllocationSummary {
	return domain.AllocationSummary{
		FixedTotal:     r.FixedTotal,
		PercentSum:     r.PercentSum,
		Remaining:      r.Remaining,
		Overflow:       r.Overflow,
		Shortfall:      r.Shortfall,
		ZeroPercentSum: r.ZeroPercentSum,
		Unallocated:    r.Unallocated,
	}
}

// ComputeMemberAllocations splits a required periodic total across members.
// Fixed members pay their amount; percent members share what is left in
// proportion to their stored percents, normalized by the percent sum.
func ComputeMemberAllocations(total decimal.Decimal, members []domain.Member) AllocationResult {
	res := AllocationResult{
		Allocations: make([]MemberAllocation, len(members)),
		FixedTotal:  decimal.Zero,
		PercentSum:  decimal.Zero,
		Shortfall:   decimal.Zero,
		Unallocated: decimal.Zero,
	}

	for _, m := range members {
		if amt, ok := m.Share.FixedAmount(); ok {
			res.FixedTotal = res.FixedTotal.Add(amt)
			continue
		}
		pct, _ := m.Share.Percent()
		res.PercentSum = res.PercentSum.Add(pct)
		res.PercentMembers++
	}

	res.Remaining = total.Sub(res.FixedTotal)
	if res.Remaining.LessThan(AllocationEpsilon.Neg()) {
		res.Overflow = true
		res.Shortfall = res.Remaining.Neg()
		res.Remaining = decimal.Zero
	} else if res.Remaining.IsNegative() {
		res.Remaining = decimal.Zero
	}

	distribute := res.PercentSum.GreaterThan(AllocationEpsilon)
	if res.PercentMembers > 0 && !distribute {
		res.ZeroPercentSum = true
	}

	allocated := decimal.Zero
	for i, m := range members {
		alloc := MemberAllocation{UserID: m.UserID, PerPeriod: decimal.Zero}
		if amt, ok := m.Share.FixedAmount(); ok {
			alloc.PerPeriod = amt
		} else if distribute {
			pct, _ := m.Share.Percent()
			alloc.PerPeriod = res.Remaining.Mul(pct).Div(res.PercentSum)
			allocated = allocated.Add(alloc.PerPeriod)
		}
		res.Allocations[i] = alloc
	}

	if unallocated := res.Remaining.Sub(allocated); unallocated.GreaterThan(AllocationEpsilon) {
		res.Unallocated = unallocated
	}
	return res
}

// RebalancePercentages returns a copy of members whose stored split percents
// sum to 100 across percent-based members. Collaborators keep their shares
// unless they exceed 100 in total, in which case they shrink proportionally;
// the owner absorbs whatever is left. Fixed-amount members are untouched.
//
// The input slice is never modified. Without an owner the copy is returned
// as-is: an ownerless goal is a caller bug, not something to repair here.
func RebalancePercentages(members []domain.Member) []domain.Member {
	out := append([]domain.Member(nil), members...)

	hasOwner := false
	ownerIdx := -1 // percent-based owner only
	var collaborators []int
	collabSum := decimal.Zero
	for i, m := range out {
		if m.IsOwner() {
			hasOwner = true
		}
		if m.Share.IsFixed() {
			continue
		}
		if m.IsOwner() {
			if ownerIdx < 0 {
				ownerIdx = i
			}
			continue
		}
		pct, _ := m.Share.Percent()
		collaborators = append(collaborators, i)
		collabSum = collabSum.Add(pct)
	}

	if !hasOwner {
		return out
	}

	if len(collaborators) == 0 {
		if ownerIdx >= 0 {
			out[ownerIdx].Share = domain.PercentShare(hundred)
		}
		return out
	}

	adjusted := collabSum
	if collabSum.GreaterThan(hundred.Add(AllocationEpsilon)) {
		adjusted = decimal.Zero
		for _, i := range collaborators {
			pct, _ := out[i].Share.Percent()
			scaled := pct.Mul(hundred).Div(collabSum)
			out[i].Share = domain.PercentShare(scaled)
			adjusted = adjusted.Add(scaled)
		}
	}

	if ownerIdx >= 0 {
		rest := hundred.Sub(adjusted)
		if rest.LessThanOrEqual(AllocationEpsilon) {
			rest = decimal.Zero
		}
		out[ownerIdx].Share = domain.PercentShare(rest)
	}
	return out
}

// PercentSum totals the stored split percents of percent-based members
func PercentSum(members []domain.Member) (decimal.Decimal, int) {
	sum := decimal.Zero
	n := 0
	for _, m := range members {
		if pct, ok := m.Share.Percent(); ok {
			sum = sum.Add(pct)
			n++
		}
	}
	return sum, n
}
