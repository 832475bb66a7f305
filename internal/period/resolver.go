package period

import (
	"fmt"
	"time"

	"spreadcli/internal/errors"
	"spreadcli/pkg/contracts/domain"
)

// Result is the output of one relative period resolution. All fields are derived
// from the same as-of period basis: when a transition occurred, the as-of period
// is the one after the calendar period containing the reference date, and the
// offset is computed against that same basis.
type Result struct {
	// RelativeOffset is the signed number of periods between the as-of period
	// and the target delivery period. 1 means "next period" (label q_1 / m_1).
	// Negative offsets denote past delivery periods; the resolver does not
	// reject them, forward-quoting callers should.
	RelativeOffset int

	// As-of period the offset was computed from
	AsOfKind   domain.PeriodKind
	AsOfNumber int
	AsOfYear   int

	// Transitioned is true when the business-day rule forced the as-of period
	// to the one after the reference date's calendar period
	Transitioned bool

	// BusinessDaysToPeriodEnd counts business days strictly after the reference
	// date through the last calendar day of the naive (pre-transition) period
	BusinessDaysToPeriodEnd int
}

// Label renders the conventional relative contract label, e.g. "q_1" or "m_2"
func (r Result) Label() string {
	return fmt.Sprintf("%s_%d", r.AsOfKind, r.RelativeOffset)
}

// Resolve maps a reference date and a target delivery contract to the relative
// period label a quoting system should use, applying the n_s business-day
// transition rule.
//
// Within the last nS business days of the reference date's period (counting
// business days strictly after the reference date through period end, boundary
// inclusive), the as-of period advances one unit, so the same target contract
// resolves to a smaller offset. nS = 0 disables the transition entirely.
//
// Pure function: no I/O, deterministic, safe for concurrent use.
func Resolve(referenceDate time.Time, target domain.ContractSpec, nS int) (Result, error) {
	if nS < 0 {
		return Result{}, errors.NewParameterError(
			fmt.Sprintf("n_s must be >= 0, got %d", nS), nil)
	}
	if !target.Kind.IsValid() {
		return Result{}, errors.NewContractError(
			fmt.Sprintf("unsupported period kind %q", target.Kind), nil)
	}
	if target.Number < 1 || target.Number > target.Kind.MaxNumber() {
		return Result{}, errors.NewContractError(
			fmt.Sprintf("period number %d out of range for tenor %q", target.Number, target.Kind), nil)
	}

	ref := dateOnly(referenceDate)

	// Naive as-of period: the calendar period containing the reference date.
	naiveNumber, naiveYear := periodContaining(target.Kind, ref)
	daysToEnd := BusinessDaysAfterThrough(ref, periodEnd(target.Kind, naiveNumber, naiveYear))

	// Transition test. The boundary is inclusive: exactly nS business days
	// remaining already transitions. nS = 0 never transitions.
	transitioned := nS > 0 && daysToEnd <= nS

	asOfNumber, asOfYear := naiveNumber, naiveYear
	if transitioned {
		asOfNumber, asOfYear = nextPeriod(target.Kind, naiveNumber, naiveYear)
	}

	offset := periodIndex(target.Kind, target.Number, target.Year) -
		periodIndex(target.Kind, asOfNumber, asOfYear)

	return Result{
		RelativeOffset:          offset,
		AsOfKind:                target.Kind,
		AsOfNumber:              asOfNumber,
		AsOfYear:                asOfYear,
		Transitioned:            transitioned,
		BusinessDaysToPeriodEnd: daysToEnd,
	}, nil
}

// periodIndex maps a period to a single monotonic integer so offsets are plain
// differences regardless of year boundaries
func periodIndex(kind domain.PeriodKind, number, year int) int {
	return year*kind.PeriodsPerYear() + (number - 1)
}
