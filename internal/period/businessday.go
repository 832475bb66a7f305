package period

import (
	"time"

	"spreadcli/pkg/contracts/domain"
)

// IsBusinessDay reports whether t falls on a weekday. Saturdays and Sundays are
// the only non-business days; exchange holidays are deliberately not modelled.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// LastBusinessDay returns the last weekday of the given month
func LastBusinessDay(year int, month time.Month) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
	for !IsBusinessDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// BusinessDaysAfterThrough counts business days strictly after `from` up to and
// including `through`. Returns 0 when through is not after from.
func BusinessDaysAfterThrough(from, through time.Time) int {
	from = dateOnly(from)
	through = dateOnly(through)

	count := 0
	for d := from.AddDate(0, 0, 1); !d.After(through); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(d) {
			count++
		}
	}
	return count
}

// periodEnd returns the last calendar day of the given delivery period
func periodEnd(kind domain.PeriodKind, number, year int) time.Time {
	start := periodStart(kind, number, year)
	if kind == domain.PeriodQuarter {
		return start.AddDate(0, 3, -1)
	}
	return start.AddDate(0, 1, -1)
}

// periodStart returns the first calendar day of the given delivery period
func periodStart(kind domain.PeriodKind, number, year int) time.Time {
	month := number
	if kind == domain.PeriodQuarter {
		month = (number-1)*3 + 1
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// periodContaining returns the period number and year of the period holding t
func periodContaining(kind domain.PeriodKind, t time.Time) (number, year int) {
	if kind == domain.PeriodQuarter {
		return (int(t.Month())-1)/3 + 1, t.Year()
	}
	return int(t.Month()), t.Year()
}

// nextPeriod advances a period by one unit, rolling the year at 12->1 or 4->1
func nextPeriod(kind domain.PeriodKind, number, year int) (int, int) {
	if number >= kind.PeriodsPerYear() {
		return 1, year + 1
	}
	return number + 1, year
}

// dateOnly strips the time-of-day component, keeping the calendar date
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
