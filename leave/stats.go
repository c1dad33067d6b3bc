/*
stats.go - Used-days aggregation against annual quotas

PURPOSE:
  Derives the leave-statistics view from the request collection: per leave
  type, the whole-day total of approved requests and its ratio against a
  fixed annual quota.

RULES:
  - Only approved requests count; pending and rejected are ignored.
  - A request's day count is endDate - startDate at calendar-day
    granularity (dates normalized to midnight UTC before subtraction),
    matching the portal's historical display math.
  - Quotas are configuration constants, always positive, so the ratio is
    safe by construction.
*/
package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// QUOTAS
// =============================================================================

// Quota is the annual allowance per leave type, in days.
type Quota struct {
	Vacation int
	Sick     int
	Personal int
}

// DefaultQuota is the portal's fixed allowance.
var DefaultQuota = Quota{Vacation: 20, Sick: 10, Personal: 5}

func (q Quota) For(t Type) int {
	switch t {
	case TypeVacation:
		return q.Vacation
	case TypeSick:
		return q.Sick
	case TypePersonal:
		return q.Personal
	}
	return 0
}

// =============================================================================
// USAGE
// =============================================================================

// TypeUsage is the per-type line of the statistics view.
type TypeUsage struct {
	Type     Type
	UsedDays int
	Quota    int
	Ratio    decimal.Decimal // UsedDays / Quota
}

// UsageReport holds one line per leave type, in display order.
type UsageReport struct {
	Lines []TypeUsage
}

// For returns the line for a leave type.
func (r UsageReport) For(t Type) TypeUsage {
	for _, l := range r.Lines {
		if l.Type == t {
			return l
		}
	}
	return TypeUsage{Type: t}
}

// Usage aggregates approved used days per type against the quota.
// An empty approved set yields zero usage for every type.
func Usage(requests []Request, quota Quota) UsageReport {
	used := map[Type]int{}
	for _, req := range requests {
		if req.Status != StatusApproved {
			continue
		}
		used[req.Type] += DaysBetween(req.StartDate, req.EndDate)
	}

	report := UsageReport{Lines: make([]TypeUsage, 0, len(Types))}
	for _, t := range Types {
		q := quota.For(t)
		line := TypeUsage{Type: t, UsedDays: used[t], Quota: q}
		if q > 0 {
			line.Ratio = decimal.NewFromInt(int64(used[t])).
				Div(decimal.NewFromInt(int64(q)))
		}
		report.Lines = append(report.Lines, line)
	}
	return report
}

// DaysBetween returns end - start in whole calendar days, ignoring
// time-of-day. Negative when end precedes start.
func DaysBetween(start, end time.Time) int {
	s := midnightUTC(start)
	e := midnightUTC(end)
	return int(e.Sub(s).Hours() / 24)
}

func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
