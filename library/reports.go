package library

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseMonth validates a month token in the literal form "YYYY-MM" and
// returns its parts. Wrong segment count, non-numeric segments, and
// out-of-range months are all rejected before any query runs.
func ParseMonth(token string) (year, month int, err error) {
	parts := strings.Split(token, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("month must look like 2025-08, got %q: %w", token, ErrInvalidArgument)
	}
	year, yerr := strconv.Atoi(parts[0])
	month, merr := strconv.Atoi(parts[1])
	if yerr != nil || merr != nil {
		return 0, 0, fmt.Errorf("month must look like 2025-08, got %q: %w", token, ErrInvalidArgument)
	}
	if _, _, rerr := monthRange(year, month); rerr != nil {
		return 0, 0, rerr
	}
	return year, month, nil
}

// monthRange returns the inclusive [first, last] calendar days of a month.
// The last day is the day before the first of the next month, which rolls
// December into January of the following year.
func monthRange(year, month int) (first, last time.Time, err error) {
	if year < 1 || month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %04d-%02d: %w", year, month, ErrInvalidArgument)
	}
	first = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, 0).AddDate(0, 0, -1)
	return first, last, nil
}

// Reports is a pure read composition over Circulation and Billing; it holds
// no state of its own.
type Reports struct {
	circulation *Circulation
	billing     *Billing
}

// MonthlySummary aggregates one month of circulation and billing activity.
type MonthlySummary struct {
	Year  int
	Month int

	Loans    []LoanDetail
	Invoices []InvoiceDetail

	LoansIssued       int
	LoansReturned     int
	LateFeesCollected float64

	InvoiceCount   int
	GrossSales     float64
	DiscountsGiven float64
}

// Monthly builds the summary for one month: every loan touching the month
// (issued or returned in it), every invoice dated in it, and the totals a
// desk report needs.
func (r *Reports) Monthly(year, month int) (*MonthlySummary, error) {
	first, last, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}

	loans, err := r.circulation.LoansByMonth(year, month, EitherIn)
	if err != nil {
		return nil, err
	}
	invoices, err := r.billing.InvoicesByMonth(year, month)
	if err != nil {
		return nil, err
	}

	s := &MonthlySummary{Year: year, Month: month, Loans: loans, Invoices: invoices}
	for _, l := range loans {
		if inRange(l.IssueDate, first, last) {
			s.LoansIssued++
		}
		if l.ReturnDate != nil && inRange(*l.ReturnDate, first, last) {
			s.LoansReturned++
			s.LateFeesCollected += l.LateFee
		}
	}
	s.LateFeesCollected = round2(s.LateFeesCollected)

	s.InvoiceCount = len(invoices)
	for _, inv := range invoices {
		s.GrossSales += inv.GrandTotal
		s.DiscountsGiven += inv.DiscountAmt
	}
	s.GrossSales = round2(s.GrossSales)
	s.DiscountsGiven = round2(s.DiscountsGiven)

	return s, nil
}

func inRange(t, first, last time.Time) bool {
	return !t.Before(first) && !t.After(last)
}
