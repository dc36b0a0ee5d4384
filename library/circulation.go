package library

import (
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
)

const (
	// DefaultLoanDays is the issue period applied when the caller passes 0.
	DefaultLoanDays = 14

	// FeePerDay is the late fee charged per calendar day past the due date.
	FeePerDay = 5.0
)

// LoanDateFilter selects which date field a month listing matches against.
type LoanDateFilter int

const (
	IssuedIn LoanDateFilter = iota
	ReturnedIn
	EitherIn
)

// Circulation issues and returns books against the Catalog and Directory,
// enforcing stock conservation and computing late fees.
type Circulation struct {
	db *Database
}

// IssueBook lends one copy of a book to a member for periodDays. Zero means
// "unspecified" and selects DefaultLoanDays; an explicit period must be at
// least one day, so negative values are ErrInvalidArgument. The loan insert
// and the stock decrement commit atomically. Returns the new loan with its
// due date.
func (c *Circulation) IssueBook(memberID int64, bookID string, periodDays int) (*Loan, error) {
	if periodDays == 0 {
		periodDays = DefaultLoanDays
	}
	if periodDays < 1 {
		return nil, fmt.Errorf("issue period must be >= 1 day: %w", ErrInvalidArgument)
	}

	var loan Loan
	err := c.db.withTx(func(tx *sqlx.Tx) error {
		member, err := getMember(tx, memberID)
		if err != nil {
			return err
		}
		book, err := getBook(tx, bookID)
		if err != nil {
			return err
		}
		if book.Stock <= 0 {
			return fmt.Errorf("book %q: %w", bookID, ErrOutOfStock)
		}

		issueDate := c.db.today()
		dueDate := issueDate.AddDate(0, 0, periodDays)

		res, err := tx.Exec(
			`INSERT INTO issues (member_id, book_id, issue_date, due_date) VALUES (?,?,?,?)`,
			memberID, bookID, issueDate.Format(dateLayout), dueDate.Format(dateLayout))
		if err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}
		loanID, err := res.LastInsertId()
		if err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}

		if err := decrementStock(tx, bookID, 1); err != nil {
			return err
		}

		loan = Loan{
			ID:        loanID,
			MemberID:  memberID,
			BookID:    bookID,
			IssueDate: issueDate,
			DueDate:   dueDate,
		}
		c.db.logInfo("book issued",
			"issue_id", loanID, "member_id", member.ID, "book_id", bookID,
			"due_date", dueDate.Format(dateLayout))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ReturnBook closes a loan: the return date is stamped, the late fee is fixed
// once and never recomputed, and the book's stock comes back, all in one
// transaction. Returns the fee charged.
func (c *Circulation) ReturnBook(loanID int64) (float64, error) {
	var fee float64
	err := c.db.withTx(func(tx *sqlx.Tx) error {
		var loan Loan
		err := sqlx.Get(tx, &loan,
			`SELECT issue_id,member_id,book_id,issue_date,due_date,return_date,late_fee
             FROM issues WHERE issue_id=?`, loanID)
		if isNoRows(err) {
			return fmt.Errorf("loan %d: %w", loanID, ErrNotFound)
		}
		if err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}
		if loan.Returned() {
			return fmt.Errorf("loan %d: %w", loanID, ErrAlreadyReturned)
		}

		returnDate := c.db.today()
		fee = lateFee(loan.DueDate, returnDate)

		_, err = tx.Exec(`UPDATE issues SET return_date=?, late_fee=? WHERE issue_id=?`,
			returnDate.Format(dateLayout), fee, loanID)
		if err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}
		if err := incrementStock(tx, loan.BookID, 1); err != nil {
			return err
		}

		c.db.logInfo("book returned",
			"issue_id", loanID, "book_id", loan.BookID, "late_fee", fee)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return fee, nil
}

// lateFee charges FeePerDay per full calendar day past due. Both inputs are
// midnight-normalized dates, so the division is exact. Same-day or early
// return is free.
func lateFee(due, returned time.Time) float64 {
	daysLate := int(returned.Sub(due) / (24 * time.Hour))
	if daysLate <= 0 {
		return 0
	}
	return round2(float64(daysLate) * FeePerDay)
}

// loanDetailDataset is the joined base query all loan listings share.
func loanDetailDataset() *goqu.SelectDataset {
	return dialect.From(goqu.T("issues").As("i")).
		Join(goqu.T("members").As("m"), goqu.On(goqu.I("m.member_id").Eq(goqu.I("i.member_id")))).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.book_id").Eq(goqu.I("i.book_id")))).
		Select(
			goqu.I("i.issue_id"), goqu.I("i.member_id"), goqu.I("i.book_id"),
			goqu.I("i.issue_date"), goqu.I("i.due_date"), goqu.I("i.return_date"),
			goqu.I("i.late_fee"),
			goqu.I("m.name").As("member_name"),
			goqu.I("b.title").As("book_title"),
		)
}

// ActiveLoans lists loans not yet returned, most recently issued first.
func (c *Circulation) ActiveLoans() ([]LoanDetail, error) {
	ds := loanDetailDataset().
		Where(goqu.I("i.return_date").IsNull()).
		Order(goqu.I("i.issue_date").Desc())

	var loans []LoanDetail
	if err := c.db.selectSQL(&loans, ds); err != nil {
		return nil, err
	}
	return loans, nil
}

// LoansByMonth lists loans whose chosen date field falls inside the given
// month (inclusive first..last day), ordered by the return date when present,
// the issue date otherwise, descending.
func (c *Circulation) LoansByMonth(year, month int, filter LoanDateFilter) ([]LoanDetail, error) {
	first, last, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}
	span := goqu.Range(first.Format(dateLayout), last.Format(dateLayout))

	ds := loanDetailDataset().
		Order(goqu.L("COALESCE(i.return_date, i.issue_date)").Desc())

	switch filter {
	case IssuedIn:
		ds = ds.Where(goqu.I("i.issue_date").Between(span))
	case ReturnedIn:
		ds = ds.Where(goqu.I("i.return_date").Between(span))
	case EitherIn:
		ds = ds.Where(goqu.Or(
			goqu.I("i.issue_date").Between(span),
			goqu.I("i.return_date").Between(span),
		))
	default:
		return nil, fmt.Errorf("unknown loan date filter %d: %w", filter, ErrInvalidArgument)
	}

	var loans []LoanDetail
	if err := c.db.selectSQL(&loans, ds); err != nil {
		return nil, err
	}
	return loans, nil
}
