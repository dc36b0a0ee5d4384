package library

import (
	"strings"
	"time"
)

// MembershipClass is the closed set of membership tiers. Anything else the
// caller supplies is normalized rather than rejected; see ParseMembershipClass.
type MembershipClass string

const (
	Regular MembershipClass = "Regular"
	VIP     MembershipClass = "VIP"
)

// ParseMembershipClass matches s against the known classes ignoring case and
// returns the canonical constant. The boolean lets callers decide between
// falling back to the default (create) and keeping the previous value
// (update); invalid input never errors.
func ParseMembershipClass(s string) (MembershipClass, bool) {
	switch {
	case strings.EqualFold(s, string(Regular)):
		return Regular, true
	case strings.EqualFold(s, string(VIP)):
		return VIP, true
	}
	return Regular, false
}

// Book represents a title in the catalog with its on-hand stock count.
// The id is a caller-chosen code (e.g. "B001"), not generated.
type Book struct {
	ID       string  `db:"book_id"`
	Title    string  `db:"title"`
	Author   string  `db:"author"`
	Category string  `db:"category"`
	Price    float64 `db:"price"`
	Stock    int     `db:"stock"`
}

// Member represents a registered library member.
type Member struct {
	ID    int64           `db:"member_id"`
	Name  string          `db:"name"`
	Phone string          `db:"phone"`
	Email string          `db:"email"`
	Class MembershipClass `db:"membership_type"`
}

// Staff is a pure directory record; it has no relation to circulation or billing.
type Staff struct {
	ID    int64  `db:"staff_id"`
	Name  string `db:"name"`
	Role  string `db:"role"`
	Phone string `db:"phone"`
}

// Loan records one issuance of a book to a member. ReturnDate is nil while the
// loan is active; once set, the row is terminal and LateFee is fixed forever.
type Loan struct {
	ID         int64      `db:"issue_id"`
	MemberID   int64      `db:"member_id"`
	BookID     string     `db:"book_id"`
	IssueDate  time.Time  `db:"issue_date"`
	DueDate    time.Time  `db:"due_date"`
	ReturnDate *time.Time `db:"return_date"`
	LateFee    float64    `db:"late_fee"`
}

// Returned reports whether the loan has been closed.
func (l Loan) Returned() bool { return l.ReturnDate != nil }

// Invoice is a billing transaction header. MemberID is nil for guest sales.
// Immutable once created.
type Invoice struct {
	ID          int64     `db:"bill_id"`
	MemberID    *int64    `db:"member_id"`
	Date        time.Time `db:"bill_date"`
	Subtotal    float64   `db:"subtotal"`
	DiscountPct float64   `db:"discount_pct"`
	DiscountAmt float64   `db:"discount_amt"`
	GrandTotal  float64   `db:"grand_total"`
}

// InvoiceLine is one position of an invoice. UnitPrice is a snapshot of the
// book's price at sale time.
type InvoiceLine struct {
	ID        int64   `db:"item_id"`
	InvoiceID int64   `db:"bill_id"`
	BookID    string  `db:"book_id"`
	Qty       int     `db:"qty"`
	UnitPrice float64 `db:"unit_price"`
	LineTotal float64 `db:"line_total"`
}

// LoanDetail is a loan joined with member and book display fields, used by
// listings, reports, and exports.
type LoanDetail struct {
	Loan
	MemberName string `db:"member_name"`
	BookTitle  string `db:"book_title"`
}

// InvoiceDetail is an invoice joined with the customer's display fields.
// Guest invoices carry "Guest" / "-".
type InvoiceDetail struct {
	Invoice
	CustomerName   string `db:"customer_name"`
	MembershipType string `db:"membership_type"`
}

// LineDetail is an invoice line joined with the book title.
type LineDetail struct {
	InvoiceLine
	BookTitle string `db:"book_title"`
}

// BookUpdate is a partial update request for a book. Nil fields keep the
// previous value; this makes the "leave blank to keep" policy of the data
// entry front end an explicit contract instead of silent string validation.
type BookUpdate struct {
	Title    *string
	Author   *string
	Category *string
	Price    *float64
	Stock    *int
}

// MemberUpdate is a partial update request for a member. Nil fields keep the
// previous value. Class goes through ParseMembershipClass; an invalid class
// keeps the previous value.
type MemberUpdate struct {
	Name  *string
	Phone *string
	Email *string
	Class *string
}

// StaffUpdate is a partial update request for a staff record.
type StaffUpdate struct {
	Name  *string
	Role  *string
	Phone *string
}
