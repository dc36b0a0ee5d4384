package library

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Table names one of the exportable relations. It is a closed enum: anything
// outside ParseTable's allow-list is rejected before the store is touched,
// and the per-table queries below never interpolate caller input.
type Table string

const (
	TableBooks     Table = "books"
	TableStaff     Table = "staff"
	TableMembers   Table = "members"
	TableIssues    Table = "issues"
	TableBills     Table = "bills"
	TableBillItems Table = "bill_items"
)

// ParseTable maps a caller-supplied identifier onto the allow-list.
func ParseTable(name string) (Table, error) {
	switch Table(name) {
	case TableBooks, TableStaff, TableMembers, TableIssues, TableBills, TableBillItems:
		return Table(name), nil
	}
	return "", fmt.Errorf("table %q is not exportable: %w", name, ErrInvalidArgument)
}

// Exporter writes raw and joined table snapshots as CSV.
type Exporter struct {
	db *Database
}

// tableQueries pins one literal statement per enum value.
var tableQueries = map[Table]string{
	TableBooks:     `SELECT book_id,title,author,category,price,stock FROM books ORDER BY book_id`,
	TableStaff:     `SELECT staff_id,name,role,phone FROM staff ORDER BY staff_id`,
	TableMembers:   `SELECT member_id,name,phone,email,membership_type FROM members ORDER BY member_id`,
	TableIssues:    `SELECT issue_id,member_id,book_id,issue_date,due_date,return_date,late_fee FROM issues ORDER BY issue_id`,
	TableBills:     `SELECT bill_id,member_id,bill_date,subtotal,discount_pct,discount_amt,grand_total FROM bills ORDER BY bill_id`,
	TableBillItems: `SELECT item_id,bill_id,book_id,qty,unit_price,line_total FROM bill_items ORDER BY item_id`,
}

// ExportTable writes one relation as CSV with a header row.
func (e *Exporter) ExportTable(t Table, w io.Writer) error {
	query, ok := tableQueries[t]
	if !ok {
		return fmt.Errorf("table %q is not exportable: %w", t, ErrInvalidArgument)
	}
	return e.writeQuery(w, query)
}

// ExportLoansDetailed writes every loan joined with member and book display
// fields, newest first.
func (e *Exporter) ExportLoansDetailed(w io.Writer) error {
	return e.writeQuery(w, `
        SELECT i.issue_id,
               m.member_id, m.name AS member_name, m.membership_type,
               b.book_id, b.title AS book_title,
               i.issue_date, i.due_date, i.return_date, i.late_fee
        FROM issues i
        JOIN members m ON m.member_id = i.member_id
        JOIN books b   ON b.book_id   = i.book_id
        ORDER BY i.issue_id DESC`)
}

// ExportInvoicesDetailed writes every invoice with its customer display
// fields, newest first. Guest invoices carry "Guest" / "-".
func (e *Exporter) ExportInvoicesDetailed(w io.Writer) error {
	return e.writeQuery(w, `
        SELECT bl.bill_id, bl.bill_date,
               COALESCE(m.name,'Guest') AS customer,
               COALESCE(m.membership_type,'-') AS membership_type,
               bl.subtotal, bl.discount_pct, bl.discount_amt, bl.grand_total
        FROM bills bl
        LEFT JOIN members m ON m.member_id = bl.member_id
        ORDER BY bl.bill_id DESC`)
}

// writeQuery runs one fixed query and streams header plus rows as CSV.
func (e *Exporter) writeQuery(w io.Writer, query string) error {
	rows, err := e.db.db.Queryx(query)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(cols))
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}
		for i, v := range vals {
			record[i] = csvValue(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	cw.Flush()
	return cw.Error()
}

// csvValue renders a scanned column. Currency columns are the only floats in
// the schema, so floats always print with two fractional digits.
func csvValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 {
			return val.Format(dateLayout)
		}
		return val.Format(dateTimeLayout)
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', 2, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
