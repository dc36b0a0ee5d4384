package library

import (
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
)

// VIPBonusPct is added on top of the stated discount for VIP members.
const VIPBonusPct = 10.0

// DefaultRecentInvoices bounds RecentInvoices when the caller passes 0.
const DefaultRecentInvoices = 20

// LineRequest asks for qty copies of a book on an invoice.
type LineRequest struct {
	BookID string
	Qty    int
}

// SkippedLine reports a requested line that was left off the invoice and why.
// A skipped line never aborts the sale; only an invoice with zero surviving
// lines fails.
type SkippedLine struct {
	BookID string
	Reason string
}

// InvoiceSummary is the result of a successful sale.
type InvoiceSummary struct {
	Invoice
	Lines   []InvoiceLine
	Skipped []SkippedLine
}

// Billing composes sales from Catalog lookups, applies the discount policy,
// and persists invoices with their line items.
type Billing struct {
	db *Database
}

// CreateInvoice creates a sale for a member (nil memberID = guest).
//
// Unknown books and lines exceeding current stock are skipped, not fatal;
// they come back in the summary. An unknown member id fails with ErrNotFound
// so the caller can decide to retry as guest. Discount stacking: the stated
// percentage (0..100) plus a 10-point VIP bonus, capped at 100.
//
// Everything — line validation, the bill row, its items, and the stock
// decrements — happens in one transaction, so either the whole invoice
// lands or none of it does.
func (b *Billing) CreateInvoice(memberID *int64, reqs []LineRequest, discountPct float64) (*InvoiceSummary, error) {
	if discountPct < 0 || discountPct > 100 {
		return nil, fmt.Errorf("discount must be in [0,100], got %v: %w", discountPct, ErrInvalidArgument)
	}

	var summary InvoiceSummary
	err := b.db.withTx(func(tx *sqlx.Tx) error {
		class := Regular
		if memberID != nil {
			member, err := getMember(tx, *memberID)
			if err != nil {
				return err
			}
			class = member.Class
		}

		var (
			lines    []InvoiceLine
			skipped  []SkippedLine
			subtotal float64
		)
		for _, req := range reqs {
			if req.Qty < 1 {
				skipped = append(skipped, SkippedLine{req.BookID, "quantity must be >= 1"})
				continue
			}
			book, err := getBook(tx, req.BookID)
			if errors.Is(err, ErrNotFound) {
				skipped = append(skipped, SkippedLine{req.BookID, "book not found"})
				continue
			}
			if err != nil {
				return err
			}
			if book.Stock < req.Qty {
				skipped = append(skipped, SkippedLine{req.BookID,
					fmt.Sprintf("not enough stock (%d available)", book.Stock)})
				continue
			}

			line := InvoiceLine{
				BookID:    req.BookID,
				Qty:       req.Qty,
				UnitPrice: book.Price,
				LineTotal: round2(book.Price * float64(req.Qty)),
			}
			lines = append(lines, line)
			subtotal += line.LineTotal
		}
		for _, s := range skipped {
			b.db.logWarn("bill line skipped", "book_id", s.BookID, "reason", s.Reason)
		}
		if len(lines) == 0 {
			return fmt.Errorf("no sellable lines: %w", ErrEmptyInvoice)
		}
		subtotal = round2(subtotal)

		totalPct := discountPct
		if class == VIP {
			totalPct += VIPBonusPct
		}
		if totalPct > 100 {
			totalPct = 100
		}
		discountAmt := round2(subtotal * totalPct / 100)
		grandTotal := round2(subtotal - discountAmt)
		if grandTotal < 0 {
			grandTotal = 0
		}

		billedAt := b.db.now().Truncate(time.Second)
		res, err := tx.Exec(
			`INSERT INTO bills (member_id, bill_date, subtotal, discount_pct, discount_amt, grand_total)
             VALUES (?,?,?,?,?,?)`,
			memberID, billedAt.Format(dateTimeLayout), subtotal, totalPct, discountAmt, grandTotal)
		if err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}
		billID, err := res.LastInsertId()
		if err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}

		for i := range lines {
			lines[i].InvoiceID = billID
			itemRes, err := tx.Exec(
				`INSERT INTO bill_items (bill_id, book_id, qty, unit_price, line_total) VALUES (?,?,?,?,?)`,
				billID, lines[i].BookID, lines[i].Qty, lines[i].UnitPrice, lines[i].LineTotal)
			if err != nil {
				return errors.Join(ErrStoreUnavailable, err)
			}
			if lines[i].ID, err = itemRes.LastInsertId(); err != nil {
				return errors.Join(ErrStoreUnavailable, err)
			}
			// Stock was checked when the line was built, but the decrement is
			// conditional anyway: if anything invalidated that check the whole
			// invoice rolls back.
			if err := decrementStock(tx, lines[i].BookID, lines[i].Qty); err != nil {
				return err
			}
		}

		summary = InvoiceSummary{
			Invoice: Invoice{
				ID:          billID,
				MemberID:    memberID,
				Date:        billedAt,
				Subtotal:    subtotal,
				DiscountPct: totalPct,
				DiscountAmt: discountAmt,
				GrandTotal:  grandTotal,
			},
			Lines:   lines,
			Skipped: skipped,
		}
		b.db.logInfo("bill created",
			"bill_id", billID, "lines", len(lines), "skipped", len(skipped),
			"subtotal", subtotal, "grand_total", grandTotal)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// invoiceDetailDataset is the joined base query all invoice listings share.
// The member join is LEFT so guest sales survive with placeholder fields.
func invoiceDetailDataset() *goqu.SelectDataset {
	return dialect.From(goqu.T("bills").As("bl")).
		LeftJoin(goqu.T("members").As("m"), goqu.On(goqu.I("m.member_id").Eq(goqu.I("bl.member_id")))).
		Select(
			goqu.I("bl.bill_id"), goqu.I("bl.member_id"), goqu.I("bl.bill_date"),
			goqu.I("bl.subtotal"), goqu.I("bl.discount_pct"), goqu.I("bl.discount_amt"),
			goqu.I("bl.grand_total"),
			goqu.L("COALESCE(m.name, 'Guest')").As("customer_name"),
			goqu.L("COALESCE(m.membership_type, '-')").As("membership_type"),
		)
}

// RecentInvoices lists the newest invoices by id descending; limit 0 means
// the default of 20.
func (b *Billing) RecentInvoices(limit int) ([]InvoiceDetail, error) {
	if limit <= 0 {
		limit = DefaultRecentInvoices
	}
	ds := invoiceDetailDataset().
		Order(goqu.I("bl.bill_id").Desc()).
		Limit(uint(limit))

	var invoices []InvoiceDetail
	if err := b.db.selectSQL(&invoices, ds); err != nil {
		return nil, err
	}
	return invoices, nil
}

// InvoicesByMonth lists invoices dated inside the given month, newest first.
func (b *Billing) InvoicesByMonth(year, month int) ([]InvoiceDetail, error) {
	first, last, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}
	ds := invoiceDetailDataset().
		Where(goqu.L("DATE(bl.bill_date)").Between(
			goqu.Range(first.Format(dateLayout), last.Format(dateLayout)))).
		Order(goqu.I("bl.bill_date").Desc())

	var invoices []InvoiceDetail
	if err := b.db.selectSQL(&invoices, ds); err != nil {
		return nil, err
	}
	return invoices, nil
}

// InvoiceItems lists an invoice's lines ordered by item id. A missing invoice
// is ErrNotFound; an existing invoice with no lines is an empty slice — the
// two states are deliberately distinct.
func (b *Billing) InvoiceItems(billID int64) ([]LineDetail, error) {
	var exists bool
	err := b.db.db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM bills WHERE bill_id=?)`, billID)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	if !exists {
		return nil, fmt.Errorf("bill %d: %w", billID, ErrNotFound)
	}

	ds := dialect.From(goqu.T("bill_items").As("bi")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.book_id").Eq(goqu.I("bi.book_id")))).
		Select(
			goqu.I("bi.item_id"), goqu.I("bi.bill_id"), goqu.I("bi.book_id"),
			goqu.I("bi.qty"), goqu.I("bi.unit_price"), goqu.I("bi.line_total"),
			goqu.I("b.title").As("book_title"),
		).
		Where(goqu.I("bi.bill_id").Eq(billID)).
		Order(goqu.I("bi.item_id").Asc())

	items := []LineDetail{}
	if err := b.db.selectSQL(&items, ds); err != nil {
		return nil, err
	}
	return items, nil
}
