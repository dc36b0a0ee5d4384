package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvoiceVIPStacksDiscount(t *testing.T) {
	lib := tempLibrary(t)
	mustAddBook(t, lib, Book{ID: "B001", Title: "A", Price: 300, Stock: 5})
	mustAddBook(t, lib, Book{ID: "B002", Title: "B", Price: 400, Stock: 5})
	vip := mustAddMember(t, lib, Member{Name: "Alice", Class: VIP})

	summary, err := lib.Billing.CreateInvoice(&vip, []LineRequest{
		{BookID: "B001", Qty: 2}, // 600
		{BookID: "B002", Qty: 1}, // 400
	}, 5)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, summary.Subtotal)
	assert.Equal(t, 15.0, summary.DiscountPct) // stated 5 + VIP 10
	assert.Equal(t, 150.0, summary.DiscountAmt)
	assert.Equal(t, 850.0, summary.GrandTotal)
	assert.Empty(t, summary.Skipped)
	require.Len(t, summary.Lines, 2)
	assert.Equal(t, 600.0, summary.Lines[0].LineTotal)

	// Stock came down per line.
	b, err := lib.Catalog.GetBook("B001")
	require.NoError(t, err)
	assert.Equal(t, 3, b.Stock)
	b, err = lib.Catalog.GetBook("B002")
	require.NoError(t, err)
	assert.Equal(t, 4, b.Stock)
}

func TestCreateInvoiceRegularMember(t *testing.T) {
	lib := tempLibrary(t)
	mustAddBook(t, lib, Book{ID: "B001", Title: "A", Price: 200, Stock: 3})
	id := mustAddMember(t, lib, Member{Name: "Bob", Class: Regular})

	summary, err := lib.Billing.CreateInvoice(&id, []LineRequest{{BookID: "B001", Qty: 1}}, 10)
	require.NoError(t, err)
	assert.Equal(t, 10.0, summary.DiscountPct) // no VIP bonus
	assert.Equal(t, 180.0, summary.GrandTotal)
}

func TestCreateInvoiceGuest(t *testing.T) {
	lib := tempLibrary(t)
	mustAddBook(t, lib, Book{ID: "B001", Title: "A", Price: 100, Stock: 2})

	summary, err := lib.Billing.CreateInvoice(nil, []LineRequest{{BookID: "B001", Qty: 2}}, 0)
	require.NoError(t, err)
	assert.Nil(t, summary.MemberID)
	assert.Equal(t, 200.0, summary.GrandTotal)

	invoices, err := lib.Billing.RecentInvoices(0)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "Guest", invoices[0].CustomerName)
	assert.Equal(t, "-", invoices[0].MembershipType)
}

func TestCreateInvoiceDiscountCap(t *testing.T) {
	lib := tempLibrary(t)
	mustAddBook(t, lib, Book{ID: "B001", Title: "A", Price: 100, Stock: 1})
	vip := mustAddMember(t, lib, Member{Name: "Alice", Class: VIP})

	// 95 stated + 10 VIP caps at 100, never beyond.
	summary, err := lib.Billing.CreateInvoice(&vip, []LineRequest{{BookID: "B001", Qty: 1}}, 95)
	require.NoError(t, err)
	assert.Equal(t, 100.0, summary.DiscountPct)
	assert.Equal(t, 100.0, summary.DiscountAmt)
	assert.Equal(t, 0.0, summary.GrandTotal)
}

func TestCreateInvoiceDiscountValidation(t *testing.T) {
	lib := tempLibrary(t)
	mustAddBook(t, lib, Book{ID: "B001", Title: "A", Price: 100, Stock: 1})

	_, err := lib.Billing.CreateInvoice(nil, []LineRequest{{BookID: "B001", Qty: 1}}, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = lib.Billing.CreateInvoice(nil, []LineRequest{{BookID: "B001", Qty: 1}}, 100.5)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateInvoiceUnknownMember(t *testing.T) {
	lib := tempLibrary(t)
	mustAddBook(t, lib, Book{ID: "B001", Title: "A", Price: 100, Stock: 1})

	missing := int64(77)
	_, err := lib.Billing.CreateInvoice(&missing, []LineRequest{{BookID: "B001", Qty: 1}}, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateInvoiceSkipsBadLines(t *testing.T) {
	lib := tempLibrary(t)
	mustAddBook(t, lib, Book{ID: "B001", Title: "A", Price: 100, Stock: 5})
	mustAddBook(t, lib, Book{ID: "B002", Title: "B", Price: 50, Stock: 1})

	summary, err := lib.Billing.CreateInvoice(nil, []LineRequest{
		{BookID: "B001", Qty: 1},   // fine
		{BookID: "missing", Qty: 1}, // unknown book
		{BookID: "B002", Qty: 3},   // exceeds stock of 1
		{BookID: "B001", Qty: 0},   // bad quantity
	}, 0)
	require.NoError(t, err)

	require.Len(t, summary.Lines, 1)
	assert.Equal(t, 100.0, summary.GrandTotal)
	require.Len(t, summary.Skipped, 3)

	reasons := map[string]string{}
	for _, s := range summary.Skipped {
		reasons[s.BookID] = s.Reason
	}
	assert.Equal(t, "book not found", reasons["missing"])
	assert.Contains(t, reasons["B002"], "not enough stock")

	// Skipped lines left their stock alone.
	b, err := lib.Catalog.GetBook("B002")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Stock)
}

func TestCreateInvoiceAllLinesSkipped(t *testing.T) {
	lib := tempLibrary(t)
	mustAddBook(t, lib, Book{ID: "B001", Title: "A", Price: 100, Stock: 1})

	_, err := lib.Billing.CreateInvoice(nil, []LineRequest{
		{BookID: "missing", Qty: 1},
		{BookID: "B001", Qty: 5},
	}, 0)
	assert.ErrorIs(t, err, ErrEmptyInvoice)

	// Nothing persisted, nothing deducted.
	invoices, lerr := lib.Billing.RecentInvoices(0)
	require.NoError(t, lerr)
	assert.Empty(t, invoices)
	b, gerr := lib.Catalog.GetBook("B001")
	require.NoError(t, gerr)
	assert.Equal(t, 1, b.Stock)
}

func TestCreateInvoiceNoLines(t *testing.T) {
	lib := tempLibrary(t)
	_, err := lib.Billing.CreateInvoice(nil, nil, 0)
	assert.ErrorIs(t, err, ErrEmptyInvoice)
}

func TestRecentInvoices(t *testing.T) {
	lib := tempLibrary(t)
	mustAddBook(t, lib, Book{ID: "B001", Title: "A", Price: 10, Stock: 10})

	var ids []int64
	for i := 0; i < 3; i++ {
		summary, err := lib.Billing.CreateInvoice(nil, []LineRequest{{BookID: "B001", Qty: 1}}, 0)
		require.NoError(t, err)
		ids = append(ids, summary.ID)
	}

	invoices, err := lib.Billing.RecentInvoices(2)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, ids[2], invoices[0].ID) // newest first
	assert.Equal(t, ids[1], invoices[1].ID)
}

func TestInvoicesByMonth(t *testing.T) {
	clk := &fakeClock{now: date(2025, time.July, 15)}
	lib := tempLibrary(t, WithClock(clk.Now))
	mustAddBook(t, lib, Book{ID: "B001", Title: "A", Price: 10, Stock: 10})

	_, err := lib.Billing.CreateInvoice(nil, []LineRequest{{BookID: "B001", Qty: 1}}, 0)
	require.NoError(t, err)

	clk.now = date(2025, time.August, 31)
	augustBill, err := lib.Billing.CreateInvoice(nil, []LineRequest{{BookID: "B001", Qty: 1}}, 0)
	require.NoError(t, err)

	invoices, err := lib.Billing.InvoicesByMonth(2025, 8)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, augustBill.ID, invoices[0].ID)

	invoices, err = lib.Billing.InvoicesByMonth(2025, 6)
	require.NoError(t, err)
	assert.Empty(t, invoices)

	_, err = lib.Billing.InvoicesByMonth(2025, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestInvoiceItems(t *testing.T) {
	lib := tempLibrary(t)
	mustAddBook(t, lib, Book{ID: "B001", Title: "First", Price: 100, Stock: 5})
	mustAddBook(t, lib, Book{ID: "B002", Title: "Second", Price: 50, Stock: 5})

	summary, err := lib.Billing.CreateInvoice(nil, []LineRequest{
		{BookID: "B001", Qty: 2},
		{BookID: "B002", Qty: 1},
	}, 0)
	require.NoError(t, err)

	items, err := lib.Billing.InvoiceItems(summary.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "B001", items[0].BookID)
	assert.Equal(t, "First", items[0].BookTitle)
	assert.Equal(t, 2, items[0].Qty)
	assert.Equal(t, 200.0, items[0].LineTotal)
	assert.Equal(t, "Second", items[1].BookTitle)

	_, err = lib.Billing.InvoiceItems(summary.ID + 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
