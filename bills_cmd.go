package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"librarydb/library"
)

const dateTimeFormat = "2006-01-02 15:04:05"

// parseLineRequests turns repeated --item BOOK_ID:QTY flags into requests.
func parseLineRequests(items []string) ([]library.LineRequest, error) {
	reqs := make([]library.LineRequest, 0, len(items))
	for _, item := range items {
		bookID, qtyStr, found := strings.Cut(item, ":")
		if !found || bookID == "" {
			return nil, fmt.Errorf("item must look like BOOK_ID:QTY, got %q", item)
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil {
			return nil, fmt.Errorf("item %q: quantity is not a number", item)
		}
		reqs = append(reqs, library.LineRequest{BookID: bookID, Qty: qty})
	}
	return reqs, nil
}

func printInvoices(invoices []library.InvoiceDetail) {
	if len(invoices) == 0 {
		fmt.Println("(no bills)")
		return
	}
	for _, inv := range invoices {
		fmt.Printf("Bill #%d | %s | %s (%s) | Subtotal: %.2f | Discount: %.2f%% (%.2f) | Total: %.2f\n",
			inv.ID, inv.Date.Format(dateTimeFormat), inv.CustomerName, inv.MembershipType,
			inv.Subtotal, inv.DiscountPct, inv.DiscountAmt, inv.GrandTotal)
	}
}

func newBillsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bills",
		Short: "Point-of-sale billing",
	}

	var (
		memberID int64
		items    []string
		discount float64
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a bill from one or more BOOK_ID:QTY items",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			reqs, err := parseLineRequests(items)
			if err != nil {
				return err
			}

			var member *int64
			if c.Flags().Changed("member") {
				member = &memberID
			}
			summary, err := lib.Billing.CreateInvoice(member, reqs, discount)
			if member != nil && errors.Is(err, library.ErrNotFound) {
				// Unknown member: bill as guest, like the front desk would.
				fmt.Printf("Member #%d not found. Billing as guest.\n", memberID)
				summary, err = lib.Billing.CreateInvoice(nil, reqs, discount)
			}
			if err != nil {
				return err
			}

			for _, s := range summary.Skipped {
				fmt.Printf("Skipped %s: %s\n", s.BookID, s.Reason)
			}
			fmt.Printf("Bill saved.\nBill ID: %d\nSubtotal: %.2f\nDiscount: %.2f%% (%.2f)\nGrand Total: %.2f\n",
				summary.ID, summary.Subtotal, summary.DiscountPct, summary.DiscountAmt, summary.GrandTotal)
			return nil
		},
	}
	create.Flags().Int64Var(&memberID, "member", 0, "member id (omit for a guest sale)")
	create.Flags().StringArrayVar(&items, "item", nil, "line item as BOOK_ID:QTY (repeatable)")
	create.Flags().Float64Var(&discount, "discount", 0, "discount percent, 0..100")
	create.MarkFlagRequired("item")

	var limit int
	recent := &cobra.Command{
		Use:   "recent",
		Short: "List the most recent bills",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			invoices, err := lib.Billing.RecentInvoices(limit)
			if err != nil {
				return err
			}
			printInvoices(invoices)
			return nil
		},
	}
	recent.Flags().IntVar(&limit, "limit", library.DefaultRecentInvoices, "maximum number of bills")

	month := &cobra.Command{
		Use:   "month YYYY-MM",
		Short: "List bills dated in a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			year, m, err := library.ParseMonth(args[0])
			if err != nil {
				return err
			}
			invoices, err := lib.Billing.InvoicesByMonth(year, m)
			if err != nil {
				return err
			}
			printInvoices(invoices)
			return nil
		},
	}

	itemsCmd := &cobra.Command{
		Use:   "items BILL_ID",
		Short: "Show a bill's line items",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			billID, err := parseID(args[0], "bill id")
			if err != nil {
				return err
			}
			lines, err := lib.Billing.InvoiceItems(billID)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				fmt.Println("(no items on this bill)")
				return nil
			}
			fmt.Printf("%-6s %-10s %-30s %4s %8s %10s\n", "Item", "Book", "Title", "Qty", "Unit", "Line")
			for _, l := range lines {
				fmt.Printf("%-6d %-10s %-30.30s %4d %8.2f %10.2f\n",
					l.ID, l.BookID, l.BookTitle, l.Qty, l.UnitPrice, l.LineTotal)
			}
			return nil
		},
	}

	cmd.AddCommand(create, recent, month, itemsCmd)
	return cmd
}
