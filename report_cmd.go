package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"librarydb/library"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report YYYY-MM",
		Short: "Monthly circulation and billing summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			year, month, err := library.ParseMonth(args[0])
			if err != nil {
				return err
			}
			s, err := lib.Reports.Monthly(year, month)
			if err != nil {
				return err
			}

			fmt.Printf("=== Report for %04d-%02d ===\n", s.Year, s.Month)
			fmt.Printf("Loans issued:        %d\n", s.LoansIssued)
			fmt.Printf("Loans returned:      %d\n", s.LoansReturned)
			fmt.Printf("Late fees collected: %.2f\n", s.LateFeesCollected)
			fmt.Printf("Bills:               %d\n", s.InvoiceCount)
			fmt.Printf("Gross sales:         %.2f\n", s.GrossSales)
			fmt.Printf("Discounts given:     %.2f\n", s.DiscountsGiven)

			fmt.Println("\n--- Loans ---")
			printLoans(s.Loans)
			fmt.Println("\n--- Bills ---")
			printInvoices(s.Invoices)
			return nil
		},
	}
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tables and detailed views as CSV",
	}

	runExport := func(out string, write func(f *os.File) error) error {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		if err := write(f); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", out)
		return f.Close()
	}

	var tableOut string
	table := &cobra.Command{
		Use:   "table NAME",
		Short: "Export one raw table (books, staff, members, issues, bills, bill_items)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := library.ParseTable(args[0])
			if err != nil {
				return err
			}
			out := tableOut
			if out == "" {
				out = args[0] + ".csv"
			}
			return runExport(out, func(f *os.File) error { return lib.Export.ExportTable(t, f) })
		},
	}
	table.Flags().StringVar(&tableOut, "out", "", "destination file (default NAME.csv)")

	var loansOut string
	loans := &cobra.Command{
		Use:   "loans",
		Short: "Export loans joined with member and book details",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runExport(loansOut, func(f *os.File) error { return lib.Export.ExportLoansDetailed(f) })
		},
	}
	loans.Flags().StringVar(&loansOut, "out", "issues_detailed.csv", "destination file")

	var billsOut string
	bills := &cobra.Command{
		Use:   "bills",
		Short: "Export bills joined with customer details",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runExport(billsOut, func(f *os.File) error { return lib.Export.ExportInvoicesDetailed(f) })
		},
	}
	bills.Flags().StringVar(&billsOut, "out", "bills_detailed.csv", "destination file")

	cmd.AddCommand(table, loans, bills)
	return cmd
}
