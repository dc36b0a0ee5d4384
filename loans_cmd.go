package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"librarydb/library"
)

const dateFormat = "2006-01-02"

func printLoans(loans []library.LoanDetail) {
	if len(loans) == 0 {
		fmt.Println("(no records)")
		return
	}
	for _, l := range loans {
		status, returned := "Issued", "-"
		if l.Returned() {
			status = "Returned"
			returned = l.ReturnDate.Format(dateFormat)
		}
		fmt.Printf("Loan #%d | %s | Member: %s (#%d) | Book: %s (%s) | Issued: %s | Due: %s | Returned: %s | Late fee: %.2f\n",
			l.ID, status, l.MemberName, l.MemberID, l.BookTitle, l.BookID,
			l.IssueDate.Format(dateFormat), l.DueDate.Format(dateFormat), returned, l.LateFee)
	}
}

func newLoansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Issue and return books",
	}

	var days int
	issue := &cobra.Command{
		Use:   "issue MEMBER_ID BOOK_ID",
		Short: "Issue a book to a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			memberID, err := parseID(args[0], "member id")
			if err != nil {
				return err
			}
			loan, err := lib.Circulation.IssueBook(memberID, args[1], days)
			if err != nil {
				return err
			}
			fmt.Printf("Issued book %s to member #%d.\nLoan ID: %d | Due on %s\n",
				loan.BookID, loan.MemberID, loan.ID, loan.DueDate.Format(dateFormat))
			return nil
		},
	}
	issue.Flags().IntVar(&days, "days", library.DefaultLoanDays, "issue period in days")

	ret := &cobra.Command{
		Use:   "return LOAN_ID",
		Short: "Return a book and charge any late fee",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			loanID, err := parseID(args[0], "loan id")
			if err != nil {
				return err
			}
			fee, err := lib.Circulation.ReturnBook(loanID)
			if err != nil {
				return err
			}
			fmt.Printf("Returned. Late fee: %.2f\n", fee)
			return nil
		},
	}

	active := &cobra.Command{
		Use:   "active",
		Short: "List loans not yet returned",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			loans, err := lib.Circulation.ActiveLoans()
			if err != nil {
				return err
			}
			printLoans(loans)
			return nil
		},
	}

	var filterName string
	month := &cobra.Command{
		Use:   "month YYYY-MM",
		Short: "List loans touching a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			year, m, err := library.ParseMonth(args[0])
			if err != nil {
				return err
			}
			filters := map[string]library.LoanDateFilter{
				"issued":   library.IssuedIn,
				"returned": library.ReturnedIn,
				"any":      library.EitherIn,
			}
			filter, ok := filters[filterName]
			if !ok {
				return fmt.Errorf("--filter must be one of issued, returned, any")
			}
			loans, err := lib.Circulation.LoansByMonth(year, m, filter)
			if err != nil {
				return err
			}
			printLoans(loans)
			return nil
		},
	}
	month.Flags().StringVar(&filterName, "filter", "issued", "date field to match: issued, returned, any")

	cmd.AddCommand(issue, ret, active, month)
	return cmd
}
