package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"librarydb/library"
)

func newBooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Manage the catalog",
	}
	cmd.AddCommand(
		newBooksAddCmd(),
		newBooksListCmd(),
		newBooksSearchCmd(),
		newBooksUpdateCmd(),
		newBooksDeleteCmd(),
		newBooksStockCmd(),
	)
	return cmd
}

func newBooksAddCmd() *cobra.Command {
	var book library.Book
	cmd := &cobra.Command{
		Use:   "add BOOK_ID",
		Short: "Add a book to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			book.ID = args[0]
			if err := lib.Catalog.AddBook(book); err != nil {
				return err
			}
			fmt.Printf("Added book %s (%q by %s)\n", book.ID, book.Title, book.Author)
			return nil
		},
	}
	cmd.Flags().StringVar(&book.Title, "title", "", "book title")
	cmd.Flags().StringVar(&book.Author, "author", "", "book author")
	cmd.Flags().StringVar(&book.Category, "category", "", "category (optional)")
	cmd.Flags().Float64Var(&book.Price, "price", 0, "unit price")
	cmd.Flags().IntVar(&book.Stock, "stock", 0, "opening stock")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("author")
	return cmd
}

func printBooks(books []library.Book) {
	if len(books) == 0 {
		fmt.Println("(no books)")
		return
	}
	fmt.Printf("%-10s %-30s %-20s %-12s %8s %6s\n", "ID", "Title", "Author", "Category", "Price", "Stock")
	for _, b := range books {
		fmt.Printf("%-10s %-30.30s %-20.20s %-12.12s %8.2f %6d\n",
			b.ID, b.Title, b.Author, b.Category, b.Price, b.Stock)
	}
}

func newBooksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the catalog ordered by title",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			books, err := lib.Catalog.ListBooks()
			if err != nil {
				return err
			}
			printBooks(books)
			return nil
		},
	}
}

func newBooksSearchCmd() *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "search TERM",
		Short: "Search books by id, title, author, or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			fields := map[string]library.SearchField{
				"id":       library.SearchByID,
				"title":    library.SearchByTitle,
				"author":   library.SearchByAuthor,
				"category": library.SearchByCategory,
			}
			field, ok := fields[by]
			if !ok {
				return fmt.Errorf("--by must be one of id, title, author, category")
			}
			books, err := lib.Catalog.SearchBooks(field, args[0])
			if err != nil {
				return err
			}
			printBooks(books)
			return nil
		},
	}
	cmd.Flags().StringVar(&by, "by", "title", "field to search: id, title, author, category")
	return cmd
}

func newBooksUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update BOOK_ID",
		Short: "Update book fields; omitted flags keep the current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			upd := library.BookUpdate{
				Title:    stringPtr(c, "title"),
				Author:   stringPtr(c, "author"),
				Category: stringPtr(c, "category"),
				Price:    floatPtr(c, "price"),
				Stock:    intPtr(c, "stock"),
			}
			if err := lib.Catalog.UpdateBook(args[0], upd); err != nil {
				return err
			}
			fmt.Printf("Updated book %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().String("title", "", "new title")
	cmd.Flags().String("author", "", "new author")
	cmd.Flags().String("category", "", "new category")
	cmd.Flags().Float64("price", 0, "new price")
	cmd.Flags().Int("stock", 0, "new stock count")
	return cmd
}

func newBooksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete BOOK_ID",
		Short: "Delete a book from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := lib.Catalog.DeleteBook(args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted book %s\n", args[0])
			return nil
		},
	}
}

func newBooksStockCmd() *cobra.Command {
	var add, remove int
	cmd := &cobra.Command{
		Use:   "stock BOOK_ID",
		Short: "Adjust a book's stock count",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id := args[0]
			switch {
			case add > 0 && remove > 0:
				return fmt.Errorf("use either --add or --remove, not both")
			case add > 0:
				if err := lib.Catalog.IncrementStock(id, add); err != nil {
					return err
				}
			case remove > 0:
				if err := lib.Catalog.DecrementStock(id, remove); err != nil {
					return err
				}
			default:
				return fmt.Errorf("one of --add or --remove is required")
			}
			book, err := lib.Catalog.GetBook(id)
			if err != nil {
				return err
			}
			fmt.Printf("Book %s now has stock %s\n", id, strconv.Itoa(book.Stock))
			return nil
		},
	}
	cmd.Flags().IntVar(&add, "add", 0, "copies to add")
	cmd.Flags().IntVar(&remove, "remove", 0, "copies to remove")
	return cmd
}
