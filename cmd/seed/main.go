// Command seed loads a small sample catalog, membership, and staff set into
// a fresh database so the CLI has something to work with.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"librarydb/library"
)

func main() {
	_ = godotenv.Load()
	dbPath := os.Getenv("LMS_DB")
	if dbPath == "" {
		dbPath = "library.db"
	}

	lib, err := library.NewLibrary(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer lib.Close()

	books := []library.Book{
		{ID: "B001", Title: "1984", Author: "George Orwell", Category: "Fiction", Price: 299.00, Stock: 5},
		{ID: "B002", Title: "Animal Farm", Author: "George Orwell", Category: "Fiction", Price: 199.00, Stock: 4},
		{ID: "B003", Title: "The Art of War", Author: "Sun Tzu", Category: "Strategy", Price: 149.50, Stock: 6},
		{ID: "B004", Title: "The Fellowship of the Ring", Author: "J.R.R. Tolkien", Category: "Fantasy", Price: 450.00, Stock: 3},
		{ID: "B005", Title: "The Two Towers", Author: "J.R.R. Tolkien", Category: "Fantasy", Price: 450.00, Stock: 3},
		{ID: "B006", Title: "Romeo and Juliet", Author: "William Shakespeare", Category: "Drama", Price: 120.00, Stock: 8},
		{ID: "B007", Title: "The Three Musketeers", Author: "Alexandre Dumas", Category: "Adventure", Price: 320.00, Stock: 2},
	}

	added, failed := 0, 0
	for _, b := range books {
		if err := lib.Catalog.AddBook(b); err != nil {
			fmt.Printf("Skipping %s: %v\n", b.ID, err)
			failed++
			continue
		}
		added++
	}

	members := []library.Member{
		{Name: "Alice Novak", Phone: "555-0101", Email: "alice@example.com", Class: library.VIP},
		{Name: "Bob Fischer", Phone: "555-0102", Class: library.Regular},
		{Name: "Charlie Osei", Phone: "555-0103", Email: "charlie@example.com", Class: library.Regular},
	}
	for _, m := range members {
		id, err := lib.Directory.AddMember(m)
		if err != nil {
			fmt.Printf("Skipping member %s: %v\n", m.Name, err)
			failed++
			continue
		}
		fmt.Printf("Member #%d: %s (%s)\n", id, m.Name, m.Class)
		added++
	}

	staff := []library.Staff{
		{Name: "Dana Ruiz", Role: "Librarian", Phone: "555-0201"},
		{Name: "Evan Park", Role: "Cashier", Phone: "555-0202"},
	}
	for _, s := range staff {
		if _, err := lib.Directory.AddStaff(s); err != nil {
			fmt.Printf("Skipping staff %s: %v\n", s.Name, err)
			failed++
			continue
		}
		added++
	}

	fmt.Printf("\nSeed complete: %d records added, %d skipped.\n", added, failed)
}
