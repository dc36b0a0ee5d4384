package library

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
)

// Catalog owns book records and stock counts. Stock is mutated here and
// nowhere else; Circulation and Billing go through the tx-scoped helpers so
// that a stock change and its paired loan/invoice rows commit together.
type Catalog struct {
	db *Database
}

// SearchField selects which column a catalog search matches against.
type SearchField int

const (
	SearchByID SearchField = iota
	SearchByTitle
	SearchByAuthor
	SearchByCategory
)

var bookColumns = []any{"book_id", "title", "author", "category", "price", "stock"}

// AddBook inserts a new book. The id is caller-chosen and must be unique.
func (c *Catalog) AddBook(b Book) error {
	if b.ID == "" {
		return fmt.Errorf("book id must not be empty: %w", ErrInvalidArgument)
	}
	if b.Price < 0 {
		return fmt.Errorf("price must be >= 0: %w", ErrInvalidArgument)
	}
	if b.Stock < 0 {
		return fmt.Errorf("stock must be >= 0: %w", ErrInvalidArgument)
	}

	_, err := c.db.addBookStmt.Exec(b.ID, b.Title, b.Author, b.Category, round2(b.Price), b.Stock)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("book %q: %w", b.ID, ErrDuplicateKey)
		}
		return errors.Join(ErrStoreUnavailable, err)
	}
	c.db.logDebug("book added", "book_id", b.ID, "stock", b.Stock)
	return nil
}

// GetBook fetches a single book.
func (c *Catalog) GetBook(id string) (*Book, error) {
	return getBook(c.db.db, id)
}

// getBook works against the DB handle or an open transaction.
func getBook(q sqlx.Queryer, id string) (*Book, error) {
	var b Book
	err := sqlx.Get(q, &b,
		`SELECT book_id,title,author,category,price,stock FROM books WHERE book_id=?`, id)
	if isNoRows(err) {
		return nil, fmt.Errorf("book %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return &b, nil
}

// UpdateBook applies a partial update; nil fields keep the previous value.
// The read and write share one transaction so concurrent edits cannot
// interleave between them.
func (c *Catalog) UpdateBook(id string, upd BookUpdate) error {
	return c.db.withTx(func(tx *sqlx.Tx) error {
		b, err := getBook(tx, id)
		if err != nil {
			return err
		}
		if upd.Title != nil {
			b.Title = *upd.Title
		}
		if upd.Author != nil {
			b.Author = *upd.Author
		}
		if upd.Category != nil {
			b.Category = *upd.Category
		}
		if upd.Price != nil {
			if *upd.Price < 0 {
				return fmt.Errorf("price must be >= 0: %w", ErrInvalidArgument)
			}
			b.Price = *upd.Price
		}
		if upd.Stock != nil {
			if *upd.Stock < 0 {
				return fmt.Errorf("stock must be >= 0: %w", ErrInvalidArgument)
			}
			b.Stock = *upd.Stock
		}

		_, err = tx.Exec(
			`UPDATE books SET title=?, author=?, category=?, price=?, stock=? WHERE book_id=?`,
			b.Title, b.Author, b.Category, round2(b.Price), b.Stock, id)
		if err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}
		return nil
	})
}

// DeleteBook removes a book. Deleting a book that still has loan or invoice
// rows fails on the foreign key and surfaces as a store error.
func (c *Catalog) DeleteBook(id string) error {
	res, err := c.db.db.Exec(`DELETE FROM books WHERE book_id=?`, id)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("book %q: %w", id, ErrNotFound)
	}
	return nil
}

// ListBooks returns the full catalog ordered by title.
func (c *Catalog) ListBooks() ([]Book, error) {
	ds := dialect.From("books").
		Select(bookColumns...).
		Order(goqu.C("title").Asc())

	var books []Book
	if err := c.db.selectSQL(&books, ds); err != nil {
		return nil, err
	}
	return books, nil
}

// SearchBooks matches the catalog against one field: exact match for the id,
// substring match for the text fields. SQLite's LIKE is case-insensitive for
// ASCII, which is the contract here.
func (c *Catalog) SearchBooks(field SearchField, term string) ([]Book, error) {
	ds := dialect.From("books").
		Select(bookColumns...).
		Order(goqu.C("title").Asc())

	switch field {
	case SearchByID:
		ds = ds.Where(goqu.C("book_id").Eq(term))
	case SearchByTitle:
		ds = ds.Where(goqu.C("title").Like("%" + term + "%"))
	case SearchByAuthor:
		ds = ds.Where(goqu.C("author").Like("%" + term + "%"))
	case SearchByCategory:
		ds = ds.Where(goqu.C("category").Like("%" + term + "%"))
	default:
		return nil, fmt.Errorf("unknown search field %d: %w", field, ErrInvalidArgument)
	}

	var books []Book
	if err := c.db.selectSQL(&books, ds); err != nil {
		return nil, err
	}
	return books, nil
}

// IncrementStock raises a book's stock count by qty.
func (c *Catalog) IncrementStock(id string, qty int) error {
	return c.db.withTx(func(tx *sqlx.Tx) error {
		return incrementStock(tx, id, qty)
	})
}

// DecrementStock lowers a book's stock count by qty, failing before any
// mutation if the result would go negative.
func (c *Catalog) DecrementStock(id string, qty int) error {
	return c.db.withTx(func(tx *sqlx.Tx) error {
		return decrementStock(tx, id, qty)
	})
}

func incrementStock(tx *sqlx.Tx, id string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be >= 1: %w", ErrInvalidArgument)
	}
	res, err := tx.Exec(`UPDATE books SET stock = stock + ? WHERE book_id=?`, qty, id)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("book %q: %w", id, ErrNotFound)
	}
	return nil
}

// decrementStock is conditional on sufficient stock, so a concurrent writer
// can never drive the count negative.
func decrementStock(tx *sqlx.Tx, id string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be >= 1: %w", ErrInvalidArgument)
	}
	res, err := tx.Exec(`UPDATE books SET stock = stock - ? WHERE book_id=? AND stock >= ?`, qty, id, qty)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	// Zero rows means either an unknown book or not enough stock.
	if _, err := getBook(tx, id); err != nil {
		return err
	}
	return fmt.Errorf("book %q: need %d: %w", id, qty, ErrInsufficientStock)
}
