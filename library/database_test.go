package library

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source for date-sensitive tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AdvanceDays(days int) { c.now = c.now.AddDate(0, 0, days) }

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func tempLibrary(t *testing.T, opts ...Option) *Library {
	t.Helper()
	dir := t.TempDir()
	lib, err := NewLibrary(filepath.Join(dir, "test.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return lib
}

func mustAddBook(t *testing.T, lib *Library, b Book) {
	t.Helper()
	require.NoError(t, lib.Catalog.AddBook(b))
}

func mustAddMember(t *testing.T, lib *Library, m Member) int64 {
	t.Helper()
	id, err := lib.Directory.AddMember(m)
	require.NoError(t, err)
	return id
}

func TestNewDatabaseCreatesSchemaAndReopens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lms", "test.db") // parent dir does not exist yet

	lib, err := NewLibrary(path)
	require.NoError(t, err)
	mustAddBook(t, lib, Book{ID: "B1", Title: "Dune", Author: "Frank Herbert", Price: 10, Stock: 2})
	require.NoError(t, lib.Close())

	// Re-running migrations against an existing database is a no-op.
	lib, err = NewLibrary(path)
	require.NoError(t, err)
	defer lib.Close()

	b, err := lib.Catalog.GetBook("B1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, 2, b.Stock)
}

func TestWithClockControlsDates(t *testing.T) {
	clk := &fakeClock{now: date(2025, time.March, 10)}
	lib := tempLibrary(t, WithClock(clk.Now))

	mustAddBook(t, lib, Book{ID: "B1", Title: "T", Author: "A", Stock: 1})
	memberID := mustAddMember(t, lib, Member{Name: "Alice"})

	loan, err := lib.Circulation.IssueBook(memberID, "B1", 7)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.March, 10), loan.IssueDate)
	assert.Equal(t, date(2025, time.March, 17), loan.DueDate)
}
