package library

// Library wires every component around one shared store handle. The handle is
// owned by the process entry point: open it once, pass the components around,
// close it at shutdown.
type Library struct {
	db *Database

	Catalog     *Catalog
	Directory   *Directory
	Circulation *Circulation
	Billing     *Billing
	Reports     *Reports
	Export      *Exporter
}

// NewLibrary opens (or creates) the SQLite database at dbPath and builds the
// component set on top of it.
func NewLibrary(dbPath string, opts ...Option) (*Library, error) {
	db, err := NewDatabase(dbPath, opts...)
	if err != nil {
		return nil, err
	}

	l := &Library{
		db:          db,
		Catalog:     &Catalog{db: db},
		Directory:   &Directory{db: db},
		Circulation: &Circulation{db: db},
		Billing:     &Billing{db: db},
		Export:      &Exporter{db: db},
	}
	l.Reports = &Reports{circulation: l.Circulation, billing: l.Billing}
	return l, nil
}

// Close closes the underlying database.
func (l *Library) Close() error { return l.db.Close() }
