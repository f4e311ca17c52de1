package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"inventory-catalog/models"
	"inventory-catalog/utils"
)

// ErrDatabaseNotFound is returned when a file-backed database does not exist.
var ErrDatabaseNotFound = errors.New("database not found")

// Columns are alias-qualified because "condition" is reserved in MySQL.
const itemColumns = `
	i.id, i.inventory_code, i.category_id, i.item_name, i.brand, i.model_number,
	i.serial_number, i.quantity_on_hand, i.location, i.condition, i.sale_price,
	i.notes, i.created_at, i.updated_at`

// SQLReader reads categories and items from a relational inventory store.
// It only ever issues SELECT statements.
type SQLReader struct {
	db *sqlx.DB
}

// SQLOptions tune how a SQLReader connects.
type SQLOptions struct {
	// Path is the database file for the sqlite driver; it must exist.
	Path        string
	PingRetries int
	Logger      *utils.Logger
}

// NewSQLReader opens the store and verifies connectivity. driver is one of
// "sqlite", "postgres" or "mysql".
func NewSQLReader(ctx context.Context, driver, dsn string, opts SQLOptions) (*SQLReader, error) {
	if driver == "sqlite" && opts.Path != "" {
		if _, err := os.Stat(opts.Path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("sql: %w at %s", ErrDatabaseNotFound, opts.Path)
			}
			return nil, fmt.Errorf("sql: stat %q: %w", opts.Path, err)
		}
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql: open %s: %w", driver, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	retry := &utils.RetryConfig{
		MaxAttempts: opts.PingRetries,
		BaseDelay:   time.Second,
		Logger:      logger,
	}
	if err := retry.Do(ctx, "sql ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sql: ping %s: %w", driver, err)
	}

	return &SQLReader{db: db}, nil
}

// NewSQLReaderFromDB wraps an already-open handle.
func NewSQLReaderFromDB(db *sqlx.DB) *SQLReader {
	return &SQLReader{db: db}
}

// Categories returns every category name keyed by id.
func (r *SQLReader) Categories(ctx context.Context) (map[int64]string, error) {
	var rows []models.Category
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, name FROM Category`); err != nil {
		return nil, fmt.Errorf("sql: load categories: %w", err)
	}
	out := make(map[int64]string, len(rows))
	for _, c := range rows {
		out[c.ID] = c.Name
	}
	return out, nil
}

// Items returns every item ordered by inventory code.
func (r *SQLReader) Items(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	query := `SELECT ` + itemColumns + ` FROM Item i ORDER BY i.inventory_code`
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("sql: load items: %w", err)
	}
	return items, nil
}

func (r *SQLReader) Close() error {
	return r.db.Close()
}
