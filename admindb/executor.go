package admindb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTable is returned when a table name is not a plain identifier.
	ErrInvalidTable = errors.New("admindb: invalid table name")
	// ErrMissingColumn is returned when the result set lacks a required column.
	ErrMissingColumn = errors.New("admindb: missing column")
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Queryer is the part of *sql.DB the executor depends on.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Result is the outcome of one poll. Err is nil on success; Records is then
// the full result set in store order (possibly empty). On failure Records is
// always nil.
type Result struct {
	Records []Record
	Err     error
	Elapsed time.Duration
}

// OK reports whether the poll succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Executor issues the dashboard's single fixed query.
type Executor struct {
	db      Queryer
	query   string
	columns Columns
	now     func() time.Time
}

// NewExecutor validates the table name and prepares the query text.
func NewExecutor(db Queryer, table string, columns Columns) (*Executor, error) {
	if db == nil {
		return nil, errors.New("admindb: nil connection")
	}
	table = strings.TrimSpace(table)
	if table == "" {
		table = DefaultTable
	}
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	return &Executor{
		db:      db,
		query:   "SELECT * FROM " + table,
		columns: columns.withDefaults(),
		now:     time.Now,
	}, nil
}

// Query returns the SQL text issued on every poll.
func (e *Executor) Query() string {
	if e == nil {
		return ""
	}
	return e.query
}

// Columns returns the resolved column names.
func (e *Executor) Columns() Columns {
	if e == nil {
		return DefaultColumns()
	}
	return e.columns
}

// Poll runs the query to completion and converts every row. Any failure,
// including one after rows were already read, discards the partial result.
func (e *Executor) Poll(ctx context.Context) Result {
	start := e.now()
	records, err := e.load(ctx)
	res := Result{Elapsed: e.now().Sub(start)}
	if err != nil {
		res.Err = err
		return res
	}
	res.Records = records
	return res
}

func (e *Executor) load(ctx context.Context) ([]Record, error) {
	rows, err := e.db.QueryContext(ctx, e.query)
	if err != nil {
		return nil, fmt.Errorf("admindb: query: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("admindb: columns: %w", err)
	}
	idx, err := e.resolve(names)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0)
	values := make([]any, len(names))
	pointers := make([]any, len(names))
	for i := range values {
		pointers[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("admindb: scan row %d: %w", len(records)+1, err)
		}
		rec, err := e.convert(values, idx)
		if err != nil {
			return nil, fmt.Errorf("admindb: row %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("admindb: iterate rows: %w", err)
	}
	return records, nil
}

type columnIndex struct {
	id, name, username, password int
}

func (e *Executor) resolve(names []string) (columnIndex, error) {
	find := func(want string) (int, error) {
		for i, name := range names {
			if strings.EqualFold(name, want) {
				return i, nil
			}
		}
		return -1, fmt.Errorf("%w %q", ErrMissingColumn, want)
	}
	var idx columnIndex
	var err error
	if idx.id, err = find(e.columns.ID); err != nil {
		return idx, err
	}
	if idx.name, err = find(e.columns.Name); err != nil {
		return idx, err
	}
	if idx.username, err = find(e.columns.Username); err != nil {
		return idx, err
	}
	if idx.password, err = find(e.columns.Password); err != nil {
		return idx, err
	}
	return idx, nil
}

func (e *Executor) convert(values []any, idx columnIndex) (Record, error) {
	id, err := intValue(values[idx.id])
	if err != nil {
		return Record{}, fmt.Errorf("column %q: %w", e.columns.ID, err)
	}
	return Record{
		ID:       id,
		Name:     textValue(values[idx.name]),
		Username: textValue(values[idx.username]),
		Password: textValue(values[idx.password]),
	}, nil
}

// intValue accepts the integer encodings returned by the supported drivers:
// int64 from SQLite, []byte from the MySQL text protocol.
func intValue(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int32:
		return int64(t), nil
	case int:
		return int64(t), nil
	case uint64:
		if t > uint64(1<<63-1) {
			return 0, fmt.Errorf("value %d overflows int64", t)
		}
		return int64(t), nil
	case []byte:
		return parseInt(string(t))
	case string:
		return parseInt(t)
	case nil:
		return 0, errors.New("NULL identifier")
	default:
		return 0, fmt.Errorf("unsupported identifier type %T", v)
	}
}

func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("non-integer identifier %q", s)
	}
	return n, nil
}

// textValue copies a text column verbatim; NULL reads as empty text.
func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
