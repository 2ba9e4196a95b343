package sql

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/artisandb/artisan"
	"github.com/artisandb/artisan/dialect"
)

// CachedDriver is a read-through cache around a dialect.Driver: query
// results are drained into a snapshot, serialized with msgpack and served
// from the cache on subsequent identical statements. Exec statements pass
// through untouched; invalidation is the caller's concern.
type CachedDriver struct {
	dialect.Driver
	cache  artisan.Cache
	ttl    time.Duration
	prefix string
}

// CacheOption configures the CachedDriver.
type CacheOption func(*CachedDriver)

// WithTTL sets the cache entry lifetime. Default is one minute.
func WithTTL(d time.Duration) CacheOption {
	return func(c *CachedDriver) {
		c.ttl = d
	}
}

// WithKeyPrefix namespaces the cache keys, so several drivers can share
// one Cache backend.
func WithKeyPrefix(prefix string) CacheOption {
	return func(c *CachedDriver) {
		c.prefix = prefix
	}
}

// NewCachedDriver wraps a driver with the given result cache.
func NewCachedDriver(drv dialect.Driver, cache artisan.Cache, opts ...CacheOption) *CachedDriver {
	c := &CachedDriver{
		Driver: drv,
		cache:  cache,
		ttl:    time.Minute,
		prefix: "artisan:query:",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invalidate drops every cached result held under this driver's prefix.
func (c *CachedDriver) Invalidate(ctx context.Context) error {
	return c.cache.DeletePrefix(ctx, c.prefix)
}

// Query serves the statement from the cache when possible, otherwise
// executes it, snapshots the rows and stores them.
func (c *CachedDriver) Query(ctx context.Context, query string, args, v any) error {
	vr, ok := v.(*Rows)
	if !ok {
		return c.Driver.Query(ctx, query, args, v)
	}
	key := c.key(query, args)
	if data, err := c.cache.Get(ctx, key); err == nil && data != nil {
		var snap rowSnapshot
		if err := msgpack.Unmarshal(data, &snap); err == nil {
			*vr = Rows{&memRows{snapshot: &snap, cursor: -1}}
			return nil
		}
	}
	var rows Rows
	if err := c.Driver.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	snap, err := drainRows(&rows)
	if err != nil {
		return err
	}
	if data, err := msgpack.Marshal(snap); err == nil {
		// A failed store only loses the cache benefit, never the result.
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}
	*vr = Rows{&memRows{snapshot: snap, cursor: -1}}
	return nil
}

// key hashes the dialect, statement and bindings into one cache key.
func (c *CachedDriver) key(query string, args any) string {
	h := xxhash.New()
	_, _ = io.WriteString(h, c.Driver.Dialect())
	_, _ = h.Write([]byte{0})
	_, _ = io.WriteString(h, query)
	_, _ = h.Write([]byte{0})
	_, _ = io.WriteString(h, fmt.Sprintf("%v", args))
	return c.prefix + strconv.FormatUint(h.Sum64(), 16)
}

// rowSnapshot is the serialized form of one drained result set.
type rowSnapshot struct {
	Columns []string
	Values  [][]any
}

func drainRows(rows *Rows) (*rowSnapshot, error) {
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	snap := &rowSnapshot{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		snap.Values = append(snap.Values, values)
	}
	return snap, rows.Err()
}

// memRows replays a snapshot through the ColumnScanner interface.
type memRows struct {
	snapshot *rowSnapshot
	cursor   int
}

func (m *memRows) Close() error { return nil }

func (m *memRows) Columns() ([]string, error) { return m.snapshot.Columns, nil }

// ColumnTypes is unavailable for replayed rows; the driver-level metadata
// is not part of the snapshot.
func (m *memRows) ColumnTypes() ([]*sql.ColumnType, error) {
	return nil, artisan.NewUsageError("column types are not available on cached rows")
}

func (m *memRows) Err() error { return nil }

func (m *memRows) Next() bool {
	m.cursor++
	return m.cursor < len(m.snapshot.Values)
}

func (m *memRows) NextResultSet() bool { return false }

func (m *memRows) Scan(dest ...any) error {
	if m.cursor < 0 || m.cursor >= len(m.snapshot.Values) {
		return artisan.NewUsageError("scan called without a current cached row")
	}
	row := m.snapshot.Values[m.cursor]
	if len(dest) != len(row) {
		return artisan.NewUsageError("scan expects %d destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		if err := assignValue(d, row[i]); err != nil {
			return err
		}
	}
	return nil
}

// assignValue copies a replayed value into a scan destination, covering
// the destination types the builder and common callers use.
func assignValue(dest, src any) error {
	switch d := dest.(type) {
	case *any:
		*d = src
		return nil
	case *string:
		switch s := src.(type) {
		case string:
			*d = s
			return nil
		case []byte:
			*d = string(s)
			return nil
		}
	case *[]byte:
		switch s := src.(type) {
		case []byte:
			*d = s
			return nil
		case string:
			*d = []byte(s)
			return nil
		}
	case *int64:
		if n, err := toInt64(src); err == nil {
			*d = n
			return nil
		}
	case *int:
		if n, err := toInt64(src); err == nil {
			*d = int(n)
			return nil
		}
	case *float64:
		if f, err := toFloat64(src); err == nil {
			*d = f
			return nil
		}
	case *bool:
		switch s := src.(type) {
		case bool:
			*d = s
			return nil
		case int64:
			*d = s != 0
			return nil
		}
	case *time.Time:
		if t, ok := src.(time.Time); ok {
			*d = t
			return nil
		}
	case sql.Scanner:
		return d.Scan(src)
	}
	return fmt.Errorf("dialect/sql: cannot assign cached %T into %T", src, dest)
}

var _ ColumnScanner = (*memRows)(nil)
var _ dialect.Driver = (*CachedDriver)(nil)
