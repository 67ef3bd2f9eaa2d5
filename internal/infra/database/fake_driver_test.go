package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeLeadsDriver simula a tabela leads no nível do database/sql, entendendo só as consultas do repositório.
type fakeLeadsDriver struct{}

type fakeTable struct {
	rows []fakeLead
	// rowsErr é devolvido por Next depois de failAfter linhas.
	rowsErr   error
	failAfter int
	lastQuery string
}

type fakeLead struct {
	id, name, status string
	updatedAt        time.Time
}

var (
	fakeTablesMu sync.Mutex
	fakeTables   = map[string]*fakeTable{}
)

func init() {
	sql.Register("leads-fake", fakeLeadsDriver{})
}

func openFakeDB(t *testing.T, table *fakeTable) *sql.DB {
	t.Helper()
	fakeTablesMu.Lock()
	fakeTables[t.Name()] = table
	fakeTablesMu.Unlock()

	db, err := sql.Open("leads-fake", t.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Close()
		fakeTablesMu.Lock()
		delete(fakeTables, t.Name())
		fakeTablesMu.Unlock()
	})
	return db
}

func (fakeLeadsDriver) Open(name string) (driver.Conn, error) {
	fakeTablesMu.Lock()
	defer fakeTablesMu.Unlock()
	table, ok := fakeTables[name]
	if !ok {
		return nil, fmt.Errorf("unknown fake table %q", name)
	}
	return &fakeConn{table: table}, nil
}

type fakeConn struct {
	table *fakeTable
}

func (c *fakeConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}
func (c *fakeConn) Close() error              { return nil }
func (c *fakeConn) Begin() (driver.Tx, error) { return nil, errors.New("tx not supported") }

func (c *fakeConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.table.lastQuery = query
	if !strings.Contains(query, "FROM leads") {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}

	var status string
	if len(args) > 0 {
		status = args[0].Value.(string)
	}
	var cutoff time.Time
	stale := strings.Contains(query, "updated_at < $2")
	if stale {
		cutoff = args[1].Value.(time.Time)
	}

	var out []fakeLead
	for _, row := range c.table.rows {
		if status != "" && row.status != status {
			continue
		}
		if stale && !row.updatedAt.Before(cutoff) {
			continue
		}
		out = append(out, row)
	}

	asc := strings.Contains(query, "ORDER BY updated_at ASC")
	sort.SliceStable(out, func(i, j int) bool {
		if asc {
			return out[i].updatedAt.Before(out[j].updatedAt)
		}
		return out[i].updatedAt.After(out[j].updatedAt)
	})

	return &fakeRows{rows: out, err: c.table.rowsErr, failAfter: c.table.failAfter}, nil
}

type fakeRows struct {
	rows      []fakeLead
	pos       int
	err       error
	failAfter int
}

func (r *fakeRows) Columns() []string {
	cols := strings.Split(leadColumns, ",")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols
}

func (r *fakeRows) Close() error { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.err != nil && r.pos >= r.failAfter {
		return r.err
	}
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.pos]
	r.pos++

	values := []driver.Value{
		row.id, row.name, "+91 90000 00000",
		nil, nil, nil,
		row.status, "Bachelors", "Web Development", "Website", "John Doe",
		nil, nil, "Pune", nil, nil,
		row.updatedAt,
	}
	copy(dest, values)
	return nil
}
