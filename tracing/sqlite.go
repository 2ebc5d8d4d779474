// Package tracing persists the events fired on every component's
// hookable.Base to a SQLite file for offline waveform-style inspection,
// since hookable.Hook only gives a synchronous in-process callback with
// no storage of its own.
//
// Adapted from sarchlab/akita's tracing/sqlite.go: the batched
// buffer-then-flush-in-a-transaction idiom, the mattn/go-sqlite3 driver,
// and the atexit.Register flush-on-exit hook are kept; the teacher's
// generic Task/DelayEvent/ProgressEvent/DependencyEvent schema (built
// for a discrete-event task graph) is replaced with a single flat
// event row shaped around Pulse's own hookable.Ctx, since Pulse has no
// task graph to record.
package tracing

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	// Registers the "sqlite3" driver name with database/sql.
	_ "github.com/mattn/go-sqlite3"

	"github.com/tebeka/atexit"

	"github.com/jawline/Pulse/hookable"
	"github.com/jawline/Pulse/idgen"
)

// Row is one recorded event: a hook firing at a named position on a
// named component at a given cycle, with a free-form detail string
// (the teacher's own JSON-the-interesting-field idiom, e.g.
// `listComponentDetails`'s goseth serialization, without actually
// depending on goseth here — see DESIGN.md for why goseth itself is not
// wired).
type Row struct {
	ID        string
	Cycle     uint64
	Component string
	Pos       string
	Detail    string
}

// SQLiteSink is a hookable.Hook that batches rows in memory and flushes
// them to a SQLite database in one transaction per batch, matching the
// teacher's SQLiteTraceWriter.Flush.
type SQLiteSink struct {
	db        *sql.DB
	statement *sql.Stmt

	ids       idgen.Generator
	batchSize int
	pending   []Row

	path string
}

// NewSQLiteSink constructs a sink writing to the SQLite file at path,
// using ids to stamp each row's ID — idgen.NewXID by default so trace
// files from independent Pulse processes can be merged without
// collision, matching §11's domain-stack wiring for rs/xid.
func NewSQLiteSink(path string, ids idgen.Generator) *SQLiteSink {
	if ids == nil {
		ids = idgen.NewXID()
	}

	s := &SQLiteSink{path: path, ids: ids, batchSize: 1000}

	atexit.Register(func() { s.Flush() })

	return s
}

// Open creates the trace file and schema. Must be called before Func is
// ever invoked (e.g. before the hook is registered on any component).
func (s *SQLiteSink) Open() error {
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("tracing: %s already exists", s.path)
	}

	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return fmt.Errorf("tracing: open %s: %w", s.path, err)
	}

	s.db = db

	if _, err := s.db.Exec(`
		CREATE TABLE trace (
			id        TEXT PRIMARY KEY,
			cycle     INTEGER NOT NULL,
			component TEXT NOT NULL,
			pos       TEXT NOT NULL,
			detail    TEXT
		);
		CREATE INDEX trace_cycle_index ON trace (cycle);
		CREATE INDEX trace_component_index ON trace (component);
		CREATE INDEX trace_pos_index ON trace (pos);
	`); err != nil {
		return fmt.Errorf("tracing: create schema: %w", err)
	}

	stmt, err := s.db.Prepare(`INSERT INTO trace VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("tracing: prepare insert: %w", err)
	}

	s.statement = stmt

	return nil
}

// Func implements hookable.Hook: it buffers ctx as a Row, flushing once
// the batch fills.
func (s *SQLiteSink) Func(ctx hookable.Ctx) {
	name := ""
	if named, ok := ctx.Domain.(interface{ Name() string }); ok {
		name = named.Name()
	}

	s.pending = append(s.pending, Row{
		ID:        s.ids.Generate(),
		Cycle:     ctx.Cycle,
		Component: name,
		Pos:       ctx.Pos.Name,
		Detail:    fmt.Sprintf("%+v", ctx.Item),
	})

	if len(s.pending) >= s.batchSize {
		s.Flush()
	}
}

// Flush writes every buffered row in one transaction, matching the
// teacher's batched-insert idiom.
func (s *SQLiteSink) Flush() {
	if len(s.pending) == 0 || s.db == nil {
		return
	}

	tx, err := s.db.Begin()
	if err != nil {
		log.Panic(err)
	}

	stmt := tx.Stmt(s.statement)

	for _, row := range s.pending {
		if _, err := stmt.Exec(row.ID, row.Cycle, row.Component, row.Pos, row.Detail); err != nil {
			log.Panic(err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Panic(err)
	}

	s.pending = nil
}

// Close flushes any remaining rows and closes the database handle.
func (s *SQLiteSink) Close() error {
	s.Flush()

	if s.db == nil {
		return nil
	}

	return s.db.Close()
}
