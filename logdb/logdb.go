// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb indexes contract events in sqlite.
package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/tx"
)

const insertEventQuery = "INSERT INTO event(seq, blockTime, address, topic0, topic1, topic2, topic3, topic4, data) VALUES(?,?,?,?,?,?,?,?,?)"

const memPath = ":memory:"

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
	writeLock     sync.Mutex
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	dsn := path
	if path != memPath {
		dsn += "?_journal=wal"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open log db")
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()

	// a single connection keeps an in-memory db alive and
	// avoids 'database is locked' errors
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     newStmtCache(db),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(memPath)
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the sqlite library version.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	const query = "SELECT seq, blockTime, address, topic0, topic1, topic2, topic3, topic4, data FROM event"

	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var (
		args  []any
		conds []string
	)
	if filter.Range != nil {
		cond, rangeArgs, err := rangeCondition(filter.Range)
		if err != nil {
			return nil, err
		}
		if cond != "" {
			conds = append(conds, cond)
			args = append(args, rangeArgs...)
		}
	}

	var criteria []string
	for _, c := range filter.CriteriaSet {
		var parts []string
		if c.Address != nil {
			parts = append(parts, "address = ?")
			args = append(args, c.Address.Bytes())
		}
		for i, topic := range c.Topics {
			if topic != nil {
				parts = append(parts, fmt.Sprintf("topic%d = ?", i))
				args = append(args, topic.Bytes())
			}
		}
		if len(parts) == 0 {
			parts = append(parts, "1")
		}
		criteria = append(criteria, "("+strings.Join(parts, " AND ")+")")
	}
	if len(criteria) > 0 {
		conds = append(conds, "("+strings.Join(criteria, " OR ")+")")
	}

	stmt := query
	if len(conds) > 0 {
		stmt += " WHERE " + strings.Join(conds, " AND ")
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func rangeCondition(r *Range) (string, []any, error) {
	if r.From > r.To {
		return "", nil, errors.Errorf("invalid range: from %d > to %d", r.From, r.To)
	}
	switch r.Unit {
	case Time:
		if r.From > math.MaxInt64 {
			return "", nil, errors.New("invalid range: from exceeds max time")
		}
		return "blockTime >= ? AND blockTime <= ?", []any{int64(r.From), int64(min(r.To, math.MaxInt64))}, nil
	case Block, "":
		if r.From > math.MaxUint32 {
			return "", nil, errors.New("invalid range: from exceeds max block number")
		}
		to := min(r.To, math.MaxUint32)
		from, _ := newSequence(uint32(r.From), 0)
		upper, _ := newSequence(uint32(to), math.MaxInt32)
		return "seq >= ? AND seq <= ?", []any{int64(from), int64(upper)}, nil
	}
	return "", nil, errors.Errorf("invalid range unit: %v", r.Unit)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			seq       int64
			blockTime uint64
			address   []byte
			topics    [5][]byte
			data      []byte
		)
		if err := rows.Scan(
			&seq,
			&blockTime,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		event := &Event{
			BlockNumber: sequence(seq).BlockNumber(),
			Index:       sequence(seq).Index(),
			BlockTime:   blockTime,
			Address:     thor.BytesToAddress(address),
			Data:        data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := thor.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate events")
	}
	return events, nil
}

// NewestBlock returns the number of the newest block having events, ok is false if empty.
func (db *LogDB) NewestBlock() (num uint32, ok bool, err error) {
	seq, ok, err := db.newestSequence(db.db)
	if err != nil || !ok {
		return 0, ok, err
	}
	return seq.BlockNumber(), true, nil
}

type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (db *LogDB) newestSequence(q queryer) (sequence, bool, error) {
	var seq sql.NullInt64
	if err := q.QueryRow("SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, false, errors.Wrap(err, "query newest sequence")
	}
	if !seq.Valid {
		return 0, false, nil
	}
	return sequence(seq.Int64), true, nil
}

// NewWriter creates a log writer. Only one writer is active at a time.
func (db *LogDB) NewWriter() *Writer {
	return &Writer{db: db}
}

// Writer writes events in a sqlite transaction until Commit.
type Writer struct {
	db     *LogDB
	tx     *sql.Tx
	insert *sql.Stmt
	last   sequence
	empty  bool
	count  int
}

func (w *Writer) begin() error {
	if w.tx != nil {
		return nil
	}
	// prepared before the transaction takes the only connection
	stmt, err := w.db.stmtCache.Prepare(insertEventQuery)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}

	w.db.writeLock.Lock()
	tx, err := w.db.db.Begin()
	if err != nil {
		w.db.writeLock.Unlock()
		return errors.Wrap(err, "begin")
	}
	last, ok, err := w.db.newestSequence(tx)
	if err != nil {
		_ = tx.Rollback()
		w.db.writeLock.Unlock()
		return err
	}
	w.tx, w.insert, w.last, w.empty = tx, tx.Stmt(stmt), last, !ok
	return nil
}

// Write appends the events emitted in the given block.
func (w *Writer) Write(blockNum uint32, blockTime uint64, events tx.Events) error {
	if len(events) == 0 {
		return nil
	}
	if err := w.begin(); err != nil {
		return err
	}
	for _, txEvent := range events {
		seq, err := w.last.next(blockNum, w.empty)
		if err != nil {
			return err
		}
		ev := newEvent(blockNum, seq.Index(), blockTime, txEvent)
		if _, err := w.insert.Exec(
			int64(seq),
			ev.BlockTime,
			ev.Address.Bytes(),
			topicValue(ev.Topics[0]),
			topicValue(ev.Topics[1]),
			topicValue(ev.Topics[2]),
			topicValue(ev.Topics[3]),
			topicValue(ev.Topics[4]),
			ev.Data,
		); err != nil {
			return errors.Wrap(err, "insert event")
		}
		w.last, w.empty = seq, false
		w.count++
	}
	return nil
}

// Truncate deletes events of blocks after blockNum (included).
func (w *Writer) Truncate(blockNum uint32) error {
	if err := w.begin(); err != nil {
		return err
	}
	from, _ := newSequence(blockNum, 0)
	if _, err := w.tx.Exec("DELETE FROM event WHERE seq >= ?", int64(from)); err != nil {
		return errors.Wrap(err, "truncate")
	}
	last, ok, err := w.db.newestSequence(w.tx)
	if err != nil {
		return err
	}
	w.last, w.empty = last, !ok
	return nil
}

// Commit commits accumulated events.
func (w *Writer) Commit() error {
	if w.tx == nil {
		return nil
	}
	defer w.end()
	return errors.Wrap(w.tx.Commit(), "commit")
}

// Rollback rollbacks all uncommitted events.
func (w *Writer) Rollback() error {
	if w.tx == nil {
		return nil
	}
	defer w.end()
	return errors.Wrap(w.tx.Rollback(), "rollback")
}

// UncommittedCount returns the count of uncommitted events.
func (w *Writer) UncommittedCount() int {
	return w.count
}

func (w *Writer) end() {
	w.tx, w.insert = nil, nil
	w.count = 0
	w.db.writeLock.Unlock()
}

func topicValue(topic *thor.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}
