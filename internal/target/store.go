package target

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store persists device snapshots in SQLite. A snapshot is the serialized
// form of one Target: qubit count plus the measured per-(gate, qubit)
// instruction properties, typically refreshed from calibration runs.
type Store struct {
	db *sql.DB
}

// Open creates or opens a snapshot database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent read access
//   - NORMAL synchronous mode
//   - 5-second busy timeout
//
// Open is idempotent; the schema is applied on every call.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect snapshot database: %w", err)
	}
	// SQLite supports one writer at a time; keep a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// WriteTarget replaces the stored snapshot with the given target, in one
// transaction.
func (s *Store) WriteTarget(ctx context.Context, t *Target) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot write: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM instruction_props`); err != nil {
		return fmt.Errorf("clear instruction props: %w", err)
	}
	nq := -1
	if n, ok := t.NumQubits(); ok {
		nq = n
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO target_meta (key, value) VALUES ('num_qubits', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		strconv.Itoa(nq),
	); err != nil {
		return fmt.Errorf("write target meta: %w", err)
	}
	for _, name := range t.OperationNames() {
		qs := t.ops[name]
		for qubit, props := range qs {
			var errVal any
			if props.HasError {
				errVal = props.Error
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO instruction_props (gate, qubit, error) VALUES (?, ?, ?)`,
				name, qubit, errVal,
			); err != nil {
				return fmt.Errorf("write props for %s q%d: %w", name, qubit, err)
			}
		}
	}
	return tx.Commit()
}

// ReadTarget loads the stored snapshot as a Target.
func (s *Store) ReadTarget(ctx context.Context) (*Target, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM target_meta WHERE key = 'num_qubits'`,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snapshot has no target")
	}
	if err != nil {
		return nil, fmt.Errorf("read target meta: %w", err)
	}
	nq, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("parse num_qubits %q: %w", raw, err)
	}
	var t *Target
	if nq < 0 {
		t = NewUnsized()
	} else {
		t = New(nq)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT gate, qubit, error FROM instruction_props ORDER BY gate, qubit`,
	)
	if err != nil {
		return nil, fmt.Errorf("read instruction props: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			name    string
			qubit   int
			errRate sql.NullFloat64
		)
		if err := rows.Scan(&name, &qubit, &errRate); err != nil {
			return nil, fmt.Errorf("scan instruction props: %w", err)
		}
		if errRate.Valid {
			t.AddInstructionError(name, qubit, errRate.Float64)
		} else {
			t.AddInstruction(name, qubit)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instruction props: %w", err)
	}
	return t, nil
}
