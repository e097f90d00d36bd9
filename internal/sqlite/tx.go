package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/taskvault/taskvault/pkg/types"
)

// Operation is one synchronous unit of work inside a transaction.
type Operation func(tx *sql.Tx) error

// ExecuteTransaction runs the operations as a single atomic unit. If any
// operation fails, everything rolls back and the original error is
// returned wrapped as a TransactionError; no partial state is observable
// to subsequent readers.
func (s *Store) ExecuteTransaction(ops []Operation) error {
	db, err := s.Conn()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i, op := range ops {
		if err := op(tx); err != nil {
			return fmt.Errorf("operation %d: %v: %w", i, err, types.ErrTransaction)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %v: %w", err, types.ErrTransaction)
	}
	return nil
}

// Transaction is a manual handle for callers needing finer control than
// ExecuteTransaction offers.
type Transaction struct {
	store *Store
	tx    *sql.Tx
}

// NewTransaction creates an unstarted transaction handle.
func (s *Store) NewTransaction() *Transaction {
	return &Transaction{store: s}
}

// Begin starts the transaction.
func (t *Transaction) Begin() error {
	db, err := t.store.Conn()
	if err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	t.tx = tx
	return nil
}

// Execute runs one operation inside the started transaction. Fails with
// ErrTransactionNotStarted if Begin has not been called.
func (t *Transaction) Execute(op Operation) error {
	if t.tx == nil {
		return types.ErrTransactionNotStarted
	}
	return op(t.tx)
}

// Commit makes the transaction's writes durable.
func (t *Transaction) Commit() error {
	if t.tx == nil {
		return types.ErrTransactionNotStarted
	}
	err := t.tx.Commit()
	t.tx = nil
	if err != nil {
		return fmt.Errorf("committing transaction: %v: %w", err, types.ErrTransaction)
	}
	return nil
}

// Rollback discards the transaction's writes. It always returns
// ErrTransactionRolledBack so the abort is visible in the caller's
// control flow.
func (t *Transaction) Rollback() error {
	if t.tx == nil {
		return types.ErrTransactionNotStarted
	}
	_ = t.tx.Rollback()
	t.tx = nil
	return types.ErrTransactionRolledBack
}
