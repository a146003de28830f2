package fluentlite

import (
	"context"
	"fmt"
	"strings"
)

// TxOptions selects the transaction isolation mode.
type TxOptions struct {
	// Mode is one of "deferred" (default), "immediate" or "exclusive".
	Mode string
}

// Transaction runs fn inside a transaction with the chosen isolation
// mode, committing on success.
//
// On any error from fn a rollback is issued before the error is
// returned. If the rollback itself fails, that failure supersedes and
// propagates instead of the original error; callers that need the
// original must not rely on it surviving a broken rollback.
//
// Transactions are non-reentrant: calling Transaction from inside fn on
// the same facade returns ErrNestedTransaction. The BEGIN/COMMIT pair
// runs on the facade's single pooled connection, so operations performed
// through the facade inside fn participate in the transaction.
//
// A panic in fn rolls the transaction back and then re-panics, so the
// connection is never left inside an abandoned transaction.
func (d *DB) Transaction(ctx context.Context, fn func(ctx context.Context) error, opts *TxOptions) (err error) {
	if err := d.assertConnected(); err != nil {
		return err
	}
	if d.inTx {
		return ErrNestedTransaction
	}

	mode, err := txMode(opts)
	if err != nil {
		return err
	}

	if err := d.Exec(ctx, "BEGIN "+mode); err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	d.inTx = true
	committed := false
	defer func() {
		d.inTx = false
		if committed {
			return
		}
		rbErr := d.Exec(ctx, "ROLLBACK")
		if r := recover(); r != nil {
			if rbErr != nil {
				d.log.Error("rollback failed during panic", "conn", d.id, "error", rbErr)
			}
			panic(r)
		}
		if rbErr != nil {
			err = fmt.Errorf("rolling back transaction: %w", rbErr)
			return
		}
		d.log.Debug("transaction rolled back", "conn", d.id, "error", err)
	}()

	if err := fn(ctx); err != nil {
		return err
	}

	if err := d.Exec(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}

// txMode validates and renders the BEGIN mode keyword.
func txMode(opts *TxOptions) (string, error) {
	mode := "deferred"
	if opts != nil && opts.Mode != "" {
		mode = strings.ToLower(opts.Mode)
	}
	switch mode {
	case "deferred":
		return "DEFERRED", nil
	case "immediate":
		return "IMMEDIATE", nil
	case "exclusive":
		return "EXCLUSIVE", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTxMode, mode)
	}
}
