package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type failingBeginner struct{ err error }

func (f failingBeginner) Begin(context.Context) (pgx.Tx, error) { return nil, f.err }

// fakeTx embeds pgx.Tx so only the methods WithTx touches need bodies.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Commit(context.Context) error { f.committed = true; return nil }
func (f *fakeTx) Rollback(context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}
func (f *fakeTx) Query(context.Context, string, ...interface{}) (pgx.Rows, error) { return nil, nil }
func (f *fakeTx) QueryRow(context.Context, string, ...interface{}) pgx.Row        { return nil }
func (f *fakeTx) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

type fakeBeginner struct{ tx *fakeTx }

func (f fakeBeginner) Begin(context.Context) (pgx.Tx, error) { return f.tx, nil }

func TestConnFromContext_Empty(t *testing.T) {
	if q := ConnFromContext(context.Background()); q != nil {
		t.Errorf("expected nil querier, got %T", q)
	}
}

func TestWithTx_Commit(t *testing.T) {
	tx := &fakeTx{}
	var seen Querier
	err := WithTx(context.Background(), fakeBeginner{tx: tx}, func(ctx context.Context) error {
		seen = ConnFromContext(ctx)
		return nil
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	if seen != tx {
		t.Error("expected fn to see the transaction on its context")
	}
	if !tx.committed || tx.rolledBack {
		t.Errorf("committed=%v rolledBack=%v", tx.committed, tx.rolledBack)
	}
}

func TestWithTx_RollbackOnError(t *testing.T) {
	tx := &fakeTx{}
	boom := errors.New("boom")
	err := WithTx(context.Background(), fakeBeginner{tx: tx}, func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if tx.committed || !tx.rolledBack {
		t.Errorf("committed=%v rolledBack=%v", tx.committed, tx.rolledBack)
	}
}

func TestWithTx_JoinsOuter(t *testing.T) {
	outer := &fakeTx{}
	ctx := WithQuerier(context.Background(), outer)
	begin := failingBeginner{err: errors.New("must not begin")}

	err := WithTx(ctx, begin, func(ctx context.Context) error {
		if ConnFromContext(ctx) != outer {
			t.Error("expected outer transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
}

func TestWithTx_BeginError(t *testing.T) {
	called := false
	err := WithTx(context.Background(), failingBeginner{err: errors.New("no conn")}, func(context.Context) error {
		called = true
		return nil
	})
	if err == nil || called {
		t.Errorf("expected begin error without calling fn, err=%v called=%v", err, called)
	}
}
