package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback() error {
	f.rolledBack = true
	return nil
}

func TestGetExecutor(t *testing.T) {
	fallback := &fakeTx{}
	tx := &fakeTx{}

	ctx := context.Background()
	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, fallback, GetExecutor(ctx, fallback))

	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, tx, GetExecutor(txCtx, fallback))
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", Operation("SELECT id FROM bills"))
	assert.Equal(t, "insert", Operation("  insert into bills DEFAULT VALUES"))
	assert.Equal(t, "select", Operation("WITH x AS (SELECT 1) SELECT * FROM x"))
	assert.Equal(t, "other", Operation("LOCK TABLE backings"))
	assert.Equal(t, "unknown", Operation(""))
}
