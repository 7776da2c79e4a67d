package tx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTxNilLeavesContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithTx(ctx, nil))

	_, ok := From(ctx)
	assert.False(t, ok)
}

func TestConnPrefersContextTx(t *testing.T) {
	db := &sql.DB{}
	assert.Same(t, db, Conn(context.Background(), db))

	txn := &sql.Tx{}
	assert.Same(t, txn, Conn(WithTx(context.Background(), txn), db))
}

func TestRunReusesOuterTx(t *testing.T) {
	txn := &sql.Tx{}
	ctx := WithTx(context.Background(), txn)

	var seen *sql.Tx
	err := Run(ctx, nil, func(ctx context.Context) error {
		seen, _ = From(ctx)
		return nil
	})
	require.NoError(t, err)
	assert.Same(t, txn, seen)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := Run(ctx, nil, func(context.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
