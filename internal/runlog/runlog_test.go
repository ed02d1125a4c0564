package runlog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examtools/examdump-cli/internal/model"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	ledger, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })
	require.NoError(t, ledger.Migrate(context.Background()))
	return ledger
}

func TestStartCompleteList(t *testing.T) {
	ledger := openTestLedger(t)
	ctx := context.Background()

	run, err := ledger.Start(ctx, "/exports")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	stats := model.RunStats{Files: 3, Pages: 42, Questions: 17, Comments: 51, Warnings: 2}
	require.NoError(t, ledger.Complete(ctx, run.ID, stats))

	runs, err := ledger.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	got := runs[0]
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "/exports", got.InputDir)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Equal(t, stats, got.Stats)
	require.NotNil(t, got.CompletedAt)
	assert.False(t, got.CompletedAt.Before(got.StartedAt))
}

func TestFailRecordsError(t *testing.T) {
	ledger := openTestLedger(t)
	ctx := context.Background()

	run, err := ledger.Start(ctx, "/exports")
	require.NoError(t, err)
	require.NoError(t, ledger.Fail(ctx, run.ID, "no question exports found"))

	runs, err := ledger.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusFailed, runs[0].Status)
	assert.Equal(t, "no question exports found", runs[0].Error)
}

func TestListLimitNewestFirst(t *testing.T) {
	ledger := openTestLedger(t)
	ctx := context.Background()

	var last string
	for i := 0; i < 3; i++ {
		run, err := ledger.Start(ctx, "/exports")
		require.NoError(t, err)
		last = run.ID
	}

	runs, err := ledger.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, last, runs[0].ID)
}

func TestMigrateIsIdempotent(t *testing.T) {
	ledger := openTestLedger(t)
	require.NoError(t, ledger.Migrate(context.Background()))
}
