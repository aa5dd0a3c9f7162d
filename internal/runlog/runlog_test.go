// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runlog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/parallel-research/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.RunLogConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	entry := Entry{
		RunID:     "trun_1",
		Mode:      "plain",
		Input:     "What was France's GDP in 2023?",
		Processor: "core",
		Status:    "queued",
	}
	require.NoError(t, store.Record(ctx, entry))

	got, err := store.Get(ctx, "trun_1")
	require.NoError(t, err)
	assert.Equal(t, "plain", got.Mode)
	assert.Equal(t, "queued", got.Status)
	assert.False(t, got.SubmittedAt.IsZero())
}

func TestRecordDuplicateRunID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	entry := Entry{RunID: "trun_1", Mode: "plain", Input: "q", Processor: "core", Status: "queued"}
	require.NoError(t, store.Record(ctx, entry))
	assert.Error(t, store.Record(ctx, entry))
}

func TestUpdateStatus(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, Entry{
		RunID: "trun_2", Mode: "report", Input: "q", Processor: "ultra", Status: "queued",
	}))
	require.NoError(t, store.UpdateStatus(ctx, "trun_2", "completed"))

	got, err := store.Get(ctx, "trun_2")
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
}

func TestUpdateStatusUnknownRun(t *testing.T) {
	store := testStore(t)
	err := store.UpdateStatus(context.Background(), "trun_none", "completed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetUnknownRun(t *testing.T) {
	store := testStore(t)
	_, err := store.Get(context.Background(), "trun_none")
	assert.Error(t, err)
}

func TestListOrdersBySubmissionTime(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Record(ctx, Entry{
			RunID:       fmt.Sprintf("trun_%d", i),
			Mode:        "plain",
			Input:       "q",
			Processor:   "core",
			Status:      "queued",
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "trun_2", entries[0].RunID)
	assert.Equal(t, "trun_0", entries[2].RunID)
}

func TestListLimit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, Entry{
			RunID: fmt.Sprintf("trun_%d", i), Mode: "plain", Input: "q",
			Processor: "core", Status: "queued",
		}))
	}

	entries, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
