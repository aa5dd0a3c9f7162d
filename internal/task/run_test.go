// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/parallel-research/internal/parallel"
	"github.com/pdiddy/parallel-research/pkg/types"
)

func newTestClient(ts *httptest.Server) *parallel.Client {
	return &parallel.Client{BaseURL: ts.URL, APIKey: "test-key", HTTPClient: ts.Client()}
}

func fastPollConfig() types.TaskConfig {
	return types.TaskConfig{PollInterval: time.Millisecond, PollTimeout: time.Second}
}

func TestCreateNestedRunEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/tasks/runs", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "What was France's GDP in 2023?", payload["input"])
		assert.Equal(t, "core", payload["processor"])

		w.Write([]byte(`{"run": {"run_id": "trun_9", "status": "queued", "processor": "core"}}`))
	}))
	defer ts.Close()

	built, err := Request{Mode: types.ModePlain, Input: "What was France's GDP in 2023?"}.Build()
	require.NoError(t, err)

	info, err := Create(context.Background(), newTestClient(ts), built)
	require.NoError(t, err)
	assert.Equal(t, "trun_9", info.RunID)
	assert.Equal(t, types.RunStatusQueued, info.Status)
	assert.False(t, info.Terminal())
}

func TestCreateFlatRunEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"run_id": "trun_10", "status": "queued", "processor": "ultra"}`))
	}))
	defer ts.Close()

	built, err := Request{Mode: types.ModeReport, Input: "q"}.Build()
	require.NoError(t, err)

	info, err := Create(context.Background(), newTestClient(ts), built)
	require.NoError(t, err)
	assert.Equal(t, "trun_10", info.RunID)
	assert.Equal(t, types.ProcessorUltra, info.Processor)
}

func TestCreateMissingRunID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": "queued"}`))
	}))
	defer ts.Close()

	built, err := Request{Mode: types.ModePlain, Input: "q"}.Build()
	require.NoError(t, err)

	_, err = Create(context.Background(), newTestClient(ts), built)
	var mr *parallel.MalformedResponse
	require.True(t, errors.As(err, &mr))
}

func TestAwaitPollsUntilCompleted(t *testing.T) {
	var polls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/tasks/runs/trun_11", r.URL.Path)
		n := atomic.AddInt32(&polls, 1)
		status := types.RunStatusRunning
		if n >= 3 {
			status = types.RunStatusCompleted
		}
		fmt.Fprintf(w, `{"run": {"run_id": "trun_11", "status": %q, "processor": "core"}}`, status)
	}))
	defer ts.Close()

	info, err := Await(context.Background(), newTestClient(ts), "trun_11", fastPollConfig(), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusCompleted, info.Status)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&polls), int32(3))
}

func TestAwaitFailedRunCarriesServiceError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"run": {"run_id": "trun_12", "status": "failed",
			"error": {"code": "invalid_input", "message": "input schema mismatch"}}}`))
	}))
	defer ts.Close()

	info, err := Await(context.Background(), newTestClient(ts), "trun_12", fastPollConfig(), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusFailed, info.Status)
	assert.True(t, info.Terminal())

	err = FailureError(info)
	var re *parallel.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "invalid_input", re.Code)
	assert.Equal(t, "input schema mismatch", re.Message)
}

func TestAwaitTimesOut(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"run": {"run_id": "trun_13", "status": "running"}}`))
	}))
	defer ts.Close()

	cfg := types.TaskConfig{PollInterval: time.Millisecond, PollTimeout: 20 * time.Millisecond}
	_, err := Await(context.Background(), newTestClient(ts), "trun_13", cfg, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not complete within")
}

func TestAwaitReportsProgress(t *testing.T) {
	var polls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := atomic.AddInt32(&polls, 1)
		status := types.RunStatusRunning
		if n >= 2 {
			status = types.RunStatusCompleted
		}
		fmt.Fprintf(w, `{"run": {"run_id": "trun_14", "status": %q}}`, status)
	}))
	defer ts.Close()

	var progress strings.Builder
	_, err := Await(context.Background(), newTestClient(ts), "trun_14", fastPollConfig(), &progress)
	require.NoError(t, err)
	assert.Contains(t, progress.String(), "still running")
}

func TestFetchResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/tasks/runs/trun_15/result", r.URL.Path)
		w.Write([]byte(`{
			"run": {"run_id": "trun_15", "status": "completed", "processor": "core"},
			"output": {"type": "json", "content": {"answer": "Paris"}}
		}`))
	}))
	defer ts.Close()

	result, err := FetchResult(context.Background(), newTestClient(ts), "trun_15")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"answer": "Paris"}, result.Fields)
}
