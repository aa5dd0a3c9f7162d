// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package task

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/parallel-research/internal/parallel"
	"github.com/pdiddy/parallel-research/pkg/types"
)

// taskRunPath is the task-run endpoint path on the API host.
const taskRunPath = "/v1/tasks/runs"

const (
	defaultPollInterval = 2 * time.Second
	defaultPollTimeout  = 5 * time.Minute
)

// runEnvelope mirrors the run status JSON. Older API revisions return the
// run object nested under "run"; newer ones return it flat. Both are
// accepted.
type runEnvelope struct {
	Run *runBody `json:"run"`
	runBody
}

type runBody struct {
	RunID     string    `json:"run_id"`
	Status    string    `json:"status"`
	Processor string    `json:"processor"`
	CreatedAt string    `json:"created_at"`
	Error     *runError `json:"error"`
}

type runError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e runEnvelope) body() runBody {
	if e.Run != nil {
		return *e.Run
	}
	return e.runBody
}

// Create submits the built task and returns the queued run's info.
func Create(ctx context.Context, client *parallel.Client, built Built) (types.RunInfo, error) {
	var raw runEnvelope
	if err := client.PostJSON(ctx, taskRunPath, built.Headers, built.Payload, &raw); err != nil {
		return types.RunInfo{}, err
	}
	return normalizeRun(raw)
}

// Status fetches the current state of a run.
func Status(ctx context.Context, client *parallel.Client, runID string) (types.RunInfo, error) {
	var raw runEnvelope
	if err := client.GetJSON(ctx, taskRunPath+"/"+runID, &raw); err != nil {
		return types.RunInfo{}, err
	}
	return normalizeRun(raw)
}

func normalizeRun(raw runEnvelope) (types.RunInfo, error) {
	b := raw.body()
	if b.RunID == "" {
		return types.RunInfo{}, parallel.Malformedf("task response missing run_id")
	}
	info := types.RunInfo{
		RunID:     b.RunID,
		Status:    b.Status,
		Processor: types.Processor(b.Processor),
		CreatedAt: b.CreatedAt,
	}
	if b.Error != nil {
		info.FailureCode = b.Error.Code
		info.FailureMessage = b.Error.Message
	}
	return info, nil
}

// FailureError converts a failed run's info into the RemoteError the caller
// should surface. The failure happened service-side and is reported with
// the service's own code and message.
func FailureError(info types.RunInfo) error {
	msg := info.FailureMessage
	if msg == "" {
		msg = "task run " + info.RunID + " failed"
	}
	return &parallel.RemoteError{Status: 200, Code: info.FailureCode, Message: msg}
}

// Await polls the run until it completes, fails, or the poll timeout
// elapses. Progress ("still running") is reported to w so the caller can
// distinguish a running task from a stuck one.
func Await(ctx context.Context, client *parallel.Client, runID string, cfg types.TaskConfig, w io.Writer) (types.RunInfo, error) {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	timeout := cfg.PollTimeout
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}

	deadline := time.Now().Add(timeout)
	for {
		info, err := Status(ctx, client, runID)
		if err != nil {
			return types.RunInfo{}, err
		}
		if info.Terminal() {
			return info, nil
		}

		if time.Now().After(deadline) {
			return types.RunInfo{}, fmt.Errorf("task run %s did not complete within %v (last status %q)", runID, timeout, info.Status)
		}
		fmt.Fprintf(w, "task run %s still %s...\n", runID, info.Status)

		select {
		case <-ctx.Done():
			return types.RunInfo{}, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// FetchResult retrieves and normalizes the output of a completed run.
func FetchResult(ctx context.Context, client *parallel.Client, runID string) (types.TaskResult, error) {
	var raw resultEnvelope
	if err := client.GetJSON(ctx, taskRunPath+"/"+runID+"/result", &raw); err != nil {
		return types.TaskResult{}, err
	}
	return Normalize(raw)
}
