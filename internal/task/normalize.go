// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package task

import (
	"bytes"
	"encoding/json"

	"github.com/pdiddy/parallel-research/internal/parallel"
	"github.com/pdiddy/parallel-research/pkg/types"
)

// resultEnvelope mirrors the task result JSON. Run and Output are pointers
// so missing required keys are distinguishable from empty values.
type resultEnvelope struct {
	Run    *runBody    `json:"run"`
	Output *outputBody `json:"output"`
}

type outputBody struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
	Basis   []types.Basis   `json:"basis"`
}

// Normalize converts a raw task result into types.TaskResult. The output
// shape is detected from what the service actually returned, not from what
// the request asked for: a JSON object becomes structured fields, a JSON
// string becomes a report. Anything else, or a missing run_id/output key,
// fails with MalformedResponse and no partial data.
func Normalize(raw resultEnvelope) (types.TaskResult, error) {
	if raw.Run == nil || raw.Run.RunID == "" {
		return types.TaskResult{}, parallel.Malformedf("task result missing run_id")
	}
	if raw.Output == nil {
		return types.TaskResult{}, parallel.Malformedf("task result missing output")
	}

	result := types.TaskResult{
		RunID:     raw.Run.RunID,
		Status:    raw.Run.Status,
		Processor: types.Processor(raw.Run.Processor),
		Basis:     raw.Output.Basis,
	}

	content := bytes.TrimSpace(raw.Output.Content)
	switch {
	case len(content) == 0:
		return types.TaskResult{}, parallel.Malformedf("task result output has no content")

	case content[0] == '{':
		var fields map[string]any
		if err := json.Unmarshal(content, &fields); err != nil {
			return types.TaskResult{}, parallel.Malformedf("decoding structured output content: %v", err)
		}
		result.Fields = fields

	case content[0] == '"':
		var report string
		if err := json.Unmarshal(content, &report); err != nil {
			return types.TaskResult{}, parallel.Malformedf("decoding report output content: %v", err)
		}
		result.Report = report

	default:
		return types.TaskResult{}, parallel.Malformedf("output content is neither a JSON object nor a string")
	}

	return result, nil
}
