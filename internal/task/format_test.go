// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/parallel-research/pkg/types"
)

func TestFormatResultStructured(t *testing.T) {
	result := types.TaskResult{
		RunID:     "trun_1",
		Status:    "completed",
		Processor: types.ProcessorCore,
		Fields: map[string]any{
			"founding_year": "2010",
			"long_value":    strings.Repeat("x", 300),
		},
		Basis: []types.Basis{
			{Field: "founding_year", Confidence: "high", Citations: []types.Citation{
				{Title: "Stripe history", URL: "https://example.com/1"},
			}},
		},
	}

	var buf strings.Builder
	FormatResult(result, &buf)
	got := buf.String()

	assert.Contains(t, got, "Task: trun_1")
	assert.Contains(t, got, "founding_year: 2010")
	assert.Contains(t, got, strings.Repeat("x", 200)+"...")
	assert.NotContains(t, got, strings.Repeat("x", 201))
	assert.Contains(t, got, "[founding_year] confidence: high")
	assert.Contains(t, got, "Stripe history: https://example.com/1")
}

func TestFormatResultReport(t *testing.T) {
	result := types.TaskResult{
		RunID:     "trun_2",
		Status:    "completed",
		Processor: types.ProcessorUltra,
		Report:    "# Title\n\nBody text.",
	}

	var buf strings.Builder
	FormatResult(result, &buf)
	got := buf.String()

	assert.Contains(t, got, "Report:")
	assert.Contains(t, got, "# Title")
	assert.NotContains(t, got, "Citations:")
}

func TestFormatResultCapsBasis(t *testing.T) {
	result := types.TaskResult{RunID: "trun_3", Status: "completed", Report: "r"}
	for i := 0; i < 8; i++ {
		result.Basis = append(result.Basis, types.Basis{Field: "f"})
	}

	var buf strings.Builder
	FormatResult(result, &buf)
	assert.Contains(t, buf.String(), "(3 more)")
}
