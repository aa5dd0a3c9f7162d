// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package task

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pdiddy/parallel-research/pkg/types"
)

const (
	maxFieldValueLen = 200
	maxReportLen     = 2000
	maxBasisShown    = 5
	maxCitesPerBasis = 2
)

// FormatResult writes a human-readable rendering of the task result to w:
// the run header, then the structured fields or the report text, then a
// capped citation summary.
func FormatResult(result types.TaskResult, w io.Writer) {
	fmt.Fprintf(w, "Task: %s\n", result.RunID)
	fmt.Fprintf(w, "Status: %s | Processor: %s\n\n", result.Status, result.Processor)

	switch {
	case result.Fields != nil:
		fmt.Fprintln(w, "Results:")
		keys := make([]string, 0, len(result.Fields))
		for k := range result.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %s\n", k, truncateValue(result.Fields[k], maxFieldValueLen))
		}

	case result.Report != "":
		fmt.Fprintln(w, "Report:")
		report := result.Report
		if len(report) > maxReportLen {
			report = report[:maxReportLen] + "..."
		}
		fmt.Fprintln(w, report)
	}

	if len(result.Basis) == 0 {
		return
	}
	fmt.Fprintln(w, "\nCitations:")
	for i, b := range result.Basis {
		if i >= maxBasisShown {
			fmt.Fprintf(w, "  (%d more)\n", len(result.Basis)-maxBasisShown)
			break
		}
		field := b.Field
		if field == "" {
			field = "result"
		}
		confidence := b.Confidence
		if confidence == "" {
			confidence = "unknown"
		}
		fmt.Fprintf(w, "  [%s] confidence: %s\n", field, confidence)
		for j, c := range b.Citations {
			if j >= maxCitesPerBasis {
				break
			}
			fmt.Fprintf(w, "    - %s: %s\n", c.Title, c.URL)
		}
	}
}

// FormatJSON writes the normalized result as indented JSON to w.
func FormatJSON(result types.TaskResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func truncateValue(v any, max int) string {
	s := fmt.Sprintf("%v", v)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
