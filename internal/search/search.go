// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search builds search requests, sends them to the search endpoint,
// and normalizes the responses. Results stay in service order; the service
// ranks, this package does not re-sort.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/parallel-research/internal/parallel"
	"github.com/pdiddy/parallel-research/pkg/types"
)

// searchPath is the search endpoint path on the API host.
const searchPath = "/v1beta/search"

// Request is the wire payload for the search endpoint. Build it with
// BuildRequest; once built it is never mutated.
type Request struct {
	Query        string              `json:"query"`
	MaxResults   int                 `json:"max_results,omitempty"`
	SourcePolicy *types.SourcePolicy `json:"source_policy,omitempty"`
}

// BuildRequest validates the search parameters and produces the payload.
// maxResults of zero means "not supplied": the field is left out of the
// payload entirely so the service applies its own default.
func BuildRequest(query string, maxResults int, policy types.SourcePolicy) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, parallel.Configf("search query must not be empty")
	}
	if maxResults < 0 {
		return Request{}, parallel.Configf("max-results must be a positive integer, got %d", maxResults)
	}

	req := Request{
		Query:      strings.TrimSpace(query),
		MaxResults: maxResults,
	}
	if !policy.IsZero() {
		p := policy
		req.SourcePolicy = &p
	}
	return req, nil
}

// Search sends the request and returns the normalized output.
func Search(ctx context.Context, client *parallel.Client, req Request) (types.SearchOutput, error) {
	var raw searchResponse
	if err := client.PostJSON(ctx, searchPath, nil, req, &raw); err != nil {
		return types.SearchOutput{}, err
	}
	return normalize(raw)
}

// searchResponse mirrors the service's JSON. The required top-level keys are
// pointers so a missing key is distinguishable from an empty value.
type searchResponse struct {
	SearchID *string         `json:"search_id"`
	Results  *[]searchResult `json:"results"`
	Usage    types.Usage     `json:"usage"`
}

type searchResult struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Excerpt     string  `json:"excerpt"`
	PublishDate *string `json:"publish_date"`
}

// normalize converts the raw response into types.SearchOutput. A response
// missing search_id or results fails outright; no partial data is returned.
func normalize(raw searchResponse) (types.SearchOutput, error) {
	if raw.SearchID == nil || *raw.SearchID == "" {
		return types.SearchOutput{}, parallel.Malformedf("search response missing search_id")
	}
	if raw.Results == nil {
		return types.SearchOutput{}, parallel.Malformedf("search response missing results")
	}

	out := types.SearchOutput{
		SearchID: *raw.SearchID,
		Results:  make([]types.SearchResult, 0, len(*raw.Results)),
		Usage:    raw.Usage,
	}
	for _, r := range *raw.Results {
		out.Results = append(out.Results, types.SearchResult{
			URL:         r.URL,
			Title:       r.Title,
			Excerpt:     r.Excerpt,
			PublishDate: r.PublishDate,
		})
	}
	return out, nil
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(out types.SearchOutput, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-10s  %s\n", "Rank", "Title", "Published", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range out.Results {
		title := truncate(r.Title, 50)
		published := "-"
		if r.PublishDate != nil {
			published = truncate(*r.PublishDate, 10)
		}
		fmt.Fprintf(w, "%-4d  %-50s  %-10s  %s\n", i+1, title, published, r.URL)
	}

	fmt.Fprintf(w, "\n%d results (search %s)\n", len(out.Results), out.SearchID)
}

// FormatJSON writes the normalized output as indented JSON to w.
func FormatJSON(out types.SearchOutput, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
