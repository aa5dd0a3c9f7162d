// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the parallel-research CLI:
// normalized search and task results, request descriptors, and stage
// configuration.
package types

// SearchResult is one normalized entry from the search endpoint. Results keep
// the order the service returned them in; the service ranks, the client does
// not re-sort.
type SearchResult struct {
	// URL is the address of the source page.
	URL string `json:"url" yaml:"url"`

	// Title is the page title as returned by the service.
	Title string `json:"title" yaml:"title"`

	// Excerpt is the relevant text extracted from the page.
	Excerpt string `json:"excerpt" yaml:"excerpt"`

	// PublishDate is the publication date string when the service knows it.
	// A nil pointer marks the date as absent; it is never silently dropped.
	PublishDate *string `json:"publish_date" yaml:"publish_date"`
}

// Usage holds the request accounting metadata the service attaches to a
// search response. It is passed through as received.
type Usage struct {
	Requests  int     `json:"requests,omitempty" yaml:"requests,omitempty"`
	Results   int     `json:"results,omitempty" yaml:"results,omitempty"`
	CostCents float64 `json:"cost_cents,omitempty" yaml:"cost_cents,omitempty"`
}

// SearchOutput is the normalized form of a search response.
type SearchOutput struct {
	// SearchID is the service-assigned identifier for this search.
	SearchID string `json:"search_id" yaml:"search_id"`

	// Results lists the entries in service order.
	Results []SearchResult `json:"results" yaml:"results"`

	// Usage is the accounting metadata from the response.
	Usage Usage `json:"usage" yaml:"usage"`
}

// SourcePolicy restricts which domains the service may draw sources from.
type SourcePolicy struct {
	IncludeDomains []string `json:"include_domains,omitempty" yaml:"include_domains,omitempty"`
	ExcludeDomains []string `json:"exclude_domains,omitempty" yaml:"exclude_domains,omitempty"`
}

// IsZero reports whether the policy contains no domain filters.
func (p SourcePolicy) IsZero() bool {
	return len(p.IncludeDomains) == 0 && len(p.ExcludeDomains) == 0
}
