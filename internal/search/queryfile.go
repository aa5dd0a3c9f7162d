// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/parallel-research/pkg/types"
)

// QueryFile is the on-disk representation of a search and its results. The
// researcher can save a search to a file and reload it later without
// re-querying the service.
type QueryFile struct {
	Query   QueryParams          `yaml:"query"`
	Results []types.SearchResult `yaml:"results"`
	Summary QuerySummary         `yaml:"summary"`
}

// QueryParams stores the request parameters in a serializable form.
type QueryParams struct {
	Query          string   `yaml:"query"`
	MaxResults     int      `yaml:"max_results,omitempty"`
	IncludeDomains []string `yaml:"include_domains,omitempty"`
	ExcludeDomains []string `yaml:"exclude_domains,omitempty"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	SearchID  string      `yaml:"search_id"`
	Total     int         `yaml:"total"`
	Usage     types.Usage `yaml:"usage"`
	Timestamp time.Time   `yaml:"timestamp"`
}

// WriteQueryFile saves the request and its normalized results to a YAML file.
func WriteQueryFile(path string, req Request, out types.SearchOutput) error {
	qf := QueryFile{
		Query: QueryParams{
			Query:      req.Query,
			MaxResults: req.MaxResults,
		},
		Results: out.Results,
		Summary: QuerySummary{
			SearchID:  out.SearchID,
			Total:     len(out.Results),
			Usage:     out.Usage,
			Timestamp: time.Now(),
		},
	}
	if req.SourcePolicy != nil {
		qf.Query.IncludeDomains = req.SourcePolicy.IncludeDomains
		qf.Query.ExcludeDomains = req.SourcePolicy.ExcludeDomains
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}
