// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package task

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/parallel-research/internal/parallel"
	"github.com/pdiddy/parallel-research/pkg/types"
)

// LoadAuthSession reads a saved login session from a YAML file with a
// top-level cookies list:
//
//	cookies:
//	  - name: session_id
//	    value: abc123
//	    domain: example.com
//	    path: /
func LoadAuthSession(path string) (*types.AuthSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading auth session file: %w", err)
	}

	var session types.AuthSession
	if err := yaml.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parsing auth session file %s: %w", path, err)
	}

	if len(session.Cookies) == 0 {
		return nil, parallel.Configf("auth session file %s contains no cookies", path)
	}
	for i, c := range session.Cookies {
		if c.Name == "" || c.Value == "" || c.Domain == "" {
			return nil, parallel.Configf("auth session cookie %d is missing name, value, or domain", i)
		}
	}
	return &session, nil
}
