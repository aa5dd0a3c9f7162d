// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package task

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSessionFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAuthSession(t *testing.T) {
	path := writeSessionFile(t, `
cookies:
  - name: session_id
    value: abc123
    domain: portal.example.com
    path: /
  - name: csrf
    value: tok
    domain: portal.example.com
`)

	session, err := LoadAuthSession(path)
	require.NoError(t, err)
	require.Len(t, session.Cookies, 2)
	assert.Equal(t, "session_id", session.Cookies[0].Name)
	assert.Equal(t, "abc123", session.Cookies[0].Value)
	assert.Equal(t, "portal.example.com", session.Cookies[0].Domain)
	assert.Equal(t, "/", session.Cookies[0].Path)
}

func TestLoadAuthSessionErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no cookies", "cookies: []\n"},
		{"cookie missing domain", "cookies:\n  - name: sid\n    value: v\n"},
		{"not yaml", "{{{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAuthSession(writeSessionFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadAuthSessionMissingFile(t *testing.T) {
	_, err := LoadAuthSession(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
