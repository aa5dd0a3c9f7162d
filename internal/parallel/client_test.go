// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parallel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(ts *httptest.Server) *Client {
	return &Client{
		BaseURL:    ts.URL,
		APIKey:     "test-key",
		UserAgent:  "parallel-research/test",
		HTTPClient: ts.Client(),
	}
}

func TestPostJSONSetsHeaders(t *testing.T) {
	var gotKey, gotBeta, gotContentType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotBeta = r.Header.Get(BetaHeader)
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	headers := map[string]string{BetaHeader: BetaMCPServers}
	err := testClient(ts).PostJSON(context.Background(), "/v1/tasks/runs", headers, map[string]string{"input": "q"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, BetaMCPServers, gotBeta)
	assert.Equal(t, "application/json", gotContentType)
	assert.True(t, out.OK)
}

func TestDoDecodesErrorEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"invalid_api_key","message":"API key is not valid"}}`))
	}))
	defer ts.Close()

	err := testClient(ts).GetJSON(context.Background(), "/v1/tasks/runs/r1", &struct{}{})
	require.Error(t, err)

	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusUnauthorized, re.Status)
	assert.Equal(t, "invalid_api_key", re.Code)
	assert.Equal(t, "API key is not valid", re.Message)
}

func TestDoNonJSONErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer ts.Close()

	err := testClient(ts).GetJSON(context.Background(), "/v1beta/search", &struct{}{})

	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusBadGateway, re.Status)
	assert.Equal(t, "upstream unavailable", re.Message)
	assert.Empty(t, re.Code)
}

func TestDoTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	ts.Close() // connection refused

	client := &Client{BaseURL: ts.URL, APIKey: "k", HTTPClient: http.DefaultClient}
	err := client.GetJSON(context.Background(), "/v1beta/search", &struct{}{})

	var te *TransportError
	require.True(t, errors.As(err, &te))
}

func TestDoUndecodableSuccessBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer ts.Close()

	err := testClient(ts).GetJSON(context.Background(), "/v1beta/search", &struct{}{})

	var mr *MalformedResponse
	require.True(t, errors.As(err, &mr))
}

func TestErrorKindsAreDistinct(t *testing.T) {
	errs := []error{
		Configf("bad flags"),
		&TransportError{Err: errors.New("refused")},
		&RemoteError{Status: 429, Message: "rate limited"},
		Malformedf("missing key"),
	}

	var ce *ConfigurationError
	var te *TransportError
	var re *RemoteError
	var mr *MalformedResponse

	assert.True(t, errors.As(errs[0], &ce))
	assert.False(t, errors.As(errs[0], &re))
	assert.True(t, errors.As(errs[1], &te))
	assert.True(t, errors.As(errs[2], &re))
	assert.False(t, errors.As(errs[2], &mr))
	assert.True(t, errors.As(errs[3], &mr))
	assert.False(t, errors.As(errs[3], &ce))
}
