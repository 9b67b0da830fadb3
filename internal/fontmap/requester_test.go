// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fontmap

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/typemorph/internal/gemini"
	"github.com/jeranaias/typemorph/internal/glyph"
)

// mockGenerator records prompts and replays a canned answer.
type mockGenerator struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	schemas []*gemini.Schema
	text    string
	err     error
}

func (m *mockGenerator) GenerateJSON(_ context.Context, prompt string, schema *gemini.Schema) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.schemas = append(m.schemas, schema)
	return m.text, m.err
}

const hiResponse = `[{"char":"H","path":"M0 0","width":50},{"char":"i","path":"","width":10},{"char":"!","path":"M1 1"}]`

// =============================================================================
// SCENARIOS
// =============================================================================

func TestGenerate_InterAntonHi(t *testing.T) {
	gen := &mockGenerator{text: hiResponse}
	req := New(Options{APIKey: "k", Generator: gen})

	fm := req.Generate(context.Background(), []string{"Inter", "Anton"}, "Hi!")

	assert.Equal(t, glyph.FontMap{
		"H": {Path: "M0 0", Width: 50},
		"!": {Path: "M1 1", Width: 70},
	}, fm)
	require.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.prompts[0], "Inter, Anton")
	assert.Contains(t, gen.prompts[0], "Hi!")
}

func TestRequest_ReportsRejections(t *testing.T) {
	gen := &mockGenerator{text: hiResponse}
	res := New(Options{APIKey: "k", Generator: gen}).Request(context.Background(), []string{"Inter", "Anton"}, "Hi!")

	assert.Equal(t, StatusOK, res.Status)
	assert.True(t, res.OK())
	assert.Equal(t, []string{"H", "i", "!"}, res.Chars)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 1, res.Rejected[0].Index)
	assert.Equal(t, "path is empty", res.Rejected[0].Reason)
}

func TestGenerate_WhitespaceOnlyMakesNoCall(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n \r"} {
		gen := &mockGenerator{text: hiResponse}
		res := New(Options{APIKey: "k", Generator: gen}).Request(context.Background(), []string{"Inter"}, text)

		assert.Equal(t, StatusNoCharacters, res.Status)
		assert.NotNil(t, res.FontMap)
		assert.Empty(t, res.FontMap)
		assert.Zero(t, gen.calls)
	}
}

func TestGenerate_MissingCredentialMakesNoCall(t *testing.T) {
	gen := &mockGenerator{text: hiResponse}
	req := New(Options{APIKey: "   ", Generator: gen})

	res := req.Request(context.Background(), []string{"Inter"}, "abc")

	assert.False(t, req.HasCredential())
	assert.Equal(t, StatusNoCredential, res.Status)
	assert.Empty(t, res.FontMap)
	assert.Zero(t, gen.calls)
}

func TestGenerate_NoStylesMakesNoCall(t *testing.T) {
	gen := &mockGenerator{text: hiResponse}
	res := New(Options{APIKey: "k", Generator: gen}).Request(context.Background(), []string{" ", ""}, "abc")

	assert.Equal(t, StatusNoStyles, res.Status)
	assert.Empty(t, res.FontMap)
	assert.Zero(t, gen.calls)
}

func TestGenerate_TransportErrorYieldsEmptyMap(t *testing.T) {
	gen := &mockGenerator{err: errors.New("connection refused")}
	res := New(Options{APIKey: "k", Generator: gen}).Request(context.Background(), []string{"Inter"}, "abc")

	assert.Equal(t, StatusTransportError, res.Status)
	assert.EqualError(t, res.Err, "connection refused")
	assert.NotNil(t, res.FontMap)
	assert.Empty(t, res.FontMap)
}

func TestGenerate_EmptyTextYieldsEmptyResponse(t *testing.T) {
	gen := &mockGenerator{err: gemini.ErrEmptyResponse}
	res := New(Options{APIKey: "k", Generator: gen}).Request(context.Background(), []string{"Inter"}, "abc")
	assert.Equal(t, StatusEmptyResponse, res.Status)
	assert.Empty(t, res.FontMap)
}

func TestGenerate_MalformedJSON(t *testing.T) {
	for _, text := range []string{`[{"char":`, `{"char":"A","path":"M0 0"}`, `null`, `"text"`} {
		gen := &mockGenerator{text: text}
		res := New(Options{APIKey: "k", Generator: gen}).Request(context.Background(), []string{"Inter"}, "A")

		assert.Equal(t, StatusMalformedResponse, res.Status, text)
		assert.Empty(t, res.FontMap, text)
		assert.Error(t, res.Err, text)
	}
}

func TestGenerate_AllInvalidIsEmptyResponse(t *testing.T) {
	gen := &mockGenerator{text: `[{"char":"","path":"M0 0"},{"path":"M1 1"},42]`}
	res := New(Options{APIKey: "k", Generator: gen}).Request(context.Background(), []string{"Inter"}, "ab")

	assert.Equal(t, StatusEmptyResponse, res.Status)
	assert.Empty(t, res.FontMap)
	assert.Len(t, res.Rejected, 3)
}

func TestGenerate_SendsSchema(t *testing.T) {
	gen := &mockGenerator{text: `[]`}
	New(Options{APIKey: "k", Generator: gen}).Generate(context.Background(), []string{"Inter"}, "a")

	require.Len(t, gen.schemas, 1)
	s := gen.schemas[0]
	assert.Equal(t, gemini.TypeArray, s.Type)
	assert.Equal(t, gemini.TypeObject, s.Items.Type)
	assert.ElementsMatch(t, []string{"char", "path", "width"}, s.Items.Required)
	assert.Equal(t, gemini.TypeNumber, s.Items.Properties["width"].Type)
}

func TestGenerate_ConcurrentCallsIndependent(t *testing.T) {
	gen := &mockGenerator{text: `[{"char":"a","path":"M0 0","width":10}]`}
	req := New(Options{APIKey: "k", Generator: gen})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fm := req.Generate(context.Background(), []string{"Inter"}, "a")
			assert.Equal(t, 1, fm.Len())
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, gen.calls)
}

// =============================================================================
// END TO END OVER HTTP
// =============================================================================

func TestGenerate_AgainstGeminiServer(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-3-flash-preview:generateContent"))

		var body gemini.GenerateRequest
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
		assert.Equal(t, "application/json", body.GenerationConfig.ResponseMIMEType)

		resp := gemini.GenerateResponse{Candidates: []gemini.Candidate{{
			Content: gemini.Content{Parts: []gemini.Part{{Text: hiResponse}}},
		}}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	req := New(Options{APIKey: "secret", BaseURL: server.URL})
	fm := req.Generate(context.Background(), []string{"Inter", "Anton"}, "Hi!")

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 2, fm.Len())
	assert.Equal(t, 70.0, fm["!"].Width)
}

func TestGenerate_ServerErrorYieldsEmptyMap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	res := New(Options{APIKey: "secret", BaseURL: server.URL}).Request(context.Background(), []string{"Inter"}, "x")
	assert.Equal(t, StatusTransportError, res.Status)
	assert.Empty(t, res.FontMap)

	var apiErr *gemini.APIError
	assert.True(t, errors.As(res.Err, &apiErr))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "no_credential", StatusNoCredential.String())
	assert.Equal(t, "unknown", Status(99).String())
}
