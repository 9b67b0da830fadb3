// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return &Schema{
		Type: TypeArray,
		Items: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"char": {Type: TypeString},
			},
			Required: []string{"char"},
		},
	}
}

func textResponse(text string) string {
	b, _ := json.Marshal(GenerateResponse{
		Candidates: []Candidate{{Content: Content{Role: "model", Parts: []Part{{Text: text}}}}},
	})
	return string(b)
}

// =============================================================================
// REQUEST SHAPE
// =============================================================================

func TestGenerateJSON_RequestShape(t *testing.T) {
	var gotPath, gotKey string
	var gotBody GenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, textResponse(`[{"char":"A"}]`))
	}))
	defer server.Close()

	client := NewClient("  test-key  ").WithBaseURL(server.URL + "/").WithModel("models/test-model")
	text, err := client.GenerateJSON(context.Background(), "make glyphs", testSchema())
	require.NoError(t, err)

	assert.Equal(t, `[{"char":"A"}]`, text)
	assert.Equal(t, "/v1beta/models/test-model:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "user", gotBody.Contents[0].Role)
	assert.Equal(t, "make glyphs", gotBody.Contents[0].Parts[0].Text)
	require.NotNil(t, gotBody.GenerationConfig)
	assert.Equal(t, MIMETypeJSON, gotBody.GenerationConfig.ResponseMIMEType)
	assert.Equal(t, TypeArray, gotBody.GenerationConfig.ResponseSchema.Type)
	assert.Equal(t, []string{"char"}, gotBody.GenerationConfig.ResponseSchema.Items.Required)
}

func TestGenerateResponse_TextConcatenatesParts(t *testing.T) {
	resp := &GenerateResponse{Candidates: []Candidate{
		{Content: Content{Parts: []Part{{Text: "[{"}, {Text: `"char":"x"}]`}}}},
		{Content: Content{Parts: []Part{{Text: "ignored"}}}},
	}}
	assert.Equal(t, `[{"char":"x"}]`, resp.Text())

	var empty *GenerateResponse
	assert.Equal(t, "", empty.Text())
}

// =============================================================================
// ERRORS
// =============================================================================

func TestGenerate_NotConfigured(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	_, err := NewClient("").WithBaseURL(server.URL).GenerateJSON(context.Background(), "x", testSchema())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Zero(t, calls.Load())
}

func TestGenerate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"code":401,"message":"bad","status":"UNAUTHENTICATED"}}`, ErrAuthFailed},
		{"forbidden", http.StatusForbidden, `nope`, ErrAuthFailed},
		{"bad key as 400", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`, ErrAuthFailed},
		{"not found", http.StatusNotFound, `{"error":{"code":404,"message":"models/x is not found","status":"NOT_FOUND"}}`, ErrModelNotFound},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`, ErrRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := NewClient("k").WithBaseURL(server.URL).GenerateJSON(context.Background(), "x", testSchema())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGenerate_ServerErrorIsAPIError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`)
	}))
	defer server.Close()

	_, err := NewClient("k").WithBaseURL(server.URL).GenerateJSON(context.Background(), "x", testSchema())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.Status)
	assert.Equal(t, "INTERNAL", apiErr.Code)
	assert.Equal(t, "internal", apiErr.Message)
	assert.Equal(t, int32(1), calls.Load(), "no retries")
}

func TestGenerateJSON_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"candidates":[]}`)
	}))
	defer server.Close()

	_, err := NewClient("k").WithBaseURL(server.URL).GenerateJSON(context.Background(), "x", testSchema())
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerate_MalformedEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"candidates":`)
	}))
	defer server.Close()

	_, err := NewClient("k").WithBaseURL(server.URL).GenerateJSON(context.Background(), "x", testSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestGenerate_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient("k").WithBaseURL(server.URL).GenerateJSON(ctx, "x", testSchema())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// =============================================================================
// THROTTLE AND KEY HANDLING
// =============================================================================

func TestWithRequestsPerMinute_WaitHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, textResponse("[]"))
	}))
	defer server.Close()

	client := NewClient("k").WithBaseURL(server.URL).WithRequestsPerMinute(1)

	_, err := client.GenerateJSON(context.Background(), "x", testSchema())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.GenerateJSON(ctx, "x", testSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")

	client.WithRequestsPerMinute(0)
	_, err = client.GenerateJSON(context.Background(), "x", testSchema())
	assert.NoError(t, err)
}

func TestKeyFingerprint(t *testing.T) {
	c := NewClient("secret-key-123")
	fp := c.KeyFingerprint()
	assert.Len(t, fp, 8)
	assert.Equal(t, fp, Fingerprint("secret-key-123"))
	assert.NotContains(t, c.APIKeyMasked(), "secret")
	assert.Equal(t, "none", Fingerprint(""))
	assert.Equal(t, "[not set]", NewClient("").APIKeyMasked())
}

func TestWithModel_EmptyKeepsDefault(t *testing.T) {
	c := NewClient("k").WithModel("   ")
	assert.Equal(t, DefaultModel, c.Model())
	assert.True(t, strings.HasPrefix(c.endpoint(), DefaultBaseURL))
}
