// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fontmap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jeranaias/typemorph/internal/gemini"
	"github.com/jeranaias/typemorph/internal/glyph"
	"github.com/jeranaias/typemorph/internal/logging"
)

// Generator produces JSON text for a prompt under a response schema.
// *gemini.Client satisfies it.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, schema *gemini.Schema) (string, error)
}

// Status tells why a Request produced the map it did.
type Status int

const (
	StatusOK Status = iota
	StatusNoCredential
	StatusNoCharacters
	StatusNoStyles
	StatusTransportError
	StatusMalformedResponse
	StatusEmptyResponse
)

var statusNames = map[Status]string{
	StatusOK:                "ok",
	StatusNoCredential:      "no_credential",
	StatusNoCharacters:      "no_characters",
	StatusNoStyles:          "no_styles",
	StatusTransportError:    "transport_error",
	StatusMalformedResponse: "malformed_response",
	StatusEmptyResponse:     "empty_response",
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of one Request. FontMap is never nil.
type Result struct {
	Status   Status
	FontMap  glyph.FontMap
	Rejected []Rejection
	Err      error
	Chars    []string
	Duration time.Duration
}

// OK reports whether the map came from a successful call.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Options configures a Requester.
type Options struct {
	// APIKey is the service credential. Without it no call is made.
	APIKey string

	// Model overrides gemini.DefaultModel.
	Model string

	// BaseURL overrides gemini.DefaultBaseURL.
	BaseURL string

	// RequestsPerMinute throttles calls client-side; zero means unlimited.
	RequestsPerMinute int

	// Generator replaces the gemini client, mainly for tests.
	Generator Generator

	Logger *slog.Logger
}

// Requester turns (style names, text) into a FontMap. It holds no mutable
// state, so concurrent calls are independent.
type Requester struct {
	gen        Generator
	credential bool
	keyFP      string
	logger     *slog.Logger
}

// New creates a Requester.
func New(opts Options) *Requester {
	key := strings.TrimSpace(opts.APIKey)
	gen := opts.Generator
	if gen == nil {
		gen = gemini.NewClient(key).
			WithModel(opts.Model).
			WithBaseURL(opts.BaseURL).
			WithRequestsPerMinute(opts.RequestsPerMinute).
			WithLogger(opts.Logger)
	}
	return &Requester{
		gen:        gen,
		credential: key != "",
		keyFP:      gemini.Fingerprint(key),
		logger:     opts.Logger,
	}
}

// HasCredential reports whether an API key was supplied.
func (r *Requester) HasCredential() bool {
	return r.credential
}

func (r *Requester) log() *slog.Logger {
	return logging.OrDefault(r.logger)
}

// Generate returns the glyphs for the unique characters of targetText, or an
// empty map on any failure.
func (r *Requester) Generate(ctx context.Context, styleNames []string, targetText string) glyph.FontMap {
	return r.Request(ctx, styleNames, targetText).FontMap
}

// Request is Generate with the outcome spelled out.
func (r *Requester) Request(ctx context.Context, styleNames []string, targetText string) Result {
	chars := UniqueChars(targetText)
	return r.RequestChars(ctx, styleNames, chars)
}

// RequestChars asks for exactly chars. It is used by callers that have
// already removed characters they hold glyphs for.
func (r *Requester) RequestChars(ctx context.Context, styleNames []string, chars []string) Result {
	res := Result{FontMap: glyph.FontMap{}, Chars: chars}
	styles := cleanStyles(styleNames)

	switch {
	case len(chars) == 0:
		res.Status = StatusNoCharacters
		return res
	case len(styles) == 0:
		res.Status = StatusNoStyles
		r.log().Warn("font map request skipped: no style names")
		return res
	case !r.credential:
		res.Status = StatusNoCredential
		r.log().Warn("font map request skipped: GEMINI_API_KEY is missing")
		return res
	}

	start := time.Now()
	text, err := r.gen.GenerateJSON(ctx, BuildPrompt(styles, chars), Schema())
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		if errors.Is(err, gemini.ErrEmptyResponse) {
			res.Status = StatusEmptyResponse
		} else {
			res.Status = StatusTransportError
		}
		r.log().Error("generative font error", "error", err, "key", r.keyFP, "chars", len(chars))
		return res
	}

	fm, rejected, err := Decode([]byte(text))
	res.Rejected = rejected
	if err != nil {
		res.Err = err
		res.Status = StatusMalformedResponse
		r.log().Error("generative font error: malformed response", "error", err)
		return res
	}
	for _, rej := range rejected {
		r.log().Debug("glyph rejected", "index", rej.Index, "reason", rej.Reason)
	}
	if fm.Len() == 0 {
		res.Status = StatusEmptyResponse
		r.log().Warn("generative font returned no usable glyphs", "rejected", len(rejected))
		return res
	}

	res.FontMap = fm
	res.Status = StatusOK
	r.log().Info("font map generated",
		"glyphs", fm.Len(), "requested", len(chars), "rejected", len(rejected), "duration", res.Duration)
	return res
}

func cleanStyles(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
