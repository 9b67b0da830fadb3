// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini is a minimal client for the Gemini generateContent REST
// endpoint with structured (JSON schema) output.
//
// # Key Types
//
//   - Client: HTTP client bound to an API key, model and base URL
//   - GenerateRequest: prompt text plus the response schema
//   - Schema: the subset of the OpenAPI schema object Gemini accepts
//
// # Usage
//
//	client := gemini.NewClient(apiKey).WithModel("gemini-3-flash-preview")
//	text, err := client.GenerateJSON(ctx, prompt, schema)
//
// # Security
//
// API keys are sent only in the x-goog-api-key header and are never logged;
// KeyFingerprint returns a short SHA-256 prefix for diagnostics.
package gemini
