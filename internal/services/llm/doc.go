// Package llm provides an OpenAI-compatible chat-completion client for the
// recommendation pipeline.
//
// This package is used by:
//   - Intent classification: label a user message as movie, tv, or other
//   - Query synthesis: turn a message into a structured discovery query
//   - Result summarization: produce a grounded recommendation
//   - General chat: answer non-recommendation messages over the full history
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send a system prompt plus message history, receive text.
// Client.CompleteJSON: send system/user prompts, receive a JSON payload.
// Client.HealthCheck: verify API key and model availability.
//
// # Retry Behaviour
//
// Every pipeline call is attempted once; a failed call degrades to a
// component-local default at the call site rather than being retried. The
// retry machinery (HTTP 408/429/5xx, network timeouts, exponential backoff
// honoring Retry-After) remains available through WithRetryMaxAttempts for
// callers outside the pipeline, such as the health check.
//
// # Fallback
//
// If the model is unavailable or returns an error, callers fall back to their
// component defaults: `other` classification, empty query, apology string.
package llm
