// Package ai talks to an OpenAI-compatible chat-completions endpoint and turns its
// answers into study content.
//
// Client owns the HTTP exchange: request encoding, JSON-schema response formats, file
// attachments as data URLs, and retry with backoff for throttling, server errors and
// timeouts. Safety blocks and empty or malformed answers are reported without retrying.
//
// Service builds the prompts, declares the response schemas, validates what comes back
// and sanitizes generated text before it reaches the board.
package ai
