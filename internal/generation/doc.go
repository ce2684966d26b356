// Package generation orchestrates AI content generation for lessons. It
// composes the provider registry, usage tracker, content validator,
// circuit breakers, retry policy, and response cache into typed quiz,
// summary, and flashcard operations, so callers never talk to an AI
// backend directly.
package generation
