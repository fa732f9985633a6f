// Package guidance implements the career-guidance features on top of the AI
// request gateway.
//
// Each Service method renders a prompt, optionally attaches a response schema,
// and runs the completion through gateway.Execute so that every outbound call
// shares the same concurrency bound and retry policy. Deterministic queries are
// wrapped in gateway.Cached, keyed on the request parameters.
package guidance
