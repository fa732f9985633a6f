// Package generation provides the boundary between the application core and
// external generative-AI services. It abstracts the details of LLM API
// integration (Gemini) so that feature code builds prompts and output schemas
// without coupling to a specific provider.
package generation
