// Package gemini provides an implementation of the generation.Completer
// interface backed by Google's Gemini API.
//
// This package is an infrastructure adapter: it translates generation
// requests into genai calls and genai failures into *gateway.RequestError
// values carrying the upstream HTTP status, so the gateway can decide what
// to retry. It performs no retries itself.
package gemini
