// Package api exposes the career-guidance service over HTTP.
//
// Handlers decode and validate requests, call guidance.Service and translate
// its errors into status codes: a gateway that gave up after retrying becomes
// 503 with Retry-After, an upstream rejection becomes 502, and caller mistakes
// become 400. Responses never carry raw upstream error text.
package api
