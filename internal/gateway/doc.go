// Package gateway funnels every outbound generative-AI call through a single
// admission and retry policy.
//
// A Queue bounds how many calls are in flight at once and admits waiters in
// strict FIFO order. An Executor runs one logical call through the queue,
// retrying failures whose status code is transient with exponential backoff
// and jitter, and surfacing everything else immediately. Call sites memoise
// successful responses through the narrow Cache contract with Cached.
//
// The package never renders user-facing messages. It classifies failures as
// *FatalRequestError or *RetriesExhaustedError and leaves the wording to the
// caller.
package gateway
