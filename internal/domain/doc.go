// Package domain contains the career-guidance entities produced by the
// generative model: job listings, quizzes, coding problems, news, project
// roadmaps, learning resources and career recommendations.
//
// The types mirror the structured output requested from the model. They
// carry JSON tags matching the response schemas and a handful of Validate
// methods for values that arrive from API callers rather than from the model.
package domain
