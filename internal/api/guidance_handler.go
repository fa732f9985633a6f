package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/phrazzld/skillpath-api/internal/api/shared"
	"github.com/phrazzld/skillpath-api/internal/domain"
	"github.com/phrazzld/skillpath-api/internal/guidance"
)

// Guide is the career-guidance functionality the handlers expose.
// *guidance.Service implements it.
type Guide interface {
	MotivationQuote(ctx context.Context, language string) (string, error)
	SearchJobs(ctx context.Context, c domain.SearchCriteria) ([]domain.Job, error)
	AptitudeQuiz(ctx context.Context, category string) ([]domain.QuizQuestion, error)
	ProblemSet(ctx context.Context, domainName string) ([]domain.Problem, error)
	MarketNews(ctx context.Context, interest string) ([]domain.NewsItem, error)
	ProjectRoadmap(ctx context.Context, projectName string) (domain.ProjectRoadmap, error)
	LocalizedResources(ctx context.Context, topic, language string, count int) ([]domain.Resource, error)
	CareerRecommendations(ctx context.Context, skills []string, language string) ([]domain.CareerRecommendation, error)
	Advice(ctx context.Context, goal, level string) (string, error)
	SageChat(ctx context.Context, history []domain.ChatMessage, message, language string) (string, error)
	MockInterview(ctx context.Context, history []domain.ChatMessage, message string) (string, error)
	SimulateCode(ctx context.Context, code, language string) (string, error)
	SimulateTerminal(ctx context.Context, command string, files []domain.SandboxFile) (string, error)
	ArchitectScript(ctx context.Context, projectTitle string) (string, error)
	AlternativeVideos(ctx context.Context, topic, language string) ([]domain.Resource, error)
	Dashboard(ctx context.Context, req guidance.DashboardRequest) (guidance.Dashboard, error)
}

var _ Guide = (*guidance.Service)(nil)

// GuidanceHandler serves the /api guidance endpoints.
type GuidanceHandler struct {
	guide Guide
}

// NewGuidanceHandler creates a GuidanceHandler.
func NewGuidanceHandler(guide Guide) *GuidanceHandler {
	return &GuidanceHandler{guide: guide}
}

// query returns the trimmed query parameter name.
func query(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// respond writes v as JSON, or the mapped error when err is set.
func respond[T any](w http.ResponseWriter, r *http.Request, v T, err error) {
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, v)
}

// respondText wraps a free-text answer in a TextResponse.
func respondText(w http.ResponseWriter, r *http.Request, text string, err error) {
	respond(w, r, TextResponse{Text: text}, err)
}

// decode reads and validates a JSON body, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}

// Motivation handles GET /api/motivation?language=
func (h *GuidanceHandler) Motivation(w http.ResponseWriter, r *http.Request) {
	quote, err := h.guide.MotivationQuote(r.Context(), query(r, "language"))
	respondText(w, r, quote, err)
}

// SearchJobs handles POST /api/jobs/search
func (h *GuidanceHandler) SearchJobs(w http.ResponseWriter, r *http.Request) {
	var req domain.SearchCriteria
	if !decode(w, r, &req) {
		return
	}
	jobs, err := h.guide.SearchJobs(r.Context(), req)
	respond(w, r, jobs, err)
}

// Quiz handles GET /api/quiz?category=
func (h *GuidanceHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	questions, err := h.guide.AptitudeQuiz(r.Context(), query(r, "category"))
	respond(w, r, questions, err)
}

// Problems handles GET /api/problems?domain=
func (h *GuidanceHandler) Problems(w http.ResponseWriter, r *http.Request) {
	problems, err := h.guide.ProblemSet(r.Context(), query(r, "domain"))
	respond(w, r, problems, err)
}

// News handles GET /api/news?interest=
func (h *GuidanceHandler) News(w http.ResponseWriter, r *http.Request) {
	news, err := h.guide.MarketNews(r.Context(), query(r, "interest"))
	respond(w, r, news, err)
}

// Roadmap handles GET /api/projects/roadmap?name=
func (h *GuidanceHandler) Roadmap(w http.ResponseWriter, r *http.Request) {
	roadmap, err := h.guide.ProjectRoadmap(r.Context(), query(r, "name"))
	respond(w, r, roadmap, err)
}

// Resources handles GET /api/resources?topic=&language=&count=
func (h *GuidanceHandler) Resources(w http.ResponseWriter, r *http.Request) {
	count := 0
	if raw := query(r, "count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid count: must be a positive integer")
			return
		}
		count = n
	}
	resources, err := h.guide.LocalizedResources(r.Context(), query(r, "topic"), query(r, "language"), count)
	respond(w, r, resources, err)
}

// Careers handles POST /api/careers/recommend
func (h *GuidanceHandler) Careers(w http.ResponseWriter, r *http.Request) {
	var req CareerRecommendRequest
	if !decode(w, r, &req) {
		return
	}
	recs, err := h.guide.CareerRecommendations(r.Context(), req.Skills, req.Language)
	respond(w, r, recs, err)
}

// Advice handles GET /api/advice?goal=&level=
func (h *GuidanceHandler) Advice(w http.ResponseWriter, r *http.Request) {
	advice, err := h.guide.Advice(r.Context(), query(r, "goal"), query(r, "level"))
	respondText(w, r, advice, err)
}

// SageChat handles POST /api/chat/sage
func (h *GuidanceHandler) SageChat(w http.ResponseWriter, r *http.Request) {
	var req SageChatRequest
	if !decode(w, r, &req) {
		return
	}
	reply, err := h.guide.SageChat(r.Context(), req.History, req.Message, req.Language)
	respondText(w, r, reply, err)
}

// Interview handles POST /api/chat/interview
func (h *GuidanceHandler) Interview(w http.ResponseWriter, r *http.Request) {
	var req InterviewRequest
	if !decode(w, r, &req) {
		return
	}
	reply, err := h.guide.MockInterview(r.Context(), req.History, req.Message)
	respondText(w, r, reply, err)
}

// RunCode handles POST /api/sandbox/run
func (h *GuidanceHandler) RunCode(w http.ResponseWriter, r *http.Request) {
	var req SandboxRunRequest
	if !decode(w, r, &req) {
		return
	}
	output, err := h.guide.SimulateCode(r.Context(), req.Code, req.Language)
	respondText(w, r, output, err)
}

// Terminal handles POST /api/sandbox/terminal
func (h *GuidanceHandler) Terminal(w http.ResponseWriter, r *http.Request) {
	var req TerminalRequest
	if !decode(w, r, &req) {
		return
	}
	output, err := h.guide.SimulateTerminal(r.Context(), req.Command, req.Files)
	respondText(w, r, output, err)
}

// Script handles GET /api/projects/script?title=
func (h *GuidanceHandler) Script(w http.ResponseWriter, r *http.Request) {
	script, err := h.guide.ArchitectScript(r.Context(), query(r, "title"))
	respondText(w, r, script, err)
}

// Videos handles GET /api/videos/alternatives?topic=&language=
func (h *GuidanceHandler) Videos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.guide.AlternativeVideos(r.Context(), query(r, "topic"), query(r, "language"))
	respond(w, r, videos, err)
}

// Dashboard handles GET /api/dashboard?language=&interest=&goal=&level=
func (h *GuidanceHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.guide.Dashboard(r.Context(), guidance.DashboardRequest{
		Language: query(r, "language"),
		Interest: query(r, "interest"),
		Goal:     query(r, "goal"),
		Level:    query(r, "level"),
	})
	respond(w, r, d, err)
}
