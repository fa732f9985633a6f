package api

import (
	"context"
	"sync"

	"github.com/phrazzld/skillpath-api/internal/domain"
	"github.com/phrazzld/skillpath-api/internal/guidance"
)

// stubGuide returns canned answers, or err when set, and records the
// arguments of the last call.
type stubGuide struct {
	mu   sync.Mutex
	err  error
	args []any
}

func (s *stubGuide) record(args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.args = args
	return s.err
}

func (s *stubGuide) lastArgs() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.args
}

func (s *stubGuide) MotivationQuote(_ context.Context, language string) (string, error) {
	return "Keep going", s.record(language)
}

func (s *stubGuide) SearchJobs(_ context.Context, c domain.SearchCriteria) ([]domain.Job, error) {
	return []domain.Job{{ID: "1", Company: "Acme", Role: c.Role}}, s.record(c)
}

func (s *stubGuide) AptitudeQuiz(_ context.Context, category string) ([]domain.QuizQuestion, error) {
	return []domain.QuizQuestion{{ID: "q1", Question: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"}}, s.record(category)
}

func (s *stubGuide) ProblemSet(_ context.Context, d string) ([]domain.Problem, error) {
	return []domain.Problem{{ID: "p1", Difficulty: domain.DifficultyHard}}, s.record(d)
}

func (s *stubGuide) MarketNews(_ context.Context, interest string) ([]domain.NewsItem, error) {
	return []domain.NewsItem{{Title: "News"}}, s.record(interest)
}

func (s *stubGuide) ProjectRoadmap(_ context.Context, name string) (domain.ProjectRoadmap, error) {
	return domain.ProjectRoadmap{Title: name}, s.record(name)
}

func (s *stubGuide) LocalizedResources(_ context.Context, topic, language string, count int) ([]domain.Resource, error) {
	return []domain.Resource{{ID: "r1", Type: domain.ResourcePDF}}, s.record(topic, language, count)
}

func (s *stubGuide) CareerRecommendations(_ context.Context, skills []string, language string) ([]domain.CareerRecommendation, error) {
	return []domain.CareerRecommendation{{Title: "SRE", MatchScore: 90}}, s.record(skills, language)
}

func (s *stubGuide) Advice(_ context.Context, goal, level string) (string, error) {
	return "Practice daily", s.record(goal, level)
}

func (s *stubGuide) SageChat(_ context.Context, history []domain.ChatMessage, message, language string) (string, error) {
	return "sage says", s.record(history, message, language)
}

func (s *stubGuide) MockInterview(_ context.Context, history []domain.ChatMessage, message string) (string, error) {
	return "next question", s.record(history, message)
}

func (s *stubGuide) SimulateCode(_ context.Context, code, language string) (string, error) {
	return "42", s.record(code, language)
}

func (s *stubGuide) SimulateTerminal(_ context.Context, command string, files []domain.SandboxFile) (string, error) {
	return "main.go", s.record(command, files)
}

func (s *stubGuide) ArchitectScript(_ context.Context, title string) (string, error) {
	return "script", s.record(title)
}

func (s *stubGuide) AlternativeVideos(_ context.Context, topic, language string) ([]domain.Resource, error) {
	return []domain.Resource{{ID: "v1", Type: domain.ResourceYouTube}}, s.record(topic, language)
}

func (s *stubGuide) Dashboard(_ context.Context, req guidance.DashboardRequest) (guidance.Dashboard, error) {
	return guidance.Dashboard{Quote: "q", Advice: "a"}, s.record(req)
}
