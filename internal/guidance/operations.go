package guidance

import (
	"context"

	"github.com/phrazzld/skillpath-api/internal/domain"
	"github.com/phrazzld/skillpath-api/internal/generation"
)

// Item counts requested from the model.
const (
	jobsCount     = 10
	quizCount     = 10
	problemsCount = 5
	newsCount     = 10

	// DefaultResourceCount is used when LocalizedResources is asked for
	// zero or fewer items.
	DefaultResourceCount = 10
	// MaxResourceCount bounds a single resources query.
	MaxResourceCount = 25

	// DefaultInterest is the news topic when none is given.
	DefaultInterest = "Technology"
)

// MotivationQuote returns a one-sentence motivational quote in language.
func (s *Service) MotivationQuote(ctx context.Context, language string) (string, error) {
	if err := required("language", language); err != nil {
		return "", err
	}
	ctx = s.withOperation(ctx, "motivation_quote")

	prompt, err := render("motivation", struct{ Language string }{language})
	if err != nil {
		return "", err
	}
	return s.cachedText(ctx, motivationKey(language), MotivationTTL, generation.Request{Prompt: prompt})
}

// SearchJobs finds current openings matching c using web search.
func (s *Service) SearchJobs(ctx context.Context, c domain.SearchCriteria) ([]domain.Job, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ctx = s.withOperation(ctx, "search_jobs")

	prompt, err := render("jobs", struct {
		domain.SearchCriteria
		Count int
	}{c, jobsCount})
	if err != nil {
		return nil, err
	}
	return cachedJSON[[]domain.Job](ctx, s, jobsKey(c), JobsTTL, generation.Request{
		Prompt:          prompt,
		Schema:          jobsSchema,
		SearchGrounding: true,
	})
}

// AptitudeQuiz generates multiple-choice questions for category.
func (s *Service) AptitudeQuiz(ctx context.Context, category string) ([]domain.QuizQuestion, error) {
	if err := required("category", category); err != nil {
		return nil, err
	}
	ctx = s.withOperation(ctx, "aptitude_quiz")

	prompt, err := render("quiz", struct {
		Category string
		Count    int
	}{category, quizCount})
	if err != nil {
		return nil, err
	}
	return cachedJSON[[]domain.QuizQuestion](ctx, s, quizKey(category), QuizTTL, generation.Request{
		Prompt: prompt,
		Schema: quizSchema,
	})
}

// ProblemSet generates coding problems for a technical domain.
func (s *Service) ProblemSet(ctx context.Context, domainName string) ([]domain.Problem, error) {
	if err := required("domain", domainName); err != nil {
		return nil, err
	}
	ctx = s.withOperation(ctx, "problem_set")

	prompt, err := render("problems", struct {
		Domain string
		Count  int
	}{domainName, problemsCount})
	if err != nil {
		return nil, err
	}
	return cachedJSON[[]domain.Problem](ctx, s, problemsKey(domainName), ProblemsTTL, generation.Request{
		Prompt: prompt,
		Schema: problemsSchema,
	})
}

// MarketNews returns recent technology headlines for interest. An empty
// interest means DefaultInterest.
func (s *Service) MarketNews(ctx context.Context, interest string) ([]domain.NewsItem, error) {
	if interest == "" {
		interest = DefaultInterest
	}
	ctx = s.withOperation(ctx, "market_news")

	prompt, err := render("news", struct {
		Interest string
		Count    int
	}{interest, newsCount})
	if err != nil {
		return nil, err
	}
	return cachedJSON[[]domain.NewsItem](ctx, s, newsKey(interest), NewsTTL, generation.Request{
		Prompt:          prompt,
		Schema:          newsSchema,
		SearchGrounding: true,
	})
}

// ProjectRoadmap plans a portfolio project phase by phase.
func (s *Service) ProjectRoadmap(ctx context.Context, projectName string) (domain.ProjectRoadmap, error) {
	if err := required("project name", projectName); err != nil {
		return domain.ProjectRoadmap{}, err
	}
	ctx = s.withOperation(ctx, "project_roadmap")

	prompt, err := render("roadmap", struct{ Project string }{projectName})
	if err != nil {
		return domain.ProjectRoadmap{}, err
	}
	return cachedJSON[domain.ProjectRoadmap](ctx, s, roadmapKey(projectName), RoadmapTTL, generation.Request{
		Prompt: prompt,
		Schema: roadmapSchema,
	})
}

// LocalizedResources searches for count learning resources about topic in
// language. Count is clamped to [1, MaxResourceCount]; zero or less means
// DefaultResourceCount. The count is not part of the cache key.
func (s *Service) LocalizedResources(ctx context.Context, topic, language string, count int) ([]domain.Resource, error) {
	if err := required("topic", topic, "language", language); err != nil {
		return nil, err
	}
	switch {
	case count <= 0:
		count = DefaultResourceCount
	case count > MaxResourceCount:
		count = MaxResourceCount
	}
	ctx = s.withOperation(ctx, "localized_resources")

	prompt, err := render("resources", struct {
		Topic    string
		Language string
		Count    int
	}{topic, language, count})
	if err != nil {
		return nil, err
	}
	return cachedJSON[[]domain.Resource](ctx, s, resourcesKey(topic, language), ResourcesTTL, generation.Request{
		Prompt:          prompt,
		Schema:          resourcesSchema,
		SearchGrounding: true,
	})
}

// CareerRecommendations suggests career paths for skills, answering in language.
func (s *Service) CareerRecommendations(ctx context.Context, skills []string, language string) ([]domain.CareerRecommendation, error) {
	if len(skills) == 0 {
		return nil, required("skills", "")
	}
	for _, skill := range skills {
		if err := required("skill", skill); err != nil {
			return nil, err
		}
	}
	if err := required("language", language); err != nil {
		return nil, err
	}
	ctx = s.withOperation(ctx, "career_recommendations")

	prompt, err := render("careers", struct {
		Skills   []string
		Language string
	}{skills, language})
	if err != nil {
		return nil, err
	}
	return cachedJSON[[]domain.CareerRecommendation](ctx, s, careersKey(skills, language), CareersTTL,
		generation.Request{
			Prompt: prompt,
			Schema: careersSchema,
		})
}

// Advice returns brief tactical advice for reaching goal from level.
func (s *Service) Advice(ctx context.Context, goal, level string) (string, error) {
	if err := required("goal", goal, "level", level); err != nil {
		return "", err
	}
	ctx = s.withOperation(ctx, "advice")

	prompt, err := render("advice", struct{ Goal, Level string }{goal, level})
	if err != nil {
		return "", err
	}
	return s.cachedText(ctx, adviceKey(goal, level), AdviceTTL, generation.Request{Prompt: prompt})
}

// SageChat continues a career-advice conversation in language.
func (s *Service) SageChat(ctx context.Context, history []domain.ChatMessage, message, language string) (string, error) {
	if err := required("message", message, "language", language); err != nil {
		return "", err
	}
	turns, err := toTurns(history)
	if err != nil {
		return "", err
	}
	ctx = s.withOperation(ctx, "sage_chat")

	system, err := render("sage", struct{ Language string }{language})
	if err != nil {
		return "", err
	}
	return s.chat(ctx, generation.ChatRequest{
		SystemInstruction: system,
		History:           turns,
		Message:           message,
		SearchGrounding:   true,
	})
}

// MockInterview continues a technical interview, evaluating the latest answer.
func (s *Service) MockInterview(ctx context.Context, history []domain.ChatMessage, message string) (string, error) {
	if err := required("message", message); err != nil {
		return "", err
	}
	turns, err := toTurns(history)
	if err != nil {
		return "", err
	}
	ctx = s.withOperation(ctx, "mock_interview")

	system, err := render("interview", nil)
	if err != nil {
		return "", err
	}
	return s.chat(ctx, generation.ChatRequest{
		SystemInstruction: system,
		History:           turns,
		Message:           message,
	})
}

// SimulateCode asks the model for the output code would print. Nothing is
// executed locally.
func (s *Service) SimulateCode(ctx context.Context, code, language string) (string, error) {
	if err := required("code", code, "language", language); err != nil {
		return "", err
	}
	ctx = s.withOperation(ctx, "simulate_code")

	prompt, err := render("code", struct{ Code, Language string }{code, language})
	if err != nil {
		return "", err
	}
	return s.complete(ctx, generation.Request{Prompt: prompt})
}

// SimulateTerminal asks the model for the output of a shell command run
// against files.
func (s *Service) SimulateTerminal(ctx context.Context, command string, files []domain.SandboxFile) (string, error) {
	if err := required("command", command); err != nil {
		return "", err
	}
	if files == nil {
		files = []domain.SandboxFile{}
	}
	ctx = s.withOperation(ctx, "simulate_terminal")

	prompt, err := render("terminal", struct {
		Command string
		Files   []domain.SandboxFile
	}{command, files})
	if err != nil {
		return "", err
	}
	return s.complete(ctx, generation.Request{Prompt: prompt})
}

// ArchitectScript describes how to build the project titled projectTitle.
func (s *Service) ArchitectScript(ctx context.Context, projectTitle string) (string, error) {
	if err := required("project title", projectTitle); err != nil {
		return "", err
	}
	ctx = s.withOperation(ctx, "architect_script")

	prompt, err := render("script", struct{ Title string }{projectTitle})
	if err != nil {
		return "", err
	}
	return s.complete(ctx, generation.Request{Prompt: prompt})
}

// AlternativeVideos finds free YouTube material on topic in language.
func (s *Service) AlternativeVideos(ctx context.Context, topic, language string) ([]domain.Resource, error) {
	if err := required("topic", topic, "language", language); err != nil {
		return nil, err
	}
	ctx = s.withOperation(ctx, "alternative_videos")

	prompt, err := render("videos", struct{ Topic, Language string }{topic, language})
	if err != nil {
		return nil, err
	}
	return completeJSON[[]domain.Resource](ctx, s, generation.Request{
		Prompt:          prompt,
		Schema:          videosSchema,
		SearchGrounding: true,
	})
}
