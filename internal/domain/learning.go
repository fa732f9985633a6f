package domain

// QuizQuestion is one multiple-choice aptitude question.
type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// Difficulty grades a coding problem.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Problem is a coding or data-structures exercise.
type Problem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Difficulty  Difficulty `json:"difficulty"`
	Description string     `json:"description"`
	StarterCode string     `json:"starter_code"`
	TestCases   []string   `json:"test_cases"`
}

// ResourceType is the medium of a learning resource.
type ResourceType string

const (
	ResourceYouTube ResourceType = "youtube"
	ResourcePDF     ResourceType = "pdf"
	ResourceCourse  ResourceType = "course"
)

// ResourceCategory says whether a resource costs money.
type ResourceCategory string

const (
	ResourceFree ResourceCategory = "free"
	ResourcePaid ResourceCategory = "paid"
)

// Resource points at external learning material.
type Resource struct {
	ID       string           `json:"id"`
	Type     ResourceType     `json:"type"`
	Category ResourceCategory `json:"category"`
	Title    string           `json:"title"`
	Provider string           `json:"provider"`
	URL      string           `json:"url"`
}

// NewsItem is a headline from the technology market.
type NewsItem struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Tag     string `json:"tag"`
	Date    string `json:"date"`
	Source  string `json:"source"`
	URL     string `json:"url"`
}
