package domain

// Phase is one stage of a project roadmap.
type Phase struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Tasks   []string `json:"tasks"`
	Details string   `json:"details"`
}

// ProjectRoadmap breaks a portfolio project into phases.
type ProjectRoadmap struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
	Phases      []Phase  `json:"phases"`
}

// Milestone is a step along a recommended career path.
type Milestone struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Topics      []string   `json:"topics"`
	ProTips     string     `json:"pro_tips"`
	Resources   []Resource `json:"resources"`
}

// CareerRecommendation is a career path suggested for a set of skills.
// MatchScore is a percentage in [0, 100].
type CareerRecommendation struct {
	PathID       string      `json:"path_id"`
	Title        string      `json:"title"`
	Reason       string      `json:"reason"`
	MatchScore   float64     `json:"match_score"`
	StarterGuide string      `json:"starter_guide"`
	Milestones   []Milestone `json:"milestones"`
}
