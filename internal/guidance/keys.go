package guidance

import (
	"strings"
	"time"

	"github.com/phrazzld/skillpath-api/internal/domain"
)

// How long each cached answer stays fresh.
const (
	MotivationTTL = 24 * time.Hour
	JobsTTL       = 30 * time.Minute
	QuizTTL       = time.Hour
	ProblemsTTL   = time.Hour
	NewsTTL       = 30 * time.Minute
	RoadmapTTL    = 24 * time.Hour
	ResourcesTTL  = time.Hour
	CareersTTL    = 24 * time.Hour
	AdviceTTL     = time.Hour
)

func key(parts ...string) string {
	return strings.Join(parts, "_")
}

func motivationKey(language string) string { return key("motivation", language) }

// jobsKey sorts a copy of the skills so the key does not depend on the order
// the caller listed them in.
func jobsKey(c domain.SearchCriteria) string {
	return key("jobs", c.Role, c.Location, c.Experience, strings.Join(domain.SortedSkills(c.Skills), "_"))
}

func quizKey(category string) string { return key("quiz", category) }

func problemsKey(domainName string) string { return key("problems", domainName) }

func newsKey(interest string) string { return key("news", interest) }

func roadmapKey(project string) string { return key("roadmap", project) }

func resourcesKey(topic, language string) string { return key("resources", topic, language) }

func careersKey(skills []string, language string) string {
	return key("career", strings.Join(domain.SortedSkills(skills), "_"), language)
}

func adviceKey(goal, level string) string { return key("advice", goal, level) }
