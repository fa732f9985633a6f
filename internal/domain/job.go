package domain

import (
	"fmt"
	"slices"
	"strings"
)

// JobCategory distinguishes full positions from internships.
type JobCategory string

const (
	JobCategoryJob        JobCategory = "job"
	JobCategoryInternship JobCategory = "internship"
)

// Job is a single opening returned by a job search.
type Job struct {
	ID          string      `json:"id"`
	Company     string      `json:"company"`
	Role        string      `json:"role"`
	Location    string      `json:"location"`
	Salary      string      `json:"salary"`
	Category    JobCategory `json:"category"`
	Description string      `json:"description"`
	Eligibility []string    `json:"eligibility"`
	ApplyURL    string      `json:"apply_url"`
}

// SearchCriteria describes the openings a learner is looking for.
type SearchCriteria struct {
	Role       string   `json:"role" validate:"required"`
	Location   string   `json:"location" validate:"required"`
	Experience string   `json:"experience" validate:"required"`
	Skills     []string `json:"skills" validate:"dive,required"`
}

// Validate checks that the criteria can be turned into a search.
func (c SearchCriteria) Validate() error {
	switch {
	case strings.TrimSpace(c.Role) == "":
		return fmt.Errorf("%w: role is required", ErrValidation)
	case strings.TrimSpace(c.Location) == "":
		return fmt.Errorf("%w: location is required", ErrValidation)
	case strings.TrimSpace(c.Experience) == "":
		return fmt.Errorf("%w: experience is required", ErrValidation)
	}
	for _, skill := range c.Skills {
		if strings.TrimSpace(skill) == "" {
			return fmt.Errorf("%w: skills cannot contain blank entries", ErrValidation)
		}
	}
	return nil
}

// SortedSkills returns a sorted copy of skills. The input is not modified.
func SortedSkills(skills []string) []string {
	sorted := slices.Clone(skills)
	slices.Sort(sorted)
	return sorted
}
