package guidance

import (
	"github.com/phrazzld/skillpath-api/internal/domain"
	"github.com/phrazzld/skillpath-api/internal/generation"
)

// Shorthands for the response schemas below.
var (
	str     = func() *generation.Schema { return generation.String("") }
	strList = func() *generation.Schema { return generation.ArrayOf(str()) }
	obj     = generation.Object
)

func resourceSchema(types []string, categories []string) *generation.Schema {
	return obj(map[string]*generation.Schema{
		"id":       str(),
		"type":     generation.Enum("", types...),
		"category": generation.Enum("", categories...),
		"title":    str(),
		"provider": str(),
		"url":      generation.String("direct link to the resource"),
	})
}

var (
	jobsSchema = generation.ArrayOf(obj(map[string]*generation.Schema{
		"id":          str(),
		"company":     str(),
		"role":        str(),
		"location":    str(),
		"salary":      str(),
		"category":    generation.Enum("", string(domain.JobCategoryJob), string(domain.JobCategoryInternship)),
		"description": str(),
		"eligibility": strList(),
		"apply_url":   str(),
	}))

	quizSchema = generation.ArrayOf(obj(map[string]*generation.Schema{
		"id":             str(),
		"question":       str(),
		"options":        strList(),
		"correct_answer": str(),
	}))

	problemsSchema = generation.ArrayOf(obj(map[string]*generation.Schema{
		"id":    str(),
		"title": str(),
		"difficulty": generation.Enum("",
			string(domain.DifficultyEasy), string(domain.DifficultyMedium), string(domain.DifficultyHard)),
		"description":  str(),
		"starter_code": str(),
		"test_cases":   strList(),
	}))

	newsSchema = generation.ArrayOf(obj(map[string]*generation.Schema{
		"title":   str(),
		"summary": str(),
		"tag":     str(),
		"date":    str(),
		"source":  str(),
		"url":     str(),
	}))

	roadmapSchema = obj(map[string]*generation.Schema{
		"id":          str(),
		"title":       str(),
		"description": str(),
		"tech":        strList(),
		"phases": generation.ArrayOf(obj(map[string]*generation.Schema{
			"id":      str(),
			"title":   str(),
			"tasks":   strList(),
			"details": str(),
		})),
	})

	resourcesSchema = generation.ArrayOf(resourceSchema(
		[]string{string(domain.ResourceYouTube), string(domain.ResourcePDF), string(domain.ResourceCourse)},
		[]string{string(domain.ResourceFree), string(domain.ResourcePaid)},
	))

	videosSchema = generation.ArrayOf(resourceSchema(
		[]string{string(domain.ResourceYouTube)},
		[]string{string(domain.ResourceFree)},
	))

	careersSchema = generation.ArrayOf(obj(map[string]*generation.Schema{
		"path_id":       str(),
		"title":         str(),
		"reason":        str(),
		"match_score":   generation.Number("percentage from 0 to 100"),
		"starter_guide": str(),
		"milestones": generation.ArrayOf(obj(map[string]*generation.Schema{
			"title":       str(),
			"description": str(),
			"topics":      strList(),
			"pro_tips":    str(),
			"resources": generation.ArrayOf(resourceSchema(
				[]string{string(domain.ResourceYouTube), string(domain.ResourcePDF), string(domain.ResourceCourse)},
				[]string{string(domain.ResourceFree), string(domain.ResourcePaid)},
			)),
		})),
	}))
)
