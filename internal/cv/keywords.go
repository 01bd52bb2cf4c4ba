package cv

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Vocabulary the extractor matches against. Keywords are matched on word
// boundaries so "ai" never fires inside "maintain".
var (
	techSkills = []string{
		"python", "javascript", "php", "laravel", "node.js", "angular", "react",
		"mysql", "postgresql", "mongodb", "git", "docker", "aws", "azure",
		"jenkins", "ci/cd", "rest api", "graphql", "full stack", "backend",
		"frontend", "web development", "software development", "database",
		"agile", "scrum", "devops", "machine learning", "ai", "data science",
	}
	jobTitles = []string{
		"developer", "engineer", "software engineer", "web developer", "backend developer",
		"frontend developer", "full stack developer", "data scientist", "devops engineer",
		"project manager", "product manager", "qa engineer", "test engineer",
	}
	softSkills = []string{
		"leadership", "communication", "teamwork", "problem solving", "adaptability",
		"critical thinking", "collaboration", "creativity", "time management",
	}

	titleCaser = cases.Title(language.English)

	// compiled once, the vocabulary never changes at runtime
	vocabPatterns = compileVocabulary()
)

type vocabPattern struct {
	keyword string
	re      *regexp.Regexp
}

func compileVocabulary() []vocabPattern {
	vocab := allVocabulary()
	patterns := make([]vocabPattern, len(vocab))
	for i, kw := range vocab {
		patterns[i] = vocabPattern{
			keyword: kw,
			re:      regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`),
		}
	}
	return patterns
}

// ExtractKeywords scans CV text for known skills and titles, returning
// them Title-cased, deduplicated and sorted by how often they occur.
func ExtractKeywords(text string) []string {
	lowered := strings.ToLower(text)

	var found []string
	seen := make(map[string]bool)
	for _, p := range vocabPatterns {
		if p.re.MatchString(lowered) && !seen[p.keyword] {
			seen[p.keyword] = true
			found = append(found, p.keyword)
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return strings.Count(lowered, found[i]) > strings.Count(lowered, found[j])
	})

	for i, kw := range found {
		found[i] = titleCaser.String(kw)
	}
	return found
}

// TopKeywords returns the n most frequent keywords joined with ", ",
// ready to drop into a search box.
func TopKeywords(text string, n int) string {
	found := ExtractKeywords(text)
	if len(found) > n {
		found = found[:n]
	}
	return strings.Join(found, ", ")
}

func allVocabulary() []string {
	all := make([]string, 0, len(techSkills)+len(jobTitles)+len(softSkills))
	all = append(all, techSkills...)
	all = append(all, jobTitles...)
	all = append(all, softSkills...)
	return all
}
