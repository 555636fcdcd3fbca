package patterns

import (
	"regexp"
	"strings"
)

var (
	emailRe    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe    = regexp.MustCompile(`(?:\+91|91)?[-.\s]?(?:\d{5}[-.\s]?\d{5}|\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\d{10})`)
	phoneSepRe = regexp.MustCompile(`[-.\s]`)

	nameLabelRe = regexp.MustCompile(`(?im)^[ \t]*(?:full[ \t]+)?name\b[ \t]*[:\-]?[ \t]*([A-Za-z][A-Za-z .']*)`)
	nameLineRe  = regexp.MustCompile(`(?m)^[ \t]*([A-Z][a-z]+[ \t]+[A-Z][a-z]+)`)

	locationLabelRe = regexp.MustCompile(`(?i)\b(?:address|location|city)[ \t]*[:\-][ \t]*\n?[ \t]*([^.\n]+?)[ \t]*(?:\n|\z)`)

	skillsBlockRe     = labelBlock([]string{"Technical Skills", "Programming Languages", "Technologies", "Tech Stack", "Skills"}, `\n[A-Z]`)
	experienceBlockRe = labelBlock([]string{"Professional Experience", "Work Experience", "Experience"}, `\n[A-Z]`)
	experienceYearsRe = regexp.MustCompile(`(?i)(\d+)\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp)\b`)
	projectsBlockRe   = labelBlock([]string{"Project Details", "Key Projects", "Projects"}, `\n[A-Z]{2,}`)

	roleLabelRe = regexp.MustCompile(`(?im)^[ \t]*(?:preferred|desired|target)[ \t]+role[ \t]*[:\-][ \t]*([^\n]+)`)

	listBreakRe = regexp.MustCompile(`[ \t]*,?[ \t]*\n[ \t]*(?:[-*•][ \t]*)?`)
)

// Library is the full, ordered set of strategies for every profile field.
type Library struct {
	Email         []Matcher
	Phone         []Matcher
	Name          []Matcher
	Location      []Matcher
	Skills        []Matcher
	Experience    []Matcher
	Projects      []Matcher
	PreferredRole []Matcher

	cities     map[string]string
	cityRe     *regexp.Regexp
	vocabulary []string
}

// Default returns the library tuned for Indian internship resumes.
func Default() *Library {
	return New(Cities, SkillVocabulary)
}

// New builds a Library over the given city and skill vocabularies.
func New(cities, skills []string) *Library {
	lib := &Library{
		cities:     make(map[string]string, len(cities)),
		cityRe:     vocabularyRegex(cities),
		vocabulary: append([]string(nil), skills...),
	}
	for _, c := range cities {
		lib.cities[strings.ToLower(c)] = c
	}

	lib.Email = []Matcher{Regex("email", emailRe, 0, nil)}
	lib.Phone = []Matcher{Regex("indian-mobile", phoneRe, 0, func(s string) string {
		return phoneSepRe.ReplaceAllString(s, "")
	})}
	lib.Name = []Matcher{
		Regex("name-label", nameLabelRe, 1, nil),
		Regex("leading-capitalized-words", nameLineRe, 1, nil),
	}
	lib.Location = []Matcher{
		Regex("location-label", locationLabelRe, 1, nil),
		{Name: "city-vocabulary", Match: lib.CityIn},
	}
	lib.Skills = []Matcher{
		Regex("skills-section", skillsBlockRe, 1, joinLines),
		{Name: "skill-vocabulary", Match: lib.scanSkills},
	}
	lib.Experience = []Matcher{
		Regex("experience-section", experienceBlockRe, 1, nil),
		Regex("years-of-experience", experienceYearsRe, 1, nil),
	}
	lib.Projects = []Matcher{Regex("projects-section", projectsBlockRe, 1, nil)}
	lib.PreferredRole = []Matcher{Regex("role-label", roleLabelRe, 1, nil)}
	return lib
}

// CityIn returns the first known city mentioned in text, in vocabulary casing.
func (l *Library) CityIn(text string) (string, bool) {
	m := l.cityRe.FindString(text)
	if m == "" {
		return "", false
	}
	return l.cities[strings.ToLower(m)], true
}

// scanSkills reports every vocabulary entry that appears anywhere in text.
func (l *Library) scanSkills(text string) (string, bool) {
	lower := strings.ToLower(text)
	var found []string
	for _, skill := range l.vocabulary {
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	return strings.Join(found, ", "), len(found) > 0
}

// joinLines flattens a multi-line section into a comma-separated list. The leading
// newline lets a bullet on the first line be stripped like the others.
func joinLines(s string) string {
	s = listBreakRe.ReplaceAllString("\n"+s, ", ")
	return strings.Trim(s, ", ")
}
