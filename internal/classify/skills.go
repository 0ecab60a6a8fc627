package classify

import (
	"regexp"
	"strings"
)

// skillVocabulary is the fixed set of technology terms recognized in
// descriptions. Extraction preserves this order.
var skillVocabulary = []string{
	"Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "Go", "Rust",
	"React", "Angular", "Vue", "Node.js", "Django", "Flask", "FastAPI", "Spring",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform",
	"SQL", "PostgreSQL", "MongoDB", "Redis", "Elasticsearch",
	"Git", "CI/CD", "Jenkins", "GitHub Actions",
	"REST", "GraphQL", "gRPC", "Kafka", "RabbitMQ",
	"TensorFlow", "PyTorch", "Scikit-learn", "Pandas",
	"Linux", "Bash", "Agile", "Scrum",
}

var skillPatterns = func() []*regexp.Regexp {
	isWord := func(b byte) bool {
		return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
	}
	out := make([]*regexp.Regexp, len(skillVocabulary))
	for i, skill := range skillVocabulary {
		p := regexp.QuoteMeta(skill)
		// \b only works next to word characters; "C++" needs a bare tail.
		if isWord(skill[0]) {
			p = `\b` + p
		}
		if isWord(skill[len(skill)-1]) {
			p = p + `\b`
		}
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}()

// ExtractSkills scans a description for known technology terms, whole-word
// and case-insensitive, capped at max entries in vocabulary order.
func ExtractSkills(description string, max int) []string {
	if strings.TrimSpace(description) == "" {
		return nil
	}
	var found []string
	for i, re := range skillPatterns {
		if re.MatchString(description) {
			found = append(found, skillVocabulary[i])
			if len(found) >= max {
				break
			}
		}
	}
	return found
}
