// Package classify labels free text from job listings: category, experience
// level, work arrangement, US location, salary range, and known skills.
// Everything here is pure and deterministic: ordered rule lists evaluated
// first-match-wins, with a fixed default when nothing fires.
package classify

import "regexp"

type rule struct {
	re    *regexp.Regexp
	label string
}

// firstMatch walks rules in order and returns the label of the first pattern
// that matches. Order matters: overlapping categories (full-stack vs generic
// developer) rely on it.
func firstMatch(rules []rule, text, fallback string) string {
	for _, r := range rules {
		if r.re.MatchString(text) {
			return r.label
		}
	}
	return fallback
}

var categoryRules = []rule{
	{regexp.MustCompile(`(?i)\b(machine learning|ml engineer|ai engineer|deep learning|nlp|computer vision)\b`), "AI & Machine Learning"},
	{regexp.MustCompile(`(?i)\b(data scien|data analy|analytics|business intelligence|bi developer)`), "Data Science & Analytics"},
	{regexp.MustCompile(`(?i)\b(data engineer|etl|data pipeline|data platform|dbt|airflow)\b`), "Data Engineering"},
	{regexp.MustCompile(`(?i)\b(devops|sre|site reliability|infrastructure|platform engineer|cicd|ci/cd)\b`), "DevOps & Infrastructure"},
	{regexp.MustCompile(`(?i)\b(cyber|security|infosec|soc analyst|penetration|vulnerability)`), "Cybersecurity"},
	{regexp.MustCompile(`(?i)\b(cloud|aws|azure|gcp|cloud engineer|cloud architect)\b`), "Cloud Computing"},
	{regexp.MustCompile(`(?i)\b(frontend|front-end|react|angular|vue|ui developer)\b`), "Frontend Development"},
	{regexp.MustCompile(`(?i)\b(backend|back-end|server-side|api developer)\b`), "Backend Development"},
	{regexp.MustCompile(`(?i)\b(full.?stack|fullstack)\b`), "Full Stack Development"},
	{regexp.MustCompile(`(?i)\b(mobile|ios|android|swift|kotlin|flutter|react native)\b`), "Mobile Development"},
	{regexp.MustCompile(`(?i)\b(qa|quality assurance|test engineer|sdet|automation test)`), "Quality Assurance"},
	{regexp.MustCompile(`(?i)\b(network|systems admin|it support|helpdesk|desktop support|it specialist)`), "IT Operations & Support"},
	{regexp.MustCompile(`(?i)\b(product manager|program manager|project manager|scrum master|agile)\b`), "Product & Project Management"},
	{regexp.MustCompile(`(?i)\b(ui/ux|ux design|ui design|user experience|user interface|product design)`), "UI/UX Design"},
	{regexp.MustCompile(`(?i)\b(software engineer|software developer|developer|programmer|swe)\b`), "Software Engineering"},
	{regexp.MustCompile(`(?i)\b(database|sql|dba|database admin)`), "Database Administration"},
	{regexp.MustCompile(`(?i)\b(embedded|firmware|hardware|iot)\b`), "Embedded & IoT"},
	{regexp.MustCompile(`(?i)\b(blockchain|web3|crypto|solidity)\b`), "Blockchain & Web3"},
}

var experienceRules = []rule{
	{regexp.MustCompile(`(?i)\b(intern|internship|co-op)\b`), "intern"},
	{regexp.MustCompile(`(?i)\b(entry.level|junior|jr\.|associate|new grad|graduate)`), "entry"},
	{regexp.MustCompile(`(?i)\b(mid.level|mid-senior|intermediate)`), "mid"},
	{regexp.MustCompile(`(?i)\b(senior|sr\.|lead|staff|principal)`), "senior"},
	{regexp.MustCompile(`(?i)\b(director|vp|vice president|head of|chief|cto|cio)\b`), "executive"},
}

var workTypeRules = []rule{
	{regexp.MustCompile(`(?i)\b(remote|work from home|wfh|anywhere|distributed)\b`), "remote"},
	{regexp.MustCompile(`(?i)\b(hybrid|flexible|partly remote)\b`), "hybrid"},
	{regexp.MustCompile(`(?i)\b(on.?site|in.?office|in-person)\b`), "onsite"},
}

// Categorize assigns a taxonomy category from title and description.
// Returns "Other Tech" when nothing matches.
func Categorize(title, description string) string {
	return firstMatch(categoryRules, title+" "+description, "Other Tech")
}

// DetectExperience returns intern/entry/mid/senior/executive, default mid.
func DetectExperience(title, description string) string {
	return firstMatch(experienceRules, title+" "+description, "mid")
}

// DetectWorkType returns remote/hybrid/onsite, default onsite.
func DetectWorkType(title, description, location string) string {
	return firstMatch(workTypeRules, title+" "+description+" "+location, "onsite")
}
