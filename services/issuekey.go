package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	slugMaxWords      = 3 // multi-word team names: first letter of up to this many words
	slugSingleWordLen = 3 // single-word team names: this many leading characters
)

// branchKeyRegexp matches an issue key at the start of a branch name,
// optionally preceded by exactly one non-key path segment (a personal
// prefix like "ayush/") and optionally followed by more segments.
// The key segment itself must match in full, so "pe-102abc" is not a key.
// "feature/pe-102/pe-200" anchors on "pe-102"; deeper segments never match.
var branchKeyRegexp = regexp.MustCompile(`^(?:([a-z0-9]+-[0-9]+)|[^/]+/([a-z0-9]+-[0-9]+))(?:/.*)?$`)

// GenerateIssueKey builds the human-readable key for a feedback item, like
// "pe-102" for serial 102 of team "Product Engineering". Pure: the same
// team name and serial always produce the same key.
func GenerateIssueKey(teamName string, serial int) string {
	return fmt.Sprintf("%s-%d", teamSlug(teamName), serial)
}

func teamSlug(teamName string) string {
	words := strings.Fields(strings.ToLower(teamName))

	if len(words) > 1 {
		if len(words) > slugMaxWords {
			words = words[:slugMaxWords]
		}
		var b strings.Builder
		for _, word := range words {
			b.WriteString(word[:1])
		}
		return b.String()
	}

	if len(words) == 0 {
		return ""
	}

	word := words[0]
	if len(word) > slugSingleWordLen {
		word = word[:slugSingleWordLen]
	}
	return word
}

// ExtractIssueKeyFromBranch pulls an issue key out of a branch name.
// Recognized shapes: "pe-102", "pe-102/add-login", "ayush/pe-102",
// "ayush/pe-102/add-login". Matching is case-insensitive and the returned
// key is lowercase. Returns "" when no segment qualifies.
func ExtractIssueKeyFromBranch(branchName string) string {
	matches := branchKeyRegexp.FindStringSubmatch(strings.ToLower(branchName))
	if matches == nil {
		return ""
	}
	if matches[1] != "" {
		return matches[1]
	}
	return matches[2]
}

// BuildBranchName suggests a branch name for a feedback item:
// "{assignee}/{key}/{title}" with the assignee and title parts omitted
// when absent. Not a strict inverse of extraction, but every result it
// produces extracts back to the same key.
func BuildBranchName(issueKey, title, assigneeName string) string {
	branch := strings.ToLower(issueKey)

	if assigneeSlug := slugify(assigneeName); assigneeSlug != "" {
		branch = assigneeSlug + "/" + branch
	}
	if titleSlug := slugify(title); titleSlug != "" {
		branch = branch + "/" + titleSlug
	}
	return branch
}

var nonAlnumRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases, strips accents and collapses every run of other
// characters into a single hyphen ("Fix éàpplication bug!" -> "fix-eapplication-bug").
func slugify(s string) string {
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripAccents, s)
	if err != nil {
		stripped = s
	}

	slug := nonAlnumRegexp.ReplaceAllString(strings.ToLower(stripped), "-")
	return strings.Trim(slug, "-")
}
