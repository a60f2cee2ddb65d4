package services

import (
	"math"
	"strings"
	"unicode"

	"parsepro/resume-analyzer/internal/models"
)

// AnalyzeKeywords counts whitespace-separated words and the substring
// occurrences of each keyword in the lowercased text.
func AnalyzeKeywords(text string, keywords []string) models.KeywordAnalysis {
	lower := strings.ToLower(text)

	counts := make(map[string]int, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		counts[kw] = strings.Count(lower, kw)
	}

	return models.KeywordAnalysis{
		WordCount:     len(strings.Fields(text)),
		KeywordCounts: counts,
	}
}

// Tokenize lowercases text, drops every character that is neither a letter
// nor whitespace, and returns the distinct words in first-appearance order.
func Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, text)

	seen := make(map[string]bool)
	var words []string
	for _, w := range strings.Fields(cleaned) {
		if !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	return words
}

// MatchJob compares the resume's word set against the job description's.
// matchPercent is 0 when the job description has no words.
func MatchJob(resumeText, jobDescription string) models.JobMatch {
	resumeWords := make(map[string]bool)
	for _, w := range Tokenize(resumeText) {
		resumeWords[w] = true
	}

	result := models.JobMatch{
		MatchingKeywords: []string{},
		MissingKeywords:  []string{},
	}

	jdWords := Tokenize(jobDescription)
	for _, w := range jdWords {
		if resumeWords[w] {
			result.MatchingKeywords = append(result.MatchingKeywords, w)
		} else {
			result.MissingKeywords = append(result.MissingKeywords, w)
		}
	}

	if len(jdWords) > 0 {
		result.MatchPercent = int(math.Round(100 * float64(len(result.MatchingKeywords)) / float64(len(jdWords))))
	}

	return result
}
