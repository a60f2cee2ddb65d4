package services

import (
	"regexp"
	"strings"
)

var (
	paragraphBreak = regexp.MustCompile(`\n+`)
	numberedItem   = regexp.MustCompile(`\n\s*\d+[.)]\s*`)
)

// SplitParagraphs splits feedback text on line breaks, dropping blanks.
func SplitParagraphs(text string) []string {
	return nonBlank(paragraphBreak.Split(text, -1))
}

// SplitProjectIdeas splits a numbered list ("1. ...", "2) ...") into items.
func SplitProjectIdeas(text string) []string {
	return nonBlank(numberedItem.Split("\n"+strings.TrimSpace(text), -1))
}

func nonBlank(parts []string) []string {
	out := []string{}
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
