package ircf

import (
	"regexp"
	"strings"
)

// spoilerColor is used for both foreground and background of a spoiler,
// which BlocksToMarkdown turns back into ||text||.
const spoilerColor = "01,01"

type markdownRule struct {
	pattern    *regexp.Regexp
	start, end string
}

func styleRule(expr string, code rune) markdownRule {
	return markdownRule{regexp.MustCompile(expr), string(code), string(code)}
}

// Order matters: double markers have to be consumed before single ones.
var markdownRules = []markdownRule{
	styleRule(`\*\*(.+?)\*\*`, CharBold),
	styleRule(`__(.+?)__`, CharUnderline),
	styleRule(`~~(.+?)~~`, CharStrikethrough),
	styleRule(`\*(.+?)\*`, CharItalics),
	styleRule(`\b_(.+?)_\b`, CharItalics),
	{regexp.MustCompile(`\|\|(.+?)\|\|`), string(CharColor) + spoilerColor, string(CharColor)},
}

var codeRegex = regexp.MustCompile("`+([^`]+)`+")

// MarkdownToIRC converts Discord markdown into IRC control codes.
// Text inside inline code spans is left untouched apart from the monospace marker.
func MarkdownToIRC(text string) string {
	var out strings.Builder

	last := 0
	for _, loc := range codeRegex.FindAllStringSubmatchIndex(text, -1) {
		out.WriteString(applyMarkdownRules(text[last:loc[0]]))
		out.WriteRune(CharMonospace)
		out.WriteString(text[loc[2]:loc[3]])
		out.WriteRune(CharMonospace)
		last = loc[1]
	}
	out.WriteString(applyMarkdownRules(text[last:]))

	return out.String()
}

func applyMarkdownRules(text string) string {
	for _, r := range markdownRules {
		text = r.pattern.ReplaceAllString(text, r.start+"${1}"+r.end)
	}
	return text
}
