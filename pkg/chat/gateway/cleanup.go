package gateway

import (
	"regexp"
	"strings"
)

var (
	multiBlankRe = regexp.MustCompile(`\n{3,}`)
	multiSpaceRe = regexp.MustCompile(`[ \t]{2,}`)
	joinedWordRe = regexp.MustCompile(`([a-z])([A-Z])`)
	labelLineRe  = regexp.MustCompile(`^([A-Z][A-Z \-&/,]{2,}[A-Z]):?\s*$`)
)

// Cleanup normalizes model output: collapses repeated blank lines and
// space runs, splits accidentally concatenated words, promotes all-caps
// label lines to bold headers, and closes unbalanced markdown emphasis.
// Running it on already-clean text is a no-op.
func Cleanup(text string) string {
	if text == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if m := labelLineRe.FindStringSubmatch(line); m != nil {
			lines[i] = "**" + m[1] + "**"
			continue
		}
		// Markdown links carry camel-cased URLs; leave those lines alone.
		if !strings.Contains(line, "](") {
			lines[i] = joinedWordRe.ReplaceAllString(line, "$1 $2")
		}
	}
	text = strings.Join(lines, "\n")

	text = multiBlankRe.ReplaceAllString(text, "\n\n")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if strings.Count(text, "**")%2 != 0 {
		text += "**"
	}
	if (strings.Count(text, "*")-strings.Count(text, "**")*2)%2 != 0 {
		text += "*"
	}
	return text
}
