package normalize

import (
	"regexp"
	"strings"
)

var (
	unescape = strings.NewReplacer(
		`\n`, "\n",
		`\r`, "",
		`\t`, " ",
		`\"`, `"`,
		`\/`, "/",
		`\\`, `\`,
	)

	codeFence          = regexp.MustCompile("```[A-Za-z]*")
	contentKey         = regexp.MustCompile(`(?i)"(?:chat_response|analysis|critique|response)"\s*:\s*"?`)
	metadataKey        = regexp.MustCompile(`(?i),?\s*"(?:score|ai_score|suggested_item_search|shopping_query)"\s*:\s*(?:"(?:[^"\\]|\\.)*"?|-?\d+(?:\.\d+)?|null|true|false)?`)
	spaceBeforeNewline = regexp.MustCompile(`[ \t]+\n`)
	blankRun           = regexp.MustCompile(`\n{3,}`)
)

const edgeCutset = " \t\r\n{}`,"

// steps only ever delete bytes, so repeating them reaches a fixpoint.
var steps = []func(string) string{
	unescape.Replace,
	func(s string) string { return codeFence.ReplaceAllString(s, "") },
	func(s string) string { return metadataKey.ReplaceAllString(s, "") },
	func(s string) string { return contentKey.ReplaceAllString(s, "") },
	func(s string) string { return spaceBeforeNewline.ReplaceAllString(s, "\n") },
	func(s string) string { return blankRun.ReplaceAllString(s, "\n\n") },
	trimEdges,
}

// trimEdges strips scaffolding from both ends. An edge quote goes only when
// it has no partner or when it wraps the whole text.
func trimEdges(s string) string {
	for {
		s = strings.Trim(s, edgeCutset)
		n := strings.Count(s, `"`)
		switch {
		case n%2 == 1 && strings.HasSuffix(s, `"`):
			s = s[:len(s)-1]
		case n%2 == 1 && strings.HasPrefix(s, `"`):
			s = s[1:]
		case n == 2 && len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"':
			s = s[1 : len(s)-1]
		default:
			return s
		}
	}
}

// Sanitize turns model text into display-ready prose. It unescapes literal
// escape sequences, strips code fences and JSON key scaffolding, trims stray
// braces and unpaired quotes, and collapses blank-line runs. Sanitize(Sanitize(x)) ==
// Sanitize(x) for every x.
func Sanitize(text string) string {
	for {
		next := text
		for _, step := range steps {
			next = step(next)
		}
		if next == text {
			return text
		}
		text = next
	}
}
