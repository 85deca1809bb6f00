// Package extract splits a generated writing framework from the retrieval
// keyword line the model is asked to append.
package extract

import (
	"regexp"
	"strings"
)

// Label marks the keyword line, followed by ':' or '：'.
const Label = "检索关键词"

// The keyword run is limited to CJK ideographs, ASCII letters, digits,
// commas (both widths) and spaces, so it stops at the first period, newline
// or other punctuation of the surrounding prose.
var keywordLine = regexp.MustCompile(Label + `[:：]\s*([\x{4e00}-\x{9fa5}a-zA-Z0-9,， ]+)`)

// Result is the framework text with its keyword line separated out.
type Result struct {
	Framework string `json:"framework"`
	Keywords  string `json:"keywords"`
}

// Split separates raw model output into framework text and a normalized,
// space-separated keyword string. Only the first labeled line counts and
// only it is removed. Without a label, Keywords is empty and Framework is
// raw trimmed.
func Split(raw string) Result {
	loc := keywordLine.FindStringSubmatchIndex(raw)
	if loc == nil {
		return Result{Framework: strings.TrimSpace(raw)}
	}

	return Result{
		Framework: strings.TrimSpace(raw[:loc[0]] + raw[loc[1]:]),
		Keywords:  Normalize(raw[loc[2]:loc[3]]),
	}
}

// Normalize turns a comma or space separated keyword run into single-space
// separated tokens, order preserved.
func Normalize(run string) string {
	run = strings.ReplaceAll(run, "，", " ")
	run = strings.ReplaceAll(run, ",", " ")
	return strings.Join(strings.Fields(run), " ")
}
