package token

import "strings"

// CommentKind distinguishes the comment spellings the lexer accepts.
type CommentKind int

// Comment kinds.
const (
	LineComment  CommentKind = iota // // comment
	BlockComment                    // /* comment */
	HashComment                     // # comment (already in target spelling)
)

// CommentKindOf classifies the text of a comment token.
func CommentKindOf(text string) CommentKind {
	switch {
	case strings.HasPrefix(text, "/*"):
		return BlockComment
	case strings.HasPrefix(text, "#"):
		return HashComment
	default:
		return LineComment
	}
}

// CommentBody returns the comment text without its delimiters, split into
// physical lines. Line and hash comments always yield a single line.
func CommentBody(text string) []string {
	switch CommentKindOf(text) {
	case BlockComment:
		body := strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
		return strings.Split(body, "\n")
	case HashComment:
		return []string{strings.TrimPrefix(text, "#")}
	default:
		return []string{strings.TrimPrefix(text, "//")}
	}
}
