package token

import "fmt"

// Fatal syntax error messages.
const (
	ErrUnterminatedString  = "unterminated string literal"
	ErrUnterminatedComment = "unterminated block comment"
	ErrUnbalancedBrackets  = "unbalanced brackets"
)

// SyntaxError rejects a whole snippet. Pos points at the offending token:
// the opening quote or comment marker, the unmatched bracket, or the
// bracket that was closed with the wrong kind.
type SyntaxError struct {
	Pos     Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}
