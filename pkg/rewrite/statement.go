package rewrite

import (
	"strings"

	"github.com/leapstack-labs/eesnip/pkg/token"
)

// Statement is one logical statement of the snippet. It may span several
// physical lines. A Statement with no Tokens is a standalone comment block.
type Statement struct {
	// Tokens runs from the first to the last significant token, interior
	// trivia included, terminator excluded.
	Tokens []token.Token
	// Terminator is the dropped ";" when the statement had one.
	Terminator *token.Token
	// Leading holds comments on the lines directly above the statement.
	Leading []token.Token
	// Trailing is a comment on the statement's last line, after it.
	Trailing *token.Token
	// Chain is set when a depth-zero line break was absorbed into the statement.
	Chain bool
	// BlankBefore is set when blank lines separated this statement from the previous one.
	BlankBefore bool
}

// IsCommentOnly reports whether the statement only carries comments.
func (s *Statement) IsCommentOnly() bool {
	return len(s.Tokens) == 0
}

// Pos returns the position of the statement's first token.
func (s *Statement) Pos() token.Position {
	if len(s.Tokens) > 0 {
		return s.Tokens[0].Pos
	}
	if len(s.Leading) > 0 {
		return s.Leading[0].Pos
	}
	return token.Position{}
}

// Source returns the statement exactly as written, terminator included.
func (s *Statement) Source() string {
	src := token.Join(s.Tokens)
	if s.Terminator != nil {
		src += s.Terminator.Text
	}
	return src
}

// continuesBefore lists tokens that, ending a line, continue the statement on the next.
var continuesBefore = map[string]struct{}{
	".": {}, ",": {}, "=": {}, "=>": {}, "?": {}, ":": {},
	"+": {}, "-": {}, "*": {}, "/": {}, "%": {}, "**": {},
	"==": {}, "===": {}, "!=": {}, "!==": {}, "<": {}, ">": {}, "<=": {}, ">=": {},
	"&&": {}, "||": {}, "??": {}, "+=": {}, "-=": {}, "*=": {}, "/=": {}, "%=": {},
	"!": {}, "&": {}, "|": {}, "^": {},
}

// continuesAfter lists tokens that, starting a line, continue the previous statement.
var continuesAfter = map[string]struct{}{
	".": {}, "?": {}, ":": {}, "&&": {}, "||": {}, "??": {},
	"=": {}, "+=": {}, "-=": {}, "*=": {}, "/=": {}, "%=": {}, "**=": {},
	"+": {}, "-": {}, "*": {}, "/": {}, "%": {}, "**": {},
	"==": {}, "===": {}, "!=": {}, "!==": {}, "<": {}, ">": {}, "<=": {}, ">=": {},
	"&": {}, "|": {}, "^": {}, "=>": {},
	"else": {}, "catch": {}, "finally": {},
}

// splitter groups a token stream into statements by bracket depth.
type splitter struct {
	toks    []token.Token
	stack   []frame
	cur     *Statement
	pending []token.Token // comments waiting for the statement they precede
	blank   bool          // blank line seen since the last statement
	last    *Statement    // last finished statement while still on its line
	out     []*Statement
}

// Split groups toks into statements. A statement ends at depth zero on a
// ";" or on a line break that does not continue the expression, or after a
// closing block brace. Unbalanced brackets are a fatal *token.SyntaxError.
func Split(toks []token.Token) ([]*Statement, error) {
	s := &splitter{toks: toks}
	for i := range toks {
		if err := s.next(i); err != nil {
			return nil, err
		}
	}
	if len(s.stack) > 0 {
		return nil, &token.SyntaxError{Pos: s.stack[len(s.stack)-1].open.Pos, Message: token.ErrUnbalancedBrackets}
	}
	s.finish()
	s.flushComments()
	return s.out, nil
}

func (s *splitter) next(i int) error {
	tok := s.toks[i]
	depth := len(s.stack)

	switch {
	case tok.Kind == token.Whitespace:
		if tok.HasNewline() {
			s.last = nil
		}
		if s.cur == nil {
			s.noteBlank(tok)
			return nil
		}
		if depth == 0 && tok.HasNewline() {
			if s.continues(i) {
				s.cur.Chain = true
				s.cur.Tokens = append(s.cur.Tokens, tok)
				return nil
			}
			s.finish()
			s.noteBlank(tok)
			return nil
		}
		s.cur.Tokens = append(s.cur.Tokens, tok)

	case tok.Kind == token.Comment:
		if s.cur == nil {
			if s.last != nil && s.last.Trailing == nil && depth == 0 {
				t := tok
				s.last.Trailing = &t
				return nil
			}
			s.pending = append(s.pending, tok)
			return nil
		}
		s.cur.Tokens = append(s.cur.Tokens, tok)

	case depth == 0 && tok.Is(";"):
		if s.cur == nil {
			return nil
		}
		t := tok
		s.cur.Terminator = &t
		done := s.cur
		s.finish()
		s.last = done

	case tok.IsOpen():
		prev := s.prevSignificant()
		s.begin()
		s.stack = append(s.stack, frame{open: tok, literal: opensLiteral(tok, prev)})
		s.cur.Tokens = append(s.cur.Tokens, tok)

	case tok.IsClose():
		if depth == 0 || token.Closer(s.stack[depth-1].open.Text) != tok.Text {
			return &token.SyntaxError{Pos: tok.Pos, Message: token.ErrUnbalancedBrackets}
		}
		closed := s.stack[depth-1]
		s.stack = s.stack[:depth-1]
		s.cur.Tokens = append(s.cur.Tokens, tok)
		if len(s.stack) == 0 && closed.open.Text == "{" && !closed.literal && !s.blockContinues(i) {
			done := s.cur
			s.finish()
			s.last = done
		}

	default:
		s.begin()
		s.cur.Tokens = append(s.cur.Tokens, tok)
	}
	return nil
}

// begin starts a statement if none is open, attaching pending comments.
func (s *splitter) begin() {
	if s.cur != nil {
		return
	}
	s.cur = &Statement{Leading: s.pending, BlankBefore: s.blank}
	s.pending = nil
	s.blank = false
	s.last = nil
}

// finish closes the open statement, moving a comment at its end to Trailing.
func (s *splitter) finish() {
	if s.cur == nil {
		return
	}
	st := s.cur
	s.cur = nil

	st.Tokens = trimRight(st.Tokens)
	if n := len(st.Tokens); n > 0 && st.Tokens[n-1].Kind == token.Comment && st.Terminator == nil {
		t := st.Tokens[n-1]
		st.Trailing = &t
		st.Tokens = trimRight(st.Tokens[:n-1])
	}
	s.out = append(s.out, st)
}

// noteBlank records blank lines between statements. Comments separated from
// the next statement by a blank line stand on their own.
func (s *splitter) noteBlank(ws token.Token) {
	if strings.Count(ws.Text, "\n") < 2 {
		return
	}
	s.flushComments()
	if len(s.out) > 0 {
		s.blank = true
	}
}

// flushComments emits pending comments as a comment-only statement.
func (s *splitter) flushComments() {
	if len(s.pending) == 0 {
		return
	}
	s.out = append(s.out, &Statement{Leading: s.pending, BlankBefore: s.blank})
	s.pending = nil
	s.blank = false
}

// prevSignificant returns the last significant token of the open statement.
func (s *splitter) prevSignificant() *token.Token {
	if s.cur == nil {
		return nil
	}
	if i := lastSignificant(s.cur.Tokens); i >= 0 {
		return &s.cur.Tokens[i]
	}
	return nil
}

// continues reports whether the line break at toks[i] is absorbed into the
// open statement.
func (s *splitter) continues(i int) bool {
	if prev := s.prevSignificant(); prev != nil && prev.Kind == token.Punctuation {
		if _, ok := continuesBefore[prev.Text]; ok {
			return true
		}
	}
	if j := nextSignificant(s.toks, i+1); j >= 0 {
		if next := s.toks[j]; next.Kind == token.Punctuation || next.Kind == token.Keyword {
			if _, ok := continuesAfter[next.Text]; ok {
				return true
			}
			// A "(" or "[" after a value calls or indexes it.
			if (next.Is("(") || next.Is("[")) && endsValue(s.prevSignificant()) {
				return true
			}
		}
	}
	return false
}

// endsValue reports whether tok can end an operand.
func endsValue(tok *token.Token) bool {
	if tok == nil {
		return false
	}
	switch tok.Kind {
	case token.Identifier, token.Number, token.String:
		return true
	case token.Keyword:
		return tok.Text == "true" || tok.Text == "false" || tok.Text == "null" || tok.Text == "undefined" || tok.Text == "this"
	}
	return tok.Is(")") || tok.Is("]") || tok.Is("}")
}

// blockContinues reports whether the statement goes on after a block closed
// at toks[i]: "} else", "} catch", a trailing "(" or "." or a terminator.
func (s *splitter) blockContinues(i int) bool {
	j := nextSignificant(s.toks, i+1)
	if j < 0 {
		return false
	}
	switch next := s.toks[j]; {
	case next.Is(";"), next.Is("."), next.Is("("), next.Is(","):
		return true
	default:
		_, ok := continuesAfter[next.Text]
		return ok && next.Kind == token.Keyword
	}
}

func trimRight(toks []token.Token) []token.Token {
	end := len(toks)
	for end > 0 && toks[end-1].Kind == token.Whitespace {
		end--
	}
	return toks[:end]
}
