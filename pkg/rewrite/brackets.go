package rewrite

import "github.com/leapstack-labs/eesnip/pkg/token"

// frame is one open bracket on the depth stack. literal marks the
// InsideLiteral state; every other frame is ReadingStatement.
type frame struct {
	open    token.Token
	literal bool
}

// isBlockOpen reports whether a '{' following prev opens a statement block
// rather than an object literal. prev is nil at statement start.
func isBlockOpen(prev *token.Token) bool {
	if prev == nil {
		return true
	}
	switch {
	case prev.Is(")"), prev.Is("=>"):
		return true
	case prev.Kind == token.Keyword:
		switch prev.Text {
		case "else", "do", "try", "finally":
			return true
		}
	}
	return false
}

// isIndexOpen reports whether a '[' following prev indexes a value rather
// than opening an array literal.
func isIndexOpen(prev *token.Token) bool {
	if prev == nil {
		return false
	}
	switch prev.Kind {
	case token.Identifier, token.String:
		return true
	case token.Keyword:
		return prev.Text == "this"
	}
	return prev.Is(")") || prev.Is("]")
}

// opensLiteral reports whether open starts an object or array literal.
func opensLiteral(open token.Token, prev *token.Token) bool {
	switch open.Text {
	case "{":
		return !isBlockOpen(prev)
	case "[":
		return !isIndexOpen(prev)
	}
	return false
}

// matchClose returns the index of the bracket closing toks[i]. The input is
// already balanced-checked by the splitter.
func matchClose(toks []token.Token, i int) int {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch {
		case toks[j].IsOpen():
			depth++
		case toks[j].IsClose():
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return len(toks) - 1
}

// trimTrivia returns toks without leading and trailing whitespace and comments.
func trimTrivia(toks []token.Token) []token.Token {
	start, end := 0, len(toks)
	for start < end && toks[start].IsTrivia() {
		start++
	}
	for end > start && toks[end-1].IsTrivia() {
		end--
	}
	return toks[start:end]
}

// significant returns the indices of non-trivia tokens.
func significant(toks []token.Token) []int {
	var idx []int
	for i, t := range toks {
		if !t.IsTrivia() {
			idx = append(idx, i)
		}
	}
	return idx
}

// nextSignificant returns the index of the first non-trivia token at or
// after i, or -1.
func nextSignificant(toks []token.Token, i int) int {
	for ; i < len(toks); i++ {
		if !toks[i].IsTrivia() {
			return i
		}
	}
	return -1
}

// lastSignificant returns the index of the last non-trivia token, or -1.
func lastSignificant(toks []token.Token) int {
	for i := len(toks) - 1; i >= 0; i-- {
		if !toks[i].IsTrivia() {
			return i
		}
	}
	return -1
}

// splitTopLevel splits toks at depth-zero tokens with text sep. The
// separators themselves are returned in seps.
func splitTopLevel(toks []token.Token, sep string) (parts [][]token.Token, seps []token.Token) {
	depth, start := 0, 0
	for i, t := range toks {
		switch {
		case t.IsOpen():
			depth++
		case t.IsClose():
			depth--
		case depth == 0 && t.Is(sep):
			parts = append(parts, toks[start:i])
			seps = append(seps, t)
			start = i + 1
		}
	}
	parts = append(parts, toks[start:])
	return parts, seps
}
