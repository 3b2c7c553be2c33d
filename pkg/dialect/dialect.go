// Package dialect provides the rule table that maps source-dialect
// constructs to their target-dialect spelling.
//
// A Dialect is built once through the fluent Builder and is read-only
// afterwards. Every lookup is a pure function of the dialect and its
// arguments, so one Dialect can serve any number of concurrent translations.
package dialect

import (
	"fmt"
	"strings"
	"unicode"
)

// Category names a construct the rewriter recognizes but will not translate.
type Category string

// Unsupported construct categories.
const (
	CategoryControlFlow  Category = "control flow"
	CategoryLabel        Category = "labeled statement"
	CategoryFunction     Category = "function literal"
	CategoryCallbackBody Category = "multi-statement callback"
	CategoryConstructor  Category = "constructor call"
	CategoryConditional  Category = "conditional expression"
	CategoryTemplate     Category = "template literal"
	CategoryIncrement    Category = "increment/decrement"
	CategoryDeclarators  Category = "multiple declarators"
	CategoryReflection   Category = "reflection"
	CategorySpread       Category = "spread syntax"
)

// TrailingCommaPolicy decides what happens to a comma before a closing bracket.
type TrailingCommaPolicy int

const (
	// TrailingCommaKeep leaves literals as written.
	TrailingCommaKeep TrailingCommaPolicy = iota
	// TrailingCommaRemove drops a comma directly before the closing bracket.
	TrailingCommaRemove
	// TrailingCommaAdd inserts a comma after the last element of a non-empty literal.
	TrailingCommaAdd
)

func (p TrailingCommaPolicy) String() string {
	switch p {
	case TrailingCommaRemove:
		return "remove"
	case TrailingCommaAdd:
		return "add"
	default:
		return "keep"
	}
}

// ContinuationStyle is how the target dialect continues a statement on the next line.
type ContinuationStyle int

const (
	// ContinuationParens wraps the expression in parentheses.
	ContinuationParens ContinuationStyle = iota
	// ContinuationBackslash ends every continued line with a backslash.
	ContinuationBackslash
)

// OperatorRename describes the target spelling of an operator.
type OperatorRename struct {
	To   string
	Word bool // true for keyword operators (and, or, not) that need surrounding spaces
}

// Dialect is an immutable rewrite rule table for one target dialect.
type Dialect struct {
	Name string

	declarations    map[string]struct{}
	memberRenames   map[string]string // "Receiver.member" -> new member name
	literalRenames  map[string]string
	operatorRenames map[string]OperatorRename
	callbacks       map[string]struct{}
	unsupportedKw   map[string]Category
	unsupportedOps  map[string]Category

	commentPrefix  string
	quote          byte
	trailingCommas TrailingCommaPolicy
	continuation   ContinuationStyle
	indent         int
	lambda         string
	header         []string
}

// IsDeclaration reports whether kw introduces a variable declaration.
func (d *Dialect) IsDeclaration(kw string) bool {
	_, ok := d.declarations[kw]
	return ok
}

// MemberRename returns the target name of receiver.member when the pair is
// on the allow-list. Every other member name passes through unchanged.
func (d *Dialect) MemberRename(receiver, member string) (string, bool) {
	to, ok := d.memberRenames[receiver+"."+member]
	return to, ok
}

// LiteralRename returns the target spelling of a literal keyword.
func (d *Dialect) LiteralRename(kw string) (string, bool) {
	to, ok := d.literalRenames[kw]
	return to, ok
}

// OperatorRename returns the target spelling of an operator.
func (d *Dialect) OperatorRename(op string) (OperatorRename, bool) {
	r, ok := d.operatorRenames[op]
	return r, ok
}

// IsCallback reports whether name is a higher-order call whose sole
// function argument may be rewritten as an inline function.
func (d *Dialect) IsCallback(name string) bool {
	_, ok := d.callbacks[name]
	return ok
}

// UnsupportedKeyword returns the category of a keyword the rewriter must not translate.
func (d *Dialect) UnsupportedKeyword(kw string) (Category, bool) {
	c, ok := d.unsupportedKw[kw]
	return c, ok
}

// UnsupportedOperator returns the category of an operator the rewriter must not translate.
func (d *Dialect) UnsupportedOperator(op string) (Category, bool) {
	c, ok := d.unsupportedOps[op]
	return c, ok
}

// CommentPrefix is the line comment marker of the target dialect.
func (d *Dialect) CommentPrefix() string { return d.commentPrefix }

// Quote is the quote character used for keys the reformatter quotes.
func (d *Dialect) Quote() byte { return d.quote }

// TrailingCommas is the literal trailing-comma policy.
func (d *Dialect) TrailingCommas() TrailingCommaPolicy { return d.trailingCommas }

// Continuation is the statement continuation convention.
func (d *Dialect) Continuation() ContinuationStyle { return d.continuation }

// Indent is the number of spaces a continued chain segment is indented by.
func (d *Dialect) Indent() int { return d.indent }

// Lambda is the inline-function keyword, or "" when the target has none.
func (d *Dialect) Lambda() string { return d.lambda }

// Header returns a copy of the preamble lines emitted when a header is requested.
func (d *Dialect) Header() []string {
	return append([]string(nil), d.header...)
}

// QuoteKey returns name as a string literal in the dialect's quote style.
func (d *Dialect) QuoteKey(name string) string {
	q := string(d.quote)
	return q + name + q
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// New creates a dialect builder with the given name and neutral defaults:
// "#" comments, single quotes, trailing commas kept, parenthesised chains,
// two-space indent.
func New(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name:            name,
			declarations:    make(map[string]struct{}),
			memberRenames:   make(map[string]string),
			literalRenames:  make(map[string]string),
			operatorRenames: make(map[string]OperatorRename),
			callbacks:       make(map[string]struct{}),
			unsupportedKw:   make(map[string]Category),
			unsupportedOps:  make(map[string]Category),
			commentPrefix:   "#",
			quote:           '\'',
			indent:          2,
		},
	}
}

// Declarations registers declaration keywords that are dropped.
func (b *Builder) Declarations(kws ...string) *Builder {
	for _, kw := range kws {
		b.dialect.declarations[kw] = struct{}{}
	}
	return b
}

// MemberRenames registers call-site renames keyed by "Receiver.member".
func (b *Builder) MemberRenames(renames map[string]string) *Builder {
	for k, v := range renames {
		b.dialect.memberRenames[k] = v
	}
	return b
}

// LiteralRenames registers literal keyword spellings.
func (b *Builder) LiteralRenames(renames map[string]string) *Builder {
	for k, v := range renames {
		b.dialect.literalRenames[k] = v
	}
	return b
}

// OperatorRenames registers operator spellings. Alphabetic replacements are
// marked as word operators.
func (b *Builder) OperatorRenames(renames map[string]string) *Builder {
	for k, v := range renames {
		b.dialect.operatorRenames[k] = OperatorRename{To: v, Word: isWord(v)}
	}
	return b
}

// Callbacks registers higher-order member calls eligible for inline-function conversion.
func (b *Builder) Callbacks(names ...string) *Builder {
	for _, n := range names {
		b.dialect.callbacks[n] = struct{}{}
	}
	return b
}

// UnsupportedKeywords marks keywords whose statements pass through unchanged.
func (b *Builder) UnsupportedKeywords(c Category, kws ...string) *Builder {
	for _, kw := range kws {
		b.dialect.unsupportedKw[kw] = c
	}
	return b
}

// UnsupportedOperators marks operators whose statements pass through unchanged.
func (b *Builder) UnsupportedOperators(c Category, ops ...string) *Builder {
	for _, op := range ops {
		b.dialect.unsupportedOps[op] = c
	}
	return b
}

// CommentPrefix sets the target line comment marker.
func (b *Builder) CommentPrefix(prefix string) *Builder {
	b.dialect.commentPrefix = prefix
	return b
}

// Quote sets the quote character for rewritten keys.
func (b *Builder) Quote(q byte) *Builder {
	b.dialect.quote = q
	return b
}

// TrailingCommas sets the trailing comma policy.
func (b *Builder) TrailingCommas(p TrailingCommaPolicy) *Builder {
	b.dialect.trailingCommas = p
	return b
}

// Continuation sets the chain continuation style.
func (b *Builder) Continuation(c ContinuationStyle) *Builder {
	b.dialect.continuation = c
	return b
}

// Indent sets the chain indentation width.
func (b *Builder) Indent(n int) *Builder {
	b.dialect.indent = n
	return b
}

// Lambda sets the inline-function keyword.
func (b *Builder) Lambda(kw string) *Builder {
	b.dialect.lambda = kw
	return b
}

// Header sets the optional preamble lines.
func (b *Builder) Header(lines ...string) *Builder {
	b.dialect.header = append([]string(nil), lines...)
	return b
}

// Build returns the constructed dialect. The builder must not be used afterwards.
func (b *Builder) Build() *Dialect {
	d := b.dialect
	b.dialect = nil
	return d
}

// Extend returns a new dialect with the rules of base plus extra member
// renames keyed by "Receiver.member". base is not modified.
func Extend(base *Dialect, renames map[string]string) (*Dialect, error) {
	for k, v := range renames {
		recv, member, ok := strings.Cut(k, ".")
		if !ok || !isIdent(recv) || !isIdent(member) {
			return nil, fmt.Errorf("invalid rename key %q: want Receiver.member", k)
		}
		if !isIdent(v) {
			return nil, fmt.Errorf("invalid rename target %q for %s", v, k)
		}
	}

	d := *base
	d.memberRenames = make(map[string]string, len(base.memberRenames)+len(renames))
	for k, v := range base.memberRenames {
		d.memberRenames[k] = v
	}
	for k, v := range renames {
		d.memberRenames[k] = v
	}
	return &d, nil
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
