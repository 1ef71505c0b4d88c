package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?\d+`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `;`},
	})

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "HashComment"),
		participle.CaseInsensitive("Ident"),
	)
)

// Script is the root AST node of a fab script: gestures in replay order.
type Script struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Statements []*Statement   `parser:"( @@ | ';' | Newline )*"`
}

// Statement is a single gesture.
type Statement struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Start    bool           `parser:"  @'start'"`
	Size     *int           `parser:"| 'size' @Number"`
	Tool     *string        `parser:"| 'tool' @Ident"`
	Paint    *PaintArgs     `parser:"| 'paint' @@"`
	Package  bool           `parser:"| @'package'"`
	Back     bool           `parser:"| @'back'"`
	Engrave  *StringLiteral `parser:"| 'engrave' @String"`
	Download bool           `parser:"| @'download'"`
	Exit     bool           `parser:"| @'exit'"`
}

// PaintArgs is either a flat cell index or a row and column pair.
type PaintArgs struct {
	First  int  `parser:"@Number"`
	Second *int `parser:"@Number?"`
}

// Kind returns the gesture keyword.
func (s *Statement) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Start:
		return "start"
	case s.Size != nil:
		return "size"
	case s.Tool != nil:
		return "tool"
	case s.Paint != nil:
		return "paint"
	case s.Package:
		return "package"
	case s.Back:
		return "back"
	case s.Engrave != nil:
		return "engrave"
	case s.Download:
		return "download"
	case s.Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a fab script from an io.Reader.
func Parse(r io.Reader) (*Script, error) {
	return scriptParser.Parse("", r)
}

// ParseString parses a fab script from a string.
func ParseString(input string) (*Script, error) {
	return scriptParser.ParseString("", input)
}
