package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	notesLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Raw", Pattern: "`[^`]*`"},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[=;,]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(notesLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node of a notes script.
type Document struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Title      *StringLiteral `parser:"Newline* 'notes' @String?"`
	Statements []*Statement   `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Statement is a document-level setting or a page.
type Statement struct {
	Page       *Page       `parser:"  @@"`
	Assignment *Assignment `parser:"| @@"`
}

// Page groups the settings and text of one output page.
type Page struct {
	Pos        lexer.Position   `parser:"" json:"-"`
	Statements []*PageStatement `parser:"'page' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// PageStatement is either a setting or a bare text literal.
type PageStatement struct {
	Assignment *Assignment  `parser:"  @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment uses equals syntax (key = value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"'=' Newline* @@"`
}

// TextLiteral is a string written directly inside a page block.
type TextLiteral struct {
	String *StringLiteral `parser:"  @String"`
	Raw    *RawLiteral    `parser:"| @Raw"`
}

// Value represents setting values.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Raw    *RawLiteral    `parser:"| @Raw"`
	Number *float64       `parser:"| @Number"`
	Bool   *Boolean       `parser:"| @( 'true' | 'false' | 'on' | 'off' )"`
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

// RawLiteral keeps backquoted text verbatim, including newlines.
type RawLiteral string

// Capture implements participle.Capture.
func (s *RawLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("raw literal capture requires value")
	}
	*s = RawLiteral(strings.TrimSuffix(strings.TrimPrefix(values[0], "`"), "`"))
	return nil
}

// Boolean accepts true/false and on/off.
type Boolean bool

// Capture implements participle.Capture.
func (b *Boolean) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("boolean capture requires value")
	}
	switch values[0] {
	case "true", "on":
		*b = true
	case "false", "off":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %q", values[0])
	}
	return nil
}

// Text returns the string content of a text literal.
func (t *TextLiteral) Text() string {
	switch {
	case t == nil:
		return ""
	case t.String != nil:
		return string(*t.String)
	case t.Raw != nil:
		return string(*t.Raw)
	default:
		return ""
	}
}

// Parse parses a notes script from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses a notes script from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
