package filter

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// filterLexer tokenizes filter expressions. Keywords are matched before
// identifiers so that "and" never lexes as a field name.
var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(and|or|not|like|is|null|true|false)\b`},

	{Name: "String", Pattern: `'(?:\\.|[^'\\])*'|"(?:\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `[-+]?\d+(?:\.\d+)?`},
	{Name: "Operator", Pattern: `<>|!=|<=|>=|=|<|>`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*`},

	{Name: "Whitespace", Pattern: `\s+`},
})
