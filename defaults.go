package ngspec

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// ExtractionStatus says how much a default-value scan could tell.
type ExtractionStatus int

// Extraction statuses.
const (
	// ExtractionNoInput means no SHOW CREATE text was supplied.
	ExtractionNoInput ExtractionStatus = iota
	// ExtractionUnrecognized means the text does not start with CREATE.
	ExtractionUnrecognized
	// ExtractionOK means the text was scanned. Defaults may still be empty.
	ExtractionOK
)

func (s ExtractionStatus) String() string {
	switch s {
	case ExtractionNoInput:
		return "no-input"
	case ExtractionUnrecognized:
		return "unrecognized"
	case ExtractionOK:
		return "ok"
	default:
		return "unknown"
	}
}

// Extraction is the result of scanning SHOW CREATE text for defaults.
type Extraction struct {
	Status   ExtractionStatus
	Defaults []string
}

// Has reports whether name was found with a default.
func (e Extraction) Has(name string) bool {
	for _, d := range e.Defaults {
		if d == name {
			return true
		}
	}

	return false
}

// DefaultValueExtractor finds the properties that declare a default value.
type DefaultValueExtractor interface {
	Extract(ddl string) Extraction
}

// ddlLexer splits SHOW CREATE text into lines of whitespace separated words.
var ddlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Newline", Pattern: `\r?\n`},
	{Name: "Space", Pattern: `[^\S\n]+`},
	{Name: "Word", Pattern: `\S+`},
})

var (
	tNewline = ddlLexer.Symbols()["Newline"]
	tWord    = ddlLexer.Symbols()["Word"]
)

// TokenExtractor scans SHOW CREATE TAG/EDGE output line by line.
//
// Grammar, one property per line:
//
//	line     = word { space word } newline
//	property = first word of a line, surrounding backticks stripped
//
// A line is flagged when any of its words equals "default", ignoring case.
// The scan is textual: a string literal holding the word "default" flags its
// line too, and a definition spanning several lines is only seen
// through the line holding the DEFAULT keyword.
type TokenExtractor struct{}

// NewTokenExtractor creates the line scanning extractor.
func NewTokenExtractor() *TokenExtractor {
	return &TokenExtractor{}
}

// Extract implements DefaultValueExtractor.
func (x *TokenExtractor) Extract(ddl string) Extraction {
	if strings.TrimSpace(ddl) == "" {
		return Extraction{Status: ExtractionNoInput}
	}

	lines, err := lexLines(ddl)
	if err != nil || len(lines) == 0 || !strings.EqualFold(lines[0][0], "CREATE") {
		return Extraction{Status: ExtractionUnrecognized}
	}

	result := Extraction{Status: ExtractionOK}

	for _, words := range lines {
		for _, w := range words {
			if strings.EqualFold(w, "default") {
				result.Defaults = append(result.Defaults, strings.Trim(words[0], "`"))
				break
			}
		}
	}

	return result
}

// lexLines returns the non-empty lines of text as word lists.
func lexLines(text string) ([][]string, error) {
	lex, err := ddlLexer.LexString("", text)
	if err != nil {
		return nil, err
	}

	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}

	var (
		lines   [][]string
		current []string
	)

	for _, tok := range tokens {
		switch tok.Type {
		case tWord:
			current = append(current, tok.Value)
		case tNewline, lexer.EOF:
			if len(current) > 0 {
				lines = append(lines, current)
				current = nil
			}
		}
	}

	return lines, nil
}

var _ DefaultValueExtractor = (*TokenExtractor)(nil)
