package ngspec

import "strings"

// reservedKeywords are the nGQL reserved words, lowercased.
var reservedKeywords = toSet(
	"across", "add", "alter", "and", "as", "asc", "ascending", "balance", "bool", "by",
	"case", "change", "compact", "create", "date", "datetime", "delete", "desc",
	"descending", "describe", "distinct", "double", "download", "drop", "duration",
	"edge", "edges", "exists", "explain", "false", "fetch", "find", "fixed_string",
	"float", "flush", "from", "geography", "get", "go", "grant", "if",
	"ignore_existed_index", "in", "index", "indexes", "ingest", "insert", "int",
	"int16", "int32", "int64", "int8", "intersect", "is", "join", "left", "list",
	"lookup", "map", "match", "minus", "no", "not", "not_in", "null", "of", "offset",
	"on", "or", "order", "over", "overwrite", "path", "prop", "rebuild", "recover",
	"remove", "restart", "return", "reversely", "revoke", "set", "show", "step",
	"steps", "stop", "string", "submit", "tag", "tags", "time", "timestamp", "to",
	"true", "union", "unwind", "update", "upsert", "upto", "use", "vertex", "vertices",
	"when", "where", "with", "xor", "yield",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}

	return set
}

// IsReserved reports whether name is a reserved nGQL keyword, ignoring case.
func IsReserved(name string) bool {
	_, ok := reservedKeywords[strings.ToLower(name)]
	return ok
}

var identEscaper = strings.NewReplacer(`\`, `\\`, "`", "\\`")

var identUnescaper = strings.NewReplacer(`\\`, `\`, "\\`", "`")

// EscapeIdent renders a property or field name, and every name written to an
// import job. Backslashes and backticks are escaped, and the result is wrapped
// in backticks only when the raw name needs it.
func EscapeIdent(name string) string {
	if !needsQuoting(name) {
		return name
	}

	return "`" + identEscaper.Replace(name) + "`"
}

// QuoteIdent renders a schema object name (space, tag, edge, index) in nGQL. It escapes
// like EscapeIdent but always wraps in backticks.
func QuoteIdent(name string) string {
	return "`" + identEscaper.Replace(name) + "`"
}

// UnescapeIdent inverts EscapeIdent and QuoteIdent.
func UnescapeIdent(ident string) string {
	if len(ident) < 2 || ident[0] != '`' || ident[len(ident)-1] != '`' {
		return ident
	}

	return identUnescaper.Replace(ident[1 : len(ident)-1])
}

func needsQuoting(name string) bool {
	if name == "" {
		return true
	}

	if name[0] >= '0' && name[0] <= '9' {
		return true
	}

	for i := 0; i < len(name); i++ {
		if !isWordByte(name[i]) {
			return true
		}
	}

	return IsReserved(name)
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
