package ngql

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/rlch/ngspec"
)

var (
	doubleQuoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	singleQuoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
)

// datetimeLiteral matches "YYYY-MM-DD hh:mm:ss" timestamp defaults.
var datetimeLiteral = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)

// quote renders s as a double-quoted string literal.
func quote(s string) string {
	return `"` + doubleQuoteEscaper.Replace(s) + `"`
}

// defaultLiteral renders a DEFAULT value for a property of type t.
func defaultLiteral(t ngspec.SchemaType, value string) string {
	switch {
	case t.IsString():
		return quote(value)
	case t.Is(ngspec.TypeTimestamp):
		if datetimeLiteral.MatchString(value) {
			return quote(value)
		}

		// Raw timestamp expression, e.g. now() or an epoch.
		return value
	default:
		return value
	}
}

// vidLiteral renders a vertex ID for the given space VID type. INT64 IDs go
// through math/big so large values keep every digit. IDs that do not parse
// as integers are quoted so they cannot be read as an expression.
func vidLiteral(id string, vt ngspec.VidType) string {
	if vt.IsInt64() {
		n, ok := new(big.Int).SetString(strings.TrimSpace(id), 10)
		if ok {
			return n.String()
		}
	}

	if strings.Contains(id, `"`) && !strings.Contains(id, `'`) {
		return `'` + singleQuoteEscaper.Replace(id) + `'`
	}

	return quote(id)
}

func vidList(ids []string, vt ngspec.VidType) string {
	rendered := make([]string, len(ids))
	for i, id := range ids {
		rendered[i] = vidLiteral(id, vt)
	}

	return strings.Join(rendered, ", ")
}

// filterLiteral renders a comparison value. Strings are quoted; numbers and
// booleans must already be literals; temporal values are passed through.
func filterLiteral(t ngspec.SchemaType, value string) (string, error) {
	switch {
	case t.IsString():
		return quote(value), nil
	case t.IsInteger():
		if _, ok := new(big.Int).SetString(strings.TrimSpace(value), 10); !ok {
			return "", fmt.Errorf("%w: %q is not an integer", ErrInvalidLiteral, value)
		}

		return strings.TrimSpace(value), nil
	case t.IsFloat():
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			return "", fmt.Errorf("%w: %q is not a number", ErrInvalidLiteral, value)
		}

		return strings.TrimSpace(value), nil
	case t.IsBool():
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return "", fmt.Errorf("%w: %q is not a boolean", ErrInvalidLiteral, value)
		}

		return strconv.FormatBool(b), nil
	case t.IsTemporal():
		return value, nil
	default:
		return "", &UnknownTypeError{Type: t}
	}
}

// cellLiteral renders a CSV cell as an INSERT value.
func cellLiteral(t ngspec.SchemaType, cell string, allowNull bool) (string, error) {
	if cell == "" && !t.IsString() {
		if allowNull {
			return "NULL", nil
		}

		return "", fmt.Errorf("%w: empty value for non-nullable %s", ErrInvalidLiteral, t)
	}

	switch {
	case t.IsString(), t.IsNumeric(), t.IsBool():
		return filterLiteral(t, cell)
	case t.Is(ngspec.TypeDate):
		return "date(" + quote(cell) + ")", nil
	case t.Is(ngspec.TypeTime):
		return "time(" + quote(cell) + ")", nil
	case t.Is(ngspec.TypeDatetime):
		return "datetime(" + quote(cell) + ")", nil
	case t.Is(ngspec.TypeTimestamp):
		if datetimeLiteral.MatchString(cell) {
			return "timestamp(" + quote(cell) + ")", nil
		}

		if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
			return "", fmt.Errorf("%w: %q is not a timestamp", ErrInvalidLiteral, cell)
		}

		return cell, nil
	case t.IsGeo():
		return "ST_GeogFromText(" + quote(cell) + ")", nil
	default:
		return "", &UnknownTypeError{Type: t}
	}
}
