package ngql

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rlch/ngspec"
)

// Filter errors.
var (
	// ErrMissingRelation is returned when a filter after the first has no AND/OR.
	ErrMissingRelation = errors.New("ngql: filter needs a relation (AND or OR)")

	// ErrInvalidLiteral is returned when a value does not fit its property type.
	ErrInvalidLiteral = errors.New("ngql: invalid literal")
)

// UnsupportedOperatorError reports an operator that is not allowed for a type.
type UnsupportedOperatorError struct {
	Operator string
	Type     ngspec.SchemaType
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("ngql: operator %q is not supported for type %s", e.Operator, e.Type)
}

// UnknownTypeError reports a property type with no quoting rule.
type UnknownTypeError struct {
	Type ngspec.SchemaType
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("ngql: unknown property type %q", string(e.Type))
}

// Relation joins consecutive filters.
type Relation string

// Relations.
const (
	And Relation = "AND"
	Or  Relation = "OR"
)

var (
	comparisonOperators = []string{"==", "!=", ">", ">=", "<", "<="}
	stringOperators     = []string{"==", "CONTAINS", "STARTS WITH", "ENDS WITH"}
	boolOperators       = []string{"=="}
)

// Operators returns the filter operators allowed for a property type.
func Operators(t ngspec.SchemaType) ([]string, error) {
	switch {
	case t.IsNumeric(), t.IsTemporal():
		return slices.Clone(comparisonOperators), nil
	case t.IsString():
		return slices.Clone(stringOperators), nil
	case t.IsBool():
		return slices.Clone(boolOperators), nil
	default:
		return nil, &UnknownTypeError{Type: t}
	}
}

// canonicalOperator normalises case and inner spacing ("starts  with" -> "STARTS WITH").
func canonicalOperator(op string) string {
	return strings.ToUpper(strings.Join(strings.Fields(op), " "))
}

// Filter is one property comparison. A filter without a field, an operator or
// a value is ignored.
type Filter struct {
	Relation Relation
	Field    string
	Operator string
	Value    *string
	Type     ngspec.SchemaType
}

func (f Filter) complete() bool {
	return f.Field != "" && f.Operator != "" && f.Value != nil
}

// conditions renders the complete filters as "<subject>.<field> <op> <value>"
// terms joined by their relations.
func conditions(subject string, filters []Filter) (string, error) {
	var terms []string

	for _, f := range filters {
		if !f.complete() {
			continue
		}

		allowed, err := Operators(f.Type)
		if err != nil {
			return "", err
		}

		op := canonicalOperator(f.Operator)
		if !slices.Contains(allowed, op) {
			return "", &UnsupportedOperatorError{Operator: f.Operator, Type: f.Type}
		}

		value, err := filterLiteral(f.Type, *f.Value)
		if err != nil {
			return "", err
		}

		term := subject + "." + ngspec.EscapeIdent(f.Field) + " " + op + " " + value

		if len(terms) > 0 {
			rel := Relation(strings.ToUpper(string(f.Relation)))
			if rel != And && rel != Or {
				return "", fmt.Errorf("%w: got %q", ErrMissingRelation, f.Relation)
			}

			term = string(rel) + " " + term
		}

		terms = append(terms, term)
	}

	return strings.Join(terms, " "), nil
}
