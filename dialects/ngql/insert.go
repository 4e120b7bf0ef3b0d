package ngql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rlch/ngspec"
)

// Insert preview errors.
var (
	ErrUnmappedColumn = errors.New("ngql: property has no source column")
	ErrColumnRange    = errors.New("ngql: column index out of range")
)

// InsertVertexParams describes INSERT VERTEX statements for sample rows of a
// vertex binding.
type InsertVertexParams struct {
	Vid     ngspec.VidSpec
	Tags    []ngspec.TagMapping
	Rows    [][]string
	VidType ngspec.VidType
}

// InsertVertices renders one INSERT VERTEX statement covering every row.
// Properties are filtered and ordered exactly as in the compiled job spec.
func InsertVertices(p InsertVertexParams) (string, error) {
	heads := make([]string, len(p.Tags))
	props := make([]ngspec.PropertyMapping, 0)

	for i, tag := range p.Tags {
		mapped := ngspec.MappedProperties(tag.Properties)
		heads[i] = ngspec.QuoteIdent(tag.Name) + "(" + propertyNames(mapped) + ")"
		props = append(props, mapped...)
	}

	values := make([]string, len(p.Rows))

	for i, row := range p.Rows {
		vid, err := vidExpr(p.Vid, row, p.VidType)
		if err != nil {
			return "", fmt.Errorf("row %d: %w", i, err)
		}

		tuple, err := rowTuple(props, row)
		if err != nil {
			return "", fmt.Errorf("row %d: %w", i, err)
		}

		values[i] = vid + ":" + tuple
	}

	return "INSERT VERTEX " + strings.Join(heads, ", ") + " VALUES " + strings.Join(values, ", "), nil
}

// InsertEdgeParams describes INSERT EDGE statements for sample rows of an
// edge binding.
type InsertEdgeParams struct {
	Edge    ngspec.EdgeMapping
	Rows    [][]string
	VidType ngspec.VidType
}

// InsertEdges renders one INSERT EDGE statement covering every row. Values are
// laid out as src->dst[@rank]:(props) following EdgeMapping.Assembled.
func InsertEdges(p InsertEdgeParams) (string, error) {
	assembled := p.Edge.Assembled()
	rank := assembled[2]
	props := ngspec.MappedProperties(assembled[3:])

	values := make([]string, len(p.Rows))

	for i, row := range p.Rows {
		src, err := vidExpr(p.Edge.Src, row, p.VidType)
		if err != nil {
			return "", fmt.Errorf("row %d: %s: %w", i, ngspec.EdgeSrcID, err)
		}

		dst, err := vidExpr(p.Edge.Dst, row, p.VidType)
		if err != nil {
			return "", fmt.Errorf("row %d: %s: %w", i, ngspec.EdgeDstID, err)
		}

		edge := src + "->" + dst

		if rank.Mapped() {
			cell, err := cellAt(row, *rank.Column)
			if err != nil {
				return "", fmt.Errorf("row %d: %s: %w", i, ngspec.EdgeRank, err)
			}

			lit, err := filterLiteral(ngspec.TypeInt, cell)
			if err != nil {
				return "", fmt.Errorf("row %d: %s: %w", i, ngspec.EdgeRank, err)
			}

			edge += "@" + lit
		}

		tuple, err := rowTuple(props, row)
		if err != nil {
			return "", fmt.Errorf("row %d: %w", i, err)
		}

		values[i] = edge + ":" + tuple
	}

	head := ngspec.QuoteIdent(p.Edge.Type) + "(" + propertyNames(props) + ")"

	return "INSERT EDGE " + head + " VALUES " + strings.Join(values, ", "), nil
}

func propertyNames(props []ngspec.PropertyMapping) string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = ngspec.EscapeIdent(p.Name)
	}

	return strings.Join(names, ", ")
}

func rowTuple(props []ngspec.PropertyMapping, row []string) (string, error) {
	values := make([]string, len(props))

	for i, p := range props {
		if !p.Mapped() {
			return "", fmt.Errorf("%s: %w", p.Name, ErrUnmappedColumn)
		}

		cell, err := cellAt(row, *p.Column)
		if err != nil {
			return "", fmt.Errorf("%s: %w", p.Name, err)
		}

		values[i], err = cellLiteral(p.Type, cell, p.AllowNull)
		if err != nil {
			return "", fmt.Errorf("%s: %w", p.Name, err)
		}
	}

	return "(" + strings.Join(values, ", ") + ")", nil
}

// vidExpr renders the VID of a row, applying the prefix and any generating
// function the import engine would apply.
func vidExpr(spec ngspec.VidSpec, row []string, vt ngspec.VidType) (string, error) {
	if !spec.Mapped() {
		return "", ErrUnmappedColumn
	}

	cell, err := cellAt(row, *spec.Column)
	if err != nil {
		return "", err
	}

	raw := spec.Prefix + cell

	switch spec.Function {
	case ngspec.VidFunctionHash, ngspec.VidFunctionUUID:
		return spec.Function + "(" + quote(raw) + ")", nil
	default:
		return vidLiteral(raw, vt), nil
	}
}

func cellAt(row []string, col int) (string, error) {
	if col < 0 || col >= len(row) {
		return "", fmt.Errorf("%w: %d of %d", ErrColumnRange, col, len(row))
	}

	return row[col], nil
}
