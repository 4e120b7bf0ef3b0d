package ngspec

import (
	"context"
	"strings"
)

// SchemaIntrospector is implemented by whatever reads schema metadata from the
// database. The compiler only consumes its output.
type SchemaIntrospector interface {
	// Describe returns the DESCRIBE TAG/EDGE rows of a schema object.
	Describe(ctx context.Context, kind, name string) ([]DescribeRow, error)

	// ShowCreate returns the SHOW CREATE TAG/EDGE text of a schema object.
	ShowCreate(ctx context.Context, kind, name string) (string, error)

	// VidType returns the VID type of the active space.
	VidType(ctx context.Context) (VidType, error)
}

// DescribeRow is one row of DESCRIBE TAG/EDGE output.
type DescribeRow struct {
	Field string `json:"Field" yaml:"field"`
	Type  string `json:"Type" yaml:"type"`
	Null  string `json:"Null,omitempty" yaml:"null,omitempty"` // "YES" or "NO"
}

// SchemaProperty is a property of a tag or edge with its default flag resolved.
type SchemaProperty struct {
	Name       string
	Type       SchemaType
	HasDefault bool
	AllowNull  bool
}

// PropertiesFromDescribe combines DESCRIBE rows with the defaults found in the
// SHOW CREATE text. When extraction did not succeed no property is marked as
// defaulted; the status stays available on the Extraction.
func PropertiesFromDescribe(rows []DescribeRow, defaults Extraction) []SchemaProperty {
	props := make([]SchemaProperty, 0, len(rows))

	for _, row := range rows {
		props = append(props, SchemaProperty{
			Name:       row.Field,
			Type:       SchemaType(row.Type),
			HasDefault: defaults.Has(row.Field),
			AllowNull:  strings.EqualFold(row.Null, "YES"),
		})
	}

	return props
}

// NewTagMapping builds a tag mapping with every property unmapped.
func NewTagMapping(name string, props []SchemaProperty) TagMapping {
	return TagMapping{Name: name, Properties: newPropertyMappings(props)}
}

// NewEdgeMapping builds an edge mapping with every column unmapped.
func NewEdgeMapping(edgeType string, props []SchemaProperty) EdgeMapping {
	return EdgeMapping{
		Type:       edgeType,
		Rank:       PropertyMapping{Name: EdgeRank, Type: TypeInt, AllowNull: true},
		Properties: newPropertyMappings(props),
	}
}

func newPropertyMappings(props []SchemaProperty) []PropertyMapping {
	mappings := make([]PropertyMapping, 0, len(props))

	for _, p := range props {
		mappings = append(mappings, PropertyMapping{
			Name:      p.Name,
			Type:      p.Type,
			IsDefault: p.HasDefault,
			AllowNull: p.AllowNull,
		})
	}

	return mappings
}
