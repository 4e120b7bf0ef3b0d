package ngspec

// PropertyMapping binds one schema property to a source column.
// A nil Column is only valid when the property has a default or accepts NULL.
type PropertyMapping struct {
	Name      string     `yaml:"name"`
	Type      SchemaType `yaml:"type"`
	Column    *int       `yaml:"column,omitempty"`
	IsDefault bool       `yaml:"default,omitempty"`
	AllowNull bool       `yaml:"allowNull,omitempty"`
	Value     string     `yaml:"value,omitempty"`
}

// Mapped reports whether a source column is bound.
func (p PropertyMapping) Mapped() bool {
	return p.Column != nil
}

// Optional reports whether the property may be left unmapped.
func (p PropertyMapping) Optional() bool {
	return p.IsDefault || p.AllowNull
}

// TagMapping binds the properties of one tag.
type TagMapping struct {
	Name       string            `yaml:"name"`
	Properties []PropertyMapping `yaml:"properties"`
}

// VidSpec locates a vertex identifier in the source file.
type VidSpec struct {
	Column   *int   `yaml:"column,omitempty"`
	Function string `yaml:"function,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// Mapped reports whether a source column is bound.
func (v VidSpec) Mapped() bool {
	return v.Column != nil
}

// EdgeMapping binds one edge type.
type EdgeMapping struct {
	Type       string            `yaml:"type"`
	Src        VidSpec           `yaml:"src"`
	Dst        VidSpec           `yaml:"dst"`
	Rank       PropertyMapping   `yaml:"rank,omitempty"`
	Properties []PropertyMapping `yaml:"properties,omitempty"`
}

// Assembled returns the edge's properties in the fixed order the import engine
// expects: srcId, dstId, rank, then the user properties in their original order.
func (e EdgeMapping) Assembled() []PropertyMapping {
	props := make([]PropertyMapping, 0, len(e.Properties)+3) //nolint:mnd // srcId, dstId, rank

	rank := e.Rank
	rank.Name = EdgeRank
	rank.Type = TypeInt

	props = append(props,
		PropertyMapping{Name: EdgeSrcID, Type: TypeString, Column: e.Src.Column},
		PropertyMapping{Name: EdgeDstID, Type: TypeString, Column: e.Dst.Column},
		rank,
	)

	return append(props, e.Properties...)
}

// FileSource describes the physical CSV file of a binding.
type FileSource struct {
	Path       string `yaml:"path"`
	Delimiter  string `yaml:"delimiter,omitempty"`
	WithHeader bool   `yaml:"withHeader,omitempty"`
}

// VertexBinding maps one file onto a VID and any number of tags.
type VertexBinding struct {
	FileSource `yaml:",inline"`

	Vid  VidSpec      `yaml:"vid"`
	Tags []TagMapping `yaml:"tags"`
}

// EdgeBinding maps one file onto exactly one edge type.
type EdgeBinding struct {
	FileSource `yaml:",inline"`

	Edge EdgeMapping `yaml:"edge"`
}

// Snapshot is the immutable mapping state handed to the validator, the
// generators and the compiler. Callers own mutation and serialize edits.
type Snapshot struct {
	Vertices []VertexBinding `yaml:"vertices,omitempty"`
	Edges    []EdgeBinding   `yaml:"edges,omitempty"`
}

// MappedProperties returns the properties that are emitted for a binding, in
// order. Unmapped optional properties are dropped. Unmapped required ones are
// kept so that unvalidated input surfaces as a nil column downstream.
func MappedProperties(props []PropertyMapping) []PropertyMapping {
	mapped := make([]PropertyMapping, 0, len(props))

	for _, p := range props {
		if !p.Mapped() && p.Optional() {
			continue
		}

		mapped = append(mapped, p)
	}

	return mapped
}

// Column returns a pointer to i, for building mappings in code.
func Column(i int) *int {
	return &i
}
