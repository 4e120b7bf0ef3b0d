package ngql

import (
	"strconv"
	"strings"

	"github.com/rlch/ngspec"
)

// SpaceOptions are the CREATE SPACE options. Empty values are omitted.
type SpaceOptions struct {
	PartitionNum  string
	ReplicaFactor string
	VidType       string
}

// SpaceParams describes a CREATE SPACE statement.
type SpaceParams struct {
	Name    string
	Options SpaceOptions
	Comment string
}

// CreateSpace renders CREATE SPACE. Options keep the order partition_num,
// replica_factor, vid_type.
func CreateSpace(p SpaceParams) string {
	options := make([]string, 0, 3) //nolint:mnd // three options

	for _, opt := range [...]struct{ key, value string }{
		{"partition_num", p.Options.PartitionNum},
		{"replica_factor", p.Options.ReplicaFactor},
		{"vid_type", p.Options.VidType},
	} {
		if opt.value != "" {
			options = append(options, opt.key+" = "+opt.value)
		}
	}

	var optionsStr, commentStr string

	if len(options) > 0 {
		optionsStr = "(" + strings.Join(options, ", ") + ")"
	}

	if p.Comment != "" {
		commentStr = "COMMENT = " + quote(p.Comment)
	}

	return "CREATE SPACE " + ngspec.QuoteIdent(p.Name) + " " + optionsStr + " " + commentStr
}

// PropertyDef is a property column in CREATE/ALTER statements.
type PropertyDef struct {
	Name        string
	Type        ngspec.SchemaType
	FixedLength int // for a bare fixed_string type
	AllowNull   bool
	Default     *string
	Comment     string
}

func (d PropertyDef) typeName() string {
	if d.FixedLength > 0 && strings.EqualFold(string(d.Type), "fixed_string") {
		return string(d.Type) + "(" + strconv.Itoa(d.FixedLength) + ")"
	}

	return string(d.Type)
}

// clause renders `<name> <type> NULL|NOT NULL [DEFAULT v] [COMMENT "c"]`.
func (d PropertyDef) clause() string {
	parts := []string{ngspec.EscapeIdent(d.Name), d.typeName()}

	if d.AllowNull {
		parts = append(parts, "NULL")
	} else {
		parts = append(parts, "NOT NULL")
	}

	if d.Default != nil && *d.Default != "" {
		parts = append(parts, "DEFAULT "+defaultLiteral(d.Type, *d.Default))
	}

	if d.Comment != "" {
		parts = append(parts, "COMMENT "+quote(d.Comment))
	}

	return strings.Join(parts, " ")
}

func propertyClauses(defs []PropertyDef) string {
	clauses := make([]string, len(defs))
	for i, d := range defs {
		clauses[i] = d.clause()
	}

	return "(" + strings.Join(clauses, ", ") + ")"
}

// TTL configures time-to-live expiry on a property.
type TTL struct {
	Col      string
	Duration int64
}

func (t TTL) clause() string {
	return "TTL_DURATION = " + strconv.FormatInt(t.Duration, 10) + ", TTL_COL = " + quote(t.Col)
}

// SchemaParams describes a CREATE TAG or CREATE EDGE statement.
type SchemaParams struct {
	Kind       Kind
	Name       string
	Properties []PropertyDef
	TTL        *TTL // rendered when Col is set
	Comment    string
}

// CreateSchema renders CREATE TAG/EDGE.
func CreateSchema(p SchemaParams) string {
	var b strings.Builder

	b.WriteString("CREATE " + string(p.Kind) + " " + ngspec.QuoteIdent(p.Name) + " ")
	b.WriteString(propertyClauses(p.Properties))

	hasTTL := p.TTL != nil && p.TTL.Col != ""
	if hasTTL {
		b.WriteString(" " + p.TTL.clause())
	}

	if p.Comment != "" {
		if hasTTL {
			b.WriteString(",")
		}

		b.WriteString(" COMMENT = " + quote(p.Comment))
	}

	return b.String()
}

// AlterAction is one of AlterAdd, AlterChange, AlterDrop, AlterTTL, AlterComment.
type AlterAction interface {
	alterClause() string
}

// AlterAdd adds properties.
type AlterAdd struct{ Properties []PropertyDef }

// AlterChange redefines existing properties.
type AlterChange struct{ Properties []PropertyDef }

// AlterDrop removes properties by name.
type AlterDrop struct{ Names []string }

// AlterTTL replaces the TTL settings.
type AlterTTL struct{ TTL TTL }

// AlterComment replaces the schema comment.
type AlterComment struct{ Text string }

func (a AlterAdd) alterClause() string    { return "ADD " + propertyClauses(a.Properties) }
func (a AlterChange) alterClause() string { return "CHANGE " + propertyClauses(a.Properties) }
func (a AlterTTL) alterClause() string    { return a.TTL.clause() }
func (a AlterComment) alterClause() string {
	return "COMMENT = " + quote(a.Text)
}

func (a AlterDrop) alterClause() string {
	names := make([]string, len(a.Names))
	for i, n := range a.Names {
		names[i] = ngspec.EscapeIdent(n)
	}

	return "DROP (" + strings.Join(names, ", ") + ")"
}

// AlterParams describes an ALTER TAG/EDGE statement.
type AlterParams struct {
	Kind   Kind
	Name   string
	Action AlterAction
}

// Alter renders ALTER TAG/EDGE.
func Alter(p AlterParams) string {
	head := "ALTER " + string(p.Kind) + " " + ngspec.QuoteIdent(p.Name)
	if p.Action == nil {
		return head
	}

	return head + " " + p.Action.alterClause()
}

// IndexField is an indexed property. Length is required by graphd for
// string properties.
type IndexField struct {
	Name   string
	Length int
}

func (f IndexField) String() string {
	if f.Length > 0 {
		return ngspec.EscapeIdent(f.Name) + "(" + strconv.Itoa(f.Length) + ")"
	}

	return ngspec.EscapeIdent(f.Name)
}

// IndexParams describes a CREATE TAG/EDGE INDEX statement.
type IndexParams struct {
	Kind    Kind
	Name    string
	On      string // the tag or edge being indexed; omitted when empty, as is an empty Fields
	Fields  []IndexField
	Comment string
}

// CreateIndex renders CREATE TAG/EDGE INDEX.
func CreateIndex(p IndexParams) string {
	parts := []string{"CREATE", string(p.Kind), "INDEX", ngspec.QuoteIdent(p.Name)}

	if p.On != "" {
		on := "on " + ngspec.QuoteIdent(p.On)

		if len(p.Fields) > 0 {
			fields := make([]string, len(p.Fields))
			for i, f := range p.Fields {
				fields[i] = f.String()
			}

			on += "(" + strings.Join(fields, ", ") + ")"
		}

		parts = append(parts, on)
	}

	if p.Comment != "" {
		parts = append(parts, "COMMENT "+quote(p.Comment))
	}

	return strings.Join(parts, " ")
}
