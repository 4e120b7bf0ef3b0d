package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/rlch/ngspec"
	"github.com/rlch/ngspec/dialects/ngql"
)

// SchemaDocument describes a space and its schema objects:
//
//	space: {name: basketball, partitionNum: 10, vidType: FIXED_STRING(32)}
//	tags:
//	  - name: player
//	    properties:
//	      - {name: name, type: string}
//	      - {name: age, type: int64, allowNull: true, default: "18"}
//	edges:
//	  - name: follow
//	    properties: [{name: degree, type: int}]
//	indexes:
//	  - {kind: TAG, name: idx_age, on: player, fields: [{name: age}]}
type SchemaDocument struct {
	Space   *SpaceDef   `yaml:"space,omitempty"`
	Tags    []ObjectDef `yaml:"tags,omitempty"`
	Edges   []ObjectDef `yaml:"edges,omitempty"`
	Indexes []IndexDef  `yaml:"indexes,omitempty"`
}

// SpaceDef is the space to create. Zero numbers are left to the server.
type SpaceDef struct {
	Name          string `yaml:"name"`
	PartitionNum  int    `yaml:"partitionNum,omitempty"`
	ReplicaFactor int    `yaml:"replicaFactor,omitempty"`
	VidType       string `yaml:"vidType,omitempty"`
	Comment       string `yaml:"comment,omitempty"`
}

// ObjectDef is a tag or an edge type.
type ObjectDef struct {
	Name       string        `yaml:"name"`
	Properties []PropertyDef `yaml:"properties,omitempty"`
	TTL        *TTLDef       `yaml:"ttl,omitempty"`
	Comment    string        `yaml:"comment,omitempty"`
}

// PropertyDef is a property column.
type PropertyDef struct {
	Name    string            `yaml:"name"`
	Type    ngspec.SchemaType `yaml:"type"`
	Length  int               `yaml:"length,omitempty"`
	Null    bool              `yaml:"allowNull,omitempty"`
	Default *string           `yaml:"default,omitempty"`
	Comment string            `yaml:"comment,omitempty"`
}

// TTLDef expires rows by a timestamp property.
type TTLDef struct {
	Col      string `yaml:"col"`
	Duration int64  `yaml:"duration"`
}

// IndexDef is a tag or edge index.
type IndexDef struct {
	Kind    ngql.Kind  `yaml:"kind"`
	Name    string     `yaml:"name"`
	On      string     `yaml:"on"`
	Fields  []FieldDef `yaml:"fields,omitempty"`
	Comment string     `yaml:"comment,omitempty"`
}

// FieldDef is an indexed property.
type FieldDef struct {
	Name   string `yaml:"name"`
	Length int    `yaml:"length,omitempty"`
}

// Statement is one named DDL statement.
type Statement struct {
	Name  string
	Query string
}

// LoadSchema reads a schema document from disk.
func LoadSchema(path string) (*SchemaDocument, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}

	doc, err := ParseSchema(data)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}

	return doc, nil
}

// ParseSchema decodes a schema document. Unknown keys are rejected.
func ParseSchema(data []byte) (*SchemaDocument, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc SchemaDocument
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	for _, idx := range doc.Indexes {
		if idx.Kind != ngql.Tag && idx.Kind != ngql.Edge {
			return nil, fmt.Errorf("%w: index %s: kind must be TAG or EDGE, got %q", ErrParse, idx.Name, idx.Kind)
		}
	}

	return &doc, nil
}

// Statements renders the document in creation order: the space and a USE,
// then tags, edges and indexes.
func (d *SchemaDocument) Statements() []Statement {
	var stmts []Statement

	if d.Space != nil {
		stmts = append(stmts,
			Statement{Name: "space/" + d.Space.Name, Query: ngql.CreateSpace(d.Space.params())},
			Statement{Name: "use/" + d.Space.Name, Query: ngql.Use(d.Space.Name)},
		)
	}

	for _, tag := range d.Tags {
		stmts = append(stmts, Statement{Name: "tag/" + tag.Name, Query: ngql.CreateSchema(tag.params(ngql.Tag))})
	}

	for _, edge := range d.Edges {
		stmts = append(stmts, Statement{Name: "edge/" + edge.Name, Query: ngql.CreateSchema(edge.params(ngql.Edge))})
	}

	for _, idx := range d.Indexes {
		stmts = append(stmts, Statement{Name: "index/" + idx.Name, Query: ngql.CreateIndex(idx.params())})
	}

	return stmts
}

func (s *SpaceDef) params() ngql.SpaceParams {
	return ngql.SpaceParams{
		Name: s.Name,
		Options: ngql.SpaceOptions{
			PartitionNum:  itoaOrEmpty(s.PartitionNum),
			ReplicaFactor: itoaOrEmpty(s.ReplicaFactor),
			VidType:       s.VidType,
		},
		Comment: s.Comment,
	}
}

func (o ObjectDef) params(kind ngql.Kind) ngql.SchemaParams {
	props := make([]ngql.PropertyDef, len(o.Properties))
	for i, p := range o.Properties {
		props[i] = ngql.PropertyDef{
			Name:        p.Name,
			Type:        p.Type,
			FixedLength: p.Length,
			AllowNull:   p.Null,
			Default:     p.Default,
			Comment:     p.Comment,
		}
	}

	params := ngql.SchemaParams{Kind: kind, Name: o.Name, Properties: props, Comment: o.Comment}
	if o.TTL != nil {
		params.TTL = &ngql.TTL{Col: o.TTL.Col, Duration: o.TTL.Duration}
	}

	return params
}

func (i IndexDef) params() ngql.IndexParams {
	fields := make([]ngql.IndexField, len(i.Fields))
	for n, f := range i.Fields {
		fields[n] = ngql.IndexField{Name: f.Name, Length: f.Length}
	}

	return ngql.IndexParams{Kind: i.Kind, Name: i.Name, On: i.On, Fields: fields, Comment: i.Comment}
}

func itoaOrEmpty(n int) string {
	if n <= 0 {
		return ""
	}

	return strconv.Itoa(n)
}
