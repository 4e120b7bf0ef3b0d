// Package importspec compiles a mapping snapshot into a nebula-importer job
// specification.
//
// Compile performs no validation. Callers run validate.Snapshot first; an
// unmapped required column is emitted as a null index.
package importspec

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rlch/ngspec"
)

// Spec is the top level job document.
type Spec struct {
	Version        string         `json:"version" yaml:"version"`
	ClientSettings ClientSettings `json:"clientSettings" yaml:"clientSettings"`
	Files          []File         `json:"files" yaml:"files"`
}

// ClientSettings configures the import engine's graph client.
type ClientSettings struct {
	Retry             int        `json:"retry" yaml:"retry"`
	Concurrency       int        `json:"concurrency" yaml:"concurrency"`
	ChannelBufferSize int        `json:"channelBufferSize" yaml:"channelBufferSize"`
	Space             string     `json:"space" yaml:"space"`
	Connection        Connection `json:"connection" yaml:"connection"`
}

// Connection holds graphd credentials. Address is comma separated.
type Connection struct {
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	Address  string `json:"address" yaml:"address"`
}

// File is one CSV source.
type File struct {
	Path      string `json:"path" yaml:"path"`
	BatchSize int    `json:"batchSize" yaml:"batchSize"`
	Type      string `json:"type" yaml:"type"`
	CSV       CSV    `json:"csv" yaml:"csv"`
	Schema    Schema `json:"schema" yaml:"schema"`
}

// CSV is the file dialect. WithLabel is always false.
type CSV struct {
	WithHeader bool   `json:"withHeader" yaml:"withHeader"`
	WithLabel  bool   `json:"withLabel" yaml:"withLabel"`
	Delimiter  string `json:"delimiter" yaml:"delimiter"`
}

// Schema types.
const (
	SchemaVertex = "vertex"
	SchemaEdge   = "edge"
)

// Schema binds the file to either a vertex or an edge. Exactly one of Vertex
// and Edge is set, matching Type.
type Schema struct {
	Type   string  `json:"type" yaml:"type"`
	Vertex *Vertex `json:"vertex,omitempty" yaml:"vertex,omitempty"`
	Edge   *Edge   `json:"edge,omitempty" yaml:"edge,omitempty"`
}

// Vertex is the vertex schema of a file.
type Vertex struct {
	Vid  VID   `json:"vid" yaml:"vid"`
	Tags []Tag `json:"tags" yaml:"tags"`
}

// VID locates a vertex identifier column.
type VID struct {
	Index    *int   `json:"index" yaml:"index"`
	Function string `json:"function,omitempty" yaml:"function,omitempty"`
	Type     string `json:"type" yaml:"type"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// Tag is one tag written from a vertex file.
type Tag struct {
	Name  string `json:"name" yaml:"name"`
	Props []Prop `json:"props" yaml:"props"`
}

// Edge is the edge schema of a file. Rank is always present; its index is
// null when no rank column is mapped.
type Edge struct {
	Name   string `json:"name" yaml:"name"`
	SrcVID VID    `json:"srcVID" yaml:"srcVID"`
	DstVID VID    `json:"dstVID" yaml:"dstVID"`
	Rank   Rank   `json:"rank" yaml:"rank"`
	Props  []Prop `json:"props" yaml:"props"`
}

// Rank locates the edge rank column.
type Rank struct {
	Index *int `json:"index" yaml:"index"`
}

// Prop binds a property to a column.
type Prop struct {
	Name  string            `json:"name" yaml:"name"`
	Type  ngspec.SchemaType `json:"type" yaml:"type"`
	Index *int              `json:"index" yaml:"index"`
}

// Settings are the job-wide inputs that do not come from the mapping.
// Non-positive numbers and an unparseable BatchSize fall back to the
// ngspec defaults.
type Settings struct {
	Space             string
	VidType           ngspec.VidType
	Retry             int
	Concurrency       int
	ChannelBufferSize int
	BatchSize         string
	User              string
	Password          string
	Addresses         []string
}

// SettingsFromConfig reads Settings from a loaded config.
func SettingsFromConfig(cfg *ngspec.Config) Settings {
	return Settings{
		Space:             cfg.Space,
		VidType:           cfg.SpaceVidType(),
		Retry:             cfg.Client.Retry,
		Concurrency:       cfg.Client.Concurrency,
		ChannelBufferSize: cfg.Client.ChannelBufferSize,
		BatchSize:         cfg.Client.BatchSize,
		User:              cfg.Connection.User,
		Password:          cfg.Connection.Password,
		Addresses:         cfg.Connection.Address,
	}
}

// Option configures Compile.
type Option func(*compiler)

// WithLogger sets the logger used to trace compilation.
func WithLogger(logger *zap.Logger) Option {
	return func(c *compiler) {
		c.logger = logger
	}
}

type compiler struct {
	settings Settings
	logger   *zap.Logger
}

// Compile builds the job specification. Vertex files come first, then edge
// files, each in binding order.
func Compile(s ngspec.Snapshot, settings Settings, opts ...Option) *Spec {
	c := &compiler{settings: settings, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}

	spec := &Spec{
		Version: ngspec.ImportSpecVersion,
		ClientSettings: ClientSettings{
			Retry:             positiveOr(settings.Retry, ngspec.DefaultRetry),
			Concurrency:       positiveOr(settings.Concurrency, ngspec.DefaultConcurrency),
			ChannelBufferSize: positiveOr(settings.ChannelBufferSize, ngspec.DefaultChannelBufferSize),
			Space:             ngspec.EscapeIdent(settings.Space),
			Connection: Connection{
				User:     settings.User,
				Password: settings.Password,
				Address:  strings.Join(settings.Addresses, ","),
			},
		},
		Files: make([]File, 0, len(s.Vertices)+len(s.Edges)),
	}

	for _, v := range s.Vertices {
		spec.Files = append(spec.Files, c.vertexFile(v))
	}

	for _, e := range s.Edges {
		spec.Files = append(spec.Files, c.edgeFile(e))
	}

	c.logger.Debug("compiled import spec",
		zap.String("space", spec.ClientSettings.Space),
		zap.Int("vertexFiles", len(s.Vertices)),
		zap.Int("edgeFiles", len(s.Edges)),
	)

	return spec
}

func (c *compiler) file(src ngspec.FileSource, schema Schema) File {
	delimiter := src.Delimiter
	if delimiter == "" {
		delimiter = ngspec.DefaultDelimiter
	}

	return File{
		Path:      src.Path,
		BatchSize: batchSize(c.settings.BatchSize),
		Type:      "csv",
		CSV: CSV{
			WithHeader: src.WithHeader,
			Delimiter:  src.Delimiter,
		},
		Schema: schema,
	}
}

func (c *compiler) vertexFile(v ngspec.VertexBinding) File {
	tags := make([]Tag, len(v.Tags))
	for i, tag := range v.Tags {
		tags[i] = Tag{Name: ngspec.EscapeIdent(tag.Name), Props: props(tag.Properties)}
	}

	c.logger.Debug("vertex file", zap.String("path", v.Path), zap.Int("tags", len(tags)))

	return c.file(v.FileSource, Schema{
		Type: SchemaVertex,
		Vertex: &Vertex{
			Vid:  c.vid(v.Vid),
			Tags: tags,
		},
	})
}

func (c *compiler) edgeFile(e ngspec.EdgeBinding) File {
	assembled := e.Edge.Assembled()

	edge := &Edge{
		Name:   ngspec.EscapeIdent(e.Edge.Type),
		SrcVID: c.vid(e.Edge.Src),
		DstVID: c.vid(e.Edge.Dst),
		Rank:   Rank{Index: assembled[2].Column},
		Props:  props(assembled[3:]),
	}

	c.logger.Debug("edge file", zap.String("path", e.Path), zap.String("edge", e.Edge.Type))

	return c.file(e.FileSource, Schema{Type: SchemaEdge, Edge: edge})
}

func (c *compiler) vid(v ngspec.VidSpec) VID {
	return VID{
		Index:    v.Column,
		Function: v.Function,
		Type:     c.settings.VidType.ImportType(),
		Prefix:   v.Prefix,
	}
}

func props(mappings []ngspec.PropertyMapping) []Prop {
	mapped := ngspec.MappedProperties(mappings)

	out := make([]Prop, len(mapped))
	for i, p := range mapped {
		out[i] = Prop{
			Name:  ngspec.EscapeIdent(p.Name),
			Type:  ngspec.CoerceImportType(p.Type),
			Index: p.Column,
		}
	}

	return out
}

func positiveOr(n, fallback int) int {
	if n > 0 {
		return n
	}

	return fallback
}

func batchSize(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return ngspec.DefaultBatchSize
	}

	return positiveOr(n, ngspec.DefaultBatchSize)
}

// WriteJSON writes the spec as indented JSON.
func WriteJSON(w io.Writer, spec *Spec) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(spec)
}

// WriteYAML writes the spec in the importer's YAML config format.
func WriteYAML(w io.Writer, spec *Spec) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2) //nolint:mnd

	if err := enc.Encode(spec); err != nil {
		return err
	}

	return enc.Close()
}
