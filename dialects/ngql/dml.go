package ngql

import (
	"strconv"
	"strings"

	"github.com/rlch/ngspec"
)

// LookupParams describes an index lookup on a tag.
type LookupParams struct {
	Tag     string
	Filters []Filter
	Limit   int // defaults to 100
}

// Lookup renders LOOKUP ON ... WHERE ... | LIMIT n.
func Lookup(p LookupParams) (string, error) {
	tag := ngspec.QuoteIdent(p.Tag)

	where, err := conditions(tag, p.Filters)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	b.WriteString("LOOKUP ON " + tag)

	if where != "" {
		b.WriteString(" WHERE " + where)
	}

	b.WriteString(" | LIMIT " + strconv.Itoa(limitOrDefault(p.Limit)))

	return b.String(), nil
}

// PathType selects the FIND PATH variant.
type PathType string

// Path types.
const (
	PathAll      PathType = "ALL"
	PathShortest PathType = "SHORTEST"
	PathNoLoop   PathType = "NOLOOP"
)

// Direction is the traversal direction of FIND PATH.
type Direction string

// Directions. Forward is the default and renders nothing.
const (
	Forward   Direction = ""
	Reversely Direction = "REVERSELY"
	Bidirect  Direction = "BIDIRECT"
)

// PathParams describes a FIND PATH statement.
type PathParams struct {
	Type      PathType
	Src       []string
	Dst       []string
	Edges     []string // all edge types when empty
	Direction Direction
	Steps     int // UPTO n STEPS, omitted when 0
	Limit     int // | LIMIT n, omitted when 0
	VidType   ngspec.VidType
}

// FindPath renders FIND <type> PATH.
func FindPath(p PathParams) string {
	var b strings.Builder

	b.WriteString("FIND " + string(p.Type) + " PATH FROM " + vidList(p.Src, p.VidType))
	b.WriteString(" TO " + vidList(p.Dst, p.VidType))
	b.WriteString(" over " + edgeList(p.Edges, ", "))

	if p.Direction != Forward {
		b.WriteString(" " + string(p.Direction))
	}

	if p.Steps > 0 {
		b.WriteString(" UPTO " + strconv.Itoa(p.Steps) + " STEPS")
	}

	if p.Limit > 0 {
		b.WriteString(" | LIMIT " + strconv.Itoa(p.Limit))
	}

	return b.String()
}

func edgeList(edges []string, sep string) string {
	if len(edges) == 0 {
		return "*"
	}

	quoted := make([]string, len(edges))
	for i, e := range edges {
		quoted[i] = ngspec.QuoteIdent(e)
	}

	return strings.Join(quoted, sep)
}

// EdgeDirection is the arrow direction of a MATCH pattern.
type EdgeDirection string

// Edge directions.
const (
	Outgoing EdgeDirection = "outgoing"
	Incoming EdgeDirection = "incoming"
	Both     EdgeDirection = "both"
)

// StepRange is the hop count of a MATCH pattern. Min == Max renders a fixed
// count, and the zero value is a single hop.
type StepRange struct {
	Min int
	Max int
}

// Steps returns a fixed hop count.
func Steps(n int) StepRange {
	return StepRange{Min: n, Max: n}
}

func (s StepRange) String() string {
	if s == (StepRange{}) {
		s = Steps(1)
	}

	if s.Max <= s.Min {
		return "*" + strconv.Itoa(s.Min)
	}

	return "*" + strconv.Itoa(s.Min) + ".." + strconv.Itoa(s.Max)
}

// MatchParams describes a MATCH traversal from a set of vertices.
type MatchParams struct {
	VIDs      []string
	EdgeTypes []string
	Direction EdgeDirection // Outgoing when empty
	Steps     StepRange     // one hop when zero
	Filters   []Filter      // applied to every edge on the path
	Limit     int           // defaults to 100
	VidType   ngspec.VidType
}

// Match renders MATCH p=(v)-[e...]->(v2) WHERE id(v) IN [...] RETURN p LIMIT n.
func Match(p MatchParams) (string, error) {
	edgeFilter, err := conditions("l", p.Filters)
	if err != nil {
		return "", err
	}

	left, right := "-", "->"

	switch p.Direction {
	case Incoming:
		left, right = "<-", "-"
	case Both:
		left, right = "-", "-"
	case Outgoing, "":
	}

	rel := "e"
	if len(p.EdgeTypes) > 0 {
		rel += ":" + edgeList(p.EdgeTypes, "|")
	}

	var b strings.Builder

	b.WriteString("MATCH p=(v)" + left + "[" + rel + p.Steps.String() + "]" + right + "(v2)")
	b.WriteString(" WHERE id(v) IN [" + vidList(p.VIDs, p.VidType) + "]")

	if edgeFilter != "" {
		b.WriteString(" AND ALL(l IN e WHERE " + edgeFilter + ")")
	}

	b.WriteString(" RETURN p LIMIT " + strconv.Itoa(limitOrDefault(p.Limit)))

	return b.String(), nil
}

func limitOrDefault(n int) int {
	if n <= 0 {
		return ngspec.DefaultQuantityLimit
	}

	return n
}
