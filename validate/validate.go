// Package validate checks a mapping snapshot before anything is generated from it.
//
// Validation is fail-fast: the first violation in scan order is returned and the
// rest of the snapshot is not inspected. Scan order is every vertex binding in
// order (VID, then each tag and its properties), then every edge binding (edge
// type, then each assembled property except rank), then the batch size.
package validate

import (
	"fmt"
	"regexp"

	"github.com/rlch/ngspec"
)

// Error codes.
const (
	CodeVidUnmapped          = "vid-unmapped"
	CodeTagNameEmpty         = "tag-name-empty"
	CodeTagNoProperties      = "tag-no-properties"
	CodePropertyUnmapped     = "property-unmapped"
	CodeEdgeTypeEmpty        = "edge-type-empty"
	CodeEdgePropertyUnmapped = "edge-property-unmapped"
	CodeBatchSizeInvalid     = "batch-size-invalid"
)

// Error is a user-facing mapping violation.
type Error struct {
	Code     string
	File     string // source file path of the binding, if any
	Entity   string // tag or edge type name, if any
	Property string
	Message  string
}

func (e *Error) Error() string {
	return e.Message
}

// Is makes every Error match ngspec.ErrValidation.
func (e *Error) Is(target error) bool {
	return target == ngspec.ErrValidation
}

var batchSizePattern = regexp.MustCompile(`^[1-9]\d*$`)

// rankPosition is the index of rank in EdgeMapping.Assembled.
const rankPosition = 2

// Snapshot validates a snapshot with the given batch size ("" when unset).
func Snapshot(s ngspec.Snapshot, batchSize string) *Error {
	return Mapping(s.Vertices, s.Edges, batchSize)
}

// Mapping validates vertex and edge bindings and an optional batch size.
// It returns nil when the input can be compiled.
func Mapping(vertices []ngspec.VertexBinding, edges []ngspec.EdgeBinding, batchSize string) *Error {
	for _, v := range vertices {
		if err := vertex(v); err != nil {
			return err
		}
	}

	for _, e := range edges {
		if err := edge(e); err != nil {
			return err
		}
	}

	if batchSize != "" && !batchSizePattern.MatchString(batchSize) {
		return &Error{
			Code:    CodeBatchSizeInvalid,
			Message: fmt.Sprintf("batch size %q must be a positive integer", batchSize),
		}
	}

	return nil
}

func vertex(v ngspec.VertexBinding) *Error {
	if !v.Vid.Mapped() {
		return &Error{
			Code:    CodeVidUnmapped,
			File:    v.Path,
			Message: fmt.Sprintf("%s: vertex ID column is not mapped", v.Path),
		}
	}

	for _, tag := range v.Tags {
		if tag.Name == "" {
			return &Error{
				Code:    CodeTagNameEmpty,
				File:    v.Path,
				Message: fmt.Sprintf("%s: tag is not selected", v.Path),
			}
		}

		if len(tag.Properties) == 0 {
			return &Error{
				Code:    CodeTagNoProperties,
				File:    v.Path,
				Entity:  tag.Name,
				Message: fmt.Sprintf("%s: tag %s has no properties", v.Path, tag.Name),
			}
		}

		for _, p := range tag.Properties {
			if !p.Mapped() && !p.Optional() {
				return &Error{
					Code:     CodePropertyUnmapped,
					File:     v.Path,
					Entity:   tag.Name,
					Property: p.Name,
					Message:  fmt.Sprintf("%s: property %s.%s is not mapped", v.Path, tag.Name, p.Name),
				}
			}
		}
	}

	return nil
}

func edge(e ngspec.EdgeBinding) *Error {
	if e.Edge.Type == "" {
		return &Error{
			Code:    CodeEdgeTypeEmpty,
			File:    e.Path,
			Message: fmt.Sprintf("%s: edge type is not selected", e.Path),
		}
	}

	for i, p := range e.Edge.Assembled() {
		if i == rankPosition {
			continue
		}

		if !p.Mapped() && !p.Optional() {
			return &Error{
				Code:     CodeEdgePropertyUnmapped,
				File:     e.Path,
				Entity:   e.Edge.Type,
				Property: p.Name,
				Message:  fmt.Sprintf("%s: property %s.%s is not mapped", e.Path, e.Edge.Type, p.Name),
			}
		}
	}

	return nil
}
