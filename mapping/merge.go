package mapping

import (
	"fmt"
	"path/filepath"

	"github.com/rlch/ngspec"
)

// Merge codes.
const (
	CodeDuplicateFile = "duplicate-file"
	CodeMixedRoles    = "vertex-and-edge-file"
)

// MergeWarning represents a non-fatal issue detected during merge.
type MergeWarning struct {
	Path    string
	Code    string
	Message string
}

// MergeError represents a fatal error during merge.
type MergeError struct {
	Path    string
	Code    string
	Message string
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type binding struct {
	doc   string
	index int
}

// Merge combines documents into one snapshot, keeping document order. A CSV
// file bound twice in the same role is an error. A file that is both a
// vertex and an edge source is reported as a warning.
func Merge(docs []*Document) (ngspec.Snapshot, []MergeWarning, error) {
	var (
		merged   ngspec.Snapshot
		warnings []MergeWarning
	)

	vertexFiles := make(map[string]binding)
	edgeFiles := make(map[string]binding)

	for _, doc := range docs {
		for i, v := range doc.Vertices {
			key := filepath.Clean(v.Path)

			if prev, ok := vertexFiles[key]; ok {
				return ngspec.Snapshot{}, warnings, duplicate(key, "vertex", prev, doc.Path, i)
			}

			vertexFiles[key] = binding{doc: doc.Path, index: i}
			merged.Vertices = append(merged.Vertices, v)
		}
	}

	for _, doc := range docs {
		for i, e := range doc.Edges {
			key := filepath.Clean(e.Path)

			if prev, ok := edgeFiles[key]; ok {
				return ngspec.Snapshot{}, warnings, duplicate(key, "edge", prev, doc.Path, i)
			}

			edgeFiles[key] = binding{doc: doc.Path, index: i}
			merged.Edges = append(merged.Edges, e)

			if _, ok := vertexFiles[key]; ok {
				warnings = append(warnings, MergeWarning{
					Path:    key,
					Code:    CodeMixedRoles,
					Message: fmt.Sprintf("%s is bound as both a vertex and an edge source", key),
				})
			}
		}
	}

	return merged, warnings, nil
}

func duplicate(file, role string, prev binding, doc string, index int) *MergeError {
	return &MergeError{
		Path: file,
		Code: CodeDuplicateFile,
		Message: fmt.Sprintf("%s already bound as %s source %d in %s (again as %d in %s)",
			file, role, prev.index+1, prev.doc, index+1, doc),
	}
}
