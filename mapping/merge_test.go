package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/ngspec"
)

func vertexDoc(path string, files ...string) *Document {
	doc := &Document{Path: path}
	for _, f := range files {
		doc.Vertices = append(doc.Vertices, ngspec.VertexBinding{FileSource: ngspec.FileSource{Path: f}})
	}

	return doc
}

func edgeDoc(path string, files ...string) *Document {
	doc := &Document{Path: path}
	for _, f := range files {
		doc.Edges = append(doc.Edges, ngspec.EdgeBinding{FileSource: ngspec.FileSource{Path: f}})
	}

	return doc
}

func TestMerge(t *testing.T) {
	t.Parallel()

	docs := []*Document{
		vertexDoc("/m/a.yaml", "/d/players.csv", "/d/teams.csv"),
		edgeDoc("/m/b.yaml", "/d/follows.csv"),
		vertexDoc("/m/c.yaml", "/d/coaches.csv"),
	}

	snap, warnings, err := Merge(docs)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	paths := make([]string, 0, len(snap.Vertices))
	for _, v := range snap.Vertices {
		paths = append(paths, v.Path)
	}

	assert.Equal(t, []string{"/d/players.csv", "/d/teams.csv", "/d/coaches.csv"}, paths)
	require.Len(t, snap.Edges, 1)
}

func TestMerge_Empty(t *testing.T) {
	t.Parallel()

	snap, warnings, err := Merge(nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, snap.Vertices)
	assert.Empty(t, snap.Edges)
}

func TestMerge_DuplicateFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		docs []*Document
	}{
		{"vertex across documents", []*Document{vertexDoc("/m/a.yaml", "/d/p.csv"), vertexDoc("/m/b.yaml", "/d/./p.csv")}},
		{"vertex within a document", []*Document{vertexDoc("/m/a.yaml", "/d/p.csv", "/d/p.csv")}},
		{"edge", []*Document{edgeDoc("/m/a.yaml", "/d/f.csv"), edgeDoc("/m/b.yaml", "/d/f.csv")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := Merge(tt.docs)

			var mergeErr *MergeError

			require.ErrorAs(t, err, &mergeErr)
			assert.Equal(t, CodeDuplicateFile, mergeErr.Code)
			assert.Contains(t, mergeErr.Error(), "duplicate-file: ")
		})
	}
}

func TestMerge_MixedRolesWarns(t *testing.T) {
	t.Parallel()

	snap, warnings, err := Merge([]*Document{
		edgeDoc("/m/e.yaml", "/d/x.csv"),
		vertexDoc("/m/v.yaml", "/d/x.csv"),
	})
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Equal(t, CodeMixedRoles, warnings[0].Code)
	assert.Equal(t, "/d/x.csv", warnings[0].Path)
	assert.Len(t, snap.Vertices, 1)
	assert.Len(t, snap.Edges, 1)
}
