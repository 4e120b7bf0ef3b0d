package mapping

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basketballSchema = `space:
  name: basketball
  partitionNum: 10
  vidType: FIXED_STRING(32)
tags:
  - name: player
    properties:
      - {name: name, type: string}
      - {name: age, type: int64, allowNull: true, default: "18"}
edges:
  - name: follow
    properties:
      - {name: degree, type: int}
    ttl: {col: degree, duration: 100}
indexes:
  - {kind: TAG, name: idx_age, on: player, fields: [{name: age}]}
`

func TestSchemaDocument_Statements(t *testing.T) {
	t.Parallel()

	doc, err := ParseSchema([]byte(basketballSchema))
	require.NoError(t, err)

	want := []Statement{
		{Name: "space/basketball", Query: "CREATE SPACE `basketball` (partition_num = 10, vid_type = FIXED_STRING(32)) "},
		{Name: "use/basketball", Query: "USE `basketball`"},
		{Name: "tag/player", Query: "CREATE TAG `player` (name string NOT NULL, age int64 NULL DEFAULT 18)"},
		{Name: "edge/follow", Query: "CREATE EDGE `follow` (degree int NOT NULL) TTL_DURATION = 100, TTL_COL = \"degree\""},
		{Name: "index/idx_age", Query: "CREATE TAG INDEX `idx_age` on `player`(age)"},
	}

	assert.Equal(t, want, doc.Statements())
}

func TestSchemaDocument_NoSpace(t *testing.T) {
	t.Parallel()

	doc, err := ParseSchema([]byte("tags:\n  - name: t\n"))
	require.NoError(t, err)

	assert.Equal(t, []Statement{{Name: "tag/t", Query: "CREATE TAG `t` ()"}}, doc.Statements())
}

func TestParseSchema_AllowNull(t *testing.T) {
	t.Parallel()

	doc, err := ParseSchema([]byte("tags:\n  - name: t\n    properties:\n      - {name: age, type: int64, allowNull: true}\n      - {name: id, type: int64}\n"))
	require.NoError(t, err)

	require.Len(t, doc.Tags[0].Properties, 2)
	assert.True(t, doc.Tags[0].Properties[0].Null)
	assert.Equal(t, "CREATE TAG `t` (age int64 NULL, id int64 NOT NULL)", doc.Statements()[0].Query)
}

func TestParseSchema_Errors(t *testing.T) {
	t.Parallel()

	_, err := ParseSchema([]byte("indexes:\n  - {kind: VERTEX, name: i, on: t}\n"))
	assert.ErrorIs(t, err, ErrParse)

	_, err = ParseSchema([]byte("space: {name: s, shards: 3}\n"))
	assert.ErrorIs(t, err, ErrParse)
}

func TestLoadSchema(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	writeFile(t, path, basketballSchema)

	doc, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "basketball", doc.Space.Name)

	_, err = LoadSchema(filepath.Join(t.TempDir(), "none.yaml"))

	var loadErr *LoadError

	assert.ErrorAs(t, err, &loadErr)
}
