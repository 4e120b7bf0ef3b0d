package ngql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rlch/ngspec"
)

func TestCreateSpace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params SpaceParams
		want   string
	}{
		{
			name:   "vid type only",
			params: SpaceParams{Name: "test", Options: SpaceOptions{VidType: "INT64"}},
			want:   "CREATE SPACE `test` (vid_type = INT64) ",
		},
		{
			name: "all options in order",
			params: SpaceParams{
				Name:    "basketball",
				Options: SpaceOptions{VidType: "FIXED_STRING(32)", ReplicaFactor: "1", PartitionNum: "10"},
				Comment: "nba",
			},
			want: "CREATE SPACE `basketball` (partition_num = 10, replica_factor = 1, vid_type = FIXED_STRING(32)) COMMENT = \"nba\"",
		},
		{
			name:   "no options",
			params: SpaceParams{Name: "s"},
			want:   "CREATE SPACE `s`  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CreateSpace(tt.params))
		})
	}
}

func TestCreateSchema(t *testing.T) {
	t.Parallel()

	props := []PropertyDef{
		{Name: "name", Type: ngspec.TypeString},
		{Name: "age", Type: ngspec.TypeInt64, AllowNull: true, Default: Val("18")},
		{Name: "code", Type: "fixed_string", FixedLength: 8, Default: Val("x"), Comment: "short"},
	}

	tests := []struct {
		name   string
		params SchemaParams
		want   string
	}{
		{
			name:   "tag",
			params: SchemaParams{Kind: Tag, Name: "player", Properties: props},
			want:   "CREATE TAG `player` (name string NOT NULL, age int64 NULL DEFAULT 18, code fixed_string(8) NOT NULL DEFAULT \"x\" COMMENT \"short\")",
		},
		{
			name: "edge with ttl and comment",
			params: SchemaParams{
				Kind:       Edge,
				Name:       "follow",
				Properties: []PropertyDef{{Name: "created", Type: ngspec.TypeTimestamp, Default: Val("now()")}},
				TTL:        &TTL{Col: "created", Duration: 100},
				Comment:    "who follows whom",
			},
			want: "CREATE EDGE `follow` (created timestamp NOT NULL DEFAULT now()) TTL_DURATION = 100, TTL_COL = \"created\", COMMENT = \"who follows whom\"",
		},
		{
			name: "datetime timestamp default is quoted",
			params: SchemaParams{
				Kind:       Tag,
				Name:       "t",
				Properties: []PropertyDef{{Name: "at", Type: ngspec.TypeTimestamp, Default: Val("2020-01-01 10:00:00")}},
			},
			want: "CREATE TAG `t` (at timestamp NOT NULL DEFAULT \"2020-01-01 10:00:00\")",
		},
		{
			name:   "ttl without column is ignored",
			params: SchemaParams{Kind: Tag, Name: "t", TTL: &TTL{Duration: 5}, Comment: "c"},
			want:   "CREATE TAG `t` () COMMENT = \"c\"",
		},
		{
			name:   "reserved and odd names",
			params: SchemaParams{Kind: Tag, Name: "my`tag", Properties: []PropertyDef{{Name: "order", Type: ngspec.TypeInt}}},
			want:   "CREATE TAG `my\\`tag` (`order` int NOT NULL)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CreateSchema(tt.params))
		})
	}
}

func TestAlter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params AlterParams
		want   string
	}{
		{
			name:   "add",
			params: AlterParams{Kind: Tag, Name: "player", Action: AlterAdd{Properties: []PropertyDef{{Name: "height", Type: ngspec.TypeDouble, AllowNull: true}}}},
			want:   "ALTER TAG `player` ADD (height double NULL)",
		},
		{
			name:   "change",
			params: AlterParams{Kind: Edge, Name: "follow", Action: AlterChange{Properties: []PropertyDef{{Name: "degree", Type: ngspec.TypeInt}}}},
			want:   "ALTER EDGE `follow` CHANGE (degree int NOT NULL)",
		},
		{
			name:   "drop",
			params: AlterParams{Kind: Tag, Name: "player", Action: AlterDrop{Names: []string{"age", "from"}}},
			want:   "ALTER TAG `player` DROP (age, `from`)",
		},
		{
			name:   "ttl",
			params: AlterParams{Kind: Tag, Name: "player", Action: AlterTTL{TTL: TTL{Col: "seen", Duration: 60}}},
			want:   "ALTER TAG `player` TTL_DURATION = 60, TTL_COL = \"seen\"",
		},
		{
			name:   "comment",
			params: AlterParams{Kind: Tag, Name: "player", Action: AlterComment{Text: `say "hi"`}},
			want:   "ALTER TAG `player` COMMENT = \"say \\\"hi\\\"\"",
		},
		{
			name:   "no action",
			params: AlterParams{Kind: Edge, Name: "follow"},
			want:   "ALTER EDGE `follow`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Alter(tt.params))
		})
	}
}

func TestCreateIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params IndexParams
		want   string
	}{
		{
			name:   "tag index",
			params: IndexParams{Kind: Tag, Name: "idx_age", On: "player", Fields: []IndexField{{Name: "age"}}},
			want:   "CREATE TAG INDEX `idx_age` on `player`(age)",
		},
		{
			name: "edge index with lengths and comment",
			params: IndexParams{
				Kind:    Edge,
				Name:    "idx_follow",
				On:      "follow",
				Fields:  []IndexField{{Name: "note", Length: 10}, {Name: "degree"}},
				Comment: "lookup",
			},
			want: "CREATE EDGE INDEX `idx_follow` on `follow`(note(10), degree) COMMENT \"lookup\"",
		},
		{
			name:   "no target",
			params: IndexParams{Kind: Tag, Name: "idx"},
			want:   "CREATE TAG INDEX `idx`",
		},
		{
			name:   "target without fields",
			params: IndexParams{Kind: Tag, Name: "idx_player", On: "player"},
			want:   "CREATE TAG INDEX `idx_player` on `player`",
		},
		{
			name:   "fields without target",
			params: IndexParams{Kind: Edge, Name: "idx", Fields: []IndexField{{Name: "degree"}}, Comment: "c"},
			want:   "CREATE EDGE INDEX `idx` COMMENT \"c\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CreateIndex(tt.params))
		})
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	got := Join(
		CreateSpace(SpaceParams{Name: "test", Options: SpaceOptions{VidType: "INT64"}}),
		CreateIndex(IndexParams{Kind: Tag, Name: "idx_age", On: "player", Fields: []IndexField{{Name: "age"}}}),
	)

	assert.Equal(t, "CREATE SPACE `test` (vid_type = INT64) ;\nCREATE TAG INDEX `idx_age` on `player`(age)", got)
}

func TestBuilders_Idempotent(t *testing.T) {
	t.Parallel()

	schema := SchemaParams{
		Kind:       Tag,
		Name:       "player",
		Properties: []PropertyDef{{Name: "age", Type: ngspec.TypeInt64, Default: Val("1")}},
		TTL:        &TTL{Col: "age", Duration: 1},
	}

	assert.Equal(t, CreateSchema(schema), CreateSchema(schema))

	lookup := LookupParams{
		Tag:     "player",
		Filters: []Filter{{Field: "age", Operator: ">", Value: Val("18"), Type: ngspec.TypeInt64}},
	}

	first, err := Lookup(lookup)
	assert.NoError(t, err)

	second, err := Lookup(lookup)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}
