package schema_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-checker/internal/config"
	"resource-checker/internal/schema"
)

func TestDBIntrospectorSqlite(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title VARCHAR(255) NOT NULL,
		body TEXT,
		published_at DATETIME
	)`)
	require.NoError(t, err)

	in := schema.NewDBIntrospector(db, "sqlite3", "")
	ctx := context.Background()

	tables, err := in.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"posts"}, tables)

	result, err := schema.ReadDatabase(ctx, in, config.Default())
	require.NoError(t, err)
	posts, ok := result.Get("posts")
	require.True(t, ok)
	assert.Equal(t, []schema.Field{
		{Name: "id", Type: "int"},
		{Name: "title", Type: "string"},
		{Name: "body", Type: "string", Nullable: true},
		{Name: "published_at", Type: "Carbon", Nullable: true},
	}, posts.Columns.Values())
}

type fakeIntrospector struct {
	tables  []string
	columns map[string][]schema.Column
	err     error
}

func (f *fakeIntrospector) ListTables(ctx context.Context) ([]string, error) {
	return f.tables, f.err
}

func (f *fakeIntrospector) ListColumns(ctx context.Context, table string) ([]schema.Column, error) {
	return f.columns[table], nil
}

func TestReadDatabase(t *testing.T) {
	in := &fakeIntrospector{
		tables: []string{"public.users"},
		columns: map[string][]schema.Column{
			"public.users": {
				{Name: "id", DataType: "bigint"},
				{Name: "area", DataType: "geometry", IsNullable: true},
			},
		},
	}
	result, err := schema.ReadDatabase(context.Background(), in, config.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, result.Keys())
	users, _ := result.Get("users")
	area, _ := users.Columns.Get("area")
	assert.Equal(t, schema.Field{Name: "area", Type: "mixed", Nullable: true}, area)

	in.err = errors.New("connection refused")
	_, err = schema.ReadDatabase(context.Background(), in, config.Default())
	assert.Error(t, err)
}

func TestAggregator(t *testing.T) {
	migrations := schema.NewMigrations(config.Default())
	migrations.Add(parse(t, `<?php Schema::create('posts', function ($table) { $table->id(); $table->string('title'); });`))

	agg := schema.NewAggregator()
	agg.AddSchema(migrations.Tables())

	var formFields schema.Collection[schema.Field]
	formFields.Put("title", schema.Field{Name: "title", Type: "string"})
	agg.AddForm(schema.FormFacts{Table: "posts", ResourceFile: "PostResource.php", FormFiles: []string{"PostForm.php"}, Fields: formFields})

	var modelFields schema.Collection[schema.ModelField]
	modelFields.Put("title", schema.ModelField{Name: "title", Fillable: true})
	agg.AddModel(schema.ModelFacts{Table: "comments", Class: `App\Models\Comment`, File: "Comment.php", Fields: modelFields})

	records := agg.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "posts", records[0].Table)
	assert.Equal(t, []string{"id", "title"}, records[0].SchemaFields.Keys())
	assert.Equal(t, []string{"title"}, records[0].FormFields.Keys())
	assert.Equal(t, "PostResource.php", records[0].ResourceFile)
	assert.True(t, records[0].ModelFields.IsEmpty())

	assert.Equal(t, "comments", records[1].Table)
	assert.Equal(t, "Comment.php", records[1].ModelFile)
	assert.True(t, records[1].SchemaFields.IsEmpty())
}

var _ schema.Introspector = (*schema.DBIntrospector)(nil)
