package fixer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-checker/internal/config"
	"resource-checker/internal/fixer"
	"resource-checker/internal/model"
	"resource-checker/internal/phpast"
	"resource-checker/internal/phpdoc"
	"resource-checker/internal/report"
	"resource-checker/internal/schema"
)

type memStore struct {
	files  map[string]string
	writes int
}

func (m *memStore) Read(_ context.Context, path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, errors.New("file not found")
	}
	return []byte(data), nil
}

func (m *memStore) Write(_ context.Context, path string, data []byte) error {
	m.files[path] = string(data)
	m.writes++
	return nil
}

const postModel = `<?php

namespace App\Models;

use Illuminate\Database\Eloquent\Model;

class Post extends Model
{
    protected $fillable = ['title', 'body'];
}
`

const postForm = `<?php

namespace App\Filament\Resources\Posts\Schemas;

use Filament\Forms\Components\TextInput;
use Filament\Schemas\Schema;

class PostForm
{
    public static function configure(Schema $schema): Schema
    {
        return $schema
            ->components([
                TextInput::make('title')
                    ->required(),
            ]);
    }
}
`

func TestAddProperties(t *testing.T) {
	lines := []string{
		" * @property int $id",
		" * @property string $title",
		" * @property text|null $body",
	}

	var testCases = []struct {
		description string
		src         string
		lines       []string
		expect      string
		count       int
	}{
		{
			description: "doc block created above the class",
			src:         postModel,
			lines:       lines,
			expect:      "use Illuminate\\Database\\Eloquent\\Model;\n\n/**\n * @property int $id\n * @property string $title\n * @property text|null $body\n */\nclass Post extends Model\n",
			count:       3,
		},
		{
			description: "appended after the last property tag",
			src:         "<?php\n\n/**\n * Blog post.\n *\n * @property int $id\n *\n * @method static Builder query()\n */\nclass Post extends Model\n{\n}\n",
			lines:       lines[1:2],
			expect:      "/**\n * Blog post.\n *\n * @property int $id\n * @property string $title\n *\n * @method static Builder query()\n */\nclass Post",
			count:       1,
		},
		{
			description: "inserted before the closing line",
			src:         "<?php\n\n/**\n * Blog post.\n */\nfinal class Post extends Model\n{\n}\n",
			lines:       lines[:1],
			expect:      "/**\n * Blog post.\n * @property int $id\n */\nfinal class Post",
			count:       1,
		},
		{
			description: "single line doc expanded",
			src:         "<?php\n\n/** Blog post. */\nclass Post extends Model\n{\n}\n",
			lines:       lines[:1],
			expect:      "/**\n * Blog post.\n * @property int $id\n */\nclass Post",
			count:       1,
		},
		{
			description: "documented names skipped",
			src:         "<?php\n\n/**\n * @property-read int $id\n */\nclass Post extends Model\n{\n}\n",
			lines:       append(lines[:1:1], " * @property string $title", " * @property string $title"),
			expect:      "/**\n * @property-read int $id\n * @property string $title\n */\nclass Post",
			count:       1,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			out, n, err := fixer.AddProperties([]byte(testCase.src), testCase.lines)
			require.NoError(t, err)
			assert.Equal(t, testCase.count, n)
			assert.Contains(t, string(out), testCase.expect)
		})
	}
}

func TestAddPropertiesErrors(t *testing.T) {
	_, _, err := fixer.AddProperties([]byte("<?php\n\nfunction helper() {}\n"), []string{" * @property int $id"})
	assert.True(t, errors.Is(err, schema.ErrResolution))

	_, _, err = fixer.AddProperties([]byte("<?php\n\nclass {"), []string{" * @property int $id"})
	assert.True(t, errors.Is(err, schema.ErrParse))
}

func TestAddPropertiesIdempotent(t *testing.T) {
	gofakeit.Seed(42)
	types := []string{"int", "string", "bool", "array", `\Illuminate\Support\Carbon`}
	for i := 0; i < 20; i++ {
		var lines []string
		for j := 0; j < 1+i%5; j++ {
			typ := phpdoc.FormatType(gofakeit.RandomString(types), gofakeit.Bool())
			name := strings.ToLower(gofakeit.LetterN(6))
			lines = append(lines, phpdoc.PropertyLine(phpdoc.TagProperty, typ, name))
		}
		src := postModel
		if gofakeit.Bool() {
			src = strings.Replace(postModel, "class Post", "/**\n * Blog post.\n */\nclass Post", 1)
		}

		once, _, err := fixer.AddProperties([]byte(src), lines)
		require.NoError(t, err)
		twice, n, err := fixer.AddProperties(once, lines)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Equal(t, string(once), string(twice))
	}
}

func TestAddPropertiesRoundTrip(t *testing.T) {
	var testCases = []struct {
		description string
		field       schema.Field
	}{
		{description: "scalar", field: schema.Field{Name: "title", Type: "string"}},
		{description: "nullable", field: schema.Field{Name: "body", Type: "text", Nullable: true}},
		{description: "class", field: schema.Field{Name: "published_at", Type: `Illuminate\Support\Carbon`, Nullable: true}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			line := phpdoc.PropertyLine(phpdoc.TagProperty, phpdoc.FormatType(testCase.field.Type, testCase.field.Nullable), testCase.field.Name)
			out, _, err := fixer.AddProperties([]byte(postModel), []string{line})
			require.NoError(t, err)

			tree, err := phpast.Parse(out)
			require.NoError(t, err)
			class := tree.Node(tree.FirstClass("Post"))
			require.NotNil(t, class.Doc)
			props := phpdoc.Properties(class.Doc.Text)
			require.Len(t, props, 1)

			doc := model.DocField(props[0], phpast.NewScope(tree))
			assert.Equal(t, testCase.field.Name, doc.Name)
			assert.Equal(t, testCase.field.Type, doc.Type)
			assert.Equal(t, testCase.field.Nullable, doc.Nullable)
		})
	}
}

func TestRetypeProperties(t *testing.T) {
	src := "<?php\n\n/**\n * @property string $age\n * @property-read string $owner\n * @property string $name\n */\nclass Person extends Model\n{\n}\n"
	out, n, err := fixer.RetypeProperties([]byte(src), map[string]string{"age": "int", "owner": "int", "name": "string"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, string(out), " * @property int $age\n")
	assert.Contains(t, string(out), " * @property-read string $owner\n")
	assert.Equal(t, len(src)-len("string")+len("int"), len(out))
}

func TestRenameReadProperties(t *testing.T) {
	src := "<?php\n\n/**\n * @property-read ?Profile $user_profile\n * @property-read ?User $author\n * @property string $first_name\n */\nclass Post extends Model\n{\n}\n"
	rels := map[string]bool{"userProfile": true, "author": true}
	out, n, err := fixer.RenameReadProperties([]byte(src), func(name string) (string, bool) {
		for rel := range rels {
			if schema.Camel(name) == rel {
				return rel, true
			}
		}
		return "", false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, string(out), " * @property-read ?Profile $userProfile\n")
	assert.Contains(t, string(out), " * @property string $first_name\n")
}

func TestRenameMethods(t *testing.T) {
	src := "<?php\n\nclass Post extends Model\n{\n    public function user_profile(): BelongsTo\n    {\n        return $this->belongsTo(Profile::class);\n    }\n\n    public function user_profiles_count() {}\n}\n"
	out, n := fixer.RenameMethods([]byte(src), map[string]string{"user_profile": "userProfile"})
	assert.Equal(t, 1, n)
	assert.Contains(t, string(out), "public function userProfile(): BelongsTo")
	assert.Contains(t, string(out), "function user_profiles_count()")
}

func TestAddFormFields(t *testing.T) {
	cfg := config.Default()
	publishedAt := schema.Field{Name: "published_at", Type: "Carbon", Nullable: true}

	var testCases = []struct {
		description string
		src         string
		fields      []schema.Field
		expect      string
		count       int
	}{
		{
			description: "nullable text field before the closing bracket",
			src:         postForm,
			fields:      []schema.Field{publishedAt},
			expect:      "                    ->required(),\n                TextInput::make('published_at'),\n            ]);",
			count:       1,
		},
		{
			description: "existing field skipped",
			src:         postForm,
			fields:      []schema.Field{{Name: "title", Type: "string"}},
			count:       0,
		},
		{
			description: "numeric required readonly field with a fully qualified component",
			src:         strings.Replace(postForm, "use Filament\\Forms\\Components\\TextInput;\n", "", 1),
			fields:      []schema.Field{{Name: "id", Type: "int"}},
			expect:      "                \\Filament\\Forms\\Components\\TextInput::make('id')->numeric()->required()->disabled(),\n            ]);",
			count:       1,
		},
		{
			description: "comma added after the last item",
			src:         strings.Replace(postForm, "->required(),", "->required()", 1),
			fields:      []schema.Field{publishedAt},
			expect:      "                    ->required(),\n                TextInput::make('published_at'),\n            ]);",
			count:       1,
		},
		{
			description: "inserted before a trailing comment block",
			src:         strings.Replace(postForm, "->required(),\n", "->required(),\n                // TextInput::make('slug'),\n", 1),
			fields:      []schema.Field{publishedAt},
			expect:      "->required(),\n                TextInput::make('published_at'),\n                // TextInput::make('slug'),\n            ]);",
			count:       1,
		},
		{
			description: "single line array",
			src:         strings.Replace(postForm, "[\n                TextInput::make('title')\n                    ->required(),\n            ]", "[TextInput::make('title')]", 1),
			fields:      []schema.Field{publishedAt, {Name: "active", Type: "bool"}},
			expect:      "[TextInput::make('title'), TextInput::make('published_at'), \\Filament\\Forms\\Components\\Toggle::make('active')->required()]",
			count:       2,
		},
		{
			description: "empty array",
			src:         strings.Replace(postForm, "[\n                TextInput::make('title')\n                    ->required(),\n            ]", "[]", 1),
			fields:      []schema.Field{publishedAt},
			expect:      "->components([TextInput::make('published_at')])",
			count:       1,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			out, n, err := fixer.AddFormFields([]byte(testCase.src), testCase.fields, cfg)
			require.NoError(t, err)
			assert.Equal(t, testCase.count, n)
			if testCase.count == 0 {
				assert.Equal(t, testCase.src, string(out))
				return
			}
			assert.Contains(t, string(out), testCase.expect)
			_, err = phpast.Parse(out)
			assert.NoError(t, err)
		})
	}
}

func TestAddFormFieldsNoComponents(t *testing.T) {
	src := "<?php\n\nclass PostForm\n{\n    public static function configure($schema)\n    {\n        return $schema;\n    }\n}\n"
	_, _, err := fixer.AddFormFields([]byte(src), []schema.Field{{Name: "title", Type: "string"}}, config.Default())
	assert.True(t, errors.Is(err, schema.ErrResolution))
}

func TestFixer(t *testing.T) {
	cfg := config.Default()
	const (
		modelPath    = "app/Models/Post.php"
		resourcePath = "app/Filament/Resources/Posts/PostResource.php"
		formPath     = "app/Filament/Resources/Posts/Schemas/PostForm.php"
	)
	posts := &schema.TableRecord{Table: "posts", ModelFile: modelPath, ResourceFile: resourcePath}
	posts.SchemaFields.Put("title", schema.Field{Name: "title", Type: "string"})
	posts.SchemaFields.Put("published_at", schema.Field{Name: "published_at", Type: "Carbon", Nullable: true})
	posts.FormFields.Put("title", schema.Field{Name: "title", Type: "string"})
	posts.ModelFields.Put("title", schema.ModelField{Name: "title", Fillable: true})
	tags := &schema.TableRecord{Table: "tags"}
	tags.SchemaFields.Put("name", schema.Field{Name: "name", Type: "string"})
	records := []*schema.TableRecord{posts, tags}

	store := &memStore{files: map[string]string{modelPath: postModel, formPath: postForm}}
	rep := report.Generate(records, cfg)
	f := fixer.New(cfg, store, records)
	f.Run(context.Background(), rep, map[string]bool{
		fixer.MissingProperties:    true,
		fixer.AddFieldsToResources: true,
	})

	assert.Contains(t, store.files[modelPath], "/**\n * @property string $title\n * @property \\Illuminate\\Support\\Carbon|null $published_at\n */\nclass Post")
	assert.Contains(t, store.files[formPath], "TextInput::make('published_at'),\n            ]);")
	assert.Equal(t, []fixer.Result{
		{Fix: fixer.MissingProperties, File: modelPath, Changes: 2},
		{Fix: fixer.AddFieldsToResources, File: formPath, Changes: 1},
	}, f.Results)
	require.Len(t, f.Warnings, 1)
	assert.Equal(t, schema.WarningResolution, f.Warnings[0].Kind)

	writes := store.writes
	rep = report.Generate(records, cfg)
	again := fixer.New(cfg, store, records)
	again.Run(context.Background(), rep, map[string]bool{
		fixer.MissingProperties:    true,
		fixer.AddFieldsToResources: true,
	})
	assert.Empty(t, again.Results)
	assert.Equal(t, writes, store.writes)
}

func TestFixerReadFailure(t *testing.T) {
	cfg := config.Default()
	posts := &schema.TableRecord{Table: "posts", ModelFile: "app/Models/Missing.php"}
	posts.SchemaFields.Put("title", schema.Field{Name: "title", Type: "string"})

	f := fixer.New(cfg, &memStore{files: map[string]string{}}, []*schema.TableRecord{posts})
	f.MissingProperties(context.Background(), report.Generate([]*schema.TableRecord{posts}, cfg))

	require.Len(t, f.Warnings, 1)
	assert.Equal(t, schema.WarningIO, f.Warnings[0].Kind)
	assert.Equal(t, "app/Models/Missing.php", f.Warnings[0].File)
}
