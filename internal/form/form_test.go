package form_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-checker/internal/config"
	"resource-checker/internal/form"
	"resource-checker/internal/model"
	"resource-checker/internal/phpast"
	"resource-checker/internal/schema"
)

const postModel = `<?php

namespace App\Models;

use Illuminate\Database\Eloquent\Model;

class Post extends Model
{
    protected $table = 'blog_posts';
}
`

const postResource = `<?php

namespace App\Filament\Resources\Posts;

use App\Filament\Resources\Posts\Schemas\PostForm;
use App\Models\Post;
use Filament\Resources\Resource;
use Filament\Schemas\Schema;

class PostResource extends Resource
{
    protected static ?string $model = Post::class;

    public static function form(Schema $schema): Schema
    {
        return PostForm::configure($schema);
    }
}
`

const postForm = `<?php

namespace App\Filament\Resources\Posts\Schemas;

use Filament\Forms\Components\DateTimePicker;
use Filament\Forms\Components\TextInput;
use Filament\Forms\Components\Toggle as Flag;
use Filament\Schemas\Schema;

class PostForm
{
    public static function configure(Schema $schema): Schema
    {
        return $schema
            ->components([
                TextInput::make('title')
                    ->required()
                    ->maxLength(255),
                \Filament\Forms\Components\Textarea::make('body')
                    ->columnSpanFull(),
                Flag::make('is_published')->label('Published')->required(),
                DateTimePicker::make('published_at'),
                TextInput::make($dynamic),
                Other::make('ignored'),
                TextInput::make('slug')->hidden(fn () => TextInput::make('nested')->required()),
            ]);
    }
}
`

func parse(t *testing.T, src string) *phpast.Tree {
	t.Helper()
	tree, err := phpast.Parse([]byte(src))
	require.NoError(t, err)
	return tree
}

func TestTable(t *testing.T) {
	inspector := model.NewStaticInspector(config.Default())
	inspector.Index(parse(t, postModel))
	extractor := form.NewExtractor(config.Default(), inspector)

	table, err := extractor.Table(parse(t, postResource))
	require.NoError(t, err)
	assert.Equal(t, "blog_posts", table)

	_, err = extractor.Table(parse(t, `<?php class UserResource { protected static ?string $model = 'App\Models\User'; }`))
	assert.ErrorIs(t, err, schema.ErrResolution)

	_, err = extractor.Table(parse(t, `<?php class EmptyResource {}`))
	assert.ErrorIs(t, err, schema.ErrResolution)
}

func TestFields(t *testing.T) {
	extractor := form.NewExtractor(config.Default(), model.NewStaticInspector(config.Default()))
	var fields schema.Collection[schema.Field]
	extractor.Fields(parse(t, postForm), &fields)

	assert.Equal(t, []string{"title", "body", "is_published", "published_at", "slug", "nested"}, fields.Keys())
	var testCases = []struct {
		name   string
		expect schema.Field
	}{
		{name: "title", expect: schema.Field{Name: "title", Type: "string"}},
		{name: "body", expect: schema.Field{Name: "body", Type: "string", Nullable: true}},
		{name: "is_published", expect: schema.Field{Name: "is_published", Type: "bool"}},
		{name: "published_at", expect: schema.Field{Name: "published_at", Type: "Carbon", Nullable: true}},
		{name: "slug", expect: schema.Field{Name: "slug", Type: "string", Nullable: true}},
		{name: "nested", expect: schema.Field{Name: "nested", Type: "string"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			field, ok := fields.Get(testCase.name)
			require.True(t, ok)
			assert.Equal(t, testCase.expect, field)
		})
	}
}

func TestPaths(t *testing.T) {
	assert.True(t, form.IsResourceFile("app/Filament/Resources/Posts/PostResource.php"))
	assert.False(t, form.IsResourceFile("app/Filament/Resources/Posts/RelationManagers/CommentsResource.php"))
	assert.False(t, form.IsResourceFile("app/Filament/Resources/Posts/Pages/EditPost.php"))
	assert.True(t, form.IsFormFile("app/Filament/Resources/Posts/Schemas/PostForm.php"))
	assert.Equal(t, "app/Filament/Resources/Posts/Schemas", form.SchemasDir("app/Filament/Resources/Posts/PostResource.php"))
	assert.Equal(t, "app/Filament/Resources/Posts/Schemas/PostForm.php", form.FormPath("app/Filament/Resources/Posts/PostResource.php"))
}
