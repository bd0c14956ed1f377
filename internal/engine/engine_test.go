package engine_test

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-checker/internal/config"
	"resource-checker/internal/engine"
	"resource-checker/internal/schema"
)

type memFiles map[string]string

func (m memFiles) List(_ context.Context, dir, suffix string) ([]string, error) {
	var result []string
	for p := range m {
		if strings.HasPrefix(p, dir+string(filepath.Separator)) && strings.HasSuffix(p, suffix) {
			result = append(result, p)
		}
	}
	sort.Strings(result)
	return result, nil
}

func (m memFiles) Read(_ context.Context, path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, errors.New("file not found")
	}
	return []byte(data), nil
}

const root = "/project"

func project(files map[string]string) memFiles {
	m := memFiles{}
	for name, content := range files {
		m[filepath.Join(root, filepath.FromSlash(name))] = content
	}
	return m
}

var sources = map[string]string{
	"database/migrations/2024_01_01_000000_create_posts_table.php": `<?php

use Illuminate\Database\Migrations\Migration;
use Illuminate\Database\Schema\Blueprint;
use Illuminate\Support\Facades\Schema;

return new class extends Migration
{
    public function up(): void
    {
        Schema::create('posts', function (Blueprint $table) {
            $table->id();
            $table->string('title');
            $table->text('body')->nullable();
            $table->timestamp('published_at')->nullable();
            $table->foreignId('user_id');
        });
    }
};
`,
	"database/migrations/2024_01_02_000000_broken.php": "<?php\nclass {\n",
	"app/Models/Post.php": `<?php

namespace App\Models;

use Illuminate\Database\Eloquent\Model;
use Illuminate\Database\Eloquent\Relations\BelongsTo;

/**
 * @property int $id
 * @property string $title
 */
class Post extends Model
{
    protected $fillable = ['title', 'body', 'published_at'];

    public function user_profile(): BelongsTo
    {
        return $this->belongsTo(User::class);
    }
}
`,
	"app/Models/User.php": `<?php

namespace App\Models;

use Illuminate\Foundation\Auth\User as Authenticatable;

class User extends Authenticatable
{
}
`,
	"app/Models/Concerns/HasSlug.php": `<?php

namespace App\Models\Concerns;

trait HasSlug
{
}
`,
	"app/Filament/Resources/Posts/PostResource.php": `<?php

namespace App\Filament\Resources\Posts;

use App\Models\Post;
use Filament\Resources\Resource;

class PostResource extends Resource
{
    protected static ?string $model = Post::class;
}
`,
	"app/Filament/Resources/Posts/Schemas/PostForm.php": `<?php

namespace App\Filament\Resources\Posts\Schemas;

use Filament\Forms\Components\TextInput;
use Filament\Schemas\Schema;

class PostForm
{
    public static function configure(Schema $schema): Schema
    {
        return $schema
            ->components([
                TextInput::make('title')->required(),
                TextInput::make('subtitle'),
            ]);
    }
}
`,
}

func TestDiscover(t *testing.T) {
	e := engine.New(config.Default(), project(sources), root)
	d, err := e.Discover(context.Background())
	require.NoError(t, err)

	assert.Len(t, d.Migrations, 2)
	assert.Len(t, d.Models, 3)
	assert.Equal(t, []string{filepath.Join(root, "app", "Filament", "Resources", "Posts", "PostResource.php")}, d.Resources)
	assert.Equal(t, []string{filepath.Join(root, "app", "Filament", "Resources", "Posts", "Schemas", "PostForm.php")}, d.Forms)
	assert.Equal(t, 6, d.Steps(true))
	assert.Equal(t, 4, d.Steps(false))
}

func TestRunFromMigrations(t *testing.T) {
	ctx := context.Background()
	e := engine.New(config.Default(), project(sources), root)
	d, err := e.Discover(ctx)
	require.NoError(t, err)

	ticks := 0
	result, err := e.Run(ctx, d, nil, func() { ticks++ })
	require.NoError(t, err)
	assert.Equal(t, d.Steps(true), ticks)
	assert.Equal(t, engine.SourceMigrations, result.SchemaSource)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, schema.WarningParse, result.Warnings[0].Kind)
	assert.Equal(t, filepath.Join(root, "database", "migrations", "2024_01_02_000000_broken.php"), result.Warnings[0].File)

	var tables []string
	for _, r := range result.Records {
		tables = append(tables, r.Table)
	}
	assert.Equal(t, []string{"posts", "users"}, tables)

	posts := result.Records[0]
	assert.Equal(t, []string{"id", "title", "body", "published_at", "user_id"}, posts.SchemaFields.Keys())
	assert.Equal(t, `App\Models\Post`, posts.ModelClass)
	assert.Equal(t, filepath.Join(root, "app", "Models", "Post.php"), posts.ModelFile)
	assert.Equal(t, filepath.Join(root, "app", "Filament", "Resources", "Posts", "PostResource.php"), posts.ResourceFile)
	assert.Len(t, posts.FormFiles, 1)
	assert.Equal(t, []string{"title", "subtitle"}, posts.FormFields.Keys())

	rep := result.Report
	add, ok := rep.AddFieldsToFilamentForm.Get("posts")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "body", "published_at", "user_id"}, add.Keys())
	remove, ok := rep.RemoveFieldsFromFilamentForm.Get("posts")
	require.True(t, ok)
	assert.Equal(t, []string{"subtitle"}, remove.Keys())
	docs, ok := rep.AddFieldsToModelDocs.Get("posts")
	require.True(t, ok)
	assert.Equal(t, []string{"body", "published_at", "user_id"}, docs.Keys())
	assert.True(t, rep.ShouldBeCamelCaseRelationship.Has("posts"))
	assert.Contains(t, rep.AddFilamentResources, "users")
}

type fakeIntrospector map[string][]schema.Column

func (f fakeIntrospector) ListTables(context.Context) ([]string, error) {
	var tables []string
	for name := range f {
		tables = append(tables, name)
	}
	sort.Strings(tables)
	return tables, nil
}

func (f fakeIntrospector) ListColumns(_ context.Context, table string) ([]schema.Column, error) {
	return f[table], nil
}

func TestRunFromDatabase(t *testing.T) {
	ctx := context.Background()
	e := engine.New(config.Default(), project(sources), root)
	e.Tables = []string{"POSTS"}
	d, err := e.Discover(ctx)
	require.NoError(t, err)

	in := fakeIntrospector{
		"posts": {
			{Name: "id", DataType: "bigint"},
			{Name: "title", DataType: "varchar"},
		},
		"users": {{Name: "id", DataType: "bigint"}},
	}
	ticks := 0
	result, err := e.Run(ctx, d, in, func() { ticks++ })
	require.NoError(t, err)
	assert.Equal(t, d.Steps(false), ticks)
	assert.Equal(t, engine.SourceDatabase, result.SchemaSource)
	assert.Empty(t, result.Warnings)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "posts", result.Records[0].Table)
	assert.Equal(t, []string{"id", "title"}, result.Records[0].SchemaFields.Keys())
	assert.False(t, result.Report.AddFieldsToModelDocs.Has("posts"))
}
