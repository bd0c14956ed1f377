package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-checker/internal/config"
	"resource-checker/internal/model"
	"resource-checker/internal/phpast"
	"resource-checker/internal/schema"
)

const baseModel = `<?php

namespace App\Models;

use Illuminate\Database\Eloquent\Model;

abstract class BaseModel extends Model
{
    protected $hidden = ['secret'];

    protected $casts = [
        'settings' => 'array',
    ];
}
`

const postModel = `<?php

namespace App\Models;

use App\Casts\Money;
use App\Models\Profile as UserProfile;
use Illuminate\Database\Eloquent\Collection;
use Illuminate\Database\Eloquent\Relations\BelongsTo;
use Illuminate\Database\Eloquent\Relations\HasMany;
use Illuminate\Database\Eloquent\SoftDeletes;
use Illuminate\Support\Carbon;

/**
 * @property int $id
 * @property string|null $title
 * @property Carbon|null $published_at
 * @property-read User $author
 * @property-read Collection<int, Comment> $comments
 */
class Post extends BaseModel
{
    use SoftDeletes;

    protected $fillable = ['title', 'body', 'secret'];

    protected $casts = [
        'price' => Money::class,
    ];

    protected function casts(): array
    {
        return [
            'published_at' => 'datetime',
        ];
    }

    /**
     * @return BelongsTo<User, $this>
     */
    public function author(): BelongsTo
    {
        return $this->belongsTo(User::class, 'user_id')->withDefault();
    }

    /** @return HasMany<Comment, $this> */
    public function comments(): HasMany
    {
        return $this->hasMany('App\Models\Comment');
    }

    public function user_profile()
    {
        return $this->hasOne(UserProfile::class);
    }

    public function scopePublished($query)
    {
        return $query->whereNotNull('published_at');
    }

    protected function owner()
    {
        return $this->belongsTo(User::class);
    }

    public function __construct(array $attributes = [])
    {
        parent::__construct($attributes);
    }
}
`

const roleUserModel = `<?php

namespace App\Models;

use Illuminate\Database\Eloquent\Relations\Pivot;

class RoleUser extends Pivot
{
}
`

const tagModel = `<?php

namespace App\Models;

use Illuminate\Database\Eloquent\Concerns\HasUuids;
use Illuminate\Database\Eloquent\Model;

class Tag extends Model
{
    use HasUuids;

    protected $table = 'labels';
    protected $primaryKey = 'uuid';
}
`

const helper = `<?php

namespace App\Models;

class Helper
{
}
`

func newInspector(t *testing.T, sources ...string) (*model.StaticInspector, []*phpast.Tree) {
	t.Helper()
	inspector := model.NewStaticInspector(config.Default())
	var trees []*phpast.Tree
	for _, src := range sources {
		tree, err := phpast.Parse([]byte(src))
		require.NoError(t, err)
		inspector.Index(tree)
		trees = append(trees, tree)
	}
	return inspector, trees
}

func TestStaticInspector(t *testing.T) {
	inspector, _ := newInspector(t, baseModel, postModel, roleUserModel, tagModel, helper)

	post, err := inspector.Inspect(`App\Models\Post`)
	require.NoError(t, err)
	assert.Equal(t, "posts", post.Table)
	assert.Equal(t, []string{"title", "body", "secret"}, post.Fillable)
	assert.Equal(t, []string{"secret"}, post.Hidden)
	assert.Equal(t, []string{"id", "price", "published_at", "deleted_at"}, post.Casts.Keys())
	price, _ := post.Casts.Get("price")
	assert.Equal(t, `App\Casts\Money`, price)
	assert.False(t, post.Casts.Has("settings"))

	pivot, err := inspector.Inspect(`\App\Models\RoleUser`)
	require.NoError(t, err)
	assert.Equal(t, "role_user", pivot.Table)
	assert.True(t, pivot.Casts.IsEmpty())

	tag, err := inspector.Inspect(`App\Models\Tag`)
	require.NoError(t, err)
	assert.Equal(t, "labels", tag.Table)
	assert.False(t, tag.Casts.Has("uuid"))

	var testCases = []struct {
		class string
	}{
		{class: `App\Models\BaseModel`},
		{class: `App\Models\Helper`},
		{class: `App\Models\Missing`},
	}
	for _, testCase := range testCases {
		t.Run(testCase.class, func(t *testing.T) {
			_, err := inspector.Inspect(testCase.class)
			require.Error(t, err)
			assert.True(t, errors.Is(err, schema.ErrResolution))
		})
	}
	assert.True(t, inspector.IsModel(`App\Models\Post`))
	assert.False(t, inspector.IsModel(`App\Models\Helper`))
}

func TestExtract(t *testing.T) {
	inspector, trees := newInspector(t, baseModel, postModel)
	extractor := model.NewExtractor(config.Default(), inspector)

	facts, err := extractor.Extract("app/Models/Post.php", trees[1])
	require.NoError(t, err)
	assert.Equal(t, "posts", facts.Table)
	assert.Equal(t, `App\Models\Post`, facts.Class)
	assert.Equal(t, "app/Models/Post.php", facts.File)

	assert.Equal(t, []string{"title", "body", "secret", "id", "price", "published_at", "deleted_at"}, facts.Fields.Keys())
	secret, _ := facts.Fields.Get("secret")
	assert.Equal(t, schema.ModelField{Name: "secret", Fillable: true, Hidden: true}, secret)
	id, _ := facts.Fields.Get("id")
	assert.Equal(t, schema.ModelField{Name: "id", Cast: "int"}, id)

	assert.Equal(t, []string{"id", "title", "published_at"}, facts.DocFields.Keys())
	published, _ := facts.DocFields.Get("published_at")
	assert.Equal(t, `Illuminate\Support\Carbon`, published.Type)
	assert.True(t, published.Nullable)

	assert.Equal(t, []string{"author", "comments"}, facts.DocReadFields.Keys())
	comments, _ := facts.DocReadFields.Get("comments")
	assert.Equal(t, `App\Models\Comment`, comments.Type)
	assert.Equal(t, `Illuminate\Database\Eloquent\Collection`, comments.ContainerType)

	var testCases = []struct {
		name   string
		expect schema.Relationship
	}{
		{
			name:   "author",
			expect: schema.Relationship{Name: "author", Kind: "belongsTo", Type: `BelongsTo<App\Models\User, $this>`, Related: `App\Models\User`},
		},
		{
			name:   "comments",
			expect: schema.Relationship{Name: "comments", Kind: "hasMany", Type: `HasMany<App\Models\Comment, $this>`, Related: `App\Models\Comment`},
		},
		{
			name:   "user_profile",
			expect: schema.Relationship{Name: "user_profile", Kind: "hasOne", Type: "HasOne", Related: `App\Models\Profile`},
		},
	}
	assert.Equal(t, []string{"author", "comments", "user_profile"}, facts.Relationships.Keys())
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			rel, ok := facts.Relationships.Get(testCase.name)
			require.True(t, ok)
			assert.Equal(t, testCase.expect, rel)
		})
	}
}

func TestExtractNotModel(t *testing.T) {
	inspector, trees := newInspector(t, helper)
	_, err := model.NewExtractor(config.Default(), inspector).Extract("Helper.php", trees[0])
	assert.ErrorIs(t, err, schema.ErrResolution)

	tree, err := phpast.Parse([]byte("<?php\nfunction helper() {}\n"))
	require.NoError(t, err)
	_, err = model.NewExtractor(config.Default(), inspector).Extract("helpers.php", tree)
	assert.ErrorIs(t, err, schema.ErrResolution)
}
