package phpdoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-checker/internal/phpast"
	"resource-checker/internal/phpdoc"
)

func TestParseLine(t *testing.T) {
	line := " * @property-read \\Illuminate\\Database\\Eloquent\\Collection<int, Post> $posts  comment"
	l, ok := phpdoc.ParseLine(line)
	require.True(t, ok)
	assert.Equal(t, phpdoc.TagPropertyRead, l.Tag)
	assert.True(t, l.IsRead())
	assert.Equal(t, `\Illuminate\Database\Eloquent\Collection<int, Post>`, l.Type)
	assert.Equal(t, "posts", l.Name)
	assert.Equal(t, l.Type, line[l.TypeStart:l.TypeEnd])
	assert.Equal(t, "posts", line[l.NameStart:l.NameEnd])

	_, ok = phpdoc.ParseLine(" * @method static Builder query()")
	assert.False(t, ok)
}

func TestParseType(t *testing.T) {
	scope := phpast.NewScopeWith(`App\Models`, map[string]string{
		"Collection": `Illuminate\Database\Eloquent\Collection`,
		"Carbon":     `Illuminate\Support\Carbon`,
	})

	var testCases = []struct {
		description string
		raw         string
		expect      phpdoc.Type
	}{
		{
			description: "scalar",
			raw:         "int",
			expect:      phpdoc.Type{Name: "int", Container: phpdoc.ContainerNone},
		},
		{
			description: "union null",
			raw:         "string|null",
			expect:      phpdoc.Type{Name: "string", Nullable: true, Container: phpdoc.ContainerNone},
		},
		{
			description: "leading null",
			raw:         "null|Carbon",
			expect:      phpdoc.Type{Name: `Illuminate\Support\Carbon`, Nullable: true, Container: phpdoc.ContainerNone},
		},
		{
			description: "optional class",
			raw:         "?User",
			expect:      phpdoc.Type{Name: `App\Models\User`, Nullable: true, Container: phpdoc.ContainerNone},
		},
		{
			description: "fully qualified",
			raw:         `\Illuminate\Support\Carbon|null`,
			expect:      phpdoc.Type{Name: `Illuminate\Support\Carbon`, Nullable: true, Container: phpdoc.ContainerNone},
		},
		{
			description: "array shorthand",
			raw:         "string[]",
			expect:      phpdoc.Type{Name: "string", Container: phpdoc.ContainerList, ContainerType: "array"},
		},
		{
			description: "generic list",
			raw:         "array<Tag>",
			expect:      phpdoc.Type{Name: `App\Models\Tag`, Container: phpdoc.ContainerList, ContainerType: "array"},
		},
		{
			description: "keyed collection",
			raw:         "Collection<int, Post>",
			expect: phpdoc.Type{
				Name:          `App\Models\Post`,
				Container:     phpdoc.ContainerKeyedMap,
				ContainerType: `Illuminate\Database\Eloquent\Collection`,
				KeyType:       "int",
			},
		},
		{
			description: "nested generic",
			raw:         "array<string, array<int, string>>",
			expect:      phpdoc.Type{Name: "array<int, string>", Container: phpdoc.ContainerKeyedMap, ContainerType: "array", KeyType: "string"},
		},
		{
			description: "union",
			raw:         "int|string",
			expect:      phpdoc.Type{Name: "int|string", Container: phpdoc.ContainerNone},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expect, phpdoc.ParseType(testCase.raw, scope.Resolve))
		})
	}
}

func TestReturnType(t *testing.T) {
	doc := "/**\n * Get the author.\n *\n * @return BelongsTo<User, $this>\n */"
	assert.Equal(t, "BelongsTo<User, $this>", phpdoc.ReturnType(doc))
	assert.Equal(t, "HasMany", phpdoc.ReturnType("/** @return HasMany */"))
	assert.Equal(t, "mixed", phpdoc.ReturnType("/** Nothing here. */"))
}

func TestFormatType(t *testing.T) {
	assert.Equal(t, "int", phpdoc.FormatType("int", false))
	assert.Equal(t, "text|null", phpdoc.FormatType("text", true))
	assert.Equal(t, `\Illuminate\Support\Carbon|null`, phpdoc.FormatType(`Illuminate\Support\Carbon`, true))
	assert.Equal(t, " * @property int $id", phpdoc.PropertyLine(phpdoc.TagProperty, "int", "id"))
}

func TestIsClassType(t *testing.T) {
	assert.True(t, phpdoc.IsClassType("User"))
	assert.True(t, phpdoc.IsClassType(`App\Models\User`))
	assert.False(t, phpdoc.IsClassType("string"))
	assert.False(t, phpdoc.IsClassType("self"))
	assert.False(t, phpdoc.IsClassType("lowercase"))
}
