package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resource-checker/internal/schema"
)

func TestRelationshipReadType(t *testing.T) {
	const collection = `Illuminate\Database\Eloquent\Collection`
	var testCases = []struct {
		kind   string
		expect string
	}{
		{kind: "belongsTo", expect: `?\App\Models\User`},
		{kind: "morphOne", expect: `?\App\Models\User`},
		{kind: "hasMany", expect: `\Illuminate\Database\Eloquent\Collection<int, \App\Models\User>`},
		{kind: "morphedByMany", expect: `\Illuminate\Database\Eloquent\Collection<int, \App\Models\User>`},
		{kind: "custom", expect: "mixed"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.kind, func(t *testing.T) {
			rel := schema.Relationship{Name: "user", Kind: testCase.kind, Related: `App\Models\User`}
			assert.Equal(t, testCase.expect, rel.ReadType(collection))
		})
	}
	assert.True(t, schema.IsRelationKind("HasManyThrough"))
	assert.False(t, schema.IsRelationKind("where"))
}
