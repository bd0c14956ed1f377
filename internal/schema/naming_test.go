package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resource-checker/internal/schema"
)

func TestNaming(t *testing.T) {
	var testCases = []struct {
		input  string
		studly string
		camel  string
		snake  string
	}{
		{input: "user_profile", studly: "UserProfile", camel: "userProfile", snake: "user_profile"},
		{input: "userProfile", studly: "UserProfile", camel: "userProfile", snake: "user_profile"},
		{input: "UserProfile", studly: "UserProfile", camel: "userProfile", snake: "user_profile"},
		{input: "user-profile", studly: "UserProfile", camel: "userProfile", snake: "user-profile"},
		{input: "posts", studly: "Posts", camel: "posts", snake: "posts"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.input, func(t *testing.T) {
			assert.Equal(t, testCase.studly, schema.Studly(testCase.input))
			assert.Equal(t, testCase.camel, schema.Camel(testCase.input))
			assert.Equal(t, testCase.snake, schema.Snake(testCase.input))
		})
	}
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "posts", schema.TableName(`App\Models\Post`, false))
	assert.Equal(t, "user_profiles", schema.TableName(`App\Models\UserProfile`, false))
	assert.Equal(t, "categories", schema.TableName("Category", false))
	assert.Equal(t, "people", schema.TableName("Person", false))
	assert.Equal(t, "role_user", schema.TableName(`App\Models\RoleUser`, true))
}
