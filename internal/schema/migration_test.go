package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource-checker/internal/config"
	"resource-checker/internal/phpast"
	"resource-checker/internal/schema"
)

const createUsers = `<?php

use Illuminate\Database\Migrations\Migration;
use Illuminate\Database\Schema\Blueprint;
use Illuminate\Support\Facades\Schema;

return new class extends Migration
{
    public function up(): void
    {
        Schema::create('users', function (Blueprint $table) {
            $table->id();
            $table->string('name');
            $table->string('email')->unique();
            $table->timestamp('email_verified_at')->nullable();
            $table->rememberToken();
            $table->timestamps();
        });

        Schema::create('password_reset_tokens', function (Blueprint $table) {
            $table->string('email')->primary();
        });
    }

    public function down(): void
    {
        Schema::dropIfExists('users');
    }
};
`

const alterUsers = `<?php

use Illuminate\Database\Schema\Blueprint;
use Illuminate\Support\Facades\Schema;

return new class extends Migration
{
    public function up(): void
    {
        Schema::table('users', function (Blueprint $blueprint) {
            $blueprint->dateTime('last_login')->nullable();
            $blueprint->text('name')->nullable();
            $blueprint->softDeletes();
            $blueprint->nullableMorphs('owner');
            if (true) {
                $blueprint->string('skipped');
            }
            $other->string('ignored');
        });
    }
};
`

func parse(t *testing.T, src string) *phpast.Tree {
	t.Helper()
	tree, err := phpast.Parse([]byte(src))
	require.NoError(t, err)
	return tree
}

func TestMigrationsRedeclare(t *testing.T) {
	migrations := schema.NewMigrations(config.Default())
	migrations.Add(parse(t, createUsers))
	migrations.Add(parse(t, alterUsers))

	tables := migrations.Tables()
	assert.Equal(t, []string{"users", "password_reset_tokens"}, tables.Keys())

	users, ok := tables.Get("users")
	require.True(t, ok)
	assert.Equal(t, []string{
		"id", "name", "email", "email_verified_at", "remember_token", "created_at", "updated_at",
		"last_login", "deleted_at", "owner_type", "owner_id",
	}, users.Columns.Keys())

	var testCases = []struct {
		column string
		expect schema.Field
	}{
		{column: "id", expect: schema.Field{Name: "id", Type: "int"}},
		{column: "name", expect: schema.Field{Name: "name", Type: "string", Nullable: true}},
		{column: "email", expect: schema.Field{Name: "email", Type: "string"}},
		{column: "email_verified_at", expect: schema.Field{Name: "email_verified_at", Type: "Carbon", Nullable: true}},
		{column: "remember_token", expect: schema.Field{Name: "remember_token", Type: "string", Nullable: true}},
		{column: "created_at", expect: schema.Field{Name: "created_at", Type: "Carbon", Nullable: true}},
		{column: "last_login", expect: schema.Field{Name: "last_login", Type: "Carbon", Nullable: true}},
		{column: "deleted_at", expect: schema.Field{Name: "deleted_at", Type: "Carbon", Nullable: true}},
		{column: "owner_id", expect: schema.Field{Name: "owner_id", Type: "int", Nullable: true}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.column, func(t *testing.T) {
			field, ok := users.Columns.Get(testCase.column)
			require.True(t, ok)
			assert.Equal(t, testCase.expect, field)
		})
	}
	assert.False(t, users.Columns.Has("skipped"))
	assert.False(t, users.Columns.Has("ignored"))
}

func TestMigrationsTypeFromInnermostCall(t *testing.T) {
	src := `<?php
Schema::create('posts', function ($table) {
    $table->foreignId('user_id')->constrained()->cascadeOnDelete();
    $table->json('meta');
    $table->geometry('area');
});
Schema::create('tags');
`
	migrations := schema.NewMigrations(config.Default())
	migrations.Add(parse(t, src))

	posts, ok := migrations.Tables().Get("posts")
	require.True(t, ok)
	userID, _ := posts.Columns.Get("user_id")
	assert.Equal(t, schema.Field{Name: "user_id", Type: "int"}, userID)
	meta, _ := posts.Columns.Get("meta")
	assert.Equal(t, "array", meta.Type)
	assert.False(t, posts.Columns.Has("area"))

	tags, ok := migrations.Tables().Get("tags")
	require.True(t, ok)
	assert.True(t, tags.Columns.IsEmpty())
}
