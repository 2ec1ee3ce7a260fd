package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Tags
	}{
		{"simple", "new,test", Tags{"new", "test"}},
		{"whitespace", "  react , javascript,web-dev ", Tags{"react", "javascript", "web-dev"}},
		{"drops empty segments", ",go,, ,htmx,", Tags{"go", "htmx"}},
		{"keeps order and duplicates", "b,a,b", Tags{"b", "a", "b"}},
		{"empty input is absent", "", nil},
		{"only separators is absent", " , ,, ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.input))
		})
	}
}

func TestParseTagsIsIdempotent(t *testing.T) {
	inputs := []string{"new,test", " a , b ,, c", "", ",,", "rust, go ,zig", "single"}

	for _, input := range inputs {
		once := ParseTags(input)
		twice := ParseTags(once.String())
		assert.Equal(t, once, twice, "input %q", input)
	}
}

func TestTagsValueAndScan(t *testing.T) {
	v, err := Tags(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Tags{"react", "testing"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["react","testing"]`, v)

	var tags Tags
	require.NoError(t, tags.Scan([]byte(`["supabase","vite"]`)))
	assert.Equal(t, Tags{"supabase", "vite"}, tags)

	require.NoError(t, tags.Scan(nil))
	assert.Nil(t, tags)

	require.NoError(t, tags.Scan("[]"))
	assert.Nil(t, tags)

	assert.Error(t, tags.Scan(42))
}

func TestOptionalString(t *testing.T) {
	assert.Nil(t, OptionalString(""))
	assert.Nil(t, OptionalString("   "))
	require.NotNil(t, OptionalString(" https://github.com "))
	assert.Equal(t, "https://github.com", *OptionalString(" https://github.com "))
}

func TestProfileFallbacks(t *testing.T) {
	var missing *Profile
	assert.Equal(t, "?", missing.Initial())
	assert.Equal(t, "Anonymous", missing.DisplayName())

	p := &Profile{Name: "Émile"}
	assert.Equal(t, "É", p.Initial())
	assert.Equal(t, "Émile", p.DisplayName())
}

func TestAvatarURLFor(t *testing.T) {
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=Ada+Lovelace", AvatarURLFor("Ada Lovelace"))
}

func TestReactionType(t *testing.T) {
	for _, rt := range ReactionTypes {
		assert.True(t, rt.Valid())
		assert.NotEmpty(t, rt.Label())
		assert.NotEmpty(t, rt.Emoji())
	}
	assert.False(t, ReactionType("meh").Valid())
	assert.Equal(t, "Love", ReactionHeart.Label())
}

func TestSessionEmailName(t *testing.T) {
	s := &Session{ID: "u1", Email: "test@example.com"}
	assert.Equal(t, "test", s.EmailName())
}
