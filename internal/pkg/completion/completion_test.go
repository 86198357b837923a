package completion

import (
	"testing"

	"github.com/futig/prompt-enhancer/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "surrounding whitespace", in: "\n  {\"a\":1}  \n", want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "fence without trailing newline", in: "```json\n{\"a\":1}```", want: `{"a":1}`},
		{name: "uppercase tag", in: "```JSON\n{\"a\":1}\n```\n", want: `{"a":1}`},
		{name: "unterminated fence", in: "```json\n{\"a\":1}", want: `{"a":1}`},
		{name: "inner backticks kept", in: "{\"code\":\"```\"}", want: "{\"code\":\"```\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestParseJSON(t *testing.T) {
	doc, err := ParseJSON(`{"subject": {"description": "a cat"}, "overall_mood": "cozy"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"subject": {"description": "a cat"}, "overall_mood": "cozy"}`, string(doc))

	arr, err := ParseJSON(`[1, 2, 3]`)
	require.NoError(t, err)
	assert.Equal(t, `[1, 2, 3]`, string(arr))

	for _, bad := range []string{"", "Here is your JSON: {}", `{"a": }`, `{"a":1} trailing`} {
		_, err := ParseJSON(bad)
		assert.ErrorIs(t, err, entity.ErrParse, "input %q", bad)
	}
}

var testSections = []entity.Section{
	{Key: "subject", Header: "SUBJECT"},
	{Key: "photography", Header: "PHOTOGRAPHY"},
	{Key: "mood", Header: "MOOD"},
}

func TestParseSections(t *testing.T) {
	text := `[SUBJECT]
A young woman with frosted tips,
smiling at the camera.

**[Photography]** Point-and-shoot flash, slight motion blur
`

	got, err := ParseSections(text, testSections)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"subject":     "A young woman with frosted tips,\nsmiling at the camera.",
		"photography": "Point-and-shoot flash, slight motion blur",
		"mood":        "",
	}, got)
}

func TestParseSectionsMarkdownHeaders(t *testing.T) {
	text := "## [MOOD]\nNostalgic\r\n## [SUBJECT]: A skateboarder\r\n"

	got, err := ParseSections(text, testSections)
	require.NoError(t, err)
	assert.Equal(t, "Nostalgic", got["mood"])
	assert.Equal(t, "A skateboarder", got["subject"])
	assert.Equal(t, "", got["photography"])
}

func TestParseSectionsKeepsBracketedBodyLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		key  string
		want string
	}{
		{
			name: "exposure settings",
			text: "[PHOTOGRAPHY]\nPoint-and-shoot look\n[f/2.8, 1/60s] exposure with flash\nslight motion blur\n[MOOD] cozy",
			key:  "photography",
			want: "Point-and-shoot look\n[f/2.8, 1/60s] exposure with flash\nslight motion blur",
		},
		{
			name: "markdown bullet",
			text: "[SUBJECT]\nA girl with:\n* [optional] butterfly clips\n* glitter lip gloss",
			key:  "subject",
			want: "A girl with:\n* [optional] butterfly clips\n* glitter lip gloss",
		},
		{
			name: "unknown header",
			text: "[SUBJECT] a cat\n[UNRELATED]\nsleeping on a sofa\n[MOOD] calm",
			key:  "subject",
			want: "a cat\n[UNRELATED]\nsleeping on a sofa",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSections(tt.text, testSections)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got[tt.key])
		})
	}
}

func TestParseSectionsNoHeaders(t *testing.T) {
	_, err := ParseSections("just some prose without headers", testSections)
	assert.ErrorIs(t, err, entity.ErrParse)

	_, err = ParseSections("[OTHER]\ntext", testSections)
	assert.ErrorIs(t, err, entity.ErrParse)
}
