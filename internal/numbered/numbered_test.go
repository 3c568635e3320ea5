package numbered

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gp-deepseek-translate/internal/apierr"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "1. first\n2. second\n3. third", Format([]string{"first", "second", "third"}))
	assert.Equal(t, "1. only", Format([]string{"only"}))
	assert.Equal(t, "", Format(nil))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
		want     []string
	}{
		{
			name:     "simple list",
			text:     "1. foo\n2. bar",
			expected: 2,
			want:     []string{"foo", "bar"},
		},
		{
			name:     "duplicate numbers keep order of appearance",
			text:     "5. foo\n5. bar",
			expected: 2,
			want:     []string{"foo", "bar"},
		},
		{
			name:     "reordered numbers are not sorted",
			text:     "2. second\n1. first",
			expected: 2,
			want:     []string{"second", "first"},
		},
		{
			name:     "numbering starts above one",
			text:     "21. a\n22. b\n23. c",
			expected: 3,
			want:     []string{"a", "b", "c"},
		},
		{
			name:     "paren and colon separators",
			text:     "1) uno\n2: dos\n3.tres",
			expected: 3,
			want:     []string{"uno", "dos", "tres"},
		},
		{
			name:     "preamble and blank lines dropped",
			text:     "Here are the translations:\n\n1. Bonjour\n\n2. Au revoir\n",
			expected: 2,
			want:     []string{"Bonjour", "Au revoir"},
		},
		{
			name:     "indented lines and trailing spaces",
			text:     "   1.   Hallo   \n\t2. Welt\r",
			expected: 2,
			want:     []string{"Hallo", "Welt"},
		},
		{
			name:     "placeholders survive",
			text:     "1. %s 个文件\n2. 共 %1$d 项",
			expected: 2,
			want:     []string{"%s 个文件", "共 %1$d 项"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text, tt.expected)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_CountMismatch(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
		got      int
	}{
		{"missing line", "1. foo", 2, 1},
		{"extra line", "1. a\n2. b\n3. c", 2, 3},
		{"entry wrapped across lines", "1. a long\nsentence\n2. b", 3, 2},
		{"no numbered lines", "I cannot translate that.", 1, 0},
		{"empty response", "", 1, 0},
		{"number without text", "1.\n2. b", 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text, tt.expected)
			require.Error(t, err)
			assert.Nil(t, got)

			var apiErr *apierr.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, apierr.KindParseCountMismatch, apiErr.Kind)
			assert.Equal(t, tt.expected, apiErr.Expected)
			assert.Equal(t, tt.got, apiErr.Got)
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	items := []string{"Save", "Cancel", "Delete %s?"}
	got, err := Parse(Format(items), len(items))
	require.NoError(t, err)
	assert.Equal(t, items, got)
}
