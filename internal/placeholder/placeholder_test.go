package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"% s", "%s"},
		{"% d", "%d"},
		{"% S", "%s"},
		{"%  D", "%d"},
		{"%\ts", "%s"},
		{"% 1 $ s", "%1$s"},
		{"% 2 $ D", "%2$d"},
		{"%1$ s", "%1$s"},
		{"%1 $s", "%1$s"},
		{"%12$s", "%12$s"},
		{"已删除 % d 个文件，共 % 1 $ s", "已删除 %d 个文件，共 %1$s"},
		{"%s and %d stay", "%s and %d stay"},
		{"no placeholders", "no placeholders"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"% s",
		"% 1 $ s",
		"%1$S",
		"% % s",
		"%% d",
		"100% sure, % 2 $ d items",
		"mixed % S and % 3 $ s and %d",
	}

	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "Clean not idempotent for %q", in)
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"%s", "%1$d", "%d"}, Tokens("a %s b %1$d c %d"))
	assert.Empty(t, Tokens("nothing here"))
}

func TestWarnings(t *testing.T) {
	tests := []struct {
		name        string
		original    string
		translation string
		want        []string
	}{
		{"same placeholders", "Delete %s?", "¿Eliminar %s?", nil},
		{"reordered positional", "%1$s of %2$s", "%2$s 的 %1$s", nil},
		{"missing", "%d files in %s", "%d archivos", []string{"Missing %s placeholder in translation."}},
		{"extra", "Hello", "Hola %s", []string{"Extra %s placeholder in translation."}},
		{
			"missing and extra",
			"%d items",
			"%s elementos",
			[]string{"Missing %d placeholder in translation.", "Extra %s placeholder in translation."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Warnings(tt.original, tt.translation))
		})
	}
}
