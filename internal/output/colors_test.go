package output

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorSchemes(t *testing.T) {
	for name, scheme := range map[string]*ColorScheme{
		"default":  DefaultColorScheme(),
		"no color": NoColorScheme(),
	} {
		t.Run(name, func(t *testing.T) {
			for _, c := range scheme.all() {
				assert.NotNil(t, c)
			}
		})
	}

	assert.Equal(t, "GET", NoColorScheme().Method.Sprint("GET"))
	assert.NotEqual(t, "GET", DefaultColorScheme().Method.Sprint("GET"))
	assert.Contains(t, DefaultColorScheme().Method.Sprint("GET"), "\x1b[")
}

func TestIcons(t *testing.T) {
	assert.Equal(t, "✓", SuccessIcon(true))
	assert.Equal(t, "✗", ErrorIcon(true))
	assert.True(t, strings.Contains(SuccessIcon(false), "✓"))
	assert.NotEqual(t, "✓", SuccessIcon(false))
	assert.NotEqual(t, "✗", ErrorIcon(false))
}

func TestColorEnabled(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	assert.False(t, ColorEnabled(f), "regular files are not terminals")

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ColorEnabled(os.Stdout))
}
